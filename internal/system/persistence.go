package system

import (
	"context"
	"fmt"
	"time"

	coresys "github.com/fortyfive/game/internal/core/system"
	"github.com/fortyfive/game/internal/game"
	"github.com/fortyfive/game/internal/persist"
	"go.uber.org/zap"
)

// PersistenceSystem writes the session's save state whenever the session
// asks for it, and auto-saves every interval ticks. Finished encounters are
// recorded as runs. Phase 3 (Persist).
type PersistenceSystem struct {
	session   *game.Session
	saves     *persist.SaveRepo
	runs      *persist.RunRepo
	log       *zap.Logger
	tickCount int
	interval  int // auto-save every N ticks, 0 disables
	written   int
	retryIn   int // ticks to wait after a failed write
}

// retryTicks is the pause between attempts to write a failed save.
const retryTicks = 60

func NewPersistenceSystem(s *game.Session, saves *persist.SaveRepo, runs *persist.RunRepo, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		session:  s,
		saves:    saves,
		runs:     runs,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) error {
	if s.interval > 0 {
		s.tickCount++
		if s.tickCount >= s.interval {
			s.tickCount = 0
			s.session.RequestSave()
		}
	}
	if s.retryIn > 0 {
		s.retryIn--
		return nil
	}
	// A failed write stays pending and is retried; the game keeps going.
	if err := s.Flush(context.Background()); err != nil {
		s.retryIn = retryTicks
		s.log.Error("save failed", zap.Error(err), zap.Int("retry_in_ticks", retryTicks))
	}
	return nil
}

// Flush writes whatever the session has pending. Called on shutdown too.
// The session drops the pending save only once both writes succeeded.
func (s *PersistenceSystem) Flush(ctx context.Context) error {
	st, run, ok := s.session.PendingSave()
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.saves.Save(ctx, &st); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.written++
	if run == nil {
		s.session.SaveWritten()
		s.log.Debug("save state written", zap.Int("lives", st.Lives), zap.Int("money", st.Money))
		return nil
	}
	if err := s.runs.Record(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	s.session.SaveWritten()
	s.log.Info("run recorded",
		zap.Int("id", run.ID), zap.String("outcome", run.Outcome),
		zap.Int("turns", run.Turns), zap.Int("money", run.Money))
	return nil
}

// Written returns how many save states were written.
func (s *PersistenceSystem) Written() int { return s.written }

package game

import "github.com/fortyfive/game/internal/persist"

// requestSave marks the save state for writing and records the finished
// encounter when outcome is set.
func (s *Session) requestSave(outcome string, overkill int) {
	s.saveDirty = true
	if outcome == "" {
		return
	}
	s.lastRun = &persist.RunRecord{
		Outcome:   outcome,
		Turns:     s.turn,
		Overkill:  overkill,
		Money:     s.money,
		LivesLeft: s.lives,
	}
}

// RequestSave asks for the current progress to be written, e.g. on quit.
func (s *Session) RequestSave() { s.requestSave("", 0) }

// PendingSave returns the save state and run record waiting to be written.
// They stay pending until SaveWritten is called.
func (s *Session) PendingSave() (persist.SaveState, *persist.RunRecord, bool) {
	if !s.saveDirty {
		return persist.SaveState{}, nil, false
	}
	st := s.save
	st.Cards = append([]string(nil), s.save.Cards...)
	var run *persist.RunRecord
	if s.lastRun != nil {
		r := *s.lastRun
		run = &r
	}
	return st, run, true
}

// SaveWritten acknowledges that the pending save state and run record were
// stored.
func (s *Session) SaveWritten() {
	s.saveDirty = false
	s.lastRun = nil
}

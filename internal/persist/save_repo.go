package persist

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ErrChecksum reports a stored save state that does not match its checksum.
var ErrChecksum = errors.New("save state checksum mismatch")

// SaveState is the player progress carried between sessions.
type SaveState struct {
	Lives           int
	MaxLives        int
	Money           int
	UsedReserves    int
	EnemiesDefeated int
	Cards           []string // owned card names, deck order
}

// Checksum returns the hex blake2b-256 digest of the state.
func (s *SaveState) Checksum() string {
	var b strings.Builder
	for _, v := range []int{s.Lives, s.MaxLives, s.Money, s.UsedReserves, s.EnemiesDefeated} {
		b.WriteString(strconv.Itoa(v))
		b.WriteByte('|')
	}
	for _, c := range s.Cards {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

type SaveRepo struct {
	db *DB
}

func NewSaveRepo(db *DB) *SaveRepo {
	return &SaveRepo{db: db}
}

// Load returns the stored save state, or fresh when nothing was saved yet.
// A tampered row yields ErrChecksum.
func (r *SaveRepo) Load(ctx context.Context, fresh SaveState) (*SaveState, error) {
	s := &SaveState{}
	var checksum string
	err := r.db.SQL.QueryRowContext(ctx,
		r.db.rebind(`SELECT lives, max_lives, money, used_reserves, enemies_defeated, checksum
		 FROM save_state WHERE id = ?`), 1,
	).Scan(&s.Lives, &s.MaxLives, &s.Money, &s.UsedReserves, &s.EnemiesDefeated, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		out := fresh
		out.Cards = append([]string(nil), fresh.Cards...)
		return &out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load save state: %w", err)
	}

	rows, err := r.db.SQL.QueryContext(ctx, `SELECT name FROM save_cards ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load save cards: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan save card: %w", err)
		}
		s.Cards = append(s.Cards, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load save cards: %w", err)
	}

	if s.Checksum() != checksum {
		return nil, ErrChecksum
	}
	return s, nil
}

// Save replaces the stored state in one transaction.
func (r *SaveRepo) Save(ctx context.Context, s *SaveState) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.db.rebind(
		`INSERT INTO save_state (id, lives, max_lives, money, used_reserves, enemies_defeated, checksum, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   lives = excluded.lives, max_lives = excluded.max_lives, money = excluded.money,
		   used_reserves = excluded.used_reserves, enemies_defeated = excluded.enemies_defeated,
		   checksum = excluded.checksum, updated_at = excluded.updated_at`),
		1, s.Lives, s.MaxLives, s.Money, s.UsedReserves, s.EnemiesDefeated, s.Checksum(), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("save state upsert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM save_cards`); err != nil {
		return fmt.Errorf("save cards clear: %w", err)
	}
	for i, name := range s.Cards {
		if _, err := tx.ExecContext(ctx, r.db.rebind(
			`INSERT INTO save_cards (position, name) VALUES (?, ?)`), i, name,
		); err != nil {
			return fmt.Errorf("save card insert: %w", err)
		}
	}

	return tx.Commit()
}

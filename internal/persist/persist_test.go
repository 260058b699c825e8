package persist

import (
	"context"
	"os"
	"testing"

	"github.com/fortyfive/game/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := OpenInMemory(ctx, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, RunMigrations(ctx, db))
	return db
}

func fresh() SaveState {
	return SaveState{Lives: 40, MaxLives: 40, Cards: []string{"bullet", "bullet", "shield"}}
}

func TestSaveRepoFreshState(t *testing.T) {
	repo := NewSaveRepo(openTestDB(t))
	f := fresh()
	got, err := repo.Load(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, f, *got)

	got.Cards[0] = "changed"
	assert.Equal(t, "bullet", f.Cards[0], "fresh state must not alias the loaded one")
}

func TestSaveRepoRoundTripAndOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := NewSaveRepo(openTestDB(t))

	s := &SaveState{Lives: 31, MaxLives: 40, Money: 12, UsedReserves: 9, EnemiesDefeated: 1, Cards: []string{"leadBullet", "bullet"}}
	require.NoError(t, repo.Save(ctx, s))

	s.Money = 20
	s.Cards = []string{"shield"}
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Load(ctx, fresh())
	require.NoError(t, err)
	assert.Equal(t, *s, *got)
}

func TestSaveRepoDetectsTampering(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewSaveRepo(db)
	require.NoError(t, repo.Save(ctx, &SaveState{Lives: 10, MaxLives: 40, Cards: []string{"bullet"}}))

	_, err := db.SQL.ExecContext(ctx, `UPDATE save_state SET money = 9999`)
	require.NoError(t, err)

	_, err = repo.Load(ctx, fresh())
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestRunRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepo(openTestDB(t))

	first := &RunRecord{Outcome: "won", Turns: 4, Overkill: 3, Money: 8, LivesLeft: 30}
	require.NoError(t, repo.Record(ctx, first))
	second := &RunRecord{Outcome: "lost", Turns: 9, LivesLeft: 0}
	require.NoError(t, repo.Record(ctx, second))
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	runs, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "lost", runs[0].Outcome)
	assert.Equal(t, 8, runs[1].Money)
}

func TestRebind(t *testing.T) {
	pg := &DB{dialect: DialectPostgres}
	lite := &DB{dialect: DialectSQLite}
	q := `SELECT a FROM t WHERE b = ? AND c = ?`
	assert.Equal(t, `SELECT a FROM t WHERE b = $1 AND c = $2`, pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

// Runs against a real PostgreSQL when FORTYFIVE_TEST_PG holds a DSN.
func TestPostgresSaveRoundTrip(t *testing.T) {
	dsn := os.Getenv("FORTYFIVE_TEST_PG")
	if dsn == "" {
		t.Skip("FORTYFIVE_TEST_PG not set")
	}
	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, DialectPostgres, db.Dialect())
	require.NoError(t, RunMigrations(ctx, db))

	repo := NewSaveRepo(db)
	s := &SaveState{Lives: 5, MaxLives: 40, Cards: []string{"bullet"}}
	require.NoError(t, repo.Save(ctx, s))
	got, err := repo.Load(ctx, fresh())
	require.NoError(t, err)
	assert.Equal(t, *s, *got)
}

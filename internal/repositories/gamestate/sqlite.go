package gamestate

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/game"
	"github.com/KirkDiggler/ultima-end/internal/pkg/clock"
)

const createSavesTable = `CREATE TABLE IF NOT EXISTS saves (
	slot     TEXT PRIMARY KEY,
	data     BLOB NOT NULL,
	saved_at INTEGER NOT NULL
)`

const upsertSave = `INSERT INTO saves (slot, data, saved_at) VALUES (?, ?, ?)
	ON CONFLICT(slot) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`

const selectSave = `SELECT data, saved_at FROM saves WHERE slot = ?`

// SQLiteConfig holds the configuration for the SQLite repository
type SQLiteConfig struct {
	Path  string
	Clock clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *SQLiteConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("Path", c.Path, vb)
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

// SQLiteRepository keeps save slots as rows of a single table. Close releases
// the database handle.
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

var _ Repository = (*SQLiteRepository)(nil)

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// NewSQLiteRepository opens the database at cfg.Path, creating the saves
// table if needed.
func NewSQLiteRepository(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	dsn := filepath.Clean(cfg.Path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite db")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close() // nolint:errcheck
		return nil, errors.Wrapf(err, "failed to open %s", cfg.Path)
	}
	if _, err := db.ExecContext(ctx, createSavesTable); err != nil {
		_ = db.Close() // nolint:errcheck
		return nil, errors.Wrap(err, "failed to create saves table")
	}

	return &SQLiteRepository{
		db:    db,
		clock: cfg.Clock,
	}, nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Save upserts the slot row
func (r *SQLiteRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	data, err := game.Encode(input.State)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	if _, err := r.db.ExecContext(ctx, upsertSave, input.Slot, data, toMillis(now)); err != nil {
		return nil, errors.Wrapf(err, "failed to store slot %s", input.Slot)
	}

	slog.DebugContext(ctx, "Game saved", "backend", "sqlite", "slot", input.Slot)

	return &SaveOutput{SavedAt: fromMillis(toMillis(now))}, nil
}

// Load reads the slot row
func (r *SQLiteRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if err := validateLoad(input); err != nil {
		return nil, err
	}

	var (
		data    []byte
		savedAt int64
	)
	err := r.db.QueryRowContext(ctx, selectSave, input.Slot).Scan(&data, &savedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("no save in slot %s", input.Slot)
		}
		return nil, errors.Wrapf(err, "failed to read slot %s", input.Slot)
	}

	state, err := decodeState(data, input.Slot, input.Settings)
	if err != nil {
		return nil, err
	}

	return &LoadOutput{
		State:   state,
		SavedAt: fromMillis(savedAt),
	}, nil
}

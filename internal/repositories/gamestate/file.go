package gamestate

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/game"
	"github.com/KirkDiggler/ultima-end/internal/pkg/clock"
)

const saveFileExt = ".json"

// FileConfig holds the configuration for the file repository
type FileConfig struct {
	// Dir holds one <slot>.json document per slot
	Dir   string
	Clock clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *FileConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("Dir", c.Dir, vb)
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type fileRepository struct {
	dir   string
	clock clock.Clock
}

// NewFileRepository creates a repository that keeps each slot in its own JSON file
func NewFileRepository(cfg *FileConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &fileRepository{
		dir:   cfg.Dir,
		clock: cfg.Clock,
	}, nil
}

var _ Repository = (*fileRepository)(nil)

func (r *fileRepository) path(slot string) string {
	return filepath.Join(r.dir, slot+saveFileExt)
}

// Save writes to a temp file in the same directory and renames it over the
// slot, so a crash mid-write leaves the previous save intact.
func (r *fileRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	data, err := game.Encode(input.State)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(r.dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "failed to create save directory %s", r.dir)
	}

	tmp, err := os.CreateTemp(r.dir, input.Slot+".*.tmp")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp save file")
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename has happened
		_ = os.Remove(tmpName) // nolint:errcheck
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() // nolint:errcheck
		return nil, errors.Wrap(err, "failed to write save file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() // nolint:errcheck
		return nil, errors.Wrap(err, "failed to sync save file")
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close save file")
	}

	path := r.path(input.Slot)
	if err := os.Rename(tmpName, path); err != nil {
		return nil, errors.Wrapf(err, "failed to replace %s", path)
	}

	now := r.clock.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		slog.WarnContext(ctx, "Failed to stamp save file", "path", path, "error", err)
	}

	slog.DebugContext(ctx, "Game saved", "backend", "file", "path", path)

	return &SaveOutput{SavedAt: now}, nil
}

func (r *fileRepository) Load(_ context.Context, input *LoadInput) (*LoadOutput, error) {
	if err := validateLoad(input); err != nil {
		return nil, err
	}

	path := r.path(input.Slot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("no save in slot %s", input.Slot).WithMeta("path", path)
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	state, err := decodeState(data, input.Slot, input.Settings)
	if err != nil {
		return nil, err
	}

	out := &LoadOutput{State: state}
	if info, err := os.Stat(path); err == nil {
		out.SavedAt = info.ModTime()
	}

	return out, nil
}

// Package adapter contains infrastructure adapters for the shard CLI.
package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	m "github.com/deltadevsde/shard/internal/model"
)

// SourceFSAdapter abstracts filesystem operations the domain layer relies on
// when reading and rewriting a user's project. It intentionally hides direct
// `os` access so the extension logic can be tested without touching the
// disk layout assumptions.
type SourceFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish between files and directories.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path

	// CommitFiles writes a set of files as one unit: every file is staged to
	// a temporary sibling first, and renames only start after all staging
	// succeeded. A failure before the first rename leaves every target
	// untouched.
	CommitFiles(ctx context.Context, updates []FileUpdate) error
}

// FileUpdate is one file to be written by CommitFiles.
type FileUpdate struct {
	Path    m.Path
	Content []byte
	Perm    os.FileMode
}

// LocalSourceFSAdapter is the concrete SourceFSAdapter backed by the local
// filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.Stat(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// CommitFiles stages every update to a temporary file next to its target,
// then renames all of them into place. Staging failures abort with the
// targets untouched; the rename sequence itself narrows the inconsistency
// window to the renames alone.
func (a *LocalSourceFSAdapter) CommitFiles(ctx context.Context, updates []FileUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	staged := make([]string, 0, len(updates))

	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for _, update := range updates {
		tmp, err := a.stageFile(update)
		if err != nil {
			cleanup()

			return err
		}

		staged = append(staged, tmp)
	}

	for i, update := range updates {
		if err := os.Rename(staged[i], string(update.Path)); err != nil {
			cleanup()

			return fmt.Errorf("failed to commit %s: %w", update.Path, err)
		}
	}

	return nil
}

func (a *LocalSourceFSAdapter) stageFile(update FileUpdate) (string, error) {
	dir := filepath.Dir(string(update.Path))

	tmp, err := os.CreateTemp(dir, ".shard-*")
	if err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", update.Path, err)
	}

	if _, err := tmp.Write(update.Content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return "", fmt.Errorf("failed to stage %s: %w", update.Path, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return "", fmt.Errorf("failed to stage %s: %w", update.Path, err)
	}

	if err := os.Chmod(tmp.Name(), update.Perm); err != nil {
		_ = os.Remove(tmp.Name())

		return "", fmt.Errorf("failed to stage %s: %w", update.Path, err)
	}

	return tmp.Name(), nil
}

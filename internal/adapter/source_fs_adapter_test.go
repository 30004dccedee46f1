package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	m "github.com/deltadevsde/shard/internal/model"
)

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	dir := t.TempDir()
	path := filepath.Join(dir, "tx.rs")
	if err := os.WriteFile(path, []byte("pub enum T {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	content, err := adapter.ReadFile(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "pub enum T {}\n" {
		t.Fatalf("ReadFile() = %q", content)
	}
}

func TestLocalSourceFSAdapter_ReadFile_ContextCancellation(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adapter.ReadFile(ctx, "whatever.rs"); err == nil {
		t.Fatalf("ReadFile() expected error due to context cancellation")
	}
}

func TestLocalSourceFSAdapter_JoinPath(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	got := adapter.JoinPath(context.Background(), "project", "src", "tx.rs")
	want := m.Path(filepath.Join("project", "src", "tx.rs"))
	if got != want {
		t.Fatalf("JoinPath() = %q, want %q", got, want)
	}
}

func TestLocalSourceFSAdapter_CommitFiles(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	dir := t.TempDir()

	txPath := filepath.Join(dir, "tx.rs")
	statePath := filepath.Join(dir, "state.rs")
	if err := os.WriteFile(txPath, []byte("old tx"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	updates := []FileUpdate{
		{Path: m.Path(txPath), Content: []byte("new tx"), Perm: 0o644},
		{Path: m.Path(statePath), Content: []byte("new state"), Perm: 0o644},
	}

	if err := adapter.CommitFiles(context.Background(), updates); err != nil {
		t.Fatalf("CommitFiles() error = %v", err)
	}

	for path, want := range map[string]string{txPath: "new tx", statePath: "new state"} {
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", path, err)
		}
		if string(content) != want {
			t.Fatalf("content of %s = %q, want %q", path, content, want)
		}
	}

	// No staging leftovers.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".shard-") {
			t.Fatalf("staging file %s left behind", entry.Name())
		}
	}
}

func TestLocalSourceFSAdapter_CommitFiles_StagingFailureLeavesTargets(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	dir := t.TempDir()

	goodPath := filepath.Join(dir, "tx.rs")
	if err := os.WriteFile(goodPath, []byte("old tx"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	updates := []FileUpdate{
		{Path: m.Path(goodPath), Content: []byte("new tx"), Perm: 0o644},
		{Path: m.Path(filepath.Join(dir, "missing", "state.rs")), Content: []byte("new state"), Perm: 0o644},
	}

	if err := adapter.CommitFiles(context.Background(), updates); err == nil {
		t.Fatalf("CommitFiles() expected staging error")
	}

	content, err := os.ReadFile(goodPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "old tx" {
		t.Fatalf("target rewritten despite staging failure: %q", content)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".shard-") {
			t.Fatalf("staging file %s left behind", entry.Name())
		}
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	dir := t.TempDir()

	info, err := adapter.FileInfo(context.Background(), m.Path(dir))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("FileInfo() expected a directory")
	}

	if _, err := adapter.FileInfo(context.Background(), m.Path(filepath.Join(dir, "missing"))); err == nil {
		t.Fatalf("FileInfo() expected error for missing path")
	}
}

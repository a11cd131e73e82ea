//nolint:thelper
package mockfs

import (
	"os"
	"path/filepath"
	"testing"
)

// MockFS is a temporary directory of synthetic Ogg Opus files for tests.
type MockFS struct {
	t   testing.TB
	dir string
}

func New(tb testing.TB) *MockFS {
	tb.Helper()
	return &MockFS{t: tb, dir: tb.TempDir()}
}

func (m *MockFS) TmpDir() string { return m.dir }

// AddFile writes data to path (relative to the temp dir), creating parent
// directories, and returns the absolute path.
func (m *MockFS) AddFile(path string, data []byte) string {
	abspath := filepath.Join(m.dir, path)
	if err := os.MkdirAll(filepath.Dir(abspath), os.ModePerm); err != nil {
		m.t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(abspath, data, 0o600); err != nil {
		m.t.Fatalf("write file: %v", err)
	}
	return abspath
}

// AddTrack writes a small valid stream with the given tags.
func (m *MockFS) AddTrack(path string, comments ...string) string {
	return m.AddFile(path, NewStream(1).Headers(2, 312, 48000, "mockfs", comments...).
		Audio(0, Packet(0xfc, 10)).
		Audio(48000, Packet(0xfc, 10)).
		End().
		Bytes())
}

func (m *MockFS) RemoveAll(path string) {
	if err := os.RemoveAll(filepath.Join(m.dir, path)); err != nil {
		m.t.Fatalf("remove all: %v", err)
	}
}

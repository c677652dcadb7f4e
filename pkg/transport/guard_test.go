package transport

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
)

func sockPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.sock")
}

func TestProbe_MissingPath(t *testing.T) {
	if err := Probe(sockPath(t)); err != nil {
		t.Fatalf("Probe on missing path failed: %v", err)
	}
}

func TestProbe_LiveInstance(t *testing.T) {
	path := sockPath(t)
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer l.Close()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	err = Probe(path)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("err = %v, want ErrAlreadyRunning", err)
	}
	// The live endpoint file must be left untouched.
	if _, err := os.Lstat(path); err != nil {
		t.Errorf("endpoint file was removed: %v", err)
	}
}

func TestProbe_StaleEntryIsRemoved(t *testing.T) {
	path := sockPath(t)
	// A regular file at the endpoint path refuses socket connections,
	// which is exactly what a stale entry looks like.
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("failed to plant stale entry: %v", err)
	}

	if err := Probe(path); err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Error("stale entry was not removed")
	}
}

func TestProbe_RefusesSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	path := filepath.Join(dir, "test.sock")
	if err := os.WriteFile(target, nil, 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := os.Symlink(target, path); err != nil {
		t.Fatalf("symlink failed: %v", err)
	}

	if err := Probe(path); !errors.Is(err, ErrSymlink) {
		t.Fatalf("err = %v, want ErrSymlink", err)
	}
	// Refusal must not remove the entry.
	if _, err := os.Lstat(path); err != nil {
		t.Errorf("symlink was removed: %v", err)
	}
}

func TestListen_BindsWithOwnerOnlyPermissions(t *testing.T) {
	path := sockPath(t)
	l, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer l.Close()

	fi, err := os.Lstat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("socket permissions = %o, want 600", perm)
	}
}

func TestListen_AfterStaleEntry(t *testing.T) {
	path := sockPath(t)
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	l, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer l.Close()
}

func TestListen_RefusesWhenAlreadyRunning(t *testing.T) {
	path := sockPath(t)
	l, err := Listen(path)
	if err != nil {
		t.Fatalf("first Listen failed: %v", err)
	}
	defer l.Close()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	if _, err := Listen(path); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("err = %v, want ErrAlreadyRunning", err)
	}
}

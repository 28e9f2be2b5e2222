package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestWriteReadPIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecoprev.pid")

	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}

	pid, err := readPIDFile(path)
	if err != nil {
		t.Fatalf("readPIDFile: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("expected pid %d, got %d", os.Getpid(), pid)
	}
}

func TestReadPIDFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "abc"},
		{"negative", "-4"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".pid")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := readPIDFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadPIDFile_Missing(t *testing.T) {
	if _, err := readPIDFile(filepath.Join(t.TempDir(), "none.pid")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPIDPath_Flag(t *testing.T) {
	pidFile = "/tmp/custom.pid"
	defer func() { pidFile = "" }()

	got, err := pidPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/tmp/custom.pid" {
		t.Errorf("expected /tmp/custom.pid, got %s", got)
	}
}

func TestReadPIDFile_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecoprev.pid")
	if err := os.WriteFile(path, []byte(strconv.Itoa(4242)+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pid, err := readPIDFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pid != 4242 {
		t.Errorf("expected 4242, got %d", pid)
	}
}

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	log, err := New(Options{Level: "debug", File: file})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("imported")
	_ = log.Sync()

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"imported"`) {
		t.Fatalf("log file = %s", b)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tgienger/tick/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "info", Format: "json"}, &buf, "tickd")
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("task created", "id", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug filtered): %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v; line=%s", err, lines[0])
	}
	if entry["msg"] != "task created" || entry["id"] != float64(3) {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}, &bytes.Buffer{}, ""); err == nil {
		t.Fatal("New() err = nil, want error for unknown level")
	}
}

func TestOpenFile_CreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "tick.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() err = %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString("x\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
}

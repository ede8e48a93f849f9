package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/cyclr/internal/config"
	"github.com/sirupsen/logrus"
)

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{LogLevel: "warn", Environment: "development"}, &buf)
	if log.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %s", log.GetLevel())
	}
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn, got %q", buf.String())
	}
}

func TestNewInvalidLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{LogLevel: "loud"}, &buf)
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %s, want info", log.GetLevel())
	}
	if !strings.Contains(buf.String(), "Invalid log level") {
		t.Fatalf("expected a warning, got %q", buf.String())
	}
}

func TestNewProductionJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{LogLevel: "info", Environment: "production"}, &buf)
	log.WithField("period_id", "p1").Info("created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["period_id"] != "p1" || entry["msg"] != "created" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cyclr.log")
	log, closer, err := NewFile(&config.Config{LogLevel: "info", LogFile: path})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hello")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log file = %q", data)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}

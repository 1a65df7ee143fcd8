package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithWriter_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")

	logger.Info("calendar rendered", "view", "month")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "calendar rendered" {
		t.Errorf("msg = %v, want %q", entry["msg"], "calendar rendered")
	}
	if entry["view"] != "month" {
		t.Errorf("view = %v, want %q", entry["view"], "month")
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")

	logger.Debug("hidden")
	logger.Info("also hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn level, got %q", buf.String())
	}

	logger.Warn("visible")
	if buf.Len() == 0 {
		t.Fatal("expected warn output")
	}
}

func TestComponent_TagsChildLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info").Component("bookings")

	logger.Info("status changed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["component"] != "bookings" {
		t.Errorf("component = %v, want %q", entry["component"], "bookings")
	}
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "nonsense")

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug filtered at default level, got %q", buf.String())
	}
	logger.Info("shown")
	if buf.Len() == 0 {
		t.Fatal("expected info output at default level")
	}
}

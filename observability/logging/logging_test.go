package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewRenamesCoreAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "dopchain", "test")
	logger.Info("hello", "asset", "DOP")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["message"] != "hello" {
		t.Fatalf("expected message attr, got %v", line)
	}
	if line["severity"] != "INFO" {
		t.Fatalf("expected severity INFO, got %v", line["severity"])
	}
	if _, ok := line["timestamp"]; !ok {
		t.Fatalf("expected timestamp attr, got %v", line)
	}
	if line["service"] != "dopchain" || line["env"] != "test" {
		t.Fatalf("expected service/env attrs, got %v", line)
	}
	if line["asset"] != "DOP" {
		t.Fatalf("expected caller attr to pass through, got %v", line)
	}
}

func TestNewOmitsBlankEnv(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "dopchain", "  ").Info("boot")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, ok := line["env"]; ok {
		t.Fatalf("blank env must be omitted, got %v", line)
	}
}

package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetLevel("info")
	})
	return &buf
}

func TestInfoWritesJSONLine(t *testing.T) {
	buf := capture(t)

	Info("analysis.status", map[string]any{"analysis_id": "a-1", "status": "completed"})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid json: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "analysis.status" {
		t.Fatalf("expected msg, got %v", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Fatalf("expected info level, got %v", entry["level"])
	}
	if entry["analysis_id"] != "a-1" || entry["status"] != "completed" {
		t.Fatalf("expected fields to be flattened, got %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field")
	}
}

func TestErrorFieldIsRendered(t *testing.T) {
	buf := capture(t)

	Error("docintel.failed", map[string]any{"error": errors.New("boom")})

	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Fatalf("expected error string in %q", buf.String())
	}
}

func TestSetLevelFiltersDebug(t *testing.T) {
	buf := capture(t)

	Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered at info level")
	}

	SetLevel("debug")
	Debug("visible", nil)
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected debug line after SetLevel")
	}

	SetLevel("not-a-level")
	Debug("still visible", nil)
	if !strings.Contains(buf.String(), "still visible") {
		t.Fatalf("unknown level should not change the current level")
	}
}

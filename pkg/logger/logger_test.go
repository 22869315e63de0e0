package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug").With(String("run_id", "r1"))

	l.Info("plan completed",
		Int("candidates", 3),
		Float64("confidence", 0.5),
		Bool("cached", false),
		Duration("took", 1500*time.Millisecond),
		Strings("fallbacks", []string{"a", "b"}),
		Error(errors.New("boom")),
	)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	m := lines[0]
	if m["message"] != "plan completed" || m["run_id"] != "r1" {
		t.Fatalf("unexpected line: %v", m)
	}
	if m["candidates"].(float64) != 3 || m["took"].(float64) != 1500 {
		t.Fatalf("numeric fields: %v", m)
	}
	if m["fallbacks"] != "a, b" || m["error"] != "boom" {
		t.Fatalf("string fields: %v", m)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	if n := len(decodeLines(t, &buf)); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := New(&Config{Level: "info", Output: "stderr"}); err != nil {
		t.Fatalf("new: %v", err)
	}
}

func TestNopDiscards(t *testing.T) {
	l := NewNop().With(String("k", "v"))
	l.Error("nothing happens")
}

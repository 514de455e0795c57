package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestLoggerTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "test-service", func(ctx context.Context) string {
		return "abc123"
	})

	log.Info(context.Background(), "hello", "count", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["service"] != "test-service" {
		t.Fatalf("missing service field: %v", entry)
	}
	if entry["trace_id"] != "abc123" {
		t.Fatalf("missing trace_id: %v", entry)
	}
	if entry["count"] != float64(3) {
		t.Fatalf("missing key/value: %v", entry)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelError, "test-service", nil)

	log.Info(context.Background(), "suppressed")
	if buf.Len() != 0 {
		t.Fatalf("info line emitted below error level: %s", buf.String())
	}
	log.Error(context.Background(), "emitted")
	if buf.Len() == 0 {
		t.Fatal("error line not emitted")
	}
}

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newJSONLogger(t *testing.T) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil))), &buf
}

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		records = append(records, rec)
	}
	return records
}

func TestSlogLogger_LevelsAndAttributes(t *testing.T) {
	log, buf := newJSONLogger(t)
	ctx := context.Background()

	log.Info(ctx, "listening", "addr", ":8080")
	log.Warn(ctx, "slow query", "ms", 1200)
	log.Error(ctx, "upload failed", "key", "resolved_images/r1.jpg")

	records := decodeRecords(t, buf)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	tests := []struct {
		level string
		msg   string
		key   string
		val   any
	}{
		{"INFO", "listening", "addr", ":8080"},
		{"WARN", "slow query", "ms", float64(1200)},
		{"ERROR", "upload failed", "key", "resolved_images/r1.jpg"},
	}

	for i, tc := range tests {
		rec := records[i]
		if rec["level"] != tc.level {
			t.Errorf("record %d: level = %v, want %s", i, rec["level"], tc.level)
		}
		if rec["msg"] != tc.msg {
			t.Errorf("record %d: msg = %v, want %s", i, rec["msg"], tc.msg)
		}
		if rec[tc.key] != tc.val {
			t.Errorf("record %d: %s = %v, want %v", i, tc.key, rec[tc.key], tc.val)
		}
	}
}

func TestSlogLogger_WithTagsEveryRecord(t *testing.T) {
	log, buf := newJSONLogger(t)
	ctx := context.Background()

	tagged := log.With("module", "reports")
	tagged.Info(ctx, "first")
	tagged.Error(ctx, "second", "k", "v")

	records := decodeRecords(t, buf)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec["module"] != "reports" {
			t.Errorf("record %d: module = %v, want reports", i, rec["module"])
		}
	}
	if records[1]["k"] != "v" {
		t.Errorf("call-site attribute lost: %v", records[1])
	}
}

func TestSlogLogger_WithDoesNotAffectParent(t *testing.T) {
	log, buf := newJSONLogger(t)
	ctx := context.Background()

	_ = log.With("module", "otp")
	log.Info(ctx, "plain")

	records := decodeRecords(t, buf)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if _, ok := records[0]["module"]; ok {
		t.Fatalf("parent logger must not carry child attributes: %v", records[0])
	}
}

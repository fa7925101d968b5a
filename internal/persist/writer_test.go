package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	rec := NewRecord("discharge_summary", "P1", "20250101_120000_123", "the prompt", "the content")
	path, err := w.Write(rec)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("record written outside output dir: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if got != rec {
		t.Fatalf("round trip mismatch:\n%+v\nvs\n%+v", got, rec)
	}
	if got.SourceDB != SourceDB {
		t.Fatalf("expected sourcedb %q, got %q", SourceDB, got.SourceDB)
	}
}

func TestWriterPromptOnlyOmitsContent(t *testing.T) {
	w := NewWriter(t.TempDir())
	rec := NewRecord("referral_letter", "P2", "20250101_120000_456", "prompt only", "")

	path, err := w.Write(rec)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	if strings.Contains(string(data), `"content"`) {
		t.Fatalf("prompt-only record must omit content field:\n%s", data)
	}
}

func TestDocID(t *testing.T) {
	id := DocID("discharge summary", "P/1", "20250101_120000_123")
	if strings.ContainsAny(id, " /") {
		t.Fatalf("doc id not sanitized: %q", id)
	}
	if id != "discharge_summary_P_1_20250101_120000_123" {
		t.Fatalf("unexpected doc id: %q", id)
	}
}

func TestTimestampFormat(t *testing.T) {
	ts := Timestamp(time.Date(2025, 8, 25, 14, 30, 5, 123_456_000, time.UTC))
	if ts != "20250825_143005_123456" {
		t.Fatalf("unexpected timestamp: %q", ts)
	}
}

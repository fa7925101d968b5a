package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// SourceDB is the document_sourcedb value stamped on every record.
const SourceDB = "DocSynth"

// Record is the persisted unit of generation. Content is empty in prompt-only
// runs and omitted from the JSON.
type Record struct {
	DocID     string `json:"doc_id"`
	DocName   string `json:"doc_name"`
	SourceDB  string `json:"document_sourcedb"`
	Profile   string `json:"profile"`
	Timestamp string `json:"timestamp"`
	Prompt    string `json:"prompt"`
	Content   string `json:"content,omitempty"`
}

// Timestamp returns the generation timestamp in the record format, with
// microsecond precision so consecutive documents get distinct IDs even in
// prompt-only runs.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%s_%06d", t.Format("20060102_150405"), t.Nanosecond()/1e3)
}

var idUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// DocID derives the document ID from the structure name, the profile name and
// the generation timestamp. Unique per run under normal clock resolution.
func DocID(docName, profile, timestamp string) string {
	id := fmt.Sprintf("%s_%s_%s", docName, profile, timestamp)
	return idUnsafe.ReplaceAllString(id, "_")
}

// NewRecord assembles a record with the derived doc ID.
func NewRecord(docName, profile, timestamp, prompt, content string) Record {
	return Record{
		DocID:     DocID(docName, profile, timestamp),
		DocName:   docName,
		SourceDB:  SourceDB,
		Profile:   profile,
		Timestamp: timestamp,
		Prompt:    prompt,
		Content:   content,
	}
}

// Writer writes one JSON file per record into an output directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir. The directory is created on the
// first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write persists a record as <doc_id>.json and returns the file path.
func (w *Writer) Write(rec Record) (string, error) {
	if strings.TrimSpace(rec.DocID) == "" {
		return "", fmt.Errorf("record has no doc_id")
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	path := filepath.Join(w.dir, rec.DocID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return path, nil
}

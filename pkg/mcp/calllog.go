package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
)

// CallLogEntry is one JSONL line of the call log.
//
// File and Component are lifted out of the tool arguments: File is the
// documented file after resolution against the server root (root-relative
// when a root is set), Component the requested component or symbol name.
// Args keeps whatever else the caller passed.
type CallLogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	File          string         `json:"file,omitempty"`
	Component     string         `json:"component,omitempty"`
	Args          map[string]any `json:"args,omitempty"`
	DurationMs    int64          `json:"duration_ms"`
	Results       int            `json:"results"`
	ResponseBytes int            `json:"response_bytes"`
	Error         *string        `json:"error"`
}

// CallLog appends entries to a JSONL file, one Write call per line.
// It is safe for concurrent use.
type CallLog struct {
	mu      sync.Mutex
	f       *os.File
	path    string
	entries int
}

// OpenCallLog opens path for appending, creating it and its directory.
// An empty path yields a nil CallLog, which disables call logging.
func OpenCallLog(path string) (*CallLog, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create call log directory for %s", path)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open call log %s", path)
	}
	return &CallLog{f: f, path: path}, nil
}

// Write appends entry. A failed write never fails the tool call; the
// middleware only logs it.
func (l *CallLog) Write(entry CallLogEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrapf(err, "encode call log entry for %s", entry.Tool)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.Write(line); err != nil {
		return errors.Wrapf(err, "write %s", l.path)
	}
	l.entries++
	return nil
}

// Entries returns the number of entries written since the log was opened.
func (l *CallLog) Entries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries
}

// Close closes the log file.
func (l *CallLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// maxArgLen bounds string arguments kept in an entry.
const maxArgLen = 64

// callArgs copies the tool arguments minus the lifted keys, cutting long
// strings down to maxArgLen bytes.
func callArgs(args map[string]any, lifted ...string) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if contains(lifted, k) {
			continue
		}
		if s, ok := v.(string); ok && len(s) > maxArgLen {
			v = s[:maxArgLen] + "..."
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ResponseBytes returns the encoded size of a result's content. It is 0 for
// a nil result.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// resultCount counts what a successful result returned: the length of a
// JSON array, 1 for any other JSON document, 0 otherwise.
func resultCount(result *mcp.CallToolResult) int {
	if result == nil || result.IsError {
		return 0
	}
	for _, c := range result.Content {
		text, ok := c.(mcp.TextContent)
		if !ok {
			continue
		}
		body := strings.TrimSpace(text.Text)
		if strings.HasPrefix(body, "[") {
			var items []json.RawMessage
			if json.Unmarshal([]byte(body), &items) == nil {
				return len(items)
			}
			return 0
		}
		if json.Valid([]byte(body)) {
			return 1
		}
	}
	return 0
}

// now is replaced in tests.
var now = time.Now

// Package document reads the optional user-supplied event document that the
// DocumentReader stage extracts events from.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"eventscout/internal/logging"

	"golang.org/x/text/encoding/charmap"
)

// DefaultMaxBytes caps how much of a document is read.
const DefaultMaxBytes = 4 << 20

var (
	// ErrUnsupportedFormat is returned for binary formats such as PDF or Word.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrTooLarge is returned when a document exceeds the size cap.
	ErrTooLarge = errors.New("document too large")
)

// Reader supplies document content. ok is false when no document was given.
type Reader interface {
	Read(ctx context.Context) (content string, ok bool, err error)
}

// None is a Reader with no document.
type None struct{}

func (None) Read(context.Context) (string, bool, error) { return "", false, nil }

// Static is an in-memory document.
type Static struct {
	Name    string
	Content []byte
}

func (s Static) Read(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if len(s.Content) == 0 {
		return "", false, nil
	}
	return Wrap(s.Name, Decode(s.Content)), true, nil
}

// FileReader reads a text document from disk.
type FileReader struct {
	Path     string
	MaxBytes int64
}

func (r FileReader) Read(ctx context.Context) (string, bool, error) {
	if r.Path == "" {
		return "", false, nil
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if !IsSupported(r.Path) {
		return "", false, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(r.Path))
	}

	maxBytes := r.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	info, err := os.Stat(r.Path)
	if err != nil {
		return "", false, fmt.Errorf("failed to stat document: %w", err)
	}
	if info.Size() > maxBytes {
		return "", false, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLarge, r.Path, info.Size(), maxBytes)
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) == 0 {
		logging.Document("document %s is empty", r.Path)
		return "", false, nil
	}

	logging.Document("read document %s (%d bytes)", r.Path, len(data))
	return Wrap(filepath.Base(r.Path), Decode(data)), true, nil
}

// IsSupported reports whether path has a text extension this package reads.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", ".csv", ".tsv", ".json",
		".html", ".htm", ".xml", ".ics", ".yaml", ".yml", ".py", ".js":
		return true
	default:
		return false
	}
}

// Decode returns data as text: UTF-8 when valid, otherwise ISO-8859-1.
func Decode(data []byte) string {
	data = trimBOM(data)
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		logging.DocumentDebug("latin-1 decode failed: %v", err)
		return strings.ToValidUTF8(string(data), "�")
	}
	logging.DocumentDebug("document decoded as ISO-8859-1")
	return string(out)
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// Wrap labels content with its file name for the stage input.
func Wrap(name, content string) string {
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("File: %s\n\nContent:\n%s", name, content)
}

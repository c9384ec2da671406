package readers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamma-omg/medbot-mcp/matcher"
)

var (
	ErrEmptyFile     = errors.New("empty corpus file")
	ErrMissingColumn = errors.New("missing column")
	ErrUnsupported   = errors.New("unsupported corpus file")
)

const (
	DefaultQuestionColumn = "Question"
	DefaultAnswerColumn   = "Answer"
)

// TableReader reads question/answer pairs from a CSV or TSV file with a
// header row.
type TableReader struct {
	QuestionColumn string
	AnswerColumn   string
}

func (r *TableReader) CanRead(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".csv" || ext == ".tsv"
}

func (r *TableReader) ReadEntries(path string) ([]matcher.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file: %w", err)
	}
	defer f.Close()

	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}

	entries, err := r.read(f, comma)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	return entries, nil
}

func (r *TableReader) read(src io.Reader, comma rune) ([]matcher.Entry, error) {
	reader := csv.NewReader(src)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}

	qCol, err := findColumn(header, columnOrDefault(r.QuestionColumn, DefaultQuestionColumn))
	if err != nil {
		return nil, err
	}
	aCol, err := findColumn(header, columnOrDefault(r.AnswerColumn, DefaultAnswerColumn))
	if err != nil {
		return nil, err
	}

	entries := []matcher.Entry{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		entries = append(entries, matcher.Entry{
			Question: cell(row, qCol),
			Answer:   cell(row, aCol),
		})
	}

	return entries, nil
}

func columnOrDefault(name, def string) string {
	if strings.TrimSpace(name) == "" {
		return def
	}
	return name
}

func findColumn(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.EqualFold(cleanHeader(col), strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// cell returns "" for cells missing from short rows. Present cells are kept
// verbatim.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func cleanHeader(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	return strings.TrimSpace(v)
}

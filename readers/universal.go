package readers

import (
	"fmt"

	"github.com/gamma-omg/medbot-mcp/matcher"
)

type Reader interface {
	CanRead(path string) bool
	ReadEntries(path string) ([]matcher.Entry, error)
}

// UniversalReader hands a file to the first reader that accepts it.
type UniversalReader struct {
	Readers []Reader
}

func NewUniversalReader(questionColumn, answerColumn string) *UniversalReader {
	return &UniversalReader{
		Readers: []Reader{
			&TableReader{QuestionColumn: questionColumn, AnswerColumn: answerColumn},
			&FAQDocReader{},
		},
	}
}

func (r *UniversalReader) CanRead(path string) bool {
	return r.find(path) != nil
}

func (r *UniversalReader) ReadEntries(path string) ([]matcher.Entry, error) {
	reader := r.find(path)
	if reader == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	return reader.ReadEntries(path)
}

func (r *UniversalReader) find(path string) Reader {
	for _, reader := range r.Readers {
		if reader.CanRead(path) {
			return reader
		}
	}
	return nil
}

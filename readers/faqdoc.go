package readers

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/gamma-omg/medbot-mcp/matcher"
)

// FAQDocReader extracts question/answer pairs from office and PDF documents
// written as "Q:" / "A:" paragraphs.
type FAQDocReader struct{}

func (r *FAQDocReader) CanRead(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx", ".odt", ".txt", ".md":
		return true
	}
	return false
}

func (r *FAQDocReader) ReadEntries(path string) ([]matcher.Entry, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return parseFAQ(res.Body), nil
}

// parseFAQ collects pairs from Q:/A: prefixed lines. Unprefixed lines continue
// the current question or answer; text before the first Q: is ignored. A
// question without an answer keeps an empty answer.
func parseFAQ(text string) []matcher.Entry {
	entries := []matcher.Entry{}

	var (
		cur      *matcher.Entry
		inAnswer bool
	)
	flush := func() {
		if cur != nil {
			cur.Question = strings.TrimSpace(cur.Question)
			cur.Answer = strings.TrimSpace(cur.Answer)
			entries = append(entries, *cur)
		}
		cur = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := cutPrefixFold(line, "q:"); ok {
			flush()
			cur = &matcher.Entry{Question: rest}
			inAnswer = false
			continue
		}
		if cur == nil {
			continue
		}
		if rest, ok := cutPrefixFold(line, "a:"); ok && !inAnswer {
			cur.Answer = rest
			inAnswer = true
			continue
		}
		if line == "" {
			continue
		}
		if inAnswer {
			cur.Answer += " " + line
		} else {
			cur.Question += " " + line
		}
	}
	flush()

	return entries
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(s[len(prefix):]), true
}

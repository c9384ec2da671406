package matcher

// Kind classifies how a reply was produced.
type Kind string

const (
	KindGreeting Kind = "greeting"
	KindAnswer   Kind = "answer"
	KindNoMatch  Kind = "no_match"
)

// Entry is one known question with its answer. Corpus order decides ties.
type Entry struct {
	Question string
	Answer   string
}

// Result is the reply to a single query.
type Result struct {
	Kind Kind
	Text string
	// Score is the best similarity seen, 0 when a rule answered.
	Score float64
	// Index of the matched corpus entry, -1 when none was used.
	Index int
}

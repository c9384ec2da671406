// Package matcher answers free-text questions from a fixed list of known
// question/answer pairs.
//
// A query first goes through the override rules (greetings, then configured
// keyword rules). When none fires, the query is compared with every stored
// question by TF-IDF cosine similarity and the best answer above the
// threshold is returned. Anything else yields the fallback message, so Match
// always has a reply.
package matcher

import "math/rand/v2"

const DefaultThreshold = 0.2

var (
	DefaultGreetings = []string{"hello", "hi", "hey", "sup", "what's up"}

	DefaultGreetingResponses = []string{
		"Hi there!",
		"Hello!",
		"Hey!",
		"Hi! How can I assist you today?",
	}

	DefaultFallback = "I’m sorry, I don’t have enough information to answer that. Could you please rephrase?"

	DefaultTips = []string{
		"Drink plenty of water throughout the day to stay hydrated 💧",
		"Make sure to get at least 30 minutes of physical activity daily 💪",
		"Eat a balanced diet with plenty of fruits and vegetables 🍏",
		"Don't forget to take regular breaks if you're working or studying! 🧘",
		"Get a good night's sleep for at least 7-8 hours 🛏️",
	}
)

const emptyTip = "Take care of yourself today!"

// Options tune a Matcher. Zero values fall back to the defaults above.
type Options struct {
	// Threshold is the similarity a match must exceed; nil means
	// DefaultThreshold.
	Threshold         *float64
	Greetings         []string
	GreetingResponses []string
	Fallback          string
	Tips              []string
	// Rules run after the greeting rule and before similarity search.
	Rules     []Rule
	StopWords map[string]struct{}
	// Intn picks canned responses; it must be safe for concurrent use.
	Intn func(n int) int
}

func (o *Options) applyDefaults() {
	if o.Threshold == nil {
		th := DefaultThreshold
		o.Threshold = &th
	}
	if len(o.Greetings) == 0 {
		o.Greetings = DefaultGreetings
	}
	if len(o.GreetingResponses) == 0 {
		o.GreetingResponses = DefaultGreetingResponses
	}
	if o.Fallback == "" {
		o.Fallback = DefaultFallback
	}
	if o.Tips == nil {
		o.Tips = DefaultTips
	}
	if o.StopWords == nil {
		o.StopWords = EnglishStopWords()
	}
	if o.Intn == nil {
		o.Intn = rand.IntN
	}
}

// Matcher is immutable after New and safe for concurrent use.
type Matcher struct {
	entries   []Entry
	questions []termCounts
	df        map[string]int

	rules     []Rule
	threshold float64
	fallback  string
	tips      []string
	stop      map[string]struct{}
	intn      func(n int) int
}

// New builds a matcher over a copy of entries. An empty corpus is allowed;
// every similarity lookup then ends in KindNoMatch.
func New(entries []Entry, opts Options) *Matcher {
	opts.applyDefaults()

	m := &Matcher{
		entries:   append([]Entry(nil), entries...),
		questions: make([]termCounts, len(entries)),
		threshold: *opts.Threshold,
		fallback:  opts.Fallback,
		tips:      append([]string(nil), opts.Tips...),
		stop:      opts.StopWords,
		intn:      opts.Intn,
	}

	for i, e := range m.entries {
		m.questions[i] = countTerms(terms(e.Question, m.stop))
	}
	m.df = documentFrequency(m.questions)

	m.rules = append(m.rules, NewGreetingRule(opts.Greetings, opts.GreetingResponses, opts.Intn))
	m.rules = append(m.rules, opts.Rules...)

	return m
}

// Len returns the number of corpus entries.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// Match returns the reply for query. It never fails.
func (m *Matcher) Match(query string) Result {
	for _, r := range m.rules {
		if res, ok := r.Apply(query); ok {
			return res
		}
	}

	return m.mostSimilar(query)
}

func (m *Matcher) mostSimilar(query string) Result {
	res := Result{Kind: KindNoMatch, Text: m.fallback, Index: -1}
	if len(m.entries) == 0 {
		return res
	}

	q := countTerms(terms(query, m.stop))
	if len(q) == 0 {
		return res
	}

	sp := newSpace(len(m.entries), m.df, q)
	qv := sp.vector(q)

	best, bestScore := -1, 0.0
	for i, tc := range m.questions {
		score := cosineSimilarity(qv, sp.vector(tc))
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	res.Score = bestScore
	if best < 0 || bestScore <= m.threshold {
		return res
	}

	return Result{
		Kind:  KindAnswer,
		Text:  m.entries[best].Answer,
		Score: bestScore,
		Index: best,
	}
}

// DailyTip returns a random health tip. It does not depend on the corpus.
func (m *Matcher) DailyTip() string {
	if len(m.tips) == 0 {
		return emptyTip
	}
	return m.tips[m.intn(len(m.tips))]
}

package matcher

import "strings"

// Rule is an override evaluated before similarity search. The first rule that
// fires answers the query.
type Rule interface {
	Apply(query string) (Result, bool)
}

// GreetingRule answers with a random canned greeting when any whitespace token
// of the query equals a trigger. Multi-word triggers must appear as a
// contiguous run of tokens.
type GreetingRule struct {
	triggers  [][]string
	responses []string
	intn      func(n int) int
}

func NewGreetingRule(triggers, responses []string, intn func(n int) int) *GreetingRule {
	r := &GreetingRule{
		responses: responses,
		intn:      intn,
	}
	for _, t := range triggers {
		if w := words(t); len(w) > 0 {
			r.triggers = append(r.triggers, w)
		}
	}
	return r
}

func (r *GreetingRule) Apply(query string) (Result, bool) {
	if len(r.responses) == 0 {
		return Result{}, false
	}

	tokens := words(query)
	for _, trigger := range r.triggers {
		if containsRun(tokens, trigger) {
			return Result{
				Kind:  KindGreeting,
				Text:  r.responses[r.intn(len(r.responses))],
				Index: -1,
			}, true
		}
	}

	return Result{}, false
}

// KeywordRule returns a fixed answer when the query contains any keyword.
type KeywordRule struct {
	Keywords []string
	Response string
}

func (r KeywordRule) Apply(query string) (Result, bool) {
	q := normalize(query)
	for _, k := range r.Keywords {
		k = normalize(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(q, k) {
			return Result{Kind: KindAnswer, Text: r.Response, Index: -1}, true
		}
	}

	return Result{}, false
}

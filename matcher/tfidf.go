package matcher

import (
	"math"
	"slices"
	"strings"
)

type termCount struct {
	term  string
	count int
}

// termCounts holds the raw term counts of one document, sorted by term. Every
// sum over a document runs in that order, so equal documents score equally.
type termCounts []termCount

func countTerms(ts []string) termCounts {
	sorted := slices.Clone(ts)
	slices.Sort(sorted)

	tc := make(termCounts, 0, len(sorted))
	for _, t := range sorted {
		if n := len(tc); n > 0 && tc[n-1].term == t {
			tc[n-1].count++
			continue
		}
		tc = append(tc, termCount{term: t, count: 1})
	}
	return tc
}

func (tc termCounts) has(term string) bool {
	_, ok := slices.BinarySearchFunc(tc, term, func(c termCount, t string) int {
		return strings.Compare(c.term, t)
	})
	return ok
}

// documentFrequency counts, per term, the questions that contain it.
func documentFrequency(docs []termCounts) map[string]int {
	df := make(map[string]int)
	for _, d := range docs {
		for _, c := range d {
			df[c.term]++
		}
	}
	return df
}

// space is the vector space of a single Match call: every corpus question plus
// the query. It only reads the corpus statistics it is given.
type space struct {
	docs     int
	corpusDF map[string]int
	query    termCounts
}

func newSpace(corpusDocs int, corpusDF map[string]int, query termCounts) *space {
	return &space{
		docs:     corpusDocs + 1,
		corpusDF: corpusDF,
		query:    query,
	}
}

// idf is the smoothed inverse document frequency ln((1+n)/(1+df)) + 1.
func (s *space) idf(term string) float64 {
	df := s.corpusDF[term]
	if s.query.has(term) {
		df++
	}
	return math.Log(float64(1+s.docs)/float64(1+df)) + 1
}

type weight struct {
	term  string
	value float64
}

// vector is a sparse TF-IDF vector sorted by term.
type vector []weight

func (s *space) vector(tc termCounts) vector {
	v := make(vector, len(tc))
	for i, c := range tc {
		v[i] = weight{term: c.term, value: float64(c.count) * s.idf(c.term)}
	}
	return v
}

// cosineSimilarity is 0 when either vector is empty. Both vectors must be
// sorted by term.
func cosineSimilarity(vec1, vec2 vector) float64 {
	dotProduct := 0.0
	magnitude1 := 0.0
	magnitude2 := 0.0

	for _, w := range vec1 {
		magnitude1 += w.value * w.value
	}
	for _, w := range vec2 {
		magnitude2 += w.value * w.value
	}

	for i, j := 0, 0; i < len(vec1) && j < len(vec2); {
		switch strings.Compare(vec1[i].term, vec2[j].term) {
		case 0:
			dotProduct += vec1[i].value * vec2[j].value
			i++
			j++
		case -1:
			i++
		default:
			j++
		}
	}

	if magnitude1 == 0 || magnitude2 == 0 {
		return 0
	}
	sim := dotProduct / (math.Sqrt(magnitude1) * math.Sqrt(magnitude2))
	return min(max(sim, 0), 1)
}

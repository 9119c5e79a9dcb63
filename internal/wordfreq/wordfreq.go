// Package wordfreq turns raw text into a weighted term list.
package wordfreq

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/csheth/wordcloud/internal/terms"
)

const (
	defaultMaxTerms = 200
	checkEvery      = 4096
	minTermLength   = 2
)

// Analyzer counts terms in text. It is safe for concurrent use.
type Analyzer struct {
	maxTerms  int
	stopWords map[string]struct{}
}

// New returns an Analyzer that keeps at most maxTerms entries.
func New(maxTerms int) *Analyzer {
	if maxTerms <= 0 {
		maxTerms = defaultMaxTerms
	}
	stop := make(map[string]struct{}, len(englishStopWords))
	for _, w := range englishStopWords {
		stop[w] = struct{}{}
	}
	return &Analyzer{maxTerms: maxTerms, stopWords: stop}
}

type tally struct {
	term  string
	count int
	first int
}

// Analyze tokenizes text, drops stop words, and returns terms ordered by
// count with ties kept in order of first appearance. The volume is the sum
// of len(term) * count^2 over the returned terms. ctx is checked while
// scanning so a superseded job stops early.
func (a *Analyzer) Analyze(ctx context.Context, text string) (terms.List, float64, error) {
	counts := map[string]*tally{}
	order := 0
	scanned := 0

	var token strings.Builder
	flush := func() {
		if token.Len() == 0 {
			return
		}
		word := strings.Trim(strings.ToLower(token.String()), "'")
		token.Reset()
		if !a.keep(word) {
			return
		}
		if t, ok := counts[word]; ok {
			t.count++
			return
		}
		counts[word] = &tally{term: word, count: 1, first: order}
		order++
	}

	for _, r := range text {
		scanned++
		if scanned%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		switch {
		case isIdeograph(r):
			flush()
			token.WriteRune(r)
			flush()
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			token.WriteRune(r)
		case r == '\'' || r == '’':
			// keep contractions such as "don't" together
			if token.Len() > 0 {
				token.WriteRune('\'')
			}
		default:
			flush()
		}
	}
	flush()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	tallies := make([]*tally, 0, len(counts))
	for _, t := range counts {
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].count == tallies[j].count {
			return tallies[i].first < tallies[j].first
		}
		return tallies[i].count > tallies[j].count
	})
	if len(tallies) > a.maxTerms {
		tallies = tallies[:a.maxTerms]
	}

	list := make(terms.List, 0, len(tallies))
	var volume float64
	for _, t := range tallies {
		list = append(list, terms.Entry{Term: t.term, Weight: t.count})
		c := float64(t.count)
		volume += float64(utf8.RuneCountInString(t.term)) * c * c
	}
	return list, volume, nil
}

func (a *Analyzer) keep(word string) bool {
	if word == "" {
		return false
	}
	if _, stop := a.stopWords[word]; stop {
		return false
	}
	first, _ := utf8.DecodeRuneInString(word)
	if isIdeograph(first) {
		return true
	}
	if utf8.RuneCountInString(word) < minTermLength {
		return false
	}
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isIdeograph(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r)
}

var englishStopWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both",
	"but", "by", "can", "could", "did", "do", "does", "doing", "don't", "down", "during", "each",
	"few", "for", "from", "further", "had", "has", "have", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "i", "if", "in", "into", "is", "it", "it's", "its",
	"itself", "just", "me", "more", "most", "my", "myself", "no", "nor", "not", "now", "of", "off",
	"on", "once", "only", "or", "other", "our", "ours", "ourselves", "out", "over", "own", "same",
	"she", "should", "so", "some", "such", "than", "that", "the", "their", "theirs", "them",
	"themselves", "then", "there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "very", "was", "we", "were", "what", "when", "where", "which", "while",
	"who", "whom", "why", "will", "with", "would", "you", "your", "yours", "yourself",
	"yourselves", "one", "may", "many", "much", "new", "use", "used", "like", "get",
}

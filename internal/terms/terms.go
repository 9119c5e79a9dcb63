// Package terms holds the weighted term list rendered by the cloud and the
// text transforms shared by every data source.
package terms

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Entry is one term with its integer weight.
type Entry struct {
	Term   string
	Weight int
}

// List keeps insertion order; it is not necessarily sorted.
type List []Entry

var markupPattern = regexp.MustCompile(`(?is)<[^>]+?>|\(.+?\.\.\.\)|&\w+;|<script.+?/script>`)

// Clean strips tags, ellipsis-bracketed fragments, entities and script blocks
// from remote text.
func Clean(text string) string {
	return markupPattern.ReplaceAllString(text, "")
}

// ParseList reads "weight<TAB>term" lines. Lines with an empty term or a
// weight that is missing or not an integer are skipped. The volume
// is the sum of len(term) * weight^2 over accepted lines, with len counted in
// characters.
func ParseList(text string) (List, float64) {
	var (
		list   List
		volume float64
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		term := fields[len(fields)-1]
		raw := strings.TrimSpace(fields[len(fields)-2])
		if term == "" || raw == "" {
			continue
		}
		weight, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		volume += float64(utf8.RuneCountInString(term)) * float64(weight) * float64(weight)
		list = append(list, Entry{Term: term, Weight: weight})
	}
	return list, volume
}

// Serialize renders the list editor text, the inverse of ParseList.
func (l List) Serialize() string {
	lines := make([]string, 0, len(l))
	for _, entry := range l {
		lines = append(lines, fmt.Sprintf("%d\t%s", entry.Weight, entry.Term))
	}
	return strings.Join(lines, "\n")
}

// Volume recomputes the list-editor volume of an existing list.
func (l List) Volume() float64 {
	var volume float64
	for _, entry := range l {
		w := float64(entry.Weight)
		volume += float64(utf8.RuneCountInString(entry.Term)) * w * w
	}
	return volume
}

// EncodeBase64 is the transport encoding used by base64 and base64-list routes.
func EncodeBase64(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// DecodeBase64 reverses EncodeBase64 and also accepts unpadded input.
func DecodeBase64(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", fmt.Errorf("decode base64 payload: %w", err)
		}
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("decode base64 payload: not valid UTF-8")
	}
	return string(data), nil
}

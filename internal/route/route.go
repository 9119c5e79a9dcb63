// Package route models the restorable fragment that drives the application:
// "#<token>[:<payload>]", where token is a fetcher key optionally followed by
// dotted variants such as a language code.
package route

import (
	"net/url"
	"regexp"
	"strings"
)

var fragmentPattern = regexp.MustCompile(`(?s)^([^:]+):?(.*)$`)

// Route is a parsed fragment. The zero value is the empty route.
type Route struct {
	Token   string
	Payload string
}

// Parse decodes a fragment with or without its leading '#'. Payloads are
// percent-decoded; a payload that fails to decode is kept verbatim.
func Parse(fragment string) Route {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return Route{}
	}
	matches := fragmentPattern.FindStringSubmatch(fragment)
	if matches == nil {
		return Route{}
	}
	payload := matches[2]
	if decoded, err := url.PathUnescape(payload); err == nil {
		payload = decoded
	}
	return Route{Token: matches[1], Payload: payload}
}

// Empty reports whether the route selects the source dialog.
func (r Route) Empty() bool {
	return r.Token == ""
}

// FetcherKey is the token up to its first '.'.
func (r Route) FetcherKey() string {
	if idx := strings.IndexByte(r.Token, '.'); idx >= 0 {
		return r.Token[:idx]
	}
	return r.Token
}

// Variants returns the dotted suffixes of the token, e.g. "wikipedia.zh.zh-tw"
// yields ["zh", "zh-tw"].
func (r Route) Variants() []string {
	parts := strings.Split(r.Token, ".")
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

// Variant returns the i-th dotted suffix or "" when absent.
func (r Route) Variant(i int) string {
	variants := r.Variants()
	if i < 0 || i >= len(variants) {
		return ""
	}
	return variants[i]
}

// String renders the fragment form. Parse(r.String()) == r for every route.
func (r Route) String() string {
	if r.Empty() {
		return ""
	}
	if r.Payload == "" {
		return "#" + r.Token
	}
	return "#" + r.Token + ":" + url.PathEscape(r.Payload)
}

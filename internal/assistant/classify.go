package assistant

import (
	"strings"
	"unicode"
)

// Action types.
const (
	ActionCreateOrder    = "create_order"
	ActionTrackOrder     = "track_order"
	ActionProductInquiry = "product_inquiry"
	ActionInformation    = "information"
)

// Priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Action is the follow-up the frontend should offer for a message.
type Action struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
}

type rule struct {
	action  Action
	phrases [][]string
	match   func(words []string) bool
}

var rules = []rule{
	{
		action:  Action{Type: ActionCreateOrder, Priority: PriorityHigh},
		phrases: phrases("place order", "place an order", "buy", "purchase", "reorder"),
		match:   orderUsedAsVerb,
	},
	{
		action:  Action{Type: ActionTrackOrder, Priority: PriorityMedium},
		phrases: phrases("track", "tracking", "where is", "status", "delivery"),
	},
	{
		action:  Action{Type: ActionProductInquiry, Priority: PriorityMedium},
		phrases: phrases("compatible", "fits", "works with", "recommend"),
	},
}

// Words before "order" that make it a noun ("my order", "the order").
var nounMarkers = wordSet("my", "the", "an", "a", "our", "this", "that", "your",
	"last", "recent", "previous", "of", "for", "which", "what")

// Words after "order" that make it a noun ("order status").
var nounFollowers = wordSet("status", "number", "id", "history", "details", "confirmation", "tracking")

// ClassifyAction maps a customer message to a follow-up action. Rules are
// checked in order and the first match wins; matching is case-insensitive on
// whole words.
func ClassifyAction(message string) Action {
	words := tokenize(message)
	for _, r := range rules {
		if containsAnyPhrase(words, r.phrases) || (r.match != nil && r.match(words)) {
			return r.action
		}
	}
	return Action{Type: ActionInformation, Priority: PriorityLow}
}

// orderUsedAsVerb reports whether the singular "order" appears as a request
// to order something. The plural "orders" is always read as a noun.
func orderUsedAsVerb(words []string) bool {
	for i, w := range words {
		if w != "order" {
			continue
		}
		if i > 0 && nounMarkers[words[i-1]] {
			continue
		}
		if i+1 < len(words) && nounFollowers[words[i+1]] {
			continue
		}
		return true
	}
	return false
}

func containsAnyPhrase(words []string, candidates [][]string) bool {
	for _, p := range candidates {
		if containsPhrase(words, p) {
			return true
		}
	}
	return false
}

func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(words); i++ {
		for j, p := range phrase {
			if words[i+j] != p {
				continue outer
			}
		}
		return true
	}
	return false
}

// contractions are expanded before matching. Possessive 's is left alone, so
// only pronoun and question-word forms are listed.
var contractions = map[string][]string{
	"where's": {"where", "is"},
	"what's":  {"what", "is"},
	"how's":   {"how", "is"},
	"when's":  {"when", "is"},
	"who's":   {"who", "is"},
	"it's":    {"it", "is"},
	"that's":  {"that", "is"},
	"there's": {"there", "is"},
	"here's":  {"here", "is"},
	"i'm":     {"i", "am"},
	"i'd":     {"i", "would"},
	"i'll":    {"i", "will"},
	"we'd":    {"we", "would"},
	"we'll":   {"we", "will"},
}

func tokenize(s string) []string {
	s = strings.ReplaceAll(strings.ToLower(s), "\u2019", "'")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if expanded, ok := contractions[f]; ok {
			words = append(words, expanded...)
			continue
		}
		words = append(words, f)
	}
	return words
}

func phrases(list ...string) [][]string {
	out := make([][]string, 0, len(list))
	for _, p := range list {
		out = append(out, strings.Fields(p))
	}
	return out
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

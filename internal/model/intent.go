package model

// IntentRule maps a set of keywords to a canned answer. Keywords are matched
// as lowercase substrings of the user input, in declaration order.
type IntentRule struct {
	Keywords []string
	Response string
}

package model

type OutcomeKind int8

const (
	OutcomeAnswered = OutcomeKind(iota)
	OutcomeDegraded
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAnswered:
		return "answered"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// ResponseOutcome is the result of one remote resolution. A Degraded outcome
// carries substitute text, the notice to show and the classified cause.
type ResponseOutcome struct {
	Kind   OutcomeKind
	Text   string
	Notice *Notice
	Err    error
}

func Answered(text string) ResponseOutcome {
	return ResponseOutcome{
		Kind: OutcomeAnswered,
		Text: text,
	}
}

func Degraded(text string, notice Notice, err error) ResponseOutcome {
	return ResponseOutcome{
		Kind:   OutcomeDegraded,
		Text:   text,
		Notice: &notice,
		Err:    err,
	}
}

package model

import "time"

type NoticeKind string

const (
	NoticeKindInfo  = NoticeKind("info")
	NoticeKindError = NoticeKind("error")
)

// Notice is an ephemeral user-facing notification. Rendering and disposal
// after Duration belong to the presentation layer.
type Notice struct {
	Kind     NoticeKind
	Title    string
	Message  string
	Duration time.Duration
}

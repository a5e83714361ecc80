package model

import "errors"

var (
	ErrMissingCredential = errors.New("missing api credential")
	ErrTransport         = errors.New("completion endpoint unreachable")
	ErrRemoteAPI         = errors.New("completion endpoint returned an error")
	ErrInvalidInput      = errors.New("blank input")
)

package agent

import "errors"

var (
	// ErrStepLimitExceeded means the turn hit its model round ceiling
	// before the model produced a final answer.
	ErrStepLimitExceeded = errors.New("agent step limit exceeded")
	// ErrNoFinalMessage means the model stream ended without any answer.
	ErrNoFinalMessage = errors.New("model produced no final message")
)

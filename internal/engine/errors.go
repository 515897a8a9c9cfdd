package engine

import "fmt"

// GenerationError covers a failed or malformed scenario/outcome
// response. It is recovered at the orchestrator boundary as a
// user-visible, retryable error.
type GenerationError struct {
	Stage string // "scenarios" or "outcome"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// TranslationError covers a failed or malformed history translation
// batch. It must never block the scenario fetch that accompanies a
// locale change.
type TranslationError struct {
	Locale string
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("history translation to %q: %v", e.Locale, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

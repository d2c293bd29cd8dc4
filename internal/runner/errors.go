package runner

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySurvey      = errors.New("survey has no questions")
	ErrUnknownQuestion  = errors.New("question is not part of this survey")
	ErrNilAnswer        = errors.New("answer must not be nil")
	ErrNotMultiChoice   = errors.New("question is not multiple choice")
	ErrNotStarted       = errors.New("flow has not been started")
	ErrAlreadyStarted   = errors.New("flow already started")
	ErrFirstPage        = errors.New("already on the first page")
	ErrLastPage         = errors.New("already on the last page")
	ErrNotLastPage      = errors.New("not on the last page")
	ErrSubmitInFlight   = errors.New("a submission is already in flight")
	ErrAlreadySubmitted = errors.New("flow already submitted")
	ErrCancelled        = errors.New("flow was cancelled")
)

// ValidationError blocks a page advance or a submission while required
// questions on the current page are unanswered. It is recoverable: the
// respondent answers the listed questions and retries.
type ValidationError struct {
	QuestionIDs []uint
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required questions unanswered: %v", e.QuestionIDs)
}

// SubmitError wraps a failure of the submission collaborator. Local state is
// preserved; the respondent may retry without re-answering.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "submission failed"
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

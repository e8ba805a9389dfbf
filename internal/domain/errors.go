package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrNoItems             = errors.New("no items supplied")
	ErrDuplicateJob        = errors.New("job already exists for article")
	ErrAlreadyRunning      = errors.New("batch already running")
	ErrNotRunning          = errors.New("no batch running")
	ErrQuotaExceeded       = errors.New("daily item quota exceeded")
	ErrBudgetExceeded      = errors.New("monthly budget exceeded")
	ErrMaxRevisionsReached = errors.New("maximum revision limit reached")
	ErrInvalidStatus       = errors.New("job status does not allow this operation")
	ErrAgentFailure        = errors.New("agent failure")
)

package ensemble

import "errors"

var (
	// ErrNoWorkers is a configuration error: an ensemble needs at least one worker.
	ErrNoWorkers = errors.New("at least one worker agent is required")

	ErrInvalidConversation = errors.New("invalid conversation")

	// ErrAllWorkersFailed and ErrReviewerFailed mean the service cannot
	// produce an answer right now. No partial result accompanies them.
	ErrAllWorkersFailed = errors.New("all worker agents failed to respond")
	ErrReviewerFailed   = errors.New("reviewer agent failed to respond")

	ErrInternal = errors.New("internal error")
)

// Unavailable reports whether err is one of the two service-unavailable
// conditions.
func Unavailable(err error) bool {
	return errors.Is(err, ErrAllWorkersFailed) || errors.Is(err, ErrReviewerFailed)
}

package annotate

import "errors"

// Error taxonomy shared by the analysis and sync paths. None of these is fatal
// to an editing session.
var (
	// ErrNetworkFailure means an analysis or persistence request could not complete.
	ErrNetworkFailure = errors.New("network failure")

	// ErrMalformedResponse means the analyzer payload did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed analyzer response")

	// ErrPersistenceConflict means the document store rejected a write.
	ErrPersistenceConflict = errors.New("persistence conflict")
)

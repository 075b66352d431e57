package services

// Typed errors surfaced by the workflow services. Controllers map each
// kind to a stable HTTP response; nothing here is retried internally.

// ValidationError indicates malformed or out-of-range input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError indicates a referenced record does not exist
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError indicates a state precondition was violated, e.g. a
// wrong lifecycle status, a duplicate voucher code or an already
// requested pickup
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InsufficientPointsError indicates a redemption was rejected because
// the user's balance is too low
type InsufficientPointsError struct {
	Message string
}

func (e *InsufficientPointsError) Error() string {
	return e.Message
}

// NoCollectorError indicates auto-assignment failed because no collector
// account exists in the directory
type NoCollectorError struct {
	Message string
}

func (e *NoCollectorError) Error() string {
	return e.Message
}

// PersistenceError wraps a storage-layer failure. The write is known not
// to have partially applied, so the caller may retry.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(msg string, err error) *PersistenceError {
	return &PersistenceError{Message: msg, Err: err}
}

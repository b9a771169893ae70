package errors

import "fmt"

// ErrDirectoryUnavailable is returned when the store directory service cannot
// be reached or answers with a non-OK status.
type ErrDirectoryUnavailable struct {
	Status int
	Cause  error
}

func (e *ErrDirectoryUnavailable) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store directory unavailable: %v", e.Cause)
	}
	return fmt.Sprintf("store directory unavailable: status %d", e.Status)
}

func (e *ErrDirectoryUnavailable) Unwrap() error { return e.Cause }

// ErrStoreNotFound is returned when the directory has no entry for a store id.
type ErrStoreNotFound struct {
	StoreID string
}

func (e *ErrStoreNotFound) Error() string {
	return fmt.Sprintf("target store not found: %s", e.StoreID)
}

// ErrCredentialMissing is returned when a directory entry lacks the shop domain
// or access token required to write to the target store.
type ErrCredentialMissing struct {
	StoreID string
	Field   string
}

func (e *ErrCredentialMissing) Error() string {
	return fmt.Sprintf("target store %s is missing %s", e.StoreID, e.Field)
}

// ErrUpstreamQuery is returned when the source store's query API reports errors.
type ErrUpstreamQuery struct {
	Message string
}

func (e *ErrUpstreamQuery) Error() string {
	return fmt.Sprintf("source query failed: %s", e.Message)
}

// ErrMalformedResponse is returned when an upstream response is missing the
// node the engine requires.
type ErrMalformedResponse struct {
	Detail string
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed upstream response: %s", e.Detail)
}

// ErrCreateFailed is returned when the target store rejects a product create.
type ErrCreateFailed struct {
	Status int
	Body   string
}

func (e *ErrCreateFailed) Error() string {
	return fmt.Sprintf("failed to create product in target store: status %d: %s", e.Status, e.Body)
}

// ErrUpdateFailed is returned when the target store rejects a product update.
type ErrUpdateFailed struct {
	Status int
	Body   string
}

func (e *ErrUpdateFailed) Error() string {
	return fmt.Sprintf("failed to update product in target store: status %d: %s", e.Status, e.Body)
}

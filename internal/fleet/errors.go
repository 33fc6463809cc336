package fleet

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrConfiguration indicates a data or configuration mismatch: a fuel or
// engine name that is absent from the reference data or the ship, a count
// mismatch between engines and mass records, or an out-of-range attribute.
// It is never retried; the computation that raised it aborts.
const ErrConfiguration = constError("configuration error")

package factor

// constError is an immutable error type for sentinel errors.
// It implements the error interface and can be compared with errors.Is().
type constError string

func (e constError) Error() string { return string(e) }

// Error types for reference-data validation. A record violating any of these
// is rejected at load time so it can never be chosen at resolution time.
var (
	// ErrNegativeValue indicates a factor value below zero.
	ErrNegativeValue = constError("factor value cannot be negative")

	// ErrEmptyActivity indicates a record with no activity key.
	ErrEmptyActivity = constError("factor record has empty activity key")

	// ErrEmptyUnit indicates a record with no unit.
	ErrEmptyUnit = constError("factor record has empty unit")

	// ErrUnknownUnit indicates a record denominated in a unit absent from the
	// conversion table.
	ErrUnknownUnit = constError("factor record has unrecognized unit")

	// ErrBreakdownMismatch indicates a gas breakdown whose species do not sum
	// to the record's total value within tolerance.
	ErrBreakdownMismatch = constError("gas breakdown does not sum to factor value")

	// ErrNoRecords indicates a load with an empty record set.
	ErrNoRecords = constError("no factor records to load")
)

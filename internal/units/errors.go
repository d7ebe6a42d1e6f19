package units

// constError is an immutable error type for sentinel errors.
// It implements the error interface and can be compared with errors.Is().
type constError string

func (e constError) Error() string { return string(e) }

// Error types for unit conversion.
var (
	// ErrUnknownUnit indicates a unit string not present in the conversion table.
	ErrUnknownUnit = constError("unknown unit")

	// ErrUnconvertible indicates a conversion across physical dimensions,
	// e.g. litres to kilograms. The engine never guesses a density.
	ErrUnconvertible = constError("units are in different dimensions")

	// ErrNotFinite indicates a quantity that is NaN or infinite, either on
	// input or after applying the conversion factor.
	ErrNotFinite = constError("quantity is not a finite number")
)

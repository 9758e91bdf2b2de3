package mines

import "fmt"

/*
AssertionError marks a broken internal invariant: a programmer error,
not a condition callers are expected to handle. It is raised by
panicking and only recovered at the NewGame boundary.
*/
type AssertionError struct {
	message string
}

// AssertionError implements [error]
func (e AssertionError) Error() string {
	return e.message
}

/*
An inconsistencyError reports that the knowledge a solve run was given
cannot correspond to any layout: a derived constraint set wanted an
impossible mine count, or opening a cell deduced safe hit a mine.
Distinct from AssertionError because hand-entered grids can
legitimately trigger it; Solve maps it to Impossible.
*/
type inconsistencyError struct {
	reason string
}

func (e inconsistencyError) Error() string {
	return "inconsistent knowledge: " + e.reason
}

func inconsistentf(format string, args ...any) error {
	return inconsistencyError{fmt.Sprintf(format, args...)}
}

package datasetter

import (
	"errors"
	"fmt"
)

var (
	// ErrUnimplemented is returned by a Dataset with no backing store.
	ErrUnimplemented = errors.New("dataset operation not implemented")

	// ErrFacetUnavailable matches every *ErrUnknownFacet via errors.Is.
	ErrFacetUnavailable = errors.New("facet unavailable")
)

// ErrUnknownFacet indicates a filter key or count-by target that is not a
// declared facet of the dataset.
type ErrUnknownFacet struct {
	Facet string
}

func (e *ErrUnknownFacet) Error() string {
	return fmt.Sprintf("no facet %s", e.Facet)
}

// Is reports whether target is ErrFacetUnavailable.
func (e *ErrUnknownFacet) Is(target error) bool { return target == ErrFacetUnavailable }

// ErrUnknownColumn indicates a facet declared on a column the table does not have.
type ErrUnknownColumn struct {
	Column string
}

func (e *ErrUnknownColumn) Error() string {
	return fmt.Sprintf("unknown column: %q", e.Column)
}

// UnknownFacet returns the facet name carried by err, if any.
func UnknownFacet(err error) (string, bool) {
	var uf *ErrUnknownFacet
	if errors.As(err, &uf) {
		return uf.Facet, true
	}
	return "", false
}

package bezier

import "errors"

var (
	// ErrBadSamples indicates a non-positive samples-per-edge count.
	ErrBadSamples = errors.New("bezier: samples per edge must be positive")

	// ErrMissingEdge indicates consecutive boundary nodes without an edge.
	ErrMissingEdge = errors.New("bezier: boundary nodes not joined by an edge")
)

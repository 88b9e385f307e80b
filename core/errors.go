package core

import "errors"

// ErrStrategyContract is returned when a review strategy violates its
// contract (a nil finding slice where an empty one is required). The
// aggregator fails loudly instead of coercing.
var ErrStrategyContract = errors.New("review strategy violated contract: nil critique list")

// ErrUnavailable wraps collaborator transport failures. The engine
// treats it as fatal for the current gap only.
var ErrUnavailable = errors.New("collaborator unavailable")

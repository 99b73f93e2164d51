package ingredient

import (
	"fmt"
	"strings"
)

// EdgePolicy decides what happens when an edge is set between two
// ingredients that are already linked.
type EdgePolicy int

const (
	// PolicyOverwrite replaces the stored weight (last write wins)
	PolicyOverwrite EdgePolicy = iota
	// PolicyKeepMax keeps the larger of the stored and incoming weights
	PolicyKeepMax
	// PolicyReject refuses a different weight with ErrEdgeConflict
	PolicyReject
)

// String returns the policy name used in configuration and requests
func (p EdgePolicy) String() string {
	switch p {
	case PolicyOverwrite:
		return "overwrite"
	case PolicyKeepMax:
		return "max"
	case PolicyReject:
		return "reject"
	default:
		return fmt.Sprintf("EdgePolicy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name. An empty name means PolicyOverwrite.
func ParsePolicy(name string) (EdgePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "overwrite":
		return PolicyOverwrite, nil
	case "max":
		return PolicyKeepMax, nil
	case "reject":
		return PolicyReject, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

func (p EdgePolicy) resolve(existing, incoming float64) (float64, error) {
	switch p {
	case PolicyOverwrite:
		return incoming, nil
	case PolicyKeepMax:
		if existing > incoming {
			return existing, nil
		}
		return incoming, nil
	case PolicyReject:
		if existing != incoming {
			return existing, ErrEdgeConflict
		}
		return existing, nil
	default:
		return existing, ErrUnknownPolicy
	}
}

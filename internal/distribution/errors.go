package distribution

import "errors"

var (
	// ErrNoEligibleStaff indicates that no staff member can receive grievances.
	ErrNoEligibleStaff = errors.New("no eligible staff available for assignment")

	// ErrUnknownStrategy indicates an unsupported strategy name.
	ErrUnknownStrategy = errors.New("unknown distribution strategy")
)

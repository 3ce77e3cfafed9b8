package traycontrols

import "go.uber.org/zap"

// DuplicatePolicy defines what [Manager.Insert] does when the identifier is
// already registered.
type DuplicatePolicy int

const (
	// The new control replaces the registered one. The replaced control leaves
	// its group before the new one is inserted.
	DuplicateOverwrite DuplicatePolicy = iota

	// The new control is rejected with [ErrDuplicateID].
	DuplicateReject
)

// String implements fmt.Stringer.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateOverwrite:
		return "overwrite"
	case DuplicateReject:
		return "reject"
	default:
		return "unknown"
	}
}

// DefaultPolicy defines how defaults declared by several radios of the same
// group are resolved.
type DefaultPolicy int

const (
	// The first declared default is remembered by the group. A default only
	// selects a radio if the group has no selection yet.
	DefaultFirstWins DefaultPolicy = iota

	// Every declared default replaces the previous one and becomes the
	// selection of the group.
	DefaultLastWins
)

// String implements fmt.Stringer.
func (p DefaultPolicy) String() string {
	switch p {
	case DefaultFirstWins:
		return "first"
	case DefaultLastWins:
		return "last"
	default:
		return "unknown"
	}
}

type options struct {
	logger     *zap.Logger
	duplicates DuplicatePolicy
	defaults   DefaultPolicy
}

// Option configures [Manager].
type Option func(*options)

// WithLogger sets logger of the manager. By default, nothing is logged.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDuplicatePolicy sets [DuplicatePolicy] of the manager. The default is
// [DuplicateOverwrite].
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(o *options) {
		o.duplicates = policy
	}
}

// WithDefaultPolicy sets [DefaultPolicy] of the manager. The default is
// [DefaultFirstWins].
func WithDefaultPolicy(policy DefaultPolicy) Option {
	return func(o *options) {
		o.defaults = policy
	}
}

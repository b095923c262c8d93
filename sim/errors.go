package sim

import "errors"

// Sentinel errors for the decision surface. None of these are retried
// internally; callers decide whether to retry on a later tick or drop
// the request.
var (
	// ErrNoHostAvailable reports that no candidate host passed a
	// placement policy's filter and feasibility checks. Normal,
	// non-fatal.
	ErrNoHostAvailable = errors.New("no host available")

	// ErrUnplaceable reports that the broker exhausted the candidate
	// ring without finding a VM with enough free capacity. Normal,
	// non-fatal.
	ErrUnplaceable = errors.New("workload unplaceable")

	// ErrInvalidThreshold reports a migration threshold configuration
	// where under >= over or either value falls outside (0,1). The
	// configuration call is rejected and prior thresholds stay in
	// effect.
	ErrInvalidThreshold = errors.New("invalid utilization threshold")
)

package sim

import "fmt"

// Placement policy names accepted by NewPlacementPolicy and the YAML
// policy bundle.
const (
	PolicyFewestVMs           = "fewest-vms"
	PolicyRoundRobinSocial    = "round-robin-social"
	PolicyBestFitSocialCredit = "best-fit-social-credit"
)

// NewFewestVMsPolicy creates the trust-unaware fallback policy: engine
// feasibility only, preferring the host with the fewest placed VMs.
func NewFewestVMsPolicy() PlacementPolicy {
	return &placementPolicy{
		name:         PolicyFewestVMs,
		rank:         RankFewestVMs,
		fallbackRank: RankFewestVMs,
	}
}

// NewRoundRobinSocialPolicy creates the social packing policy:
// feasibility plus the trust filter, preferring the host with the
// highest CPU utilization. Unowned VMs fall back to fewest placed VMs.
func NewRoundRobinSocialPolicy() PlacementPolicy {
	return &placementPolicy{
		name:         PolicyRoundRobinSocial,
		filter:       TrustFilter,
		rank:         RankMaxUtilization,
		fallbackRank: RankFewestVMs,
	}
}

// NewBestFitSocialCreditPolicy creates the credit-aware policy:
// feasibility plus the trust filter, preferring the host whose owner
// has the lowest social credit (ties to earlier candidate order).
// Unowned VMs fall back to fewest placed VMs.
func NewBestFitSocialCreditPolicy() PlacementPolicy {
	return &placementPolicy{
		name:         PolicyBestFitSocialCredit,
		filter:       TrustFilter,
		rank:         RankMinOwnerCredit,
		fallbackRank: RankFewestVMs,
	}
}

// NewPlacementPolicy creates a placement policy by name. An empty name
// defaults to round-robin-social. Panics on unrecognized names: policy
// names reach here only from validated configuration or code.
func NewPlacementPolicy(name string) PlacementPolicy {
	switch name {
	case "", PolicyRoundRobinSocial:
		return NewRoundRobinSocialPolicy()
	case PolicyBestFitSocialCredit:
		return NewBestFitSocialCreditPolicy()
	case PolicyFewestVMs:
		return NewFewestVMsPolicy()
	default:
		panic(fmt.Sprintf("unknown placement policy %q", name))
	}
}

// CustomPlacementPolicy assembles a policy from injectable parts, for
// callers experimenting with their own filter/ranking combinations.
// rank is required; fallbackRank defaults to rank; a nil filter
// disables trust filtering.
func CustomPlacementPolicy(name string, filter HostFilter, rank, fallbackRank HostRanker) PlacementPolicy {
	if rank == nil {
		panic("CustomPlacementPolicy: rank is required")
	}
	if fallbackRank == nil {
		fallbackRank = rank
	}
	return &placementPolicy{
		name:         name,
		filter:       filter,
		rank:         rank,
		fallbackRank: fallbackRank,
	}
}

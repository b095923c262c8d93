// Package sim is the trust-aware placement and migration decision
// core for a simulated multi-tenant compute cluster.
//
// # Reading Guide
//
// Start with these three files to understand the decision surface:
//   - entity.go: the Host query surface plus VM/Workload ownership and the security check
//   - policy.go: the PlacementPolicy capability and its filter/rank combinators
//   - migration.go: threshold-driven migration triggering
//
// # Architecture
//
// The package is a pure in-process decision library: it consumes host
// snapshots and lifecycle callbacks from an external simulation engine
// and returns decisions. It never advances time, never computes
// utilization, and never destroys entities.
//
//   - sim/trust: the social trust graph (all-pairs BFS hop distances)
//   - sim/scenario: a minimal reference engine harness that drives the
//     lifecycle callbacks for tests and the CLI demo
//   - sim/report: end-of-run per-principal summaries
//
// # Key Interfaces
//
// The extension points are small interfaces and function types:
//   - PlacementPolicy: select a host for a VM, or ErrNoHostAvailable
//   - HostFilter / HostRanker: injectable policy parameterization
//   - VMSelectionPolicy: choose migration victims on overloaded hosts
//   - Host: the query surface the engine exposes per host
//
// # Concurrency
//
// Single-threaded, cooperative, callback-driven. The three mutable
// pools (broker cursor, principal credit/counters, trigger thresholds)
// are each owned by one per-run instance; under the single execution
// context discipline no synchronization is required, and nothing here
// blocks or suspends.
package sim

package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/trustsim/trustsim/sim"
	"github.com/trustsim/trustsim/sim/trust"
)

// SynthConfig parameterizes seeded scenario synthesis. Everything
// derives from Seed through the partitioned RNG, so two syntheses with
// the same config are identical.
type SynthConfig struct {
	Seed int64

	Principals        int
	FriendProbability float64

	Hosts        int
	HostCapacity int

	VMs     int
	VMUnits int

	Workloads        int
	WorkloadUnitsMax int
	SecurityLevelMax int

	DurationMean int
	DurationStd  int
	DurationMin  int
	DurationMax  int

	// SubmitSpacing is the tick gap between consecutive submissions.
	SubmitSpacing int64
}

// WorkloadSpec is one synthesized workload with its arrival and span.
type WorkloadSpec struct {
	Workload *sim.Workload
	SubmitAt int64
	Duration int64
}

// Synthesis is a generated scenario ready to install into an engine.
type Synthesis struct {
	Population []*trust.Principal
	Graph      *trust.Graph
	Hosts      []*Host
	VMs        []*sim.VM
	Workloads  []WorkloadSpec
}

// Synthesize generates a population with random friendships, a host
// fleet with owners assigned round-robin, a VM fleet, and a workload
// sequence, all from the config's seed.
func Synthesize(cfg SynthConfig) (*Synthesis, error) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	popRNG := rng.ForSubsystem(sim.SubsystemPopulation)
	fleetRNG := rng.ForSubsystem(sim.SubsystemFleet)
	workRNG := rng.ForSubsystem(sim.SubsystemWorkload)

	population := make([]*trust.Principal, cfg.Principals)
	for i := range population {
		population[i] = trust.NewPrincipal(i, fmt.Sprintf("user_%d", i))
	}
	var edges []trust.Edge
	for i := 0; i < len(population); i++ {
		for j := i + 1; j < len(population); j++ {
			if popRNG.Float64() < cfg.FriendProbability {
				edges = append(edges, trust.Edge{A: population[i], B: population[j]})
			}
		}
	}
	graph, err := trust.Build(population, edges)
	if err != nil {
		return nil, fmt.Errorf("synthesizing trust graph: %w", err)
	}

	s := &Synthesis{Population: population, Graph: graph}

	for i := 0; i < cfg.Hosts; i++ {
		owner := population[i%len(population)]
		s.Hosts = append(s.Hosts, NewHost(i, owner, cfg.HostCapacity))
	}
	for i := 0; i < cfg.VMs; i++ {
		_ = fleetRNG.Int63() // reserved draw, keeps the stream stable if VM sizing gains jitter
		s.VMs = append(s.VMs, sim.NewVM(i, cfg.VMUnits))
	}

	submitAt := int64(0)
	for i := 0; i < cfg.Workloads; i++ {
		owner := population[workRNG.Intn(len(population))]
		units := 1 + workRNG.Intn(maxInt(cfg.WorkloadUnitsMax, 1))
		level := workRNG.Intn(cfg.SecurityLevelMax + 1)
		w := sim.NewWorkload(i, units, owner, level)
		s.Workloads = append(s.Workloads, WorkloadSpec{
			Workload: w,
			SubmitAt: submitAt,
			Duration: int64(clampedGauss(workRNG, cfg.DurationMean, cfg.DurationStd, cfg.DurationMin, cfg.DurationMax)),
		})
		submitAt += cfg.SubmitSpacing
	}
	return s, nil
}

// Install registers the synthesized hosts and schedules VM creations
// at tick 0 and workload submissions at their arrival times.
func (s *Synthesis) Install(e *Engine) {
	for _, h := range s.Hosts {
		e.AddHost(h)
	}
	for _, vm := range s.VMs {
		e.ScheduleVMCreation(0, vm)
	}
	for _, spec := range s.Workloads {
		e.ScheduleWorkload(spec.SubmitAt, spec.Workload, spec.Duration)
	}
}

// clampedGauss samples from a Gaussian clamped to [min, max].
func clampedGauss(rng *rand.Rand, mean, std, min, max int) int {
	if min >= max {
		return min
	}
	val := rng.NormFloat64()*float64(std) + float64(mean)
	val = math.Min(float64(max), val)
	val = math.Max(float64(min), val)
	return int(math.Round(val))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

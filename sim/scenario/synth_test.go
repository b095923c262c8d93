package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trustsim/trustsim/sim"
)

func testSynthConfig(seed int64) SynthConfig {
	return SynthConfig{
		Seed:              seed,
		Principals:        8,
		FriendProbability: 0.4,
		Hosts:             6,
		HostCapacity:      8,
		VMs:               10,
		VMUnits:           2,
		Workloads:         30,
		WorkloadUnitsMax:  2,
		SecurityLevelMax:  3,
		DurationMean:      20,
		DurationStd:       5,
		DurationMin:       5,
		DurationMax:       40,
		SubmitSpacing:     3,
	}
}

func TestSynthesize_Shape(t *testing.T) {
	s, err := Synthesize(testSynthConfig(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Len(t, s.Population, 8)
	assert.Len(t, s.Hosts, 6)
	assert.Len(t, s.VMs, 10)
	assert.Len(t, s.Workloads, 30)

	for _, spec := range s.Workloads {
		assert.NotNil(t, spec.Workload.Owner())
		if spec.Duration < 5 || spec.Duration > 40 {
			t.Errorf("workload %d duration %d outside [5,40]", spec.Workload.ID(), spec.Duration)
		}
	}
	// Host owners cycle through the population.
	assert.Equal(t, s.Population[0], s.Hosts[0].Owner())
	assert.Equal(t, s.Population[5], s.Hosts[5].Owner())
}

func TestSynthesize_DeterministicForSeed(t *testing.T) {
	s1, err := Synthesize(testSynthConfig(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := Synthesize(testSynthConfig(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range s1.Workloads {
		w1, w2 := s1.Workloads[i], s2.Workloads[i]
		assert.Equal(t, w1.Workload.Owner().ID(), w2.Workload.Owner().ID())
		assert.Equal(t, w1.Workload.Units(), w2.Workload.Units())
		assert.Equal(t, w1.Workload.SecurityLevel(), w2.Workload.SecurityLevel())
		assert.Equal(t, w1.Duration, w2.Duration)
	}
	for i := range s1.Population {
		for j := range s1.Population {
			assert.Equal(t,
				s1.Population[i].DistanceTo(s1.Population[j]),
				s2.Population[i].DistanceTo(s2.Population[j]))
		}
	}
}

func TestFullRun_DeterministicForSeed(t *testing.T) {
	run := func() (Stats, []int) {
		s, err := Synthesize(testSynthConfig(99))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		policy := sim.NewBestFitSocialCreditPolicy()
		trigger, err := sim.NewMigrationTrigger(policy, sim.SmallestVMSelection{}, 0.3, 0.8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		eng := NewEngine(EngineConfig{Horizon: 200, TickInterval: 10, MigrationDelay: 2}, s.Graph, policy, trigger)
		s.Install(eng)
		stats := eng.Run()

		credits := make([]int, len(s.Population))
		for i, p := range s.Population {
			credits[i] = p.Credit
		}
		return stats, credits
	}

	stats1, credits1 := run()
	stats2, credits2 := run()
	assert.Equal(t, stats1, stats2)
	assert.Equal(t, credits1, credits2)
}

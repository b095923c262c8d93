package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountant_SubmittedCounter(t *testing.T) {
	pop := buildChain(t, 2)
	acct := NewAccountant()

	w := NewWorkload(1, 1, pop[0], 1)
	acct.WorkloadSubmitted(w)
	acct.WorkloadSubmitted(NewWorkload(2, 1, pop[0], 1))
	assert.Equal(t, 2, pop[0].Submitted)

	// Unowned workloads count against nobody.
	acct.WorkloadSubmitted(NewWorkload(3, 1, nil, 0))
	assert.Equal(t, 2, pop[0].Submitted)
	assert.Equal(t, 0, pop[1].Submitted)
}

func TestAccountant_FinishSettlesCreditAndCounters(t *testing.T) {
	// GIVEN a workload owned by P0 finishing on a host owned by P1
	pop := buildChain(t, 2)
	acct := NewAccountant()
	h := newStubHost(0, pop[1])
	w := NewWorkload(1, 1, pop[0], 1)

	acct.WorkloadStarted(w, 100)
	acct.WorkloadFinished(w, h, 350)

	// THEN the hosting principal earns a credit and the owner pays one
	assert.Equal(t, 1, pop[1].Credit)
	assert.Equal(t, -1, pop[0].Credit)

	// AND the owner's counters advance
	assert.Equal(t, 1, pop[0].Processed)
	assert.Equal(t, int64(250), pop[0].ProcessingTime)
	assert.Equal(t, 0, pop[1].Processed)
}

func TestAccountant_SelfHostingIsCreditNeutral(t *testing.T) {
	pop := buildChain(t, 2)
	acct := NewAccountant()
	h := newStubHost(0, pop[0])
	w := NewWorkload(1, 1, pop[0], 0)

	acct.WorkloadStarted(w, 0)
	acct.WorkloadFinished(w, h, 10)

	assert.Equal(t, 0, pop[0].Credit)
	assert.Equal(t, 1, pop[0].Processed)
}

func TestAccountant_UnownedSidesSettleNothing(t *testing.T) {
	pop := buildChain(t, 2)
	acct := NewAccountant()

	// Unowned host: no credit transfer, owner counters still advance.
	w := NewWorkload(1, 1, pop[0], 1)
	acct.WorkloadStarted(w, 0)
	acct.WorkloadFinished(w, newStubHost(0, nil), 5)
	assert.Equal(t, 0, pop[0].Credit)
	assert.Equal(t, 1, pop[0].Processed)

	// Unowned workload: nothing at all to settle.
	anon := NewWorkload(2, 1, nil, 0)
	acct.WorkloadStarted(anon, 0)
	acct.WorkloadFinished(anon, newStubHost(1, pop[1]), 5)
	assert.Equal(t, 0, pop[1].Credit)
}

package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trustsim/trustsim/sim/trust"
)

func TestBuild_RowsSortedByCreditThenName(t *testing.T) {
	a := trust.NewPrincipal(0, "alice")
	a.Credit = 2
	b := trust.NewPrincipal(1, "bob")
	b.Credit = 5
	c := trust.NewPrincipal(2, "carol")
	c.Credit = 2

	r := Build([]*trust.Principal{a, b, c})
	assert.Equal(t, "bob", r.Rows[0].Principal)
	assert.Equal(t, "alice", r.Rows[1].Principal)
	assert.Equal(t, "carol", r.Rows[2].Principal)
}

func TestBuild_SummaryMatchesHandComputedFixture(t *testing.T) {
	// Credits 1, 3, 5: mean 3, sample stddev 2, total 9.
	vals := []int{1, 3, 5}
	var pop []*trust.Principal
	for i, v := range vals {
		p := trust.NewPrincipal(i, "p")
		p.Credit = v
		pop = append(pop, p)
	}

	r := Build(pop)
	assert.Equal(t, 3, r.Summary.Principals)
	assert.Equal(t, 9, r.Summary.TotalCredit)
	assert.InDelta(t, 3.0, r.Summary.MeanCredit, 1e-9)
	assert.InDelta(t, 2.0, r.Summary.StdDevCredit, 1e-9)
}

func TestBuild_EmptyPopulation(t *testing.T) {
	r := Build(nil)
	assert.Empty(t, r.Rows)
	assert.Equal(t, 0, r.Summary.Principals)
}

func TestString_ContainsCountersAndSummary(t *testing.T) {
	p := trust.NewPrincipal(0, "alice")
	p.Credit = 4
	p.Submitted = 7
	p.Processed = 6
	p.ProcessingTime = 123

	out := Build([]*trust.Principal{p}).String()
	assert.True(t, strings.Contains(out, "alice"))
	assert.True(t, strings.Contains(out, "123"))
	assert.True(t, strings.Contains(out, "total credit 4"))
}

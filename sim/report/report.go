// Package report summarizes per-principal outcomes at the end of a
// simulation run.
package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/trustsim/trustsim/sim/trust"
)

// Row is one principal's end-of-run accounting.
type Row struct {
	Principal      string
	Credit         int
	Submitted      int
	Processed      int
	ProcessingTime int64
}

// Summary aggregates the credit distribution across the population.
type Summary struct {
	Principals   int
	TotalCredit  int
	MeanCredit   float64
	StdDevCredit float64
}

// Report is the per-principal table plus its distribution summary.
type Report struct {
	Rows    []Row
	Summary Summary
}

// Build produces a report over the population, sorted by descending
// credit with principal name as the deterministic tie-break.
func Build(population []*trust.Principal) *Report {
	r := &Report{}
	credits := make([]float64, 0, len(population))
	for _, p := range population {
		r.Rows = append(r.Rows, Row{
			Principal:      p.Name(),
			Credit:         p.Credit,
			Submitted:      p.Submitted,
			Processed:      p.Processed,
			ProcessingTime: p.ProcessingTime,
		})
		r.Summary.TotalCredit += p.Credit
		credits = append(credits, float64(p.Credit))
	}
	sort.Slice(r.Rows, func(i, j int) bool {
		if r.Rows[i].Credit != r.Rows[j].Credit {
			return r.Rows[i].Credit > r.Rows[j].Credit
		}
		return r.Rows[i].Principal < r.Rows[j].Principal
	})

	r.Summary.Principals = len(population)
	if len(credits) > 0 {
		r.Summary.MeanCredit = stat.Mean(credits, nil)
	}
	if len(credits) > 1 {
		r.Summary.StdDevCredit = stat.StdDev(credits, nil)
	}
	return r
}

// String renders the report as an aligned text table.
func (r *Report) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRINCIPAL\tCREDIT\tSUBMITTED\tPROCESSED\tPROC TIME")
	for _, row := range r.Rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			row.Principal, row.Credit, row.Submitted, row.Processed, row.ProcessingTime)
	}
	w.Flush()
	fmt.Fprintf(&sb, "\n%d principals, total credit %d, mean %.2f, stddev %.2f\n",
		r.Summary.Principals, r.Summary.TotalCredit, r.Summary.MeanCredit, r.Summary.StdDevCredit)
	return sb.String()
}

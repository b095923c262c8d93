package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/trustsim/trustsim/sim/trust"
)

// Accountant applies credit and counter mutations when the external
// engine delivers workload lifecycle events. One accountant per run;
// all mutations happen synchronously inside the engine's callbacks.
type Accountant struct{}

// NewAccountant creates an accountant.
func NewAccountant() *Accountant {
	return &Accountant{}
}

// WorkloadSubmitted records a workload submission against its owner.
func (a *Accountant) WorkloadSubmitted(w *Workload) {
	if w.Owner() == nil {
		return
	}
	w.Owner().Submitted++
}

// WorkloadStarted stamps the workload's start time for the processing
// span computed at finish.
func (a *Accountant) WorkloadStarted(w *Workload, now int64) {
	w.StartTime = now
}

// WorkloadFinished settles a completed workload: the hosting principal
// earns one credit for processing it, the workload's owner pays one
// credit for the service, and the owner's processed counter and
// cumulative processing time advance. Unowned sides settle nothing.
func (a *Accountant) WorkloadFinished(w *Workload, h Host, now int64) {
	owner := w.Owner()
	var hostOwner *trust.Principal
	if h != nil {
		hostOwner = h.Owner()
	}
	if owner != nil && hostOwner != nil {
		hostOwner.Credit++
		owner.Credit--
		logrus.Debugf("accounting: workload %d finished, credit %s -> %s",
			w.ID(), owner.Name(), hostOwner.Name())
	}
	if owner != nil {
		owner.Processed++
		owner.ProcessingTime += now - w.StartTime
	}
}

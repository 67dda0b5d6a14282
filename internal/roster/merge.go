// Package roster keeps the agent roster shown by the dashboard. Authoritative
// snapshots from the backend are merged over a local liveliness simulation;
// the merge and simulation steps are pure functions and the Synchronizer is
// a thin timer around them.
package roster

import (
	"math/rand/v2"

	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// Simulation thresholds. A draw above busyThreshold marks a record busy and a
// separate draw above taskThreshold counts one more completed task.
const (
	busyThreshold = 0.7
	taskThreshold = 0.5
)

// Rand is the randomness source used by Simulate. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand draws from the math/rand/v2 global source.
var DefaultRand Rand = globalRand{}

// Merge applies an authoritative snapshot to current and returns the next
// roster. Records whose key appears in snap get status online/offline from
// the reported flag and the reported lastActivity (kept when empty). Records
// not in snap are copied unchanged. current is never modified.
func Merge(current []model.AgentRecord, snap model.StatusSnapshot) []model.AgentRecord {
	next := make([]model.AgentRecord, len(current))
	copy(next, current)
	if len(snap) == 0 {
		return next
	}
	for i := range next {
		rep, ok := snap[next[i].Key()]
		if !ok {
			continue
		}
		if rep.Online {
			next[i].Status = model.AgentOnline
		} else {
			next[i].Status = model.AgentOffline
		}
		if rep.LastActivity != "" {
			next[i].LastActivity = rep.LastActivity
		}
	}
	return next
}

// Simulate applies one liveliness pass. Offline records are copied untouched;
// only a later authoritative snapshot brings them back. Every other record
// becomes busy (about 30% of the time) or online, and about half the time
// gains one completed task.
func Simulate(current []model.AgentRecord, rng Rand) []model.AgentRecord {
	if rng == nil {
		rng = DefaultRand
	}
	next := make([]model.AgentRecord, len(current))
	copy(next, current)
	for i := range next {
		if next[i].Status == model.AgentOffline {
			continue
		}
		if rng.Float64() > busyThreshold {
			next[i].Status = model.AgentBusy
		} else {
			next[i].Status = model.AgentOnline
		}
		if rng.Float64() > taskThreshold {
			next[i].TasksCompleted++
		}
	}
	return next
}

// OnlineCount is the number of records whose status is not offline.
func OnlineCount(agents []model.AgentRecord) int {
	n := 0
	for _, a := range agents {
		if a.Status != model.AgentOffline {
			n++
		}
	}
	return n
}

// TotalTasks sums TasksCompleted across all records.
func TotalTasks(agents []model.AgentRecord) int64 {
	var total int64
	for _, a := range agents {
		total += a.TasksCompleted
	}
	return total
}

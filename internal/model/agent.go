package model

import (
	"strings"
	"unicode"
)

// AgentStatus is the observed health of a swarm agent.
type AgentStatus string

const (
	AgentOnline  AgentStatus = "online"
	AgentBusy    AgentStatus = "busy"
	AgentOffline AgentStatus = "offline"
)

// String returns the string representation of the status.
func (s AgentStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s AgentStatus) IsValid() bool {
	switch s {
	case AgentOnline, AgentBusy, AgentOffline:
		return true
	}
	return false
}

// AgentRecord is the dashboard's view of one named agent in the swarm.
// Name is the stable identity; the remaining fields are mutated by the
// roster synchronizer only. TasksCompleted never decreases.
type AgentRecord struct {
	Name           string      `json:"name"`
	Icon           string      `json:"icon,omitempty"`
	Status         AgentStatus `json:"status"`
	LastActivity   string      `json:"lastActivity"`
	TasksCompleted int64       `json:"tasksCompleted"`
}

// Key returns the identity used by the status endpoint for this agent.
func (a AgentRecord) Key() string {
	return AgentKey(a.Name)
}

// AgentKey lowercases name and replaces every run of whitespace with a single
// underscore, e.g. "MeTTa Knowledge" -> "metta_knowledge".
func AgentKey(name string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// DefaultRoster returns the fixed set of agents the dashboard starts with.
// Each call returns a fresh slice.
func DefaultRoster() []AgentRecord {
	return []AgentRecord{
		{Name: "Portfolio Coordinator", Icon: "🎯", Status: AgentOnline, LastActivity: "Just now", TasksCompleted: 47},
		{Name: "Chain Scanner", Icon: "📡", Status: AgentBusy, LastActivity: "2s ago", TasksCompleted: 1523},
		{Name: "MeTTa Knowledge", Icon: "🧠", Status: AgentOnline, LastActivity: "5s ago", TasksCompleted: 289},
		{Name: "Strategy Engine", Icon: "⚙️", Status: AgentBusy, LastActivity: "1s ago", TasksCompleted: 156},
		{Name: "Execution Agent", Icon: "🔒", Status: AgentOnline, LastActivity: "10s ago", TasksCompleted: 78},
		{Name: "Performance Tracker", Icon: "📊", Status: AgentOnline, LastActivity: "3s ago", TasksCompleted: 234},
	}
}

// AgentReport is one entry of an authoritative status snapshot.
type AgentReport struct {
	Online       bool   `json:"online"`
	LastActivity string `json:"lastActivity,omitempty"`
}

// StatusSnapshot maps agent keys (see AgentKey) to their reported state.
type StatusSnapshot map[string]AgentReport

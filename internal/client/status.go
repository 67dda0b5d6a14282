package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// agentStatusEntry is one element of the backend's list-form status report.
type agentStatusEntry struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	Icon           string `json:"icon"`
	LastActivity   string `json:"last_activity"`
	TasksCompleted int64  `json:"tasks_completed"`
}

// DecodeStatusSnapshot decodes an agent status report. Two shapes are
// accepted: the mapping form {agent_key: {online, lastActivity}} and the list
// form [{name, status, icon, last_activity, tasks_completed}]. List entries are
// keyed by model.AgentKey(name) and count as online unless status is "offline".
// Null or undecodable entries are skipped, leaving those agents absent.
func DecodeStatusSnapshot(raw json.RawMessage) (model.StatusSnapshot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.StatusSnapshot{}, nil
	}

	if trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decoding status list: %w", err)
		}
		snap := make(model.StatusSnapshot, len(entries))
		for i, raw := range entries {
			var e agentStatusEntry
			if isNull(raw) {
				continue
			}
			if err := json.Unmarshal(raw, &e); err != nil {
				slog.Debug("client: skipping status entry", "index", i, "error", err)
				continue
			}
			if e.Name == "" {
				continue
			}
			snap[model.AgentKey(e.Name)] = model.AgentReport{
				Online:       e.Status != string(model.AgentOffline),
				LastActivity: e.LastActivity,
			}
		}
		return snap, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("decoding status map: %w", err)
	}
	// A null or malformed entry counts as absent; the rest still apply.
	snap := make(model.StatusSnapshot, len(entries))
	for key, raw := range entries {
		if isNull(raw) {
			continue
		}
		var rep model.AgentReport
		if err := json.Unmarshal(raw, &rep); err != nil {
			slog.Debug("client: skipping status entry", "agent", key, "error", err)
			continue
		}
		snap[key] = rep
	}
	return snap, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Frame is the envelope the backend uses on the subscription channel.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// FrameTypeStatus marks a frame whose data is an agent status report.
const FrameTypeStatus = "status"

// DecodeStatusFrame reports whether raw is a status frame and, if so, returns
// the snapshot it carries. Non-status frames return ok=false and no error.
func DecodeStatusFrame(raw json.RawMessage) (model.StatusSnapshot, bool, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		// Arrays and scalars are valid frames too; they just aren't status frames.
		return nil, false, nil
	}
	if f.Type != FrameTypeStatus {
		return nil, false, nil
	}
	snap, err := DecodeStatusSnapshot(f.Data)
	if err != nil {
		return nil, true, err
	}
	return snap, true, nil
}

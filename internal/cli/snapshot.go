package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pitchside/horizon-planner/internal/planner"
)

// Snapshot is planctl's on-disk input format: everything plan_horizon
// needs, serialized as one JSON document.
type Snapshot struct {
	Squad       []planner.Player    `json:"squad"`
	Fixtures    []planner.Fixture   `json:"fixtures"`
	Formation   string              `json:"formation"`
	Locks       []planner.Lock      `json:"locks"`
	Rejections  []planner.Rejection `json:"rejections"`
	Unavailable []string            `json:"unavailable"`
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

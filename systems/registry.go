package systems

import "github.com/pthm-cable/sparks/telemetry"

// SystemInfo describes a frame phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (matches the perf phase name)
	Name        string // Display name
	Description string // What this phase does
}

// SystemRegistry holds metadata about all frame phases.
// This centralizes naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known phases in frame order.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: telemetry.PhaseEmission, Name: "Emission", Description: "Spawns particles into ring buffers"})
	r.Register(SystemInfo{ID: telemetry.PhaseFlame, Name: "Flame", Description: "Draws the fire shader quad"})
	r.Register(SystemInfo{ID: telemetry.PhaseSparks, Name: "Sparks", Description: "Draws live particle slots"})
	r.Register(SystemInfo{ID: telemetry.PhaseUI, Name: "UI", Description: "Draws the tuning panel"})
	r.Register(SystemInfo{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Description: "Flushes stats windows"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}

package model

// ManagerReport is the per-manager view of a recap.
type ManagerReport struct {
	RunID    string               `json:"run_id"`
	Summary  ManagerSeasonSummary `json:"summary"`
	Standing Standing             `json:"standing"`
	// Extremes is nil when the manager never recorded points.
	Extremes *GameweekExtremes `json:"extremes"`
	History  []DenseRecord     `json:"history"`
}

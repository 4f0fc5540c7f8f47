package entity

import "time"

// Subject represents a single individual tracked by the cohort analysis.
// Timestamps carry the subject's named datetime attributes ("created_at",
// "activated_at", ...), addressed by field name throughout the engine.
type Subject struct {
	ID         string               `json:"id"`
	Timestamps map[string]time.Time `json:"timestamps"`
}

// Timestamp retorna o atributo de data/hora nomeado, se presente.
func (s Subject) Timestamp(field string) (time.Time, bool) {
	ts, ok := s.Timestamps[field]
	return ts, ok
}

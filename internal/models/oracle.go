package models

import "time"

// Oracle is a registered external data provider. Oracles are deactivated,
// never deleted, so historical observations keep a resolvable owner.
type Oracle struct {
	ID           string         `json:"id" db:"id"`
	Operator     string         `json:"operator" db:"operator"`
	Name         string         `json:"name" db:"name"`
	Category     OracleCategory `json:"category" db:"category"`
	Active       bool           `json:"active" db:"active"`
	RegisteredAt time.Time      `json:"registered_at" db:"registered_at"`
}

// Observation is a single time-indexed measurement reported by an oracle.
// At most one observation exists per (oracle id, block index); resubmission
// at the same index overwrites.
type Observation struct {
	OracleID    string      `json:"oracle_id" db:"oracle_id"`
	BlockIndex  uint64      `json:"block_index" db:"block_index"`
	WeatherType WeatherType `json:"weather_type" db:"weather_type"`
	Location    string      `json:"location" db:"location"`
	Value       int64       `json:"value" db:"value"`
	Timestamp   time.Time   `json:"timestamp" db:"timestamp"`
}

package model

import "time"

// RegionMetrics is the operational health snapshot for one region. Records
// are overwritten wholesale on each refresh and never partially updated; a
// process restart loses them and they are recomputed lazily on next access.
type RegionMetrics struct {
	ActiveWorkers   int       `json:"activeWorkers"`
	TotalCapacity   int       `json:"totalCapacity"`
	CurrentLoad     int       `json:"currentLoad"`
	AvgResponseTime float64   `json:"avgResponseTime"`
	ErrorRate       float64   `json:"errorRate"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// QueueStats is the per-queue job-count aggregate pulled from the queue
// subsystem. The queue name encodes "{prefix}:{platform}:{region}".
type QueueStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

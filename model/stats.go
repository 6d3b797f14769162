package model

// AssignmentStats aggregates account counts per region and platform for the
// observability endpoint, alongside the live region metrics snapshot.
type AssignmentStats struct {
	ByRegion      map[string]int            `json:"byRegion"`
	ByPlatform    map[string]map[string]int `json:"byPlatform"`
	Unassigned    int                       `json:"unassigned"`
	TotalAccounts int                       `json:"totalAccounts"`
	RegionMetrics map[string]RegionMetrics  `json:"regionMetrics"`
}

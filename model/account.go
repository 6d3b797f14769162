package model

import "time"

// Metadata keys under which a region assignment is stored on an account.
// The assignment is embedded in the account's metadata bag rather than a
// dedicated table, so reassigning a region overwrites the previous one in
// place and no history is retained.
const (
	MetaAssignedRegion   = "assignedRegion"
	MetaAssignmentReason = "assignmentReason"
	MetaAssignedAt       = "assignedAt"
)

// SocialAccount represents a social-media account whose automation jobs are
// routed to a worker region. The account record is owned by the account
// store; this service reads it and rewrites only the assignment sub-fields
// of its metadata.
type SocialAccount struct {
	AccountID string                 `json:"account_id"`
	Name      string                 `json:"name"`
	Platform  string                 `json:"platform"`
	CreatedAt time.Time              `json:"created_at"`
	MetaData  map[string]interface{} `json:"meta_data"`
}

// AssignedRegion returns the region stored in the account's metadata, or ""
// when the account has no assignment.
func (a *SocialAccount) AssignedRegion() string {
	if a.MetaData == nil {
		return ""
	}
	region, _ := a.MetaData[MetaAssignedRegion].(string)
	return region
}

// Assignment is the read view of an account's current region assignment.
type Assignment struct {
	AccountID      string `json:"accountId"`
	AccountName    string `json:"accountName"`
	Platform       string `json:"platform"`
	AssignedRegion string `json:"assignedRegion"`
	Reason         string `json:"reason"`
	AssignedAt     string `json:"assignedAt,omitempty"`
}

// AssignmentResult is what the placement strategy returns: the chosen region,
// a human-readable justification, and the runner-up candidates.
type AssignmentResult struct {
	Region       string   `json:"region"`
	Reason       string   `json:"reason"`
	Alternatives []string `json:"alternatives"`
}

// AssignmentOptions tunes a single placement decision.
type AssignmentOptions struct {
	// ForceRegion short-circuits all heuristics. The value is not validated
	// against the platform catalog; callers own that check.
	ForceRegion string `json:"forceRegion,omitempty"`
	// ConsiderLoad re-evaluates an existing assignment against current
	// queue load. When false an existing assignment is kept verbatim.
	ConsiderLoad bool `json:"considerLoad,omitempty"`
	// PreferredRegions, when set, is intersected with the platform's
	// candidate regions before ranking.
	PreferredRegions []string `json:"preferredRegions,omitempty"`
}

// Reassignment records one account the rebalancer moved (or would move).
type Reassignment struct {
	AccountID string `json:"accountId"`
	OldRegion string `json:"oldRegion"`
	NewRegion string `json:"newRegion"`
	Reason    string `json:"reason"`
}

// RebalanceResult summarizes one rebalance pass.
type RebalanceResult struct {
	TotalAccounts int            `json:"totalAccounts"`
	Reassignments []Reassignment `json:"reassignments"`
	DryRun        bool           `json:"dryRun"`
}

// AutomationJob is the payload enqueued to a region's job queue. Jobs are
// sharded to "{prefix}:{platform}:{region}" using the account's assigned
// region so all of an account's work lands on the same worker pool.
type AutomationJob struct {
	JobID        string                 `json:"job_id"`
	AccountID    string                 `json:"account_id"`
	Platform     string                 `json:"platform"`
	Action       string                 `json:"action"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	ScheduledFor time.Time              `json:"scheduled_for,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

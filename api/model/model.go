/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/chihoangvnn/regiond/model"
	"github.com/chihoangvnn/regiond/regions"
)

// BulkAssignLimit caps the number of accounts a single bulk-assign request
// may carry. Requests above the cap are rejected before any assignment runs.
const BulkAssignLimit = 100

type AssignRegion struct {
	AccountID        string   `json:"accountId"`
	ForceRegion      string   `json:"forceRegion"`
	ConsiderLoad     bool     `json:"considerLoad"`
	PreferredRegions []string `json:"preferredRegions"`
}

type BulkAssignRegions struct {
	AccountIDs []string          `json:"accountIds"`
	Options    *AssignRegionOpts `json:"options"`
}

// AssignRegionOpts is the option subset shared by every account of a bulk
// request. It mirrors AssignRegion minus the account id.
type AssignRegionOpts struct {
	ForceRegion      string   `json:"forceRegion"`
	ConsiderLoad     bool     `json:"considerLoad"`
	PreferredRegions []string `json:"preferredRegions"`
}

type RebalanceRegions struct {
	Platform string `json:"platform"`
	DryRun   *bool  `json:"dryRun"`
}

type CreateJob struct {
	AccountID    string                 `json:"account_id"`
	Action       string                 `json:"action"`
	Payload      map[string]interface{} `json:"payload"`
	ScheduledFor string                 `json:"scheduled_for"`
}

type CreateAccount struct {
	Name     string                 `json:"name"`
	Platform string                 `json:"platform"`
	MetaData map[string]interface{} `json:"meta_data"`
}

func regionValidation(value interface{}) error {
	region, ok := value.(string)
	if !ok {
		return errors.New("invalid type for region")
	}
	if region == "" {
		return nil
	}
	if !regions.IsSupported(region) {
		return errors.New("unknown region")
	}
	return nil
}

func (a *AssignRegion) ValidateAssignRegion() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.AccountID, validation.Required),
		validation.Field(&a.PreferredRegions, validation.Each(validation.By(regionValidation))),
	)
}

func (b *BulkAssignRegions) ValidateBulkAssignRegions() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.AccountIDs, validation.Required),
	)
}

func (r *RebalanceRegions) ValidateRebalanceRegions() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Platform, validation.When(r.Platform != "", validation.In(toInterfaces(regions.Platforms)...))),
	)
}

func (j *CreateJob) ValidateCreateJob() error {
	return validation.ValidateStruct(j,
		validation.Field(&j.AccountID, validation.Required),
		validation.Field(&j.Action, validation.Required),
		validation.Field(&j.ScheduledFor, validation.When(j.ScheduledFor != "", validation.By(func(value interface{}) error {
			dateStr, ok := value.(string)
			if !ok {
				return errors.New("invalid type for scheduled date")
			}
			if _, err := time.Parse(time.RFC3339, dateStr); err != nil {
				return errors.New("please format the scheduled date as 'YYYY-MM-DDTHH:MM:SS+00:00' (e.g., 2024-04-22T15:28:03+00:00)")
			}
			return nil
		})),
		),
	)
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Platform, validation.Required, validation.In(toInterfaces(regions.Platforms)...)),
	)
}

// ToOptions converts an assign request into placement options.
func (a *AssignRegion) ToOptions() model.AssignmentOptions {
	return model.AssignmentOptions{
		ForceRegion:      a.ForceRegion,
		ConsiderLoad:     a.ConsiderLoad,
		PreferredRegions: a.PreferredRegions,
	}
}

// ToOptions converts shared bulk options into placement options. A nil
// receiver yields the zero options.
func (o *AssignRegionOpts) ToOptions() model.AssignmentOptions {
	if o == nil {
		return model.AssignmentOptions{}
	}
	return model.AssignmentOptions{
		ForceRegion:      o.ForceRegion,
		ConsiderLoad:     o.ConsiderLoad,
		PreferredRegions: o.PreferredRegions,
	}
}

// ToAutomationJob converts a job request into the queue payload. ScheduledFor
// has already been validated as RFC3339.
func (j *CreateJob) ToAutomationJob() *model.AutomationJob {
	job := &model.AutomationJob{
		AccountID: j.AccountID,
		Action:    j.Action,
		Payload:   j.Payload,
	}
	if j.ScheduledFor != "" {
		if t, err := time.Parse(time.RFC3339, j.ScheduledFor); err == nil {
			job.ScheduledFor = t
		}
	}
	return job
}

// ToSocialAccount converts a create-account request into the storage model.
func (a *CreateAccount) ToSocialAccount() model.SocialAccount {
	return model.SocialAccount{
		Name:     a.Name,
		Platform: a.Platform,
		MetaData: a.MetaData,
	}
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

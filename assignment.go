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

package regiond

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/chihoangvnn/regiond/internal/apierror"
	"github.com/chihoangvnn/regiond/internal/notification"
	"github.com/chihoangvnn/regiond/model"
	"github.com/chihoangvnn/regiond/regions"
)

var tracer = otel.Tracer("regiond.assignment")

const assignmentCacheTTL = 5 * time.Minute

// maxQualifyingErrorRate gates the performance stage: a region with a higher
// error rate never wins on latency alone.
const maxQualifyingErrorRate = 0.05

func assignmentCacheKey(accountID string) string {
	return fmt.Sprintf("assignment:%s", accountID)
}

// AssignOptimalRegion decides which worker region should own an account's
// automation jobs. Heuristics apply in fixed precedence: the first candidate
// is the default, geographic affinity overrides it, queue load overrides that
// when ConsiderLoad is set, and a region with both the lowest response time
// and a healthy error rate overrides everything. A failure in any one stage
// falls back to the last successful stage's choice.
//
// The chosen assignment is persisted into the account's metadata before
// returning, except for forced and sticky results which echo back what the
// caller or a previous decision already established.
func (r *Regiond) AssignOptimalRegion(ctx context.Context, account *model.SocialAccount, opts model.AssignmentOptions) (*model.AssignmentResult, error) {
	ctx, span := tracer.Start(ctx, "AssignOptimalRegion")
	defer span.End()

	// Force region if specified. Not validated against the platform catalog;
	// callers own that check.
	if opts.ForceRegion != "" {
		return &model.AssignmentResult{
			Region:       opts.ForceRegion,
			Reason:       "Force assigned by configuration",
			Alternatives: []string{},
		}, nil
	}

	// Sticky placement: an existing assignment is kept verbatim unless the
	// caller asked for a load re-evaluation.
	existingRegion, err := r.GetAccountRegion(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}
	if existingRegion != "" && !opts.ConsiderLoad {
		return &model.AssignmentResult{
			Region:       existingRegion,
			Reason:       "Existing assignment maintained",
			Alternatives: []string{},
		}, nil
	}

	result, err := r.planPlacement(ctx, account, opts, true)
	if err != nil {
		return nil, err
	}

	if err := r.StoreAccountRegion(ctx, account.AccountID, result.Region, result.Reason); err != nil {
		logrus.Errorf("failed to persist region assignment for account %s: %v", account.AccountID, err)
		notification.NotifyError(err)
		return nil, err
	}

	return result, nil
}

// planPlacement runs the heuristic stages without persisting anything. The
// rebalancer relies on that purity for dry runs and passes refresh=false so
// all accounts in one pass see the same metrics snapshot.
func (r *Regiond) planPlacement(ctx context.Context, account *model.SocialAccount, opts model.AssignmentOptions, refresh bool) (*model.AssignmentResult, error) {
	candidates := candidateRegions(account.Platform, opts.PreferredRegions)
	if len(candidates) == 0 {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "No candidate regions match the preferred regions filter", nil)
	}

	optimalRegion := candidates[0]
	reason := "Default platform region"

	// Geographic affinity from account metadata.
	if geoRegion := resolveGeoRegion(account); geoRegion != "" && containsRegion(candidates, geoRegion) {
		optimalRegion = geoRegion
		reason = "Geographic optimization"
	}

	if refresh {
		if err := r.metrics.Refresh(ctx); err != nil {
			logrus.Warnf("placement degraded to stale metrics for account %s: %v", account.AccountID, err)
		}
	}

	if opts.ConsiderLoad {
		loadRegion, load := r.lowestLoadRegion(candidates)
		optimalRegion = loadRegion
		reason = fmt.Sprintf("Load balancing (%d%% load)", load)
	}

	// The performance stage runs regardless of ConsiderLoad and overrides
	// the earlier stages whenever some candidate clears the error-rate bar.
	if perfRegion, responseTime, ok := r.performanceRegion(candidates); ok {
		optimalRegion = perfRegion
		reason = fmt.Sprintf("Performance optimization (%.0fms avg)", responseTime)
	}

	alternatives := make([]string, 0, len(candidates)-1)
	for _, candidate := range candidates {
		if candidate != optimalRegion {
			alternatives = append(alternatives, candidate)
		}
	}

	return &model.AssignmentResult{
		Region:       optimalRegion,
		Reason:       reason,
		Alternatives: alternatives,
	}, nil
}

// candidateRegions returns the platform's allowed regions, intersected with
// the preferred allow-list when one is given. Order is preserved from the
// platform catalog so tie-breaks stay deterministic.
func candidateRegions(platform string, preferred []string) []string {
	platformRegions := regions.ForPlatform(platform)
	if len(preferred) == 0 {
		return platformRegions
	}

	candidates := make([]string, 0, len(platformRegions))
	for _, region := range platformRegions {
		if containsRegion(preferred, region) {
			candidates = append(candidates, region)
		}
	}
	return candidates
}

func containsRegion(list []string, region string) bool {
	for _, r := range list {
		if r == region {
			return true
		}
	}
	return false
}

// resolveGeoRegion infers a region from the account's metadata, in order of
// reliability: an explicit country code, a timezone, then a Facebook locale
// of the form "vi_VN".
func resolveGeoRegion(account *model.SocialAccount) string {
	if account.MetaData == nil {
		return ""
	}

	if country, ok := account.MetaData["country"].(string); ok {
		if region, found := regions.CountryRegions[country]; found {
			return region
		}
	}

	if timezone, ok := account.MetaData["timezone"].(string); ok {
		if region, found := regions.TimezoneRegions[timezone]; found {
			return region
		}
	}

	if account.Platform == "facebook" {
		if locale, ok := account.MetaData["locale"].(string); ok {
			parts := strings.Split(locale, "_")
			if len(parts) == 2 {
				if region, found := regions.CountryRegions[parts[1]]; found {
					return region
				}
			}
		}
	}

	return ""
}

// lowestLoadRegion scans candidates in order and keeps the first strictly
// lower load figure, so ties keep the earlier-listed region. Candidates
// without metrics are skipped; with no metrics at all the first candidate
// wins at the 100% sentinel.
func (r *Regiond) lowestLoadRegion(candidates []string) (string, int) {
	bestRegion := candidates[0]
	lowestLoad := 100

	for _, region := range candidates {
		if metrics, ok := r.metrics.Get(region); ok && metrics.CurrentLoad < lowestLoad {
			lowestLoad = metrics.CurrentLoad
			bestRegion = region
		}
	}
	return bestRegion, lowestLoad
}

// performanceRegion picks the candidate with the lowest response time among
// those whose error rate is below the qualifying threshold. ok is false when
// no candidate qualifies, in which case the caller's prior choice stands.
func (r *Regiond) performanceRegion(candidates []string) (string, float64, bool) {
	bestRegion := ""
	lowestResponseTime := 10000.0
	qualified := false

	for _, region := range candidates {
		metrics, ok := r.metrics.Get(region)
		if !ok {
			continue
		}
		if metrics.AvgResponseTime < lowestResponseTime && metrics.ErrorRate < maxQualifyingErrorRate {
			lowestResponseTime = metrics.AvgResponseTime
			bestRegion = region
			qualified = true
		}
	}
	return bestRegion, lowestResponseTime, qualified
}

// GetAccountRegion reads the region currently assigned to an account, or ""
// when the account has no assignment.
func (r *Regiond) GetAccountRegion(ctx context.Context, accountID string) (string, error) {
	assignment, err := r.GetAssignment(ctx, accountID)
	if err != nil {
		return "", err
	}
	if assignment == nil {
		return "", nil
	}
	return assignment.AssignedRegion, nil
}

// GetAssignment returns the read view of an account's current assignment,
// or nil when the account has none. Results are cached briefly since the
// admin UI polls this endpoint.
func (r *Regiond) GetAssignment(ctx context.Context, accountID string) (*model.Assignment, error) {
	var cached model.Assignment
	if err := r.cache.Get(ctx, assignmentCacheKey(accountID), &cached); err == nil && cached.AccountID != "" {
		return &cached, nil
	}

	account, err := r.datasource.GetSocialAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	region := account.AssignedRegion()
	if region == "" {
		return nil, nil
	}

	reason, _ := account.MetaData[model.MetaAssignmentReason].(string)
	assignedAt, _ := account.MetaData[model.MetaAssignedAt].(string)
	assignment := &model.Assignment{
		AccountID:      account.AccountID,
		AccountName:    account.Name,
		Platform:       account.Platform,
		AssignedRegion: region,
		Reason:         reason,
		AssignedAt:     assignedAt,
	}

	if err := r.cache.Set(ctx, assignmentCacheKey(accountID), assignment, assignmentCacheTTL); err != nil {
		logrus.Warnf("failed to cache assignment for account %s: %v", accountID, err)
	}
	return assignment, nil
}

// StoreAccountRegion merges the assignment sub-fields into the account's
// metadata, preserving unrelated keys, and writes the whole object back.
// This is a read-modify-write with no optimistic-concurrency check.
func (r *Regiond) StoreAccountRegion(ctx context.Context, accountID, region, reason string) error {
	account, err := r.datasource.GetSocialAccount(ctx, accountID)
	if err != nil {
		return err
	}

	metadata := make(map[string]interface{}, len(account.MetaData)+3)
	for key, value := range account.MetaData {
		metadata[key] = value
	}
	metadata[model.MetaAssignedRegion] = region
	metadata[model.MetaAssignmentReason] = reason
	metadata[model.MetaAssignedAt] = time.Now().Format(time.RFC3339)

	if err := r.datasource.UpdateSocialAccountMetadata(ctx, accountID, metadata); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, assignmentCacheKey(accountID)); err != nil {
		logrus.Warnf("failed to invalidate assignment cache for account %s: %v", accountID, err)
	}

	logrus.Infof("assigned account %s to region %s: %s", accountID, region, reason)
	return nil
}

// RemoveAccountRegion strips the assignment sub-fields from an account's
// metadata and returns the assignment that was removed, or nil if the
// account had none.
func (r *Regiond) RemoveAccountRegion(ctx context.Context, accountID string) (*model.Assignment, error) {
	account, err := r.datasource.GetSocialAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	region := account.AssignedRegion()
	reason, _ := account.MetaData[model.MetaAssignmentReason].(string)
	assignedAt, _ := account.MetaData[model.MetaAssignedAt].(string)

	metadata := make(map[string]interface{}, len(account.MetaData))
	for key, value := range account.MetaData {
		metadata[key] = value
	}
	delete(metadata, model.MetaAssignedRegion)
	delete(metadata, model.MetaAssignmentReason)
	delete(metadata, model.MetaAssignedAt)

	if err := r.datasource.UpdateSocialAccountMetadata(ctx, accountID, metadata); err != nil {
		return nil, err
	}

	if err := r.cache.Delete(ctx, assignmentCacheKey(accountID)); err != nil {
		logrus.Warnf("failed to invalidate assignment cache for account %s: %v", accountID, err)
	}

	if region == "" {
		return nil, nil
	}
	return &model.Assignment{
		AccountID:      account.AccountID,
		AccountName:    account.Name,
		Platform:       account.Platform,
		AssignedRegion: region,
		Reason:         reason,
		AssignedAt:     assignedAt,
	}, nil
}

// GetSocialAccount retrieves a social account from the database by ID.
func (r *Regiond) GetSocialAccount(ctx context.Context, id string) (*model.SocialAccount, error) {
	return r.datasource.GetSocialAccount(ctx, id)
}

// CreateSocialAccount creates a new social account in the database.
func (r *Regiond) CreateSocialAccount(ctx context.Context, account model.SocialAccount) (model.SocialAccount, error) {
	return r.datasource.CreateSocialAccount(ctx, account)
}

// GetAllSocialAccounts retrieves social accounts with pagination, optionally
// filtered by platform.
func (r *Regiond) GetAllSocialAccounts(ctx context.Context, platform string, limit, offset int) ([]model.SocialAccount, error) {
	return r.datasource.GetAllSocialAccounts(ctx, platform, limit, offset)
}

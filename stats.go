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

	"github.com/sirupsen/logrus"

	"github.com/chihoangvnn/regiond/model"
)

// GetAssignmentStats aggregates how accounts are distributed across regions
// and platforms, plus the count of accounts with no assignment at all. One
// metrics refresh runs as part of the call so the returned snapshot is
// current. Pure read; a listing failure yields a zero-valued result rather
// than an error.
func (r *Regiond) GetAssignmentStats(ctx context.Context) (*model.AssignmentStats, error) {
	ctx, span := tracer.Start(ctx, "GetAssignmentStats")
	defer span.End()

	stats := &model.AssignmentStats{
		ByRegion:      map[string]int{},
		ByPlatform:    map[string]map[string]int{},
		RegionMetrics: map[string]model.RegionMetrics{},
	}

	accounts, err := r.datasource.GetAllSocialAccounts(ctx, "", rebalanceAccountBatch, 0)
	if err != nil {
		logrus.Errorf("assignment stats degraded, could not list accounts: %v", err)
		return stats, nil
	}

	for i := range accounts {
		region := accounts[i].AssignedRegion()
		if region == "" {
			stats.Unassigned++
			continue
		}
		stats.ByRegion[region]++

		platform := accounts[i].Platform
		if stats.ByPlatform[platform] == nil {
			stats.ByPlatform[platform] = map[string]int{}
		}
		stats.ByPlatform[platform][region]++
	}
	stats.TotalAccounts = len(accounts)

	if err := r.metrics.Refresh(ctx); err != nil {
		logrus.Warnf("assignment stats using stale metrics: %v", err)
	}
	stats.RegionMetrics = r.metrics.Snapshot()

	return stats, nil
}

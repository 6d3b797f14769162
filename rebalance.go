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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chihoangvnn/regiond/config"
	"github.com/chihoangvnn/regiond/internal/apierror"
	redlock "github.com/chihoangvnn/regiond/internal/lock"
	"github.com/chihoangvnn/regiond/internal/notification"
	"github.com/chihoangvnn/regiond/model"
)

const rebalanceLockKey = "rebalance-lock"

// rebalanceAccountBatch bounds how many accounts one listing call pulls.
const rebalanceAccountBatch = 1000

// RebalanceAssignments re-evaluates every assigned account whose region load
// exceeds the configured threshold and moves it to a better region. Metrics
// are refreshed once up front, so all accounts in one pass are judged against
// the same snapshot. With dryRun true the pass only reports what it would
// move and writes nothing.
//
// A Redis lock guards the pass so two rebalances cannot race each other's
// read-modify-write on account metadata.
func (r *Regiond) RebalanceAssignments(ctx context.Context, platform string, dryRun bool) (*model.RebalanceResult, error) {
	ctx, span := tracer.Start(ctx, "RebalanceAssignments")
	defer span.End()

	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	threshold := *cfg.Queue.RebalanceThreshold

	locker := redlock.NewLocker(r.redis, rebalanceLockKey, model.GenerateUUIDWithSuffix("loc"))
	if err := locker.Lock(ctx, 5*time.Minute); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Another rebalance pass is already running", err)
	}
	defer func(locker *redlock.Locker, ctx context.Context) {
		if err := locker.Unlock(ctx); err != nil {
			logrus.Errorf("failed to release rebalance lock: %v", err)
		}
	}(locker, ctx)

	logrus.Infof("starting account rebalancing (dryRun=%t, threshold=%d%%)", dryRun, threshold)

	accounts, err := r.datasource.GetAllSocialAccounts(ctx, platform, rebalanceAccountBatch, 0)
	if err != nil {
		logrus.Errorf("rebalance aborted, could not list accounts: %v", err)
		notification.NotifyError(err)
		return &model.RebalanceResult{TotalAccounts: 0, Reassignments: []model.Reassignment{}, DryRun: dryRun}, nil
	}

	if err := r.metrics.Refresh(ctx); err != nil {
		logrus.Warnf("rebalance using stale metrics: %v", err)
	}

	reassignments := []model.Reassignment{}
	for i := range accounts {
		account := accounts[i]
		currentRegion := account.AssignedRegion()
		if currentRegion == "" {
			continue
		}

		currentMetrics, ok := r.metrics.Get(currentRegion)
		if !ok || currentMetrics.CurrentLoad <= threshold {
			continue
		}

		assignment, err := r.planPlacement(ctx, &account, model.AssignmentOptions{ConsiderLoad: true}, false)
		if err != nil {
			logrus.Errorf("rebalance skipping account %s: %v", account.AccountID, err)
			continue
		}
		if assignment.Region == currentRegion {
			continue
		}

		reassignment := model.Reassignment{
			AccountID: account.AccountID,
			OldRegion: currentRegion,
			NewRegion: assignment.Region,
			Reason:    fmt.Sprintf("Load rebalancing: %d%% → %s", currentMetrics.CurrentLoad, assignment.Reason),
		}
		reassignments = append(reassignments, reassignment)

		if !dryRun {
			if err := r.StoreAccountRegion(ctx, account.AccountID, assignment.Region, assignment.Reason); err != nil {
				logrus.Errorf("rebalance failed to persist reassignment for account %s: %v", account.AccountID, err)
				notification.NotifyError(err)
			}
		}
	}

	logrus.Infof("rebalancing complete: %d reassignments identified", len(reassignments))

	return &model.RebalanceResult{
		TotalAccounts: len(accounts),
		Reassignments: reassignments,
		DryRun:        dryRun,
	}, nil
}

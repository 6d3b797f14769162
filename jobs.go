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
	"time"

	"github.com/chihoangvnn/regiond/model"
)

// EnqueueJob routes an automation job to the queue of the account's assigned
// region and returns that region. An account without an assignment gets one
// on the spot through the normal placement path, so every job always lands
// in a region queue.
func (r *Regiond) EnqueueJob(ctx context.Context, job *model.AutomationJob) (string, error) {
	ctx, span := tracer.Start(ctx, "EnqueueJob")
	defer span.End()

	account, err := r.datasource.GetSocialAccount(ctx, job.AccountID)
	if err != nil {
		return "", err
	}

	job.Platform = account.Platform
	region := account.AssignedRegion()
	if region == "" {
		result, err := r.AssignOptimalRegion(ctx, account, model.AssignmentOptions{})
		if err != nil {
			return "", err
		}
		region = result.Region
	}

	if job.JobID == "" {
		job.JobID = model.GenerateUUIDWithSuffix("job")
	}
	job.CreatedAt = time.Now()

	if err := r.queue.Enqueue(ctx, job, region); err != nil {
		return "", err
	}
	return region, nil
}

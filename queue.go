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
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chihoangvnn/regiond/config"
	redis_db "github.com/chihoangvnn/regiond/internal/redis-db"

	"github.com/chihoangvnn/regiond/model"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

// Queue represents the automation job queues, sharded per platform and
// region. The Inspector side is what feeds the region metrics store.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// NewQueue initializes a new Queue instance with the provided configuration.
//
// Parameters:
// - conf *config.Configuration: The configuration for the queue.
//
// Returns:
// - *Queue: A pointer to the newly created Queue instance.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// QueueName builds the queue name for a platform/region pair. All of an
// account's jobs land in its assigned region's queue, so the per-queue job
// counts double as per-region load figures.
func QueueName(prefix, platform, region string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, platform, region)
}

// ParseQueueName splits a queue name back into its platform and region
// segments. Queues that do not follow the "{prefix}:{platform}:{region}"
// form report ok=false and are skipped by the metrics refresh.
func ParseQueueName(name string) (platform, region string, ok bool) {
	parts := strings.Split(name, ":")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// Enqueue enqueues an automation job to the queue of the given region.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - job *model.AutomationJob: The job to be enqueued.
// - region string: The worker region that owns the job.
//
// Returns:
// - error: An error if the job could not be enqueued.
func (q *Queue) Enqueue(ctx context.Context, job *model.AutomationJob, region string) error {
	ctx, span := tracer.Start(ctx, "Adding Job To Region Queue")
	defer span.End()

	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	queueName := QueueName(cfg.Queue.Prefix, job.Platform, region)
	taskOptions := []asynq.Option{asynq.TaskID(job.JobID), asynq.Queue(queueName), asynq.MaxRetry(5)}
	if !job.ScheduledFor.IsZero() {
		taskOptions = append(taskOptions, asynq.ProcessIn(time.Until(job.ScheduledFor)))
	}

	task := asynq.NewTask(queueName, payload, taskOptions...)
	info, err := q.Client.EnqueueContext(ctx, task)
	if err != nil {
		log.Println(err, info)
		return errors.Wrapf(err, "failed to enqueue job %s to %s", job.JobID, queueName)
	}
	log.Printf(" [*] Successfully enqueued job: %+v to %s", job.JobID, queueName)

	return nil
}

// GetQueueStats pulls the per-queue job counts for every region queue known
// to the broker. The result is keyed by full queue name so callers can
// regroup by platform or region as needed.
//
// Returns:
// - map[string]model.QueueStats: Job counts per queue.
// - error: An error if the queue listing could not be retrieved.
func (q *Queue) GetQueueStats() (map[string]model.QueueStats, error) {
	queues, err := q.Inspector.Queues()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list queues")
	}

	stats := make(map[string]model.QueueStats)
	for _, queueName := range queues {
		if _, _, ok := ParseQueueName(queueName); !ok {
			continue
		}
		info, err := q.Inspector.GetQueueInfo(queueName)
		if err != nil {
			log.Printf("Error fetching queue info for %s: %v", queueName, err)
			continue
		}

		// Processed counts both outcomes, so successes are processed minus failed.
		completed := info.Processed - info.Failed
		if completed < 0 {
			completed = 0
		}
		stats[queueName] = model.QueueStats{
			Total:     info.Size,
			Active:    info.Active,
			Completed: completed,
			Failed:    info.Failed,
		}
	}
	return stats, nil
}

// GetJobFromQueue retrieves a pending job from a region queue by its ID.
//
// Parameters:
// - platform string: The platform segment of the queue name.
// - region string: The region segment of the queue name.
// - jobID string: The ID of the job to retrieve.
//
// Returns:
// - *model.AutomationJob: A pointer to the job if found.
// - error: An error if the job payload could not be decoded.
func (q *Queue) GetJobFromQueue(platform, region, jobID string) (*model.AutomationJob, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	queueName := QueueName(cfg.Queue.Prefix, platform, region)
	task, err := q.Inspector.GetTaskInfo(queueName, jobID)
	if err != nil || task == nil {
		return nil, nil // Return nil if job is not found in the queue
	}

	var job model.AutomationJob
	if err := json.Unmarshal(task.Payload, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

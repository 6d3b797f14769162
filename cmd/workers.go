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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.elastic.co/apm/module/apmlogrus/v2"
	"go.opentelemetry.io/otel"

	"github.com/chihoangvnn/regiond"
	"github.com/chihoangvnn/regiond/config"
	redis_db "github.com/chihoangvnn/regiond/internal/redis-db"
	"github.com/chihoangvnn/regiond/model"
	"github.com/chihoangvnn/regiond/regions"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
)

func init() {
	logrus.AddHook(&apmlogrus.Hook{})
}

// processAutomationJob consumes one automation job from a region queue.
// The heavy lifting happens in the platform automation layer; this worker
// validates the payload and records the handoff so failures retry.
func (b *regiondInstance) processAutomationJob(ctx context.Context, t *asynq.Task) error {
	ctx, span := otel.Tracer("regiond.jobs.worker").Start(ctx, "Process Job From Region Queue")
	defer span.End()

	var job model.AutomationJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		logrus.Error(err)
		return err
	}

	account, err := b.regiond.GetSocialAccount(ctx, job.AccountID)
	if err != nil {
		logrus.Infof("Job %s pushed back for retry, account lookup failed: %v", job.JobID, err)
		return err
	}
	if account.Platform != job.Platform {
		// Account moved platforms since the job was queued; drop it.
		logrus.Warnf("Dropping job %s: platform mismatch (%s vs %s)", job.JobID, job.Platform, account.Platform)
		return nil
	}

	log.Println(" [*] Job Processed", job.JobID, job.Action)
	return nil
}

// initializeQueues lists every region queue a worker should drain, with equal
// priority across the board. Queue names follow "{prefix}:{platform}:{region}".
func initializeQueues() map[string]int {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return nil
	}

	queues := make(map[string]int)
	for _, platform := range regions.Platforms {
		for _, region := range regions.ForPlatform(platform) {
			queues[regiond.QueueName(cfg.Queue.Prefix, platform, region)] = 1
		}
	}
	return queues
}

func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:      redisOption.Addr,
			Password:  redisOption.Password,
			DB:        redisOption.DB,
			TLSConfig: redisOption.TLSConfig,
		},
		asynq.Config{
			Concurrency: conf.Queue.WorkerConcurrency,
			Queues:      queues,
		},
	), nil
}

func initializeTaskHandlers(b *regiondInstance, mux *asynq.ServeMux) {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return
	}

	for _, platform := range regions.Platforms {
		for _, region := range regions.ForPlatform(platform) {
			mux.HandleFunc(regiond.QueueName(cfg.Queue.Prefix, platform, region), b.processAutomationJob)
		}
	}
}

// workerCommands defines the "workers" command to start worker processes that
// drain the per-region automation job queues.
func workerCommands(b *regiondInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start regiond workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			conf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			phClient, shutdown, err := initializeObservability(ctx, conf)
			if err != nil {
				log.Fatal(err)
			}
			if shutdown != nil {
				defer func() {
					if err := shutdown(ctx); err != nil {
						log.Printf("Error during shutdown: %v", err)
					}
				}()
			}
			if phClient != nil {
				defer phClient.Close()
			}

			queues := initializeQueues()

			srv, err := initializeWorkerServer(conf, queues)
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(b, mux)

			// Start asynqmon server for health checks and monitoring
			redisOption, _ := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
			h := asynqmon.New(asynqmon.Options{
				RootPath: "/monitoring",
				RedisConnOpt: asynq.RedisClientOpt{
					Addr:      redisOption.Addr,
					Password:  redisOption.Password,
					DB:        redisOption.DB,
					TLSConfig: redisOption.TLSConfig,
				},
			})

			go func() {
				monitoringAddr := fmt.Sprintf(":%s", conf.Queue.MonitoringPort)
				log.Printf("Asynqmon server listening on %s/monitoring", monitoringAddr)
				if err := http.ListenAndServe(monitoringAddr, h); err != nil {
					log.Fatalf("could not start asynqmon server: %v", err)
				}
			}()

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run server: %v", err)
			}
		},
	}

	return cmd
}

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
	"embed"
	"fmt"

	"github.com/chihoangvnn/regiond/config"
	"github.com/chihoangvnn/regiond/database"
	"github.com/chihoangvnn/regiond/internal/cache"
	redis_db "github.com/chihoangvnn/regiond/internal/redis-db"
	"github.com/redis/go-redis/v9"
)

// Regiond represents the main struct for the region assignment service.
type Regiond struct {
	queue      *Queue
	metrics    *MetricsStore
	cache      cache.Cache
	redis      redis.UniversalClient
	datasource database.IDataSource
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewRegiond initializes a new instance of Regiond with the provided database
// datasource. It fetches the configuration and initializes the Redis client,
// job queue, and region metrics store.
//
// Parameters:
// - db database.IDataSource: The datasource for database operations.
//
// Returns:
// - *Regiond: A pointer to the newly created Regiond instance.
// - error: An error if any of the initialization steps fail.
func NewRegiond(db database.IDataSource) (*Regiond, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)}, configuration.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}
	newCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)
	metrics := NewMetricsStore(newQueue)

	newRegiond := &Regiond{datasource: db, queue: newQueue, metrics: metrics, cache: newCache, redis: redisClient.Client()}
	return newRegiond, nil
}

// Queue exposes the underlying job queue, used by the API layer to enqueue
// automation jobs and by the worker command for monitoring.
func (r *Regiond) Queue() *Queue {
	return r.queue
}

// Metrics exposes the region metrics store.
func (r *Regiond) Metrics() *MetricsStore {
	return r.metrics
}

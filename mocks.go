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
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chihoangvnn/regiond/database"
	"github.com/chihoangvnn/regiond/internal/cache"
	"github.com/chihoangvnn/regiond/model"
)

// MockStatsSource serves canned queue statistics in place of a live broker.
type MockStatsSource struct {
	Stats map[string]model.QueueStats
	Err   error
}

func (m *MockStatsSource) GetQueueStats() (map[string]model.QueueStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Stats, nil
}

// MemoryCache is an in-process cache.Cache for tests.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string][]byte)}
}

func (c *MemoryCache) Set(_ context.Context, key string, data interface{}, _ time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

// Get mirrors the Cache contract: a miss leaves data untouched and returns nil.
func (c *MemoryCache) Get(_ context.Context, key string, data interface{}) error {
	c.mu.Lock()
	raw, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, data)
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// NewTestRegiond wires a Regiond from externally constructed collaborators,
// bypassing config and broker setup.
func NewTestRegiond(ds database.IDataSource, stats QueueStatsSource, c cache.Cache, redisClient redis.UniversalClient) *Regiond {
	return &Regiond{
		datasource: ds,
		metrics:    NewMetricsStore(stats),
		cache:      c,
		redis:      redisClient,
	}
}

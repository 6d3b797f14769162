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
	"math"
	"math/rand"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/chihoangvnn/regiond/model"
)

// jobsPerWorker is the heuristic used to estimate worker headcount from the
// number of active jobs in a region.
const jobsPerWorker = 5

// QueueStatsSource provides per-queue job counts keyed by queue name. It is
// satisfied by *Queue.
type QueueStatsSource interface {
	GetQueueStats() (map[string]model.QueueStats, error)
}

// MetricsStore caches per-region load and performance statistics derived
// from the job queues. Records are recomputed wholesale on each refresh; a
// failed refresh keeps the previous (possibly stale) values so placement
// decisions degrade gracefully instead of failing.
//
// The store is owned by the service instance, not shared process-wide.
// Multiple replicas each hold their own view, which is acceptable for a
// best-effort balancing heuristic.
type MetricsStore struct {
	source QueueStatsSource

	mu      sync.RWMutex
	metrics map[string]model.RegionMetrics
}

// NewMetricsStore creates a metrics store backed by the given stats source.
func NewMetricsStore(source QueueStatsSource) *MetricsStore {
	return &MetricsStore{
		source:  source,
		metrics: make(map[string]model.RegionMetrics),
	}
}

// Refresh recomputes the metrics of every region from the current queue
// statistics. Counts from all platform queues sharing a region are summed,
// so a region's load reflects its entire worker pool. The stats fetch is
// retried with exponential backoff before giving up.
func (m *MetricsStore) Refresh(ctx context.Context) error {
	var stats map[string]model.QueueStats
	operation := func() error {
		s, err := m.source.GetQueueStats()
		if err != nil {
			return err
		}
		stats = s
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx))
	if err != nil {
		logrus.Warnf("metrics refresh failed, keeping stale metrics: %v", err)
		return err
	}

	type regionCounts struct {
		total     int
		active    int
		completed int
		failed    int
	}
	byRegion := make(map[string]*regionCounts)

	for queueName, queueStats := range stats {
		_, region, ok := ParseQueueName(queueName)
		if !ok {
			continue
		}
		counts, exists := byRegion[region]
		if !exists {
			counts = &regionCounts{}
			byRegion[region] = counts
		}
		counts.total += queueStats.Total
		counts.active += queueStats.Active
		counts.completed += queueStats.Completed
		counts.failed += queueStats.Failed
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for region, counts := range byRegion {
		currentLoad := 0
		if counts.total > 0 {
			currentLoad = int(math.Round(float64(counts.active) / float64(counts.total) * 100))
		}

		errorRate := 0.0
		if counts.completed+counts.failed > 0 {
			errorRate = float64(counts.failed) / float64(counts.completed+counts.failed)
		}

		m.metrics[region] = model.RegionMetrics{
			ActiveWorkers: int(math.Ceil(float64(counts.active) / jobsPerWorker)),
			TotalCapacity: 100,
			CurrentLoad:   currentLoad,
			// TODO: replace with measured latency once workers report timings.
			AvgResponseTime: 2000 + rand.Float64()*1000,
			ErrorRate:       errorRate,
			LastUpdated:     time.Now(),
		}
	}

	logrus.Infof("updated metrics for %d regions", len(byRegion))
	return nil
}

// Get returns the cached metrics for a region.
func (m *MetricsStore) Get(region string) (model.RegionMetrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	metrics, ok := m.metrics[region]
	return metrics, ok
}

// Snapshot returns a copy of all cached region metrics.
func (m *MetricsStore) Snapshot() map[string]model.RegionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make(map[string]model.RegionMetrics, len(m.metrics))
	for region, metrics := range m.metrics {
		snapshot[region] = metrics
	}
	return snapshot
}

// Set overwrites the metrics record for a region.
func (m *MetricsStore) Set(region string, metrics model.RegionMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics[region] = metrics
}

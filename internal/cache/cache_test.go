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
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/chihoangvnn/regiond/config"
	"github.com/stretchr/testify/assert"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
	})

	c, err := NewCache()
	assert.NoError(t, err)
	return c
}

func TestSet(t *testing.T) {
	ctx := context.Background()
	testCache := newTestCache(t)

	key := "testKey"
	value := "testValue"

	err := testCache.Set(ctx, key, value, 10*time.Minute)
	assert.NoError(t, err)

	err = testCache.Set(ctx, key, value, 0)
	assert.NoError(t, err)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	testCache := newTestCache(t)

	key := "testKey"
	setValue := map[string]string{"assignedRegion": "ap-southeast-1"}
	err := testCache.Set(ctx, key, setValue, 10*time.Minute)
	assert.NoError(t, err)

	var getValue map[string]string
	err = testCache.Get(ctx, key, &getValue)
	assert.NoError(t, err)
	assert.Equal(t, setValue, getValue)

	// Misses leave the target empty and return no error.
	var missValue map[string]string
	err = testCache.Get(ctx, "nonExistentKey", &missValue)
	assert.NoError(t, err)
	assert.Empty(t, missValue)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	testCache := newTestCache(t)

	key := "testKey"
	value := "testValue"
	err := testCache.Set(ctx, key, value, 10*time.Minute)
	assert.NoError(t, err)

	err = testCache.Delete(ctx, key)
	assert.NoError(t, err)

	var getValue string
	err = testCache.Get(ctx, key, &getValue)
	assert.NoError(t, err)
	assert.Empty(t, getValue)
}

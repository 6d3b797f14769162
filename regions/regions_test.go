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
package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForPlatform(t *testing.T) {
	for _, platform := range Platforms {
		candidates := ForPlatform(platform)
		assert.Equal(t, len(Supported), len(candidates))
	}

	// Unknown platforms fall back to a single default region.
	assert.Equal(t, []string{"us-east-1"}, ForPlatform("myspace"))
}

func TestForPlatformReturnsCopy(t *testing.T) {
	candidates := ForPlatform("facebook")
	candidates[0] = "mutated"
	assert.Equal(t, "us-east-1", ForPlatform("facebook")[0])
}

func TestCountryRegionsAreSupported(t *testing.T) {
	for country, region := range CountryRegions {
		assert.True(t, IsSupported(region), "country %s maps to unknown region %s", country, region)
	}
}

func TestTimezoneRegionsAreSupported(t *testing.T) {
	for tz, region := range TimezoneRegions {
		assert.True(t, IsSupported(region), "timezone %s maps to unknown region %s", tz, region)
	}
}

func TestGeoLookups(t *testing.T) {
	assert.Equal(t, "ap-southeast-1", CountryRegions["VN"])
	assert.Equal(t, "ap-southeast-1", TimezoneRegions["Asia/Ho_Chi_Minh"])
	assert.Equal(t, "us-east-1", TimezoneRegions["UTC"])

	_, ok := CountryRegions["XX"]
	assert.False(t, ok)
}

func TestDetails(t *testing.T) {
	all := Details("")
	assert.Equal(t, len(Supported), len(all))

	for _, detail := range all {
		assert.NotEmpty(t, detail.Name)
		assert.NotEqual(t, "Unknown", detail.Location)
		assert.NotEmpty(t, detail.Platforms)
		assert.NotEqual(t, "", detail.Timezone)
	}

	facebook := Details("facebook")
	assert.Equal(t, len(Supported), len(facebook))

	assert.Empty(t, Details("myspace"))
}

func TestRegionDetailHelpers(t *testing.T) {
	assert.Equal(t, "Asia Pacific (Singapore)", Name("ap-southeast-1"))
	assert.Equal(t, "Singapore", Location("ap-southeast-1"))
	assert.Equal(t, "Asia/Singapore", Timezone("ap-southeast-1"))

	assert.Equal(t, "made-up-region", Name("made-up-region"))
	assert.Equal(t, "Unknown", Location("made-up-region"))
	assert.Equal(t, "UTC", Timezone("made-up-region"))
}

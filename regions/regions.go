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

// Package regions holds the static worker-region catalog and the geographic
// lookup tables used to place accounts near their audience. Everything here
// is immutable data; there is no state and no I/O.
package regions

// Supported is the fixed catalog of worker regions.
var Supported = []string{
	"us-east-1",
	"us-west-2",
	"eu-west-1",
	"eu-central-1",
	"eu-north-1",
	"eu-south-1",
	"ap-southeast-1",
	"ap-southeast-2",
	"ap-northeast-1",
	"ap-south-1",
	"sa-east-1",
	"me-south-1",
	"af-south-1",
}

// Platforms lists the social platforms with automation worker pools.
var Platforms = []string{"facebook", "instagram", "twitter", "tiktok"}

// platformRegions maps each platform to its allowed-region set. Every
// platform currently supports the full catalog for maximum flexibility.
var platformRegions = map[string][]string{
	"facebook":  Supported,
	"instagram": Supported,
	"twitter":   Supported,
	"tiktok":    Supported,
}

// ForPlatform returns a copy of the allowed regions for a platform, falling
// back to a single default region when the platform is unrecognized.
func ForPlatform(platform string) []string {
	candidates, ok := platformRegions[platform]
	if !ok {
		return []string{"us-east-1"}
	}
	out := make([]string, len(candidates))
	copy(out, candidates)
	return out
}

// IsSupported reports whether region belongs to the global catalog.
func IsSupported(region string) bool {
	for _, r := range Supported {
		if r == region {
			return true
		}
	}
	return false
}

// SupportsPlatform reports whether region is in the platform's allowed set.
func SupportsPlatform(region, platform string) bool {
	for _, r := range ForPlatform(platform) {
		if r == region {
			return true
		}
	}
	return false
}

// CountryRegions maps ISO country codes to the nearest worker region.
var CountryRegions = map[string]string{
	// Asia Pacific
	"VN": "ap-southeast-1", "TH": "ap-southeast-1", "SG": "ap-southeast-1",
	"MY": "ap-southeast-1", "ID": "ap-southeast-1", "PH": "ap-southeast-1",
	"JP": "ap-northeast-1", "KR": "ap-northeast-1", "TW": "ap-northeast-1",
	"CN": "ap-northeast-1", "HK": "ap-northeast-1", "IN": "ap-south-1",
	"AU": "ap-southeast-2", "NZ": "ap-southeast-2",
	"BD": "ap-south-1", "LK": "ap-south-1", "PK": "ap-south-1", "NP": "ap-south-1",
	"MM": "ap-southeast-1", "KH": "ap-southeast-1", "LA": "ap-southeast-1",
	"BN": "ap-southeast-1", "MN": "ap-northeast-1", "KZ": "ap-south-1",
	"UZ": "ap-south-1", "KG": "ap-south-1", "TJ": "ap-south-1", "TM": "ap-south-1",
	"FJ": "ap-southeast-2", "PG": "ap-southeast-2", "NC": "ap-southeast-2",

	// Europe
	"GB": "eu-west-1", "IE": "eu-west-1", "FR": "eu-west-1",
	"DE": "eu-central-1", "IT": "eu-south-1", "ES": "eu-west-1",
	"NL": "eu-west-1", "BE": "eu-west-1", "SE": "eu-north-1",
	"NO": "eu-north-1", "DK": "eu-north-1", "FI": "eu-north-1",
	"PL": "eu-central-1", "CZ": "eu-central-1", "AT": "eu-central-1",
	"PT": "eu-west-1", "CH": "eu-central-1", "LU": "eu-west-1",
	"SK": "eu-central-1", "SI": "eu-central-1", "HU": "eu-central-1",
	"RO": "eu-central-1", "BG": "eu-central-1", "HR": "eu-central-1",
	"RS": "eu-central-1", "BA": "eu-central-1", "ME": "eu-central-1",
	"MK": "eu-central-1", "AL": "eu-central-1", "GR": "eu-south-1",
	"CY": "eu-south-1", "MT": "eu-south-1", "IS": "eu-north-1",
	"EE": "eu-north-1", "LV": "eu-north-1", "LT": "eu-north-1",
	"BY": "eu-central-1", "UA": "eu-central-1", "MD": "eu-central-1",
	"RU": "eu-central-1", "GE": "eu-central-1", "AM": "eu-central-1", "AZ": "eu-central-1",

	// Americas
	"US": "us-east-1", "CA": "us-east-1", "MX": "us-west-2",
	"BR": "sa-east-1", "AR": "sa-east-1", "CL": "sa-east-1",
	"CO": "sa-east-1", "PE": "sa-east-1",
	"GT": "us-west-2", "BZ": "us-west-2", "SV": "us-west-2", "HN": "us-west-2",
	"NI": "us-west-2", "CR": "us-west-2", "PA": "us-west-2", "CU": "us-east-1",
	"JM": "us-east-1", "HT": "us-east-1", "DO": "us-east-1", "PR": "us-east-1",
	"TT": "us-east-1", "BB": "us-east-1", "GY": "sa-east-1", "SR": "sa-east-1",
	"UY": "sa-east-1", "PY": "sa-east-1", "BO": "sa-east-1", "EC": "sa-east-1",
	"VE": "sa-east-1", "GL": "us-east-1",

	// Middle East & Africa
	"AE": "me-south-1", "SA": "me-south-1", "IL": "me-south-1",
	"ZA": "af-south-1", "EG": "me-south-1", "KE": "af-south-1",
	"QA": "me-south-1", "KW": "me-south-1", "BH": "me-south-1", "OM": "me-south-1",
	"JO": "me-south-1", "LB": "me-south-1", "SY": "me-south-1", "IQ": "me-south-1",
	"IR": "me-south-1", "AF": "ap-south-1", "TR": "eu-central-1",
	"MA": "eu-west-1", "TN": "eu-south-1", "LY": "eu-south-1", "DZ": "eu-west-1",
	"NG": "af-south-1", "GH": "af-south-1", "SN": "eu-west-1", "CI": "eu-west-1",
	"BF": "eu-west-1", "ML": "eu-west-1", "NE": "eu-west-1", "TD": "eu-south-1",
	"CF": "eu-south-1", "CM": "eu-south-1", "GA": "eu-south-1", "CG": "eu-south-1",
	"CD": "af-south-1", "AO": "af-south-1", "ZM": "af-south-1", "ZW": "af-south-1",
	"MW": "af-south-1", "MZ": "af-south-1", "TZ": "af-south-1", "UG": "af-south-1",
	"RW": "af-south-1", "BI": "af-south-1", "ET": "af-south-1", "SO": "af-south-1",
	"DJ": "me-south-1", "ER": "me-south-1", "SD": "me-south-1", "SS": "af-south-1",
	"BW": "af-south-1", "NA": "af-south-1", "SZ": "af-south-1", "LS": "af-south-1",
	"MG": "af-south-1", "MU": "af-south-1", "SC": "af-south-1",
}

// TimezoneRegions maps IANA timezone names to the nearest worker region.
// Deliberately smaller than the country table; unknown timezones fall
// through to the next geo signal.
var TimezoneRegions = map[string]string{
	// Asia Pacific
	"Asia/Ho_Chi_Minh": "ap-southeast-1",
	"Asia/Bangkok":     "ap-southeast-1",
	"Asia/Singapore":   "ap-southeast-1",
	"Asia/Jakarta":     "ap-southeast-1",
	"Asia/Manila":      "ap-southeast-1",
	"Asia/Tokyo":       "ap-northeast-1",
	"Asia/Seoul":       "ap-northeast-1",
	"Asia/Shanghai":    "ap-northeast-1",
	"Asia/Hong_Kong":   "ap-northeast-1",
	"Asia/Kolkata":     "ap-south-1",
	"Australia/Sydney": "ap-southeast-2",

	// Europe
	"Europe/London":    "eu-west-1",
	"Europe/Dublin":    "eu-west-1",
	"Europe/Paris":     "eu-west-1",
	"Europe/Berlin":    "eu-central-1",
	"Europe/Rome":      "eu-south-1",
	"Europe/Madrid":    "eu-west-1",
	"Europe/Amsterdam": "eu-west-1",
	"Europe/Stockholm": "eu-north-1",
	"Europe/Warsaw":    "eu-central-1",

	// Americas
	"America/New_York":    "us-east-1",
	"America/Chicago":     "us-east-1",
	"America/Denver":      "us-west-2",
	"America/Los_Angeles": "us-west-2",
	"America/Toronto":     "us-east-1",
	"America/Sao_Paulo":   "sa-east-1",
	"America/Mexico_City": "us-west-2",

	"UTC": "us-east-1",
}

// Detail describes one region for the availability endpoint.
type Detail struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Platforms []string `json:"platforms"`
	Timezone  string   `json:"timezone"`
}

var regionNames = map[string]string{
	"us-east-1":      "US East (Virginia)",
	"us-west-2":      "US West (Oregon)",
	"eu-west-1":      "Europe (Ireland)",
	"eu-central-1":   "Europe (Frankfurt)",
	"eu-north-1":     "Europe (Stockholm)",
	"eu-south-1":     "Europe (Milan)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ap-south-1":     "Asia Pacific (Mumbai)",
	"sa-east-1":      "South America (São Paulo)",
	"me-south-1":     "Middle East (Bahrain)",
	"af-south-1":     "Africa (Cape Town)",
}

var regionLocations = map[string]string{
	"us-east-1":      "Virginia, USA",
	"us-west-2":      "Oregon, USA",
	"eu-west-1":      "Dublin, Ireland",
	"eu-central-1":   "Frankfurt, Germany",
	"eu-north-1":     "Stockholm, Sweden",
	"eu-south-1":     "Milan, Italy",
	"ap-southeast-1": "Singapore",
	"ap-southeast-2": "Sydney, Australia",
	"ap-northeast-1": "Tokyo, Japan",
	"ap-south-1":     "Mumbai, India",
	"sa-east-1":      "São Paulo, Brazil",
	"me-south-1":     "Manama, Bahrain",
	"af-south-1":     "Cape Town, South Africa",
}

var regionTimezones = map[string]string{
	"us-east-1":      "America/New_York",
	"us-west-2":      "America/Los_Angeles",
	"eu-west-1":      "Europe/Dublin",
	"eu-central-1":   "Europe/Berlin",
	"eu-north-1":     "Europe/Stockholm",
	"eu-south-1":     "Europe/Rome",
	"ap-southeast-1": "Asia/Singapore",
	"ap-southeast-2": "Australia/Sydney",
	"ap-northeast-1": "Asia/Tokyo",
	"ap-south-1":     "Asia/Kolkata",
	"sa-east-1":      "America/Sao_Paulo",
	"me-south-1":     "Asia/Bahrain",
	"af-south-1":     "Africa/Johannesburg",
}

// Name returns the display name for a region id, or the id itself for
// regions without one.
func Name(region string) string {
	if name, ok := regionNames[region]; ok {
		return name
	}
	return region
}

// Location returns the human-readable location for a region id.
func Location(region string) string {
	if location, ok := regionLocations[region]; ok {
		return location
	}
	return "Unknown"
}

// Timezone returns the canonical timezone for a region id.
func Timezone(region string) string {
	if tz, ok := regionTimezones[region]; ok {
		return tz
	}
	return "UTC"
}

// Details returns the catalog entries available to a platform, or the full
// catalog when platform is empty.
func Details(platform string) []Detail {
	candidates := Supported
	if platform != "" {
		if _, ok := platformRegions[platform]; !ok {
			return []Detail{}
		}
		candidates = ForPlatform(platform)
	}

	details := make([]Detail, 0, len(candidates))
	for _, region := range candidates {
		supporting := make([]string, 0, len(Platforms))
		for _, plt := range Platforms {
			if SupportsPlatform(region, plt) {
				supporting = append(supporting, plt)
			}
		}
		details = append(details, Detail{
			ID:        region,
			Name:      Name(region),
			Location:  Location(region),
			Platforms: supporting,
			Timezone:  Timezone(region),
		})
	}
	return details
}

// Copyright 2025 The oma-helen-cli Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import "time"

// Oma Helen API endpoints
const (
	// HelenAPIBaseURL - v7 API, measurements and contract data
	HelenAPIBaseURL = "https://api.omahelen.fi/v7"

	// HelenAPIBaseURLV8 - v8 API, spot prices only
	HelenAPIBaseURLV8 = "https://api.omahelen.fi/v8"

	// HelenAuthURL - credential exchange endpoint for the login flow
	HelenAuthURL = "https://login.helen.fi/api/token"

	MeasurementsEndpoint = "/measurements/electricity"
	SpotPricesEndpoint   = MeasurementsEndpoint + "/spot-prices"
	ContractEndpoint     = "/contract/list"
)

// Cache settings - measurement and contract data changes upstream at most
// hourly, and a CLI session only ever asks for a handful of distinct windows
const (
	// CacheTTL - how long any cached API response stays servable
	CacheTTL = 1 * time.Hour

	// CacheSizeDailyMeasurements - distinct (year, month) windows kept
	CacheSizeDailyMeasurements = 4

	// CacheSizeMonthlyMeasurements - distinct years kept
	CacheSizeMonthlyMeasurements = 2

	// CacheSizeHourlyMeasurements - distinct (start, end) ranges kept
	CacheSizeHourlyMeasurements = 4

	// CacheSizeSpotPrices - distinct (start, end) ranges kept
	CacheSizeSpotPrices = 4

	// CacheSizeContractData - contract data has no parameters; two slots
	// covers the single key with headroom
	CacheSizeContractData = 2
)

// Session settings
const (
	// SessionValidity - a login is assumed live for this long; after that the
	// API starts rejecting the token and a fresh login is needed
	SessionValidity = 1 * time.Hour
)

// HTTP client settings
const (
	// HTTPReadTimeout - maximum time for any API request
	HTTPReadTimeout = 30 * time.Second
)

// CLI settings
const (
	// CLIPromptText - shown before every command line
	CLIPromptText = "helen-cli> "

	// CLIDateLayout - format for start/end date arguments
	CLIDateLayout = "2006-01-02"
)

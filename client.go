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

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Measurement is a single value of a measurement or spot price series.
// The API reports one entry per resolution step; Status is "valid" for
// settled values.
type Measurement struct {
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// MeasurementInterval is one contiguous run of measurements with its window
// metadata.
type MeasurementInterval struct {
	Start        string        `json:"start"`
	Stop         string        `json:"stop"`
	ResolutionS  int           `json:"resolution_s"`
	Unit         string        `json:"unit"`
	Measurements []Measurement `json:"measurements"`
}

// MeasurementIntervals groups interval runs per energy type. Electricity can
// contain several groups; only the first one carries the series used for the
// impact calculation.
type MeasurementIntervals struct {
	Electricity []MeasurementInterval `json:"electricity"`
}

// MeasurementResponse is the body of the v7 measurements endpoint.
type MeasurementResponse struct {
	Intervals MeasurementIntervals `json:"intervals"`
}

// SpotPricesResponse is the body of the v8 spot prices endpoint: a single
// interval with one price per hour.
type SpotPricesResponse struct {
	Interval MeasurementInterval `json:"interval"`
}

// PriceComponent is one priced part of a contract product. Exactly one
// component of a product is expected to carry the base price flag.
type PriceComponent struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	IsBasePrice bool            `json:"is_base_price"`
}

// ContractProduct is a sold product with its price components.
type ContractProduct struct {
	ID         int              `json:"id"`
	Name       string           `json:"name"`
	Components []PriceComponent `json:"components"`
}

// DeliverySite is the metering point a contract delivers to.
type DeliverySite struct {
	ID int `json:"id"`
}

// Contract is one entry of the contract list response.
type Contract struct {
	ID           int               `json:"id"`
	DeliverySite DeliverySite      `json:"delivery_site"`
	Products     []ContractProduct `json:"products"`
}

// HelenClient fetches electricity measurements, spot prices and contract
// data from the Oma Helen API. Every fetch operation is memoized with a
// one hour TTL; identical queries within that window never hit the network
// twice. The client is safe for concurrent use.
type HelenClient struct {
	client    *http.Client
	session   *HelenSession
	logger    *Logger
	baseURL   string
	baseURLV8 string
	now       func() time.Time

	dailyCache    *memoCache[*MeasurementResponse]
	monthlyCache  *memoCache[*MeasurementResponse]
	hourlyCache   *memoCache[*MeasurementResponse]
	spotCache     *memoCache[*SpotPricesResponse]
	contractCache *memoCache[[]Contract]
}

// NewHelenClient creates a client from the resolved configuration. The
// returned client is logged out; call Login before any fetch operation.
func NewHelenClient(config *Config, logger *Logger) *HelenClient {
	timeout := config.Timeout()
	clientLogger := logger.WithComponent("api_client")
	return &HelenClient{
		client:    &http.Client{Timeout: timeout},
		session:   NewHelenSession(config.AuthURL, timeout, logger),
		logger:    clientLogger,
		baseURL:   config.BaseURL,
		baseURLV8: config.BaseURLV8,
		now:       time.Now,

		dailyCache:    newMemoCache[*MeasurementResponse]("daily_measurements", CacheSizeDailyMeasurements, CacheTTL, clientLogger),
		monthlyCache:  newMemoCache[*MeasurementResponse]("monthly_measurements", CacheSizeMonthlyMeasurements, CacheTTL, clientLogger),
		hourlyCache:   newMemoCache[*MeasurementResponse]("hourly_measurements", CacheSizeHourlyMeasurements, CacheTTL, clientLogger),
		spotCache:     newMemoCache[*SpotPricesResponse]("spot_prices", CacheSizeSpotPrices, CacheTTL, clientLogger),
		contractCache: newMemoCache[[]Contract]("contract_data", CacheSizeContractData, CacheTTL, clientLogger),
	}
}

// Login creates a fresh session from the credentials.
func (c *HelenClient) Login(ctx context.Context, username, password string) error {
	return c.session.Login(ctx, username, password)
}

// IsSessionValid reports whether the latest login is recent enough for the
// token to still be accepted upstream.
func (c *HelenClient) IsSessionValid() bool {
	return c.session.IsValid()
}

// AccessToken returns the current API access token.
func (c *HelenClient) AccessToken() (string, error) {
	return c.session.AccessToken()
}

// Close logs out and releases transport resources. Idempotent.
func (c *HelenClient) Close() {
	c.session.Close()
	c.client.CloseIdleConnections()
}

// GetDailyMeasurementsByMonth returns electricity measurements for each day
// of the wanted month of the ongoing year.
func (c *HelenClient) GetDailyMeasurementsByMonth(ctx context.Context, month time.Month) (*MeasurementResponse, error) {
	year := c.now().Year()
	key := fmt.Sprintf("%d-%d", year, int(month))
	return c.dailyCache.GetOrFetch(key, func() (*MeasurementResponse, error) {
		return c.fetchMeasurements(ctx, dailyWindow(year, month), "day")
	})
}

// GetMonthlyMeasurementsByYear returns electricity measurements for each
// month of the given year.
func (c *HelenClient) GetMonthlyMeasurementsByYear(ctx context.Context, year int) (*MeasurementResponse, error) {
	key := strconv.Itoa(year)
	return c.monthlyCache.GetOrFetch(key, func() (*MeasurementResponse, error) {
		return c.fetchMeasurements(ctx, monthlyWindow(year), "month")
	})
}

// GetHourlyMeasurementsBetweenDates returns electricity measurements for each
// hour between the two dates, both inclusive.
func (c *HelenClient) GetHourlyMeasurementsBetweenDates(ctx context.Context, start, end time.Time) (*MeasurementResponse, error) {
	key := rangeKey(start, end)
	return c.hourlyCache.GetOrFetch(key, func() (*MeasurementResponse, error) {
		return c.fetchMeasurements(ctx, hourlyWindow(start, end), "hour")
	})
}

// GetHourlySpotPricesBetweenDates returns the day-ahead spot price for each
// hour between the two dates, both inclusive.
func (c *HelenClient) GetHourlySpotPricesBetweenDates(ctx context.Context, start, end time.Time) (*SpotPricesResponse, error) {
	key := rangeKey(start, end)
	return c.spotCache.GetOrFetch(key, func() (*SpotPricesResponse, error) {
		siteID, err := c.GetDeliverySiteID(ctx)
		if err != nil {
			return nil, err
		}
		params := measurementParams(hourlyWindow(start, end), "hour", siteID)
		var out SpotPricesResponse
		if err := c.getJSON(ctx, c.baseURLV8, SpotPricesEndpoint, params, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// GetContractData returns the raw contract list for the logged-in user.
func (c *HelenClient) GetContractData(ctx context.Context) ([]Contract, error) {
	return c.contractCache.GetOrFetch("contract", func() ([]Contract, error) {
		var out []Contract
		if err := c.getJSON(ctx, c.baseURL, ContractEndpoint, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// GetDeliverySiteID resolves the metering point identifier from the first
// contract. The value rides on the contract data cache, so it is fetched at
// most once per TTL window.
func (c *HelenClient) GetDeliverySiteID(ctx context.Context) (int, error) {
	contracts, err := c.GetContractData(ctx)
	if err != nil {
		return 0, err
	}
	if len(contracts) == 0 {
		return 0, &NotFoundError{Field: "delivery site", Message: "contract data is empty"}
	}
	return contracts[0].DeliverySite.ID, nil
}

// GetContractBasePrice returns the price of the component flagged as the
// base price on the first product of the first contract.
func (c *HelenClient) GetContractBasePrice(ctx context.Context) (decimal.Decimal, error) {
	contracts, err := c.GetContractData(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(contracts) == 0 || len(contracts[0].Products) == 0 {
		return decimal.Zero, &NotFoundError{Field: "base price component", Message: "no contract products"}
	}
	for _, component := range contracts[0].Products[0].Components {
		if component.IsBasePrice {
			return component.Price, nil
		}
	}
	return decimal.Zero, &NotFoundError{Field: "base price component", Message: "no component is flagged as base price"}
}

// fetchMeasurements resolves the delivery site and issues one measurements
// request for the given window and resolution.
func (c *HelenClient) fetchMeasurements(ctx context.Context, window timeWindow, resolution string) (*MeasurementResponse, error) {
	siteID, err := c.GetDeliverySiteID(ctx)
	if err != nil {
		return nil, err
	}
	params := measurementParams(window, resolution, siteID)
	var out MeasurementResponse
	if err := c.getJSON(ctx, c.baseURL, MeasurementsEndpoint, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// measurementParams builds the shared query parameter set of the
// measurements and spot price endpoints.
func measurementParams(window timeWindow, resolution string, siteID int) url.Values {
	return url.Values{
		"begin":            {window.Begin},
		"end":              {window.End},
		"resolution":       {resolution},
		"delivery_site_id": {strconv.Itoa(siteID)},
		"allow_transfer":   {"true"},
	}
}

// rangeKey is the cache key for date-range queries.
func rangeKey(start, end time.Time) string {
	return start.Format("2006-01-02") + "/" + end.Format("2006-01-02")
}

// getJSON issues an authenticated GET and decodes the JSON body into out.
// Transport failures and non-200 statuses become APIError, undecodable
// bodies become ParseError. Errors are never retried here.
func (c *HelenClient) getJSON(ctx context.Context, baseURL, endpoint string, params url.Values, out interface{}) error {
	token, err := c.session.AccessToken()
	if err != nil {
		return err
	}

	requestURL := baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return NewAPIError(0, endpoint, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", GetUserAgent())

	start := c.now()
	resp, err := c.client.Do(req)
	duration := time.Since(start).Seconds()
	if err != nil {
		return NewAPIError(0, endpoint, "request failed", err)
	}
	defer resp.Body.Close()

	c.logger.LogAPIRequest(http.MethodGet, endpoint, resp.StatusCode, duration)

	if resp.StatusCode != http.StatusOK {
		return NewAPIError(resp.StatusCode, endpoint, fmt.Sprintf("request failed with status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewAPIError(resp.StatusCode, endpoint, "failed to read response body", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{Endpoint: endpoint, Err: err}
	}
	return nil
}

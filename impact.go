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
	"time"

	"github.com/shopspring/decimal"
)

// CalculateImpactOfUsageBetweenDates derives the price impact of hourly
// consumption against hourly spot prices over the date range, both dates
// inclusive. The provider documents the formula as (A - B) / E in c/kWh,
// where A is the sum of hourly consumption weighted by the hourly price,
// B is total consumption times the average market price of the window and
// E is total consumption. In contracts such as the Smart Electricity
// Guarantee a negative result decreases the contract base price and a
// positive one increases it. This is an approximation of the contractual
// adjustment, not an authoritative billing figure.
func (c *HelenClient) CalculateImpactOfUsageBetweenDates(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	spotPrices, err := c.GetHourlySpotPricesBetweenDates(ctx, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	measurements, err := c.GetHourlyMeasurementsBetweenDates(ctx, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	if len(measurements.Intervals.Electricity) == 0 {
		return decimal.Zero, &NotFoundError{Field: "electricity measurements", Message: "response contained no interval groups"}
	}
	return calculateImpact(spotPrices.Interval.Measurements, measurements.Intervals.Electricity[0].Measurements)
}

// calculateImpact applies the impact formula to an hourly price series and an
// hourly consumption series. The weighted sum stops at the shorter of the
// two series because upstream responses can disagree in length by a few
// trailing hours, while the average price and the total consumption run over
// each full series; that asymmetry matches the provider's calculation.
func calculateImpact(prices, measurements []Measurement) (decimal.Decimal, error) {
	if len(prices) == 0 {
		return decimal.Zero, &CalculationError{Message: "spot price series is empty"}
	}

	length := min(len(prices), len(measurements))
	totalWeighted := decimal.Zero
	for i := 0; i < length; i++ {
		price := decimal.NewFromFloat(prices[i].Value).Abs()
		consumption := decimal.NewFromFloat(measurements[i].Value).Abs()
		totalWeighted = totalWeighted.Add(price.Mul(consumption))
	}

	totalPrice := decimal.Zero
	for _, price := range prices {
		totalPrice = totalPrice.Add(decimal.NewFromFloat(price.Value).Abs())
	}
	averagePrice := totalPrice.Div(decimal.NewFromInt(int64(len(prices))))

	totalConsumption := decimal.Zero
	for _, measurement := range measurements {
		totalConsumption = totalConsumption.Add(decimal.NewFromFloat(measurement.Value).Abs())
	}
	if totalConsumption.IsZero() {
		return decimal.Zero, &CalculationError{Message: "total consumption is zero, impact is undefined"}
	}

	impact := totalWeighted.Sub(averagePrice.Mul(totalConsumption)).Div(totalConsumption)
	return impact, nil
}

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
	"fmt"
	"time"
)

// timeWindow is a begin/end pair in the serialized form the measurements API
// expects. The boundaries use fixed UTC offsets that stand in for Finnish
// local midnight; no daylight-saving adjustment is applied, matching what the
// upstream API expects.
type timeWindow struct {
	Begin string
	End   string
}

// lastDayOfMonth returns the number of the last calendar day of a month.
func lastDayOfMonth(year int, month time.Month) int {
	// day 0 of the next month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dailyWindow builds the request window for day-resolution measurements of a
// single month. The window opens at 21:00 UTC on the last day of the previous
// month and closes at 20:59:59.999 UTC on the last day of the wanted month.
// Month and day components are not zero padded; the API accepts both forms.
func dailyWindow(year int, month time.Month) timeWindow {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	prevMonthLastDay := firstDay.AddDate(0, 0, -1)
	wantedMonthLastDay := time.Date(year, month, lastDayOfMonth(year, month), 0, 0, 0, 0, time.UTC)

	return timeWindow{
		Begin: fmt.Sprintf("%d-%d-%dT21:00:00.000Z",
			prevMonthLastDay.Year(), int(prevMonthLastDay.Month()), prevMonthLastDay.Day()),
		End: fmt.Sprintf("%d-%d-%dT20:59:59.999Z",
			wantedMonthLastDay.Year(), int(wantedMonthLastDay.Month()), wantedMonthLastDay.Day()),
	}
}

// monthlyWindow builds the request window for month-resolution measurements
// of a whole year: from 22:00 UTC on Dec 31 of the prior year to 21:59:59 UTC
// on Dec 31 of the wanted year.
func monthlyWindow(year int) timeWindow {
	return timeWindow{
		Begin: fmt.Sprintf("%d-12-31T22:00:00+00:00", year-1),
		End:   fmt.Sprintf("%d-12-31T21:59:59+00:00", year),
	}
}

// hourlyWindow builds the request window for hour-resolution data between two
// dates (inclusive). The window opens at 22:00 UTC on the day before start;
// the one-day look-back is required for the API to include the first hours of
// the start date itself.
func hourlyWindow(start, end time.Time) timeWindow {
	previousDay := start.AddDate(0, 0, -1)
	return timeWindow{
		Begin: previousDay.Format("2006-01-02") + "T22:00:00+00:00",
		End:   end.Format("2006-01-02") + "T21:59:59+00:00",
	}
}

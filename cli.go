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
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// errExit is returned by the exit handler to stop the prompt loop.
var errExit = errors.New("exit")

// cliCommand is one entry of the static dispatch table.
type cliCommand struct {
	handler func(ctx context.Context, args []string) error
	help    string
	usage   string
}

// CredentialsFunc prompts the user for a username and password. Used for the
// initial login in main and for the login command when the session goes
// stale.
type CredentialsFunc func() (username, password string, err error)

// CLIPrompt is the interactive shell over the API client. Commands are
// dispatched through a static table; the shell itself holds no API logic.
type CLIPrompt struct {
	client      *HelenClient
	logger      *Logger
	in          io.Reader
	out         io.Writer
	credentials CredentialsFunc
	commands    map[string]cliCommand
}

// NewCLIPrompt builds the shell and its command table.
func NewCLIPrompt(client *HelenClient, logger *Logger, in io.Reader, out io.Writer, credentials CredentialsFunc) *CLIPrompt {
	p := &CLIPrompt{
		client:      client,
		logger:      logger.WithComponent("cli"),
		in:          in,
		out:         out,
		credentials: credentials,
	}

	p.commands = map[string]cliCommand{
		"calculate_impact": {
			handler: p.doCalculateImpact,
			help:    "Calculate the impact of usage between a start date and an end date",
			usage:   "calculate_impact <YYYY-MM-DD> <YYYY-MM-DD>",
		},
		"monthly_measurements": {
			handler: p.doMonthlyMeasurements,
			help:    "Get the monthly electricity measurements of the ongoing year as JSON",
			usage:   "monthly_measurements",
		},
		"daily_measurements": {
			handler: p.doDailyMeasurements,
			help:    "Get the daily electricity measurements of the ongoing month as JSON",
			usage:   "daily_measurements",
		},
		"contract_data": {
			handler: p.doContractData,
			help:    "Get the whole contract data as JSON",
			usage:   "contract_data",
		},
		"delivery_site_id": {
			handler: p.doDeliverySiteID,
			help:    "Get the delivery site id from the contract data",
			usage:   "delivery_site_id",
		},
		"base_price": {
			handler: p.doBasePrice,
			help:    "Get the contract base price from the contract data",
			usage:   "base_price",
		},
		"access_token": {
			handler: p.doAccessToken,
			help:    "Print the current Oma Helen API access token",
			usage:   "access_token",
		},
		"login": {
			handler: p.doLogin,
			help:    "Log in again, replacing the current session",
			usage:   "login",
		},
		"help": {
			handler: p.doHelp,
			help:    "List commands, or show the help of one command",
			usage:   "help [command]",
		},
		"exit": {
			handler: p.doExit,
			help:    "Exit the CLI",
			usage:   "exit",
		},
	}

	return p
}

// Run reads commands until exit or end of input. Input errors terminate the
// offending command only; the shell keeps running.
func (p *CLIPrompt) Run(ctx context.Context) error {
	fmt.Fprintln(p.out, "Type help to list commands")

	scanner := bufio.NewScanner(p.in)
	for {
		fmt.Fprint(p.out, CLIPromptText)
		if !scanner.Scan() {
			fmt.Fprintln(p.out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if err := p.dispatch(ctx, fields[0], fields[1:]); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

// dispatch runs one command. Validation problems reprint the usage line;
// every other error is reported and swallowed so the shell survives.
func (p *CLIPrompt) dispatch(ctx context.Context, name string, args []string) error {
	command, ok := p.commands[name]
	if !ok {
		fmt.Fprintf(p.out, "Unknown command %q. Type help to list commands.\n", name)
		return nil
	}

	err := command.handler(ctx, args)
	if err == nil || errors.Is(err, errExit) {
		return err
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		fmt.Fprintf(p.out, "%s\nUsage: %s\n", validationErr.Message, command.usage)
		return nil
	}

	p.logger.LogAPIError(err, name)
	fmt.Fprintf(p.out, "Error: %v\n", err)
	return nil
}

func (p *CLIPrompt) doCalculateImpact(ctx context.Context, args []string) error {
	start, end, err := parseDateRange(args)
	if err != nil {
		return err
	}
	impact, err := p.client.CalculateImpactOfUsageBetweenDates(ctx, start, end)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, impact.String())
	return nil
}

func (p *CLIPrompt) doMonthlyMeasurements(ctx context.Context, args []string) error {
	measurements, err := p.client.GetMonthlyMeasurementsByYear(ctx, time.Now().Year())
	if err != nil {
		return err
	}
	return p.printJSON(measurements)
}

func (p *CLIPrompt) doDailyMeasurements(ctx context.Context, args []string) error {
	measurements, err := p.client.GetDailyMeasurementsByMonth(ctx, time.Now().Month())
	if err != nil {
		return err
	}
	return p.printJSON(measurements)
}

func (p *CLIPrompt) doContractData(ctx context.Context, args []string) error {
	contracts, err := p.client.GetContractData(ctx)
	if err != nil {
		return err
	}
	return p.printJSON(contracts)
}

func (p *CLIPrompt) doDeliverySiteID(ctx context.Context, args []string) error {
	siteID, err := p.client.GetDeliverySiteID(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, siteID)
	return nil
}

func (p *CLIPrompt) doBasePrice(ctx context.Context, args []string) error {
	basePrice, err := p.client.GetContractBasePrice(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, basePrice.String())
	return nil
}

func (p *CLIPrompt) doAccessToken(ctx context.Context, args []string) error {
	token, err := p.client.AccessToken()
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, token)
	return nil
}

func (p *CLIPrompt) doLogin(ctx context.Context, args []string) error {
	if p.credentials == nil {
		return &ValidationError{Field: "login", Message: "interactive login is not available"}
	}
	username, password, err := p.credentials()
	if err != nil {
		return err
	}
	if err := p.client.Login(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "Logged in")
	return nil
}

func (p *CLIPrompt) doHelp(ctx context.Context, args []string) error {
	if len(args) > 0 {
		command, ok := p.commands[args[0]]
		if !ok {
			fmt.Fprintf(p.out, "Unknown command %q\n", args[0])
			return nil
		}
		fmt.Fprintf(p.out, "%s\nUsage: %s\n", command.help, command.usage)
		return nil
	}

	names := make([]string, 0, len(p.commands))
	for name := range p.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(p.out, "%-22s %s\n", name, p.commands[name].help)
	}
	return nil
}

func (p *CLIPrompt) doExit(ctx context.Context, args []string) error {
	p.client.Close()
	fmt.Fprintln(p.out, "Bye")
	return errExit
}

func (p *CLIPrompt) printJSON(value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, string(data))
	return nil
}

// parseDateRange parses the two YYYY-MM-DD arguments of calculate_impact.
func parseDateRange(args []string) (time.Time, time.Time, error) {
	if len(args) != 2 {
		return time.Time{}, time.Time{}, &ValidationError{
			Field:   "dates",
			Message: "please provide proper start and end dates in format YYYY-MM-DD",
		}
	}
	start, err := time.Parse(CLIDateLayout, args[0])
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{
			Field:   "start date",
			Value:   args[0],
			Message: "please provide proper start and end dates in format YYYY-MM-DD",
		}
	}
	end, err := time.Parse(CLIDateLayout, args[1])
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{
			Field:   "end date",
			Value:   args[1],
			Message: "please provide proper start and end dates in format YYYY-MM-DD",
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, &ValidationError{
			Field:   "dates",
			Message: "end date must not be before start date",
		}
	}
	return start, end, nil
}

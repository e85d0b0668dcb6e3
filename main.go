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
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func main() {
	app := &cli.App{
		Name:    "helen-cli",
		Usage:   "interactive CLI for Oma Helen electricity usage and spot prices",
		Version: GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to configuration file",
			},
			&cli.StringFlag{
				Name:    "username",
				Usage:   "Oma Helen username",
				EnvVars: []string{"HELEN_USERNAME"},
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "HTTP read timeout in seconds",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "json-log",
				Usage: "emit logs as JSON",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	config, err := LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	// Command line arguments and environment variables override the file
	if c.String("username") != "" {
		config.Username = c.String("username")
	}
	if c.Int("timeout") > 0 {
		config.TimeoutSeconds = c.Int("timeout")
	}
	if c.Bool("debug") {
		config.Debug = true
	}
	if c.Bool("json-log") {
		config.JSONLog = true
	}

	if err := config.Validate(); err != nil {
		return err
	}

	var logger *Logger
	if config.JSONLog {
		logger = NewJSONLogger(config.Debug)
	} else {
		logger = NewLogger(config.Debug)
	}

	client := NewHelenClient(config, logger)
	defer client.Close()

	credentials := credentialsPrompt(config.Username)

	fmt.Println("Log in to Oma Helen")
	username, password, err := credentials()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.Login(ctx, username, password); err != nil {
		return err
	}

	return NewCLIPrompt(client, logger, os.Stdin, os.Stdout, credentials).Run(ctx)
}

// credentialsPrompt reads a username (defaulting to the configured one) and a
// password without echo from the terminal.
func credentialsPrompt(defaultUsername string) CredentialsFunc {
	return func() (string, string, error) {
		reader := bufio.NewReader(os.Stdin)

		username := defaultUsername
		if username == "" {
			fmt.Print("Username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return "", "", fmt.Errorf("failed to read username: %w", err)
			}
			username = strings.TrimSpace(line)
		} else {
			fmt.Printf("Username: %s\n", username)
		}
		if username == "" {
			return "", "", &ValidationError{Field: "username", Message: "username must not be empty"}
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		if len(password) == 0 {
			return "", "", &ValidationError{Field: "password", Message: "password must not be empty"}
		}

		return username, string(password), nil
	}
}

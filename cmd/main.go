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

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chihoangvnn/regiond"
	"github.com/chihoangvnn/regiond/config"
	"github.com/chihoangvnn/regiond/database"
	"github.com/chihoangvnn/regiond/internal/notification"
)

// Regiond represents the CLI application, encapsulating the root Cobra command.
type Regiond struct {
	cmd *cobra.Command
}

// regiondInstance holds the service instance and its configuration so every
// subcommand shares one wired service.
type regiondInstance struct {
	regiond *regiond.Regiond
	cnf     *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the service instance
// before running any command.
func preRun(app *regiondInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("regiond.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newRegiond, err := setupRegiond(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.regiond = newRegiond
		app.cnf = cnf

		return nil
	}
}

// setupRegiond creates and initializes a new service instance based on the
// provided configuration.
func setupRegiond(cfg *config.Configuration) (*regiond.Regiond, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newRegiond, err := regiond.NewRegiond(db)
	if err != nil {
		return nil, fmt.Errorf("error creating regiond: %v", err)
	}
	return newRegiond, nil
}

// NewCLI creates the command-line interface for the regiond application.
func NewCLI() *Regiond {
	var configFile string
	b := &regiondInstance{}

	var rootCmd = &cobra.Command{
		Use:   "regiond",
		Short: "region assignment and load balancing for automation workers",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./regiond.json", "Configuration file for regiond")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(migrateCommands(b))
	rootCmd.AddCommand(rebalanceCommands(b))
	rootCmd.AddCommand(configCommands())

	return &Regiond{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w Regiond) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()
	cli := NewCLI()
	cli.executeCLI()
}

/*
Copyright © 2025 riad@rsworld.eu

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
package cmd

import (
	"clientsplit/config"
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clientsplit",
	Short: "Split a raw table into one template-based sheet per client.",
	Long: `
**********************************************
*              CLIENT SPLIT                  *
**********************************************

This CLI reads a raw table (Excel, CSV), groups its rows by a client column and writes
one copy of a template sheet per client, filled with that client's rows.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv, .tsv, .txt

Templates must be .xlsx or .xlsm workbooks.
`,
	Example: `
  # Create configuration file
  clientsplit config create

  # Inspect the raw table before splitting
  clientsplit columns -i ./processos.xlsx -t ./modelo.xlsx

  # Split by the "Cliente" column into a copy of the "Geral" sheet
  clientsplit split -i ./processos.xlsx -t ./modelo.xlsx -c Cliente -s Geral

  # Drop the template sheet and write a YAML report
  clientsplit split -i ./processos.csv -t ./modelo.xlsx -c Cliente --drop-template --report ./report.yaml

  # Start the local upload UI
  clientsplit serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.clientsplit.yaml, then ./.clientsplit.yaml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "split", "columns", "serve":
		return true
	}
	return false
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".clientsplit")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// A missing file is fine: every key has a default.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: read config: %v\n", err)
		}
	}
}

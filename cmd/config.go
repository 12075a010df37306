package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage clientsplit configuration file values.",
	Long: `Create, edit, display, and delete the clientsplit configuration file.

The configuration stores defaults for every split run:
- split.template_sheet / keep_template / start_mode / scan_limit / keywords
- sheet_names.sentinel / null_tokens / max_length / replacement
- input.csv_delimiter / csv_encoding / xls_charset
- history.enabled / db
- serve.port`,
	Example: `
  # Create default config in $HOME/.clientsplit.yaml
  clientsplit config create

  # Show active config and source file
  clientsplit config show

  # Open active config in editor (creates example if missing)
  clientsplit config edit

  # Delete active config file
  clientsplit config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

package cmd

import (
	"clientsplit/config"
	"fmt"
	"github.com/spf13/viper"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Without a config
file the built-in defaults are shown.`,
	Example: `
  # Show active configuration
  clientsplit config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			if _, statErr := os.Stat(configPath); statErr == nil {
				fmt.Println("Config file loaded from:", configPath)
			} else {
				fmt.Println("No config file loaded; using defaults.")
			}
		} else {
			fmt.Println("No config file loaded; using defaults.")
		}
		fmt.Println("Configuration:")
		printConfig(os.Stdout, cfg)
		return nil
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "%s: %q\n", config.KeySplitTemplateSheet, cfg.Split.TemplateSheet)
	fmt.Fprintf(out, "%s: %t\n", config.KeySplitKeepTemplate, cfg.Split.KeepTemplate)
	fmt.Fprintf(out, "%s: %s\n", config.KeySplitStartMode, cfg.Split.StartMode)
	fmt.Fprintf(out, "%s: %d\n", config.KeySplitScanLimit, cfg.Split.ScanLimit)
	fmt.Fprintf(out, "%s: [%s]\n", config.KeySplitKeywords, strings.Join(cfg.Split.Keywords, ", "))
	fmt.Fprintf(out, "%s: %q\n", config.KeySheetNamesSentinel, cfg.SheetNames.Sentinel)
	fmt.Fprintf(out, "%s: [%s]\n", config.KeySheetNamesNull, strings.Join(cfg.SheetNames.NullTokens, ", "))
	fmt.Fprintf(out, "%s: %d\n", config.KeySheetNamesMaxLength, cfg.SheetNames.MaxLength)
	fmt.Fprintf(out, "%s: %q\n", config.KeySheetNamesReplace, cfg.SheetNames.Replacement)
	fmt.Fprintf(out, "%s: %q\n", config.KeyInputCSVDelimiter, cfg.Input.CSVDelimiter)
	fmt.Fprintf(out, "%s: %s\n", config.KeyInputCSVEncoding, cfg.Input.CSVEncoding)
	fmt.Fprintf(out, "%s: %s\n", config.KeyInputXLSCharset, cfg.Input.XLSCharset)
	fmt.Fprintf(out, "%s: %t\n", config.KeyHistoryEnabled, cfg.History.Enabled)
	fmt.Fprintf(out, "%s: %s\n", config.KeyHistoryDB, cfg.History.DB)
	fmt.Fprintf(out, "%s: %d\n", config.KeyServePort, cfg.Serve.Port)
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

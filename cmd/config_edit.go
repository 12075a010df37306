package cmd

import (
	"clientsplit/config"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configEditEditor string

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active clientsplit config file in your editor.

The editor is --editor, else $VISUAL, else $EDITOR, else vi. A missing config file
is created from the example template first.

When the editor exits, the file is validated: split.start_mode must be header or
append, sheet_names.max_length between 4 and 31, and the sentinel and replacement
must be usable in sheet names. A valid file is summarized as the split behavior it
produces (template sheet, where client rows start, how blank clients are named).`,
	Example: `
  # Edit active config
  clientsplit config edit

  # Edit with a specific editor
  clientsplit config edit --editor "code --wait"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := ensureConfigFileWithTemplate(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", configPath)
		}

		editor := resolveEditorValue(configEditEditor, os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		editorCommand, err := buildEditorCommand(editor, configPath)
		if err != nil {
			return err
		}
		editorCommand.Stdin = os.Stdin
		editorCommand.Stdout = os.Stdout
		editorCommand.Stderr = os.Stderr
		if err := editorCommand.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("reading edited config failed: %w", err)
		}
		cfg, err := config.ValidateYAMLContent(content)
		if err != nil {
			return fmt.Errorf("config validation failed in %s: %w", configPath, err)
		}

		fmt.Printf("Configuration saved and validated: %s\n", configPath)
		describeSplitBehavior(os.Stdout, cfg)
		return nil
	},
}

// describeSplitBehavior restates the split and sheet_names keys as the
// behavior of the next split run.
func describeSplitBehavior(out io.Writer, cfg *config.Config) {
	sheet := cfg.Split.TemplateSheet
	if strings.TrimSpace(sheet) == "" {
		sheet = "(first sheet)"
	}
	start := "right below the template header"
	if cfg.Split.StartMode == "append" {
		start = "after the last filled template row"
	}
	template := "kept"
	if !cfg.Split.KeepTemplate {
		template = "removed"
	}
	replacement := fmt.Sprintf("replaced by %q", cfg.SheetNames.Replacement)
	if cfg.SheetNames.Replacement == "" {
		replacement = "dropped"
	}

	fmt.Fprintf(out, "Template sheet %s is copied per client and %s in the output.\n", sheet, template)
	fmt.Fprintf(out, "Client rows start %s; the header is searched in the first %d rows.\n", start, cfg.Split.ScanLimit)
	fmt.Fprintf(out, "Blank clients and [%s] go to sheet %q.\n", strings.Join(cfg.SheetNames.NullTokens, ", "), cfg.SheetNames.Sentinel)
	fmt.Fprintf(out, "Sheet names are cut at %d characters; invalid characters are %s.\n", cfg.SheetNames.MaxLength, replacement)
}

func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	if strings.TrimSpace(configFileFlag) != "" {
		return configFileFlag, nil
	}
	if strings.TrimSpace(configFileUsed) != "" {
		return configFileUsed, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".clientsplit.yaml"), nil
}

func ensureConfigFileWithTemplate(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}

	return true, nil
}

// resolveEditorValue returns the first non-blank candidate, or vi.
func resolveEditorValue(candidates ...string) string {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(strings.TrimSpace(editorValue))
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	args := append(fields[1:], configPath)
	return exec.Command(fields[0], args...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)

	configEditCmd.Flags().StringVar(&configEditEditor, "editor", "", "Editor command (overrides $VISUAL and $EDITOR)")
}

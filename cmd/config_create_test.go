package cmd

import (
	"clientsplit/config"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestSaveDefaultConfigCreatesExampleTemplate(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "create-template.yaml")
	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(false); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}

	text := string(content)
	if !strings.Contains(text, "# clientsplit configuration") {
		t.Fatalf("expected example header in config file, got:\n%s", text)
	}
	if _, err := config.ValidateYAMLContent(content); err != nil {
		t.Fatalf("expected created config to validate: %v", err)
	}
}

func TestSaveDefaultConfigDoesNotOverwriteExistingFile(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "existing.yaml")
	original := "split:\n  template_sheet: \"Modelo\"\n  keep_template: false\n"
	if err := os.WriteFile(tmpConfig, []byte(original), 0o644); err != nil {
		t.Fatalf("failed writing initial config: %v", err)
	}

	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(false); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("failed reading existing config after create: %v", err)
	}
	if string(content) != original {
		t.Fatalf("expected existing config to remain unchanged")
	}

	if err := saveDefaultConfig(true); err != nil {
		t.Fatalf("unexpected error forcing config: %v", err)
	}
	content, err = os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("failed reading config after force: %v", err)
	}
	if string(content) != config.ExampleYAML() {
		t.Fatalf("expected forced create to write the example template")
	}
}

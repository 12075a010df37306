package config

import (
	"bytes"
	"clientsplit/header"
	"clientsplit/splitter"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"strings"
	"unicode/utf8"
)

const (
	KeySplitTemplateSheet  = "split.template_sheet"
	KeySplitKeepTemplate   = "split.keep_template"
	KeySplitStartMode      = "split.start_mode"
	KeySplitScanLimit      = "split.scan_limit"
	KeySplitKeywords       = "split.keywords"
	KeySheetNamesSentinel  = "sheet_names.sentinel"
	KeySheetNamesNull      = "sheet_names.null_tokens"
	KeySheetNamesMaxLength = "sheet_names.max_length"
	KeySheetNamesReplace   = "sheet_names.replacement"
	KeyInputCSVDelimiter   = "input.csv_delimiter"
	KeyInputCSVEncoding    = "input.csv_encoding"
	KeyInputXLSCharset     = "input.xls_charset"
	KeyHistoryEnabled      = "history.enabled"
	KeyHistoryDB           = "history.db"
	KeyServePort           = "serve.port"
)

type Config struct {
	Split      SplitConfig     `mapstructure:"split"`
	SheetNames SheetNameConfig `mapstructure:"sheet_names"`
	Input      InputConfig     `mapstructure:"input"`
	History    HistoryConfig   `mapstructure:"history"`
	Serve      ServeConfig     `mapstructure:"serve"`
}

type SplitConfig struct {
	TemplateSheet string   `mapstructure:"template_sheet"`
	KeepTemplate  bool     `mapstructure:"keep_template"`
	StartMode     string   `mapstructure:"start_mode" validate:"oneof=header append"`
	ScanLimit     int      `mapstructure:"scan_limit" validate:"min=1,max=1000"`
	Keywords      []string `mapstructure:"keywords" validate:"dive,required"`
}

type SheetNameConfig struct {
	Sentinel    string   `mapstructure:"sentinel" validate:"required"`
	NullTokens  []string `mapstructure:"null_tokens"`
	MaxLength   int      `mapstructure:"max_length" validate:"min=4,max=31"`
	Replacement string   `mapstructure:"replacement"`
}

type InputConfig struct {
	CSVDelimiter string `mapstructure:"csv_delimiter" validate:"required"`
	CSVEncoding  string `mapstructure:"csv_encoding" validate:"oneof=utf-8 utf8 utf-16 utf16 utf-16le utf-16be latin1 latin-1 iso-8859-1 windows-1252 cp1252"`
	XLSCharset   string `mapstructure:"xls_charset" validate:"required"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DB      string `mapstructure:"db" validate:"required_if=Enabled true"`
}

type ServeConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	local := viper.New()
	setDefaults(local)
	cfg, err := loadAndValidateFromViper(local)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# clientsplit configuration
split:
  # sheet used as the model for every client sheet
  template_sheet: "Geral"
  keep_template: true
  # header: rows start below the template header row
  # append: rows start after the last used template row
  start_mode: "header"
  scan_limit: 25
  keywords: [cliente, processo, contrato, client, process, contract]

sheet_names:
  sentinel: "Unnamed"
  null_tokens: [nan, none]
  max_length: 31
  replacement: "-"

input:
  csv_delimiter: "auto"
  csv_encoding: "utf-8"
  xls_charset: "utf-8"

history:
  enabled: false
  db: "./clientsplit.db"

serve:
  port: 8080
`
}

// SplitOptions converts the configuration into splitter options; the
// grouping column is always chosen per run.
func (c *Config) SplitOptions() splitter.Options {
	return splitter.Options{
		TemplateSheet: c.Split.TemplateSheet,
		KeepTemplate:  c.Split.KeepTemplate,
		StartMode:     splitter.StartMode(strings.ToLower(c.Split.StartMode)),
		Keywords:      append([]string(nil), c.Split.Keywords...),
		ScanLimit:     c.Split.ScanLimit,
		Names: splitter.NameOptions{
			Sentinel:    c.SheetNames.Sentinel,
			NullTokens:  append([]string{}, c.SheetNames.NullTokens...),
			MaxLength:   c.SheetNames.MaxLength,
			Replacement: c.SheetNames.Replacement,
		},
	}
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSheetNames(cfg.SheetNames); err != nil {
		return nil, err
	}
	if err := validateDelimiter(cfg.Input.CSVDelimiter); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySplitTemplateSheet, "Geral")
	v.SetDefault(KeySplitKeepTemplate, true)
	v.SetDefault(KeySplitStartMode, string(splitter.StartAtHeader))
	v.SetDefault(KeySplitScanLimit, header.DefaultScanLimit)
	v.SetDefault(KeySplitKeywords, header.DefaultKeywords)
	v.SetDefault(KeySheetNamesSentinel, splitter.DefaultSentinel)
	v.SetDefault(KeySheetNamesNull, splitter.DefaultNullTokens)
	v.SetDefault(KeySheetNamesMaxLength, splitter.DefaultMaxNameLength)
	v.SetDefault(KeySheetNamesReplace, splitter.DefaultReplacement)
	v.SetDefault(KeyInputCSVDelimiter, "auto")
	v.SetDefault(KeyInputCSVEncoding, "utf-8")
	v.SetDefault(KeyInputXLSCharset, "utf-8")
	v.SetDefault(KeyHistoryEnabled, false)
	v.SetDefault(KeyHistoryDB, "./clientsplit.db")
	v.SetDefault(KeyServePort, 8080)
}

func validateSheetNames(cfg SheetNameConfig) error {
	if !splitter.ValidSheetName(cfg.Sentinel, cfg.MaxLength) {
		return fmt.Errorf("validation failed: sheet_names.sentinel %q is not a valid sheet name of at most %d characters", cfg.Sentinel, cfg.MaxLength)
	}
	if !splitter.ValidReplacement(cfg.Replacement) {
		return fmt.Errorf("validation failed: sheet_names.replacement %q must not contain any of \\ / * ? : [ ]", cfg.Replacement)
	}
	for i, token := range cfg.NullTokens {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("validation failed: sheet_names.null_tokens[%d] is empty", i)
		}
	}
	return nil
}

func validateDelimiter(value string) error {
	switch strings.ToLower(value) {
	case "auto", "tab", `\t`, "\t":
		return nil
	}
	if utf8.RuneCountInString(value) != 1 || strings.ContainsAny(value, "\"\r\n") {
		return fmt.Errorf("validation failed: input.csv_delimiter %q must be auto, tab or a single character", value)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/jask/quarta/internal/dataframe"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Parser   ParserConfig   `mapstructure:"parser"`
	Debts    DebtsConfig    `mapstructure:"debts"`
	UI       UIConfig       `mapstructure:"ui"`
	Import   ImportConfig   `mapstructure:"import"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ParserConfig tunes CSV reading. Aliases are keyed by column role.
type ParserConfig struct {
	DateLayouts []string            `mapstructure:"date_layouts"`
	StripChars  string              `mapstructure:"strip_chars"`
	Aliases     map[string][]string `mapstructure:"aliases"`
}

// DebtsConfig drives debt classification and search.
type DebtsConfig struct {
	Tags          []string `mapstructure:"tags"`
	Keywords      []string `mapstructure:"keywords"`
	FuzzyDistance int      `mapstructure:"fuzzy_distance"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// ImportConfig bounds concurrent file imports.
type ImportConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// Path returns the config file location: $QUARTA_CONFIG or
// ~/.config/quarta/config.toml.
func Path() string {
	if p := os.Getenv("QUARTA_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "quarta", "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "quarta", "quarta.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("parser.date_layouts", dataframe.DefaultDateLayouts)
	v.SetDefault("parser.strip_chars", dataframe.DefaultStripChars)
	v.SetDefault("debts.tags", dataframe.DefaultDebtTerms)
	v.SetDefault("debts.keywords", dataframe.DefaultDebtTerms)
	v.SetDefault("debts.fuzzy_distance", 0)
	v.SetDefault("ui.date_format", "Jan 2, 2006")
	v.SetDefault("ui.currency_symbol", "₱")
	v.SetDefault("import.concurrency", 4)
}

// Load reads .env, the config file if present, and env. Env var overrides use
// prefix QUARTA_.
func Load() (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("QUARTA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config %s: %w", Path(), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every problem in c at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, "database.path cannot be empty")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log.level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log.format %q: must be console or json", c.Log.Format))
	}
	for _, layout := range c.Parser.DateLayouts {
		if strings.TrimSpace(layout) == "" {
			problems = append(problems, "parser.date_layouts cannot contain empty layouts")
			break
		}
	}
	for role := range c.Parser.Aliases {
		if !knownRole(role) {
			problems = append(problems, fmt.Sprintf("unknown parser.aliases role %q", role))
		}
	}
	if c.Debts.FuzzyDistance < 0 {
		problems = append(problems, fmt.Sprintf("debts.fuzzy_distance %d must not be negative", c.Debts.FuzzyDistance))
	}
	if c.Import.Concurrency < 1 {
		problems = append(problems, fmt.Sprintf("import.concurrency %d must be at least 1", c.Import.Concurrency))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func knownRole(role string) bool {
	_, ok := dataframe.DefaultAliases()[dataframe.Role(strings.ToLower(role))]
	return ok
}

// ParseOptions converts parser settings for the engine.
func (c Config) ParseOptions() dataframe.ParseOptions {
	aliases := make(dataframe.Aliases, len(c.Parser.Aliases))
	for role, names := range c.Parser.Aliases {
		aliases[dataframe.Role(strings.ToLower(role))] = names
	}
	return dataframe.ParseOptions{
		DateLayouts: c.Parser.DateLayouts,
		StripChars:  c.Parser.StripChars,
		Aliases:     aliases,
	}
}

// FrameOptions returns the engine options every DataFrame is built with.
func (c Config) FrameOptions(log zerolog.Logger) []dataframe.Option {
	return []dataframe.Option{
		dataframe.WithParser(c.ParseOptions()),
		dataframe.WithClassifier(dataframe.NewKeywordClassifier(c.Debts.Tags, c.Debts.Keywords)),
		dataframe.WithFuzzyDistance(c.Debts.FuzzyDistance),
		dataframe.WithLogger(log),
	}
}

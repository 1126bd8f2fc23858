// Package config handles configuration for txclean. Configuration is loaded
// from a file (JSON or YAML) and may be overridden by CLI flags; flags take
// precedence over file values.
//
// The cleaning rule tables (ID sentinels, placeholder product names, country
// variants, date layouts) are deliberately configuration data rather than
// code: they reflect observed data-quality noise and grow as new noise
// patterns are found in the feed, without a code change.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for a txclean run.
type Config struct {
	// Job names the pipeline run; used as the metrics job label.
	Job string `mapstructure:"job"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	Source  Source  `mapstructure:"source"`
	Rules   Rules   `mapstructure:"rules"`
	Storage Storage `mapstructure:"storage"`
	Metrics Metrics `mapstructure:"metrics"`
	Runtime Runtime `mapstructure:"runtime"`
}

// Source describes the raw transactions feed.
type Source struct {
	// Path is the local filesystem path of the input CSV.
	Path string `mapstructure:"path"`

	// Delimiter is the field separator; the first rune is used. Default ",".
	Delimiter string `mapstructure:"delimiter"`

	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool `mapstructure:"has_header"`

	// HeaderMap maps source header names to the canonical field names in
	// schema.RawColumns, e.g. {"Order ID": "orderId"}.
	HeaderMap map[string]string `mapstructure:"header_map"`

	// LazyQuotes tolerates unescaped quotes in fields.
	LazyQuotes bool `mapstructure:"lazy_quotes"`
}

// Rules carries the externally supplied cleaning tables.
type Rules struct {
	// IDSentinels are order-ID values (compared case-insensitively after
	// trimming) that mark a structurally invalid identifier.
	IDSentinels []string `mapstructure:"id_sentinels"`

	// PlaceholderProducts are product names (compared case-insensitively
	// after trimming) that mark a row with no usable product.
	PlaceholderProducts []string `mapstructure:"placeholder_products"`

	// CountryMap maps known abbreviation/casing variants to one canonical
	// full country name. Unmapped values pass through unchanged; an unmapped
	// variant is a latent data-quality gap to be added here, not an error.
	CountryMap map[string]string `mapstructure:"country_map"`

	// DateLayouts are Go time layouts tried in order against orderDate.
	// The first layout that parses wins.
	DateLayouts []string `mapstructure:"date_layouts"`

	// SignPolicy controls how negative quantity/price values are handled.
	// "abs" (the only policy today) treats the sign as a data-entry error
	// and takes the absolute value. This discards the distinction between a
	// return and a forward sale; a future policy value can change that.
	SignPolicy string `mapstructure:"sign_policy"`
}

// Storage selects and configures the output sink.
type Storage struct {
	// Kind selects the sink: "postgres", "sqlite", or "none" (dry run).
	Kind string `mapstructure:"kind"`

	// DSN is the connection string for the selected backend.
	DSN string `mapstructure:"dsn"`

	// Table is the clean-record destination table.
	Table string `mapstructure:"table"`

	// LedgerTable is the rejection-ledger destination table.
	LedgerTable string `mapstructure:"ledger_table"`

	// BatchSize is the number of rows per bulk-load batch.
	BatchSize int `mapstructure:"batch_size"`
}

// Metrics configures the optional metrics backend.
type Metrics struct {
	// Backend selects the metrics backend: "pushgateway", "datadog", "none".
	Backend string `mapstructure:"backend"`

	// PushgatewayURL is the Prometheus Pushgateway base URL.
	PushgatewayURL string `mapstructure:"pushgateway_url"`

	// StatsdAddr is the DogStatsD address, e.g. "127.0.0.1:8125".
	StatsdAddr string `mapstructure:"statsd_addr"`
}

// Runtime controls concurrency of the per-record apply passes.
type Runtime struct {
	// ApplyWorkers is the number of goroutines used for the normalize and
	// imputation apply passes. 1 runs fully sequential. The output is
	// identical for any worker count.
	ApplyWorkers int `mapstructure:"apply_workers"`
}

// Default returns a Config with the default rule tables and settings.
func Default() *Config {
	return &Config{
		Job:      "txclean",
		LogLevel: "info",
		Source: Source{
			Delimiter: ",",
			HasHeader: true,
		},
		Rules: Rules{
			IDSentinels:         []string{"", "0", "???", "99999", "ORDX", "OrderID"},
			PlaceholderProducts: []string{"unknown item", "unknown", "(unknown)", "()", "???", "n/a"},
			CountryMap: map[string]string{
				"us":             "United States",
				"usa":            "United States",
				"u.s.":           "United States",
				"u.s.a.":         "United States",
				"united states":  "United States",
				"uk":             "United Kingdom",
				"u.k.":           "United Kingdom",
				"united kingdom": "United Kingdom",
				"de":             "Germany",
				"deutschland":    "Germany",
				"germany":        "Germany",
				"fr":             "France",
				"france":         "France",
				"ca":             "Canada",
				"can":            "Canada",
				"canada":         "Canada",
				"au":             "Australia",
				"aus":            "Australia",
				"australia":      "Australia",
			},
			DateLayouts: []string{
				"2006-01-02",
				"2/1/2006",
				"2-Jan-2006",
				"2-Jan-06",
			},
			SignPolicy: "abs",
		},
		Storage: Storage{
			Kind:        "none",
			Table:       "transactions_clean",
			LedgerTable: "transactions_rejects",
			BatchSize:   500,
		},
		Metrics: Metrics{
			Backend: "none",
		},
		Runtime: Runtime{
			ApplyWorkers: 1,
		},
	}
}

// Load reads configuration from the given file, layered over Default. When
// path is empty it looks for ./txclean.{yaml,json}; a missing default file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("txclean")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

package config

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing export files should be overwritten
	OverwriteFiles bool
	// UpdateCovers forces cover images to be downloaded again even if they exist
	UpdateCovers bool
)

const (
	defaultBaseURL        = "https://openlibrary.org"
	defaultTimeout        = 30 * time.Second
	defaultRatePerSecond  = 3.0
	defaultBrowseDebounce = 250 * time.Millisecond
	defaultMinQueryLength = 2
	defaultCoverMaxWidth  = 600
)

// Catalog holds the settings for the Open Library client.
type Catalog struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
}

// Search holds the settings for the search controller.
type Search struct {
	Debounce       time.Duration
	MinQueryLength int
}

// SetDefaults registers default values for every configuration key.
func SetDefaults() {
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)

	viper.SetDefault("openlibrary.baseurl", defaultBaseURL)
	viper.SetDefault("openlibrary.timeout", defaultTimeout.String())
	viper.SetDefault("openlibrary.ratelimit", defaultRatePerSecond)

	viper.SetDefault("search.debounce", defaultBrowseDebounce.String())
	viper.SetDefault("search.minlength", defaultMinQueryLength)

	viper.SetDefault("CoversDir", "./covers/")
	viper.SetDefault("covers.maxwidth", defaultCoverMaxWidth)

	viper.SetDefault("datasette.enabled", false)
	viper.SetDefault("datasette.dbfile", "./pdbrowse.db")
	viper.SetDefault("datasette.mode", "local")

	viper.SetDefault("log.file", "./pdbrowse.log")
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()
	OverwriteFiles = viper.GetBool("OverwriteFiles")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// SetUpdateCovers sets the UpdateCovers flag
func SetUpdateCovers(update bool) {
	UpdateCovers = update
}

// CatalogSettings reads the Open Library client settings.
func CatalogSettings() Catalog {
	baseURL := viper.GetString("openlibrary.baseurl")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	rate := defaultRatePerSecond
	if viper.IsSet("openlibrary.ratelimit") {
		rate = viper.GetFloat64("openlibrary.ratelimit")
	}

	return Catalog{
		BaseURL:       baseURL,
		Timeout:       durationOrDefault("openlibrary.timeout", defaultTimeout),
		RatePerSecond: rate,
	}
}

// SearchSettings reads the search controller settings.
func SearchSettings() Search {
	minLength := viper.GetInt("search.minlength")
	if minLength <= 0 {
		minLength = defaultMinQueryLength
	}
	return Search{
		Debounce:       durationOrDefault("search.debounce", defaultBrowseDebounce),
		MinQueryLength: minLength,
	}
}

// CoversDir returns the directory the browser saves cover art into.
func CoversDir() string {
	if dir := viper.GetString("coversdir"); dir != "" {
		return dir
	}
	return "covers"
}

// CoverMaxWidth returns the width downloaded covers are scaled down to.
func CoverMaxWidth() int {
	if width := viper.GetInt("covers.maxwidth"); width > 0 {
		return width
	}
	return defaultCoverMaxWidth
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("Invalid duration in config, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

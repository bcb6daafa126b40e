package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	APIs     APIConfig      `json:"apis" yaml:"apis"`
	Scrapers ScraperConfig  `json:"scrapers" yaml:"scrapers"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Currency CurrencyConfig `json:"currency" yaml:"currency"`
	Likes    LikesConfig    `json:"likes" yaml:"likes"`
}

// ServerConfig for HTTP server settings
type ServerConfig struct {
	Port         string `json:"port" yaml:"port"`
	ReadTimeout  int    `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeout int    `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// DatabaseConfig selects the likes store. SQLite is the default; when
// Host is set the PostgreSQL connection parameters are used instead.
type DatabaseConfig struct {
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"`
	Host       string `json:"host" yaml:"host"`
	Port       int    `json:"port" yaml:"port"`
	User       string `json:"user" yaml:"user"`
	Password   string `json:"password" yaml:"password"`
	Database   string `json:"database" yaml:"database"`
	SSLMode    string `json:"ssl_mode" yaml:"ssl_mode"`
}

// APIConfig holds all external provider configurations
type APIConfig struct {
	Ticketmaster TicketmasterConfig `json:"ticketmaster" yaml:"ticketmaster"`
	Eventbrite   EventbriteConfig   `json:"eventbrite" yaml:"eventbrite"`
	Yelp         YelpConfig         `json:"yelp" yaml:"yelp"`
	Foursquare   FoursquareConfig   `json:"foursquare" yaml:"foursquare"`
	GooglePlaces GooglePlacesConfig `json:"google_places" yaml:"google_places"`
}

// TicketmasterConfig for the Ticketmaster Discovery API
type TicketmasterConfig struct {
	APIKey string `json:"api_key" yaml:"api_key"`
}

// EventbriteConfig for the Eventbrite API
type EventbriteConfig struct {
	Token string `json:"token" yaml:"token"`
}

// YelpConfig for the Yelp events API
type YelpConfig struct {
	APIKey string `json:"api_key" yaml:"api_key"`
}

// FoursquareConfig for the Foursquare places API
type FoursquareConfig struct {
	APIKey string `json:"api_key" yaml:"api_key"`
}

// GooglePlacesConfig for the Google Places API
type GooglePlacesConfig struct {
	APIKey string `json:"api_key" yaml:"api_key"`
}

// ScraperConfig for web scraper settings
type ScraperConfig struct {
	UserAgent        string `json:"user_agent" yaml:"user_agent"`
	RateLimitSeconds int    `json:"rate_limit_seconds" yaml:"rate_limit_seconds"`
	Timeout          int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// CacheConfig for the aggregator result cache
type CacheConfig struct {
	EventCacheMinutes int `json:"event_cache_minutes" yaml:"event_cache_minutes"`
}

// CurrencyConfig pins the USD to ZAR conversion rate. There is no
// live FX feed.
type CurrencyConfig struct {
	USDToZAR float64 `json:"usd_to_zar" yaml:"usd_to_zar"`
}

// LikesConfig for liked-state reconciliation
type LikesConfig struct {
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds"`
}

// Load reads configuration from file and environment variables.
// Files ending in .yaml or .yml are parsed as YAML, anything else as
// JSON. Environment variables override file values using the pattern
// NIGHTJOL_SECTION_KEY.
func Load(configPath string) (*Config, error) {
	config := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if strings.HasSuffix(configPath, ".yaml") || strings.HasSuffix(configPath, ".yml") {
				if err := yaml.Unmarshal(data, config); err != nil {
					return nil, fmt.Errorf("failed to parse config file: %w", err)
				}
			} else {
				if err := json.Unmarshal(data, config); err != nil {
					return nil, fmt.Errorf("failed to parse config file: %w", err)
				}
			}
		}
	}

	applyDefaults(config)
	applyEnvOverrides(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30
	}
	if config.Database.SQLitePath == "" {
		config.Database.SQLitePath = "./nightjol.db"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = "disable"
	}
	if config.Scrapers.UserAgent == "" {
		config.Scrapers.UserAgent = "Mozilla/5.0 (compatible; NightJol/1.0)"
	}
	if config.Scrapers.RateLimitSeconds == 0 {
		config.Scrapers.RateLimitSeconds = 2
	}
	if config.Scrapers.Timeout == 0 {
		config.Scrapers.Timeout = 30
	}
	if config.Cache.EventCacheMinutes == 0 {
		config.Cache.EventCacheMinutes = 30
	}
	if config.Currency.USDToZAR == 0 {
		config.Currency.USDToZAR = 18.5
	}
	if config.Likes.FetchTimeoutSeconds == 0 {
		config.Likes.FetchTimeoutSeconds = 2
	}
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("NIGHTJOL_SERVER_PORT"); v != "" {
		config.Server.Port = v
	}

	if v := os.Getenv("NIGHTJOL_DATABASE_SQLITE_PATH"); v != "" {
		config.Database.SQLitePath = v
	}
	if v := os.Getenv("NIGHTJOL_DATABASE_HOST"); v != "" {
		config.Database.Host = v
	}
	if v := os.Getenv("NIGHTJOL_DATABASE_USER"); v != "" {
		config.Database.User = v
	}
	if v := os.Getenv("NIGHTJOL_DATABASE_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("NIGHTJOL_DATABASE_NAME"); v != "" {
		config.Database.Database = v
	}

	if v := os.Getenv("NIGHTJOL_TICKETMASTER_API_KEY"); v != "" {
		config.APIs.Ticketmaster.APIKey = v
	}
	if v := os.Getenv("NIGHTJOL_EVENTBRITE_TOKEN"); v != "" {
		config.APIs.Eventbrite.Token = v
	}
	if v := os.Getenv("NIGHTJOL_YELP_API_KEY"); v != "" {
		config.APIs.Yelp.APIKey = v
	}
	if v := os.Getenv("NIGHTJOL_FOURSQUARE_API_KEY"); v != "" {
		config.APIs.Foursquare.APIKey = v
	}
	if v := os.Getenv("NIGHTJOL_GOOGLE_PLACES_API_KEY"); v != "" {
		config.APIs.GooglePlaces.APIKey = v
	}

	if v := os.Getenv("NIGHTJOL_CURRENCY_USD_TO_ZAR"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			config.Currency.USDToZAR = rate
		}
	}
}

// UsePostgres reports whether the likes store should run on PostgreSQL
// instead of the default SQLite file.
func (c *DatabaseConfig) UsePostgres() bool {
	return c.Host != ""
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Validate checks if required configurations are present. Missing
// provider credentials are not errors: each adapter degrades to an
// empty list on its own. Only structural problems are rejected.
func (c *Config) Validate() error {
	var missing []string

	if c.Database.UsePostgres() {
		if c.Database.User == "" {
			missing = append(missing, "database.user")
		}
		if c.Database.Database == "" {
			missing = append(missing, "database.database")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

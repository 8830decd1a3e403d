package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL         = "https://api.dhan.co/v2"
	DefaultAPITimeout      = 30 * time.Second
	DefaultMarketTimezone  = "Asia/Kolkata"
	DefaultMarketOpen      = "09:15:00"
	DefaultMarketClose     = "15:30:00"
	DefaultRefreshInterval = 60 * time.Second
	DefaultMaxRetries      = 3
	DefaultBaseDelay       = 5 * time.Second
	DefaultStoreDriver     = "postgres"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultHealthPort      = 8080
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.Dhan.BaseURL == "" {
		c.Dhan.BaseURL = DefaultBaseURL
	}
	if c.Dhan.Timeout == 0 {
		c.Dhan.Timeout = DefaultAPITimeout
	}

	// Market window defaults
	if c.Market.Timezone == "" {
		c.Market.Timezone = DefaultMarketTimezone
	}
	if c.Market.Open == "" {
		c.Market.Open = DefaultMarketOpen
	}
	if c.Market.Close == "" {
		c.Market.Close = DefaultMarketClose
	}

	// Refresh defaults
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = DefaultRefreshInterval
	}
	if c.Refresh.MaxRetries == 0 {
		c.Refresh.MaxRetries = DefaultMaxRetries
	}
	if c.Refresh.BaseDelay == 0 {
		c.Refresh.BaseDelay = DefaultBaseDelay
	}

	// Store defaults
	if c.Store.Driver == "" {
		c.Store.Driver = DefaultStoreDriver
	}
	applyDBDefaults(&c.Store.Postgres)

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

package config

import "time"

// Config is the root configuration for a chaincache instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	Dhan     DhanConfig     `yaml:"dhan"`
	Market   MarketConfig   `yaml:"market"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Store    StoreConfig    `yaml:"store"`
	Health   HealthConfig   `yaml:"health"`
}

// InstanceConfig identifies this instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// DhanConfig holds Dhan API settings and the chain to track.
type DhanConfig struct {
	BaseURL         string        `yaml:"base_url"`
	ClientID        string        `yaml:"client_id"`
	AccessToken     string        `yaml:"access_token"`
	UnderlyingScrip int           `yaml:"underlying_scrip"` // e.g. 26009 for Bank Nifty
	Segment         string        `yaml:"segment"`          // e.g. IDX_I
	Expiry          string        `yaml:"expiry"`           // YYYY-MM-DD
	Timeout         time.Duration `yaml:"timeout"`
}

// MarketConfig holds the trading window gate.
type MarketConfig struct {
	Timezone string `yaml:"timezone"`
	Open     string `yaml:"open"`  // HH:MM:SS
	Close    string `yaml:"close"` // HH:MM:SS
	Bypass   bool   `yaml:"bypass"`
}

// RefreshConfig holds scheduler and retry settings.
type RefreshConfig struct {
	Interval   time.Duration `yaml:"interval"`
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Driver   string   `yaml:"driver"` // "postgres" or "memory"
	Postgres DBConfig `yaml:"postgres"`
	RedisURL string   `yaml:"redis_url"` // optional latest-snapshot cache
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}

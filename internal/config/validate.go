package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Dhan.ClientID == "" {
		return errors.New("dhan.client_id is required")
	}
	if c.Dhan.AccessToken == "" {
		return errors.New("dhan.access_token is required")
	}
	if c.Dhan.UnderlyingScrip < 1 {
		return errors.New("dhan.underlying_scrip is required")
	}
	if c.Dhan.Segment == "" {
		return errors.New("dhan.segment is required")
	}
	if c.Dhan.Expiry == "" {
		return errors.New("dhan.expiry is required")
	}

	if c.Refresh.Interval <= 0 {
		return errors.New("refresh.interval must be positive")
	}
	if c.Refresh.MaxRetries < 1 {
		return errors.New("refresh.max_retries must be >= 1")
	}
	if c.Refresh.BaseDelay <= 0 {
		return errors.New("refresh.base_delay must be positive")
	}

	switch c.Store.Driver {
	case "postgres":
		if err := c.Store.Postgres.validate("store.postgres"); err != nil {
			return err
		}
	case "memory":
		// Nothing to check; snapshots are lost on restart.
	default:
		return fmt.Errorf("store.driver must be postgres or memory, got %q", c.Store.Driver)
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

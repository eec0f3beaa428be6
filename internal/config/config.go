package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	AppPort string `toml:"app_port"`

	MySQLHost string `toml:"mysql_host"`
	MySQLPort string `toml:"mysql_port"`
	MySQLDB   string `toml:"mysql_db"`
	MySQLUser string `toml:"mysql_user"`
	MySQLPass string `toml:"mysql_pass"`

	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`

	IdempTTLSecs int `toml:"idempotency_ttl_seconds"`

	// Overdue sweep
	SweepEnabled        bool     `toml:"sweep_enabled"`
	SweepInterval       Duration `toml:"sweep_interval"`
	SweepPerLoanTimeout Duration `toml:"sweep_per_loan_timeout"`

	// Notification stream
	NotifyStream   string `toml:"notify_stream"`
	NotifyGroup    string `toml:"notify_group"`
	NotifyWorker   bool   `toml:"notify_worker"`
	NotifyConsumer string `toml:"notify_consumer"`
}

// Duration decodes "1h30m" style strings from TOML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func defaults() *Config {
	return &Config{
		AppPort:   "8080",
		MySQLHost: "mysql",
		MySQLPort: "3306",
		MySQLDB:   "library",
		MySQLUser: "library",
		MySQLPass: "library",

		RedisAddr:    "redis:6379",
		IdempTTLSecs: 300,

		SweepEnabled:        true,
		SweepInterval:       Duration{time.Hour},
		SweepPerLoanTimeout: Duration{10 * time.Second},

		NotifyStream:   "library:notifications",
		NotifyGroup:    "notifier",
		NotifyWorker:   true,
		NotifyConsumer: hostname(),
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "worker-1"
	}
	return h
}

// Load: defaults, then the TOML file named by CONFIG_FILE (if any), then
// environment variables. Later sources win.
func Load() *Config {
	c := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := c.mergeFile(path); err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
		}
	}
	c.mergeEnv()
	return c
}

// LoadFile is Load without the environment overlay.
func LoadFile(path string) (*Config, error) {
	c := defaults()
	if err := c.mergeFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) mergeFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.AppPort = getenv("APP_PORT", c.AppPort)
	c.MySQLHost = getenv("MYSQL_HOST", c.MySQLHost)
	c.MySQLPort = getenv("MYSQL_PORT", c.MySQLPort)
	c.MySQLDB = getenv("MYSQL_DB", c.MySQLDB)
	c.MySQLUser = getenv("MYSQL_USER", c.MySQLUser)
	c.MySQLPass = getenv("MYSQL_PASS", c.MySQLPass)
	c.RedisAddr = getenv("REDIS_ADDR", c.RedisAddr)
	c.NotifyStream = getenv("NOTIFY_STREAM", c.NotifyStream)
	c.NotifyGroup = getenv("NOTIFY_GROUP", c.NotifyGroup)
	c.NotifyConsumer = getenv("NOTIFY_CONSUMER", c.NotifyConsumer)

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("SWEEP_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SweepEnabled = b
		}
	}
	if v := os.Getenv("NOTIFY_WORKER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.NotifyWorker = b
		}
	}
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SweepInterval.Duration = d
		}
	}
	if v := os.Getenv("SWEEP_PER_LOAN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SweepPerLoanTimeout.Duration = d
		}
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.SweepEnabled && c.SweepInterval.Duration < time.Minute {
		return fmt.Errorf("SWEEP_INTERVAL %s is below 1m", c.SweepInterval.Duration)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; loc=UTC keeps due dates comparable
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

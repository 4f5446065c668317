// Package config loads the validator configuration.
//
// Values are layered: built-in defaults, then an optional YAML file named by TRAVIGO_VALIDATOR_CONFIG,
// then TRAVIGO_* environment variables (a .env file in the working directory is loaded first when
// present). The result is checked with validator struct tags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/netex-validator/pkg/util"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Redis       RedisConfig       `yaml:"redis"`
	Mongo       MongoConfig       `yaml:"mongo"`
	Cache       CacheConfig       `yaml:"cache"`
	Worker      WorkerConfig      `yaml:"worker"`
	Interchange InterchangeConfig `yaml:"interchange"`
}

type RedisConfig struct {
	Address  string `yaml:"address" validate:"required"`
	Password string `yaml:"password"`
	Database int    `yaml:"database" validate:"gte=0"`
}

type MongoConfig struct {
	Connection string `yaml:"connection" validate:"required"`
	Database   string `yaml:"database" validate:"required"`
}

type CacheConfig struct {
	TTL       time.Duration `yaml:"ttl" validate:"gt=0,gtfield=LockLease"`
	LockLease time.Duration `yaml:"lock_lease" validate:"gt=0"`
	LockWait  time.Duration `yaml:"lock_wait" validate:"gt=0"`
}

type WorkerConfig struct {
	Consumers       int           `yaml:"consumers" validate:"gt=0"`
	FileQueue       string        `yaml:"file_queue" validate:"required"`
	ReportQueue     string        `yaml:"report_queue" validate:"required,nefield=FileQueue"`
	StatsAddress    string        `yaml:"stats_address" validate:"required"`
	PollingInterval time.Duration `yaml:"polling_interval" validate:"gt=0"`
}

// InterchangeConfig holds ISO-8601 durations such as PT1H
type InterchangeConfig struct {
	WarningWaitTime string `yaml:"warning_wait_time" validate:"required"`
	MaxWaitTime     string `yaml:"max_wait_time" validate:"required"`
}

func Default() Config {
	return Config{
		Redis: RedisConfig{
			Address: "localhost:6379",
		},
		Mongo: MongoConfig{
			Connection: "mongodb://localhost:27017/",
			Database:   "travigo",
		},
		Cache: CacheConfig{
			TTL:       time.Hour,
			LockLease: 30 * time.Second,
			LockWait:  20 * time.Second,
		},
		Worker: WorkerConfig{
			Consumers:       4,
			FileQueue:       "netex-validation-files",
			ReportQueue:     "netex-validation-reports",
			StatsAddress:    ":3333",
			PollingInterval: time.Second,
		},
		Interchange: InterchangeConfig{
			WarningWaitTime: "PT1H",
			MaxWaitTime:     "PT3H",
		},
	}
}

func Load() (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	cfg := Default()
	env := util.GetEnvironmentVariables()

	if path := env["TRAVIGO_VALIDATOR_CONFIG"]; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvironment(env); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	c.Redis.Address = util.LookupEnvironmentVariable(env, "TRAVIGO_REDIS_ADDRESS", c.Redis.Address)
	c.Redis.Password = util.LookupEnvironmentVariable(env, "TRAVIGO_REDIS_PASSWORD", c.Redis.Password)
	c.Mongo.Connection = util.LookupEnvironmentVariable(env, "TRAVIGO_MONGODB_CONNECTION", c.Mongo.Connection)
	c.Mongo.Database = util.LookupEnvironmentVariable(env, "TRAVIGO_MONGODB_DATABASE", c.Mongo.Database)
	c.Worker.FileQueue = util.LookupEnvironmentVariable(env, "TRAVIGO_VALIDATOR_FILE_QUEUE", c.Worker.FileQueue)
	c.Worker.ReportQueue = util.LookupEnvironmentVariable(env, "TRAVIGO_VALIDATOR_REPORT_QUEUE", c.Worker.ReportQueue)
	c.Worker.StatsAddress = util.LookupEnvironmentVariable(env, "TRAVIGO_VALIDATOR_STATS_ADDRESS", c.Worker.StatsAddress)

	if value := env["TRAVIGO_REDIS_DATABASE"]; value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("TRAVIGO_REDIS_DATABASE: %w", err)
		}
		c.Redis.Database = n
	}

	if value := env["TRAVIGO_VALIDATOR_CONSUMERS"]; value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("TRAVIGO_VALIDATOR_CONSUMERS: %w", err)
		}
		c.Worker.Consumers = n
	}

	if value := env["TRAVIGO_VALIDATOR_CACHE_TTL"]; value != "" {
		ttl, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("TRAVIGO_VALIDATOR_CACHE_TTL: %w", err)
		}
		c.Cache.TTL = ttl
	}

	return nil
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if _, err := c.Interchange.Thresholds(); err != nil {
		return err
	}

	return nil
}

type WaitTimeThresholds struct {
	Warning time.Duration
	Max     time.Duration
}

// Thresholds converts the configured ISO-8601 durations. Calendar components (years/months) are
// measured from the Unix epoch.
func (c InterchangeConfig) Thresholds() (WaitTimeThresholds, error) {
	warning, err := parseISODuration(c.WarningWaitTime)
	if err != nil {
		return WaitTimeThresholds{}, fmt.Errorf("interchange warning_wait_time: %w", err)
	}
	max, err := parseISODuration(c.MaxWaitTime)
	if err != nil {
		return WaitTimeThresholds{}, fmt.Errorf("interchange max_wait_time: %w", err)
	}
	if max < warning {
		return WaitTimeThresholds{}, errors.New("interchange max_wait_time must not be shorter than warning_wait_time")
	}

	return WaitTimeThresholds{Warning: warning, Max: max}, nil
}

func parseISODuration(value string) (time.Duration, error) {
	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, err
	}

	reference := time.Unix(0, 0).UTC()
	return parsed.Shift(reference).Sub(reference), nil
}

package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration, sourced from flags with
// environment variable fallbacks
type Config struct {
	Port          int
	DBPath        string
	MQTTBroker    string
	MQTTPrefix    string
	MQTTUsername  string
	MQTTPassword  string
	AdminPassword string
	LogLevel      string
	StoreTimeout  time.Duration
	SeedDemo      bool
}

// ParseFlags parses CLI flags and fills gaps from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var storeTimeout string

	fs := flag.NewFlagSet("dedocracia", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "port", 0, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", "", "SQLite database path")
	fs.StringVar(&cfg.MQTTBroker, "broker", "", "MQTT broker URL (empty disables the device channel)")
	fs.StringVar(&cfg.MQTTPrefix, "topic-prefix", "", "MQTT topic prefix")
	fs.StringVar(&cfg.LogLevel, "loglevel", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&storeTimeout, "store-timeout", "", "Bounded timeout for store accesses")
	fs.BoolVar(&cfg.SeedDemo, "seed-demo", false, "Seed demo candidates on startup")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "adminpw", "", "Admin password (auto-generated if not set; prefer env)")
	fs.StringVar(&cfg.MQTTUsername, "broker-user", "", "MQTT username (prefer env)")
	fs.StringVar(&cfg.MQTTPassword, "broker-pass", "", "MQTT password (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080
		}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = os.Getenv("DB_PATH")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "election.db"
	}

	if cfg.MQTTBroker == "" {
		cfg.MQTTBroker = os.Getenv("MQTT_BROKER")
	}
	if cfg.MQTTPrefix == "" {
		cfg.MQTTPrefix = os.Getenv("MQTT_PREFIX")
	}
	if cfg.MQTTPrefix == "" {
		cfg.MQTTPrefix = "election"
	}
	if cfg.MQTTUsername == "" {
		cfg.MQTTUsername = os.Getenv("MQTT_USERNAME")
	}
	if cfg.MQTTPassword == "" {
		cfg.MQTTPassword = os.Getenv("MQTT_PASSWORD")
	}

	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if storeTimeout == "" {
		storeTimeout = os.Getenv("STORE_TIMEOUT")
	}
	if storeTimeout != "" {
		d, err := time.ParseDuration(storeTimeout)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid store timeout, want a positive duration like 5s")
		}
		cfg.StoreTimeout = d
	}

	if !cfg.SeedDemo {
		cfg.SeedDemo = os.Getenv("SEED_DEMO") == "true" || os.Getenv("SEED_DEMO") == "1"
	}

	return cfg, nil
}

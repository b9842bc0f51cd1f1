package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	SnapshotPath string
	RedisAddr    string // when set, snapshots go to Redis instead of the file
	MySQLDSN     string // when set, the operation log is journaled to MySQL
	LowThreshold int
	AppEnv       string
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:     ":8080",
		SnapshotPath: "inventory.txt",
		LowThreshold: 5,
		AppEnv:       "development",
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	if v := os.Getenv("SNAPSHOT_PATH"); v != "" {
		cfg.SnapshotPath = v
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.MySQLDSN = os.Getenv("MYSQL_DSN")

	if v := os.Getenv("LOW_STOCK_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.LowThreshold = n
		}
	}

	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.AppEnv = v
	}

	return cfg
}

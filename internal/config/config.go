package config

import (
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	APIURL   string
	DataDir  string
	LogLevel string
	LogFile  string
	Timeout  time.Duration
}

func Load() *Config {
	return &Config{
		APIURL:   getEnv("LIBSTOCK_API_URL", "http://localhost:5000"),
		DataDir:  getEnv("LIBSTOCK_DIR", defaultDataDir()),
		LogLevel: getEnv("LIBSTOCK_LOG_LEVEL", "info"),
		LogFile:  getEnv("LIBSTOCK_LOG_FILE", ""),
		Timeout:  getDuration("LIBSTOCK_TIMEOUT", 30*time.Second),
	}
}

// SessionFile is where the authenticated session cookie is persisted.
func (c *Config) SessionFile() string {
	return filepath.Join(c.DataDir, "session.json")
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "libstock")
	}
	return ".libstock"
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

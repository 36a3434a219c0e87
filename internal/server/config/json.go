package config

import (
	"encoding/json"
	"os"

	"github.com/dbalakin/userman/internal/flagx"
	"github.com/dbalakin/userman/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "10m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	CacheDriver                 string         `json:"cache_driver"`
	RedisAddr                   string         `json:"redis_addr"`
	RedisPassword               string         `json:"redis_password"`
	RedisDB                     *int           `json:"redis_db"`
	CacheAbsoluteExpiration     timex.Duration `json:"cache_absolute_expiration"`
	CacheSlidingExpiration      timex.Duration `json:"cache_sliding_expiration"`
	SeedDemoData                *bool          `json:"seed_demo_data"`
	SeedCount                   *int           `json:"seed_count"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. Zero values in the file leave the
// corresponding defaults untouched. If the file cannot be read or contains
// invalid JSON, the function panics: a requested config file that cannot be
// applied is a startup error.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.CacheDriver != "" {
		config.CacheDriver = c.CacheDriver
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.RedisPassword != "" {
		config.RedisPassword = c.RedisPassword
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.CacheAbsoluteExpiration.Duration != 0 {
		config.CacheAbsoluteExpiration = c.CacheAbsoluteExpiration.Duration
	}
	if c.CacheSlidingExpiration.Duration != 0 {
		config.CacheSlidingExpiration = c.CacheSlidingExpiration.Duration
	}
	if c.SeedDemoData != nil {
		config.SeedDemoData = *c.SeedDemoData
	}
	if c.SeedCount != nil {
		config.SeedCount = *c.SeedCount
	}
}

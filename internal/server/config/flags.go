package config

import (
	"flag"
	"os"
	"time"

	"github.com/dbalakin/userman/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-k string   cache driver ("memory" or "redis")
//	-r string   redis address (host:port)
//	-w string   redis password
//	-n int      redis database number
//	-x int      cache absolute expiration, minutes
//	-l int      cache sliding expiration, minutes
//	-f          seed demo data at startup
//	-m int      number of demo users to seed
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-k", "-r", "-w", "-n", "-x", "-l", "-f", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.CacheDriver, "k", config.CacheDriver, "cache driver (memory or redis)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "w", config.RedisPassword, "redis password")
	fs.IntVar(&config.RedisDB, "n", config.RedisDB, "redis database number")

	cacheAbsoluteExpiration := fs.Int("x", int(config.CacheAbsoluteExpiration.Minutes()), "cache absolute expiration (in minutes)")
	cacheSlidingExpiration := fs.Int("l", int(config.CacheSlidingExpiration.Minutes()), "cache sliding expiration (in minutes)")

	fs.BoolVar(&config.SeedDemoData, "f", config.SeedDemoData, "seed demo data at startup")
	fs.IntVar(&config.SeedCount, "m", config.SeedCount, "number of demo users to seed")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.CacheAbsoluteExpiration = time.Duration(*cacheAbsoluteExpiration) * time.Minute
	config.CacheSlidingExpiration = time.Duration(*cacheSlidingExpiration) * time.Minute
}

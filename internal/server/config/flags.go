package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/libris/internal/flagx"
)

// parseFlags overlays the server's command-line flags on config.
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-l string   log level
//
// args is filtered with flagx.FilterArgs first so flags owned by other
// components do not make parsing fail.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTP.Address, "a", config.HTTP.Address, "address and port to run server")
	fs.StringVar(&config.Database.DSN, "d", config.Database.DSN, "database DSN")
	fs.StringVar(&config.Auth.SecretKey, "s", config.Auth.SecretKey, "secret key")
	fs.StringVar(&config.Logging.Level, "l", config.Logging.Level, "log level")

	accessMinutes := fs.Int("t", int(config.Auth.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshMinutes := fs.Int("r", int(config.Auth.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.Auth.AccessTokenValidityDuration = time.Duration(*accessMinutes) * time.Minute
	config.Auth.RefreshTokenValidityDuration = time.Duration(*refreshMinutes) * time.Minute
	return nil
}

package config

import (
	"flag"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filehost/internal/flagx"
)

// ownFlags are the short flags handled by parseFlags. Everything else on
// the command line (subcommands, -c, cobra flags) is filtered out first.
var ownFlags = []string{"-H", "-p", "-d", "-s", "-t", "-u", "-l", "-b", "-i"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-H string   bind host
//	-p int      bind port
//	-d string   database URL
//	-s string   JWT HMAC secret key
//	-t int      token lifetime, minutes
//	-u string   upload directory
//	-l string   log level
//	-b string   log backend (slog, zerolog)
//	-i int      reconcile interval, minutes (0 disables)
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("filehost", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Host, "H", config.Host, "host to bind")
	fs.IntVar(&config.Port, "p", config.Port, "port to bind")
	fs.StringVar(&config.DatabaseURL, "d", config.DatabaseURL, "database URL")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.Var(minutes{&config.TokenMaxAge}, "t", "token lifetime (in minutes)")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload directory")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogBackend, "b", config.LogBackend, "log backend (slog, zerolog, nop)")
	fs.Var(minutes{&config.ReconcileInterval}, "i", "reconcile interval (in minutes)")

	return fs.Parse(flagx.FilterArgs(args, ownFlags))
}

// minutes is a flag.Value storing an integer number of minutes in a
// time.Duration.
type minutes struct {
	d *time.Duration
}

func (m minutes) String() string {
	if m.d == nil {
		return "0"
	}
	return strconv.FormatInt(int64(m.d.Minutes()), 10)
}

func (m minutes) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*m.d = time.Duration(n) * time.Minute
	return nil
}

package config

import (
	"flag"
	"os"

	"github.com/schedvault/schedvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend HTTP endpoint (default from Config)
//	-n string   principal name embedded in issued tokens
//	-s string   HMAC secret shared with the server
//	-g string   oracle key derivation salt
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-n", "-s", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the backend HTTP endpoint")
	fs.StringVar(&cfg.Principal, "n", cfg.Principal, "principal name for issued tokens")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "HMAC secret for token signing")
	fs.StringVar(&cfg.OracleSalt, "g", cfg.OracleSalt, "oracle key derivation salt")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

package config

import "time"

// Config holds runtime settings for the SchedVault CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP endpoint.
//   - Principal: identity embedded in self-issued access tokens.
//   - SecretKey: HMAC secret shared with the server for token signing.
//   - TokenValidityDuration: lifetime of self-issued tokens.
//   - OracleSalt: salt for deriving oracle key material from the passphrase.
//     Must match the salt the server's sealed backend was initialized with.
type Config struct {
	ServerEndpointAddr    string
	Principal             string
	SecretKey             string
	TokenValidityDuration time.Duration
	OracleSalt            string
}

// LoadDefaults populates c with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.Principal = "demo"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 15 * time.Minute
	c.OracleSalt = "dev-oracle-salt"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

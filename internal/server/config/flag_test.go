package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, c *Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "1", "-r", "3", "-l", "debug"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "127.0.0.1:9090", c.HTTP.Address)
				assert.Equal(t, "db", c.Database.DSN)
				assert.Equal(t, "secret", c.Auth.SecretKey)
				assert.Equal(t, 1*time.Minute, c.Auth.AccessTokenValidityDuration)
				assert.Equal(t, 3*time.Minute, c.Auth.RefreshTokenValidityDuration)
				assert.Equal(t, "debug", c.Logging.Level)
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "conf.yaml", "-x", "1", "-a", ":1234"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, ":1234", c.HTTP.Address)
				assert.Equal(t, 15*time.Minute, c.Auth.AccessTokenValidityDuration)
			},
		},
		{
			name:    "bad int",
			args:    []string{"-t", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			err := parseFlags(&c, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, &c)
		})
	}
}

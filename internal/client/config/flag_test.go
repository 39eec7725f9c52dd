package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://emis.local:9090", "-d", "custom.db", "-i", "10", "-s", "60", "-t", "5"}, expectPanic: false,
			expected: &Config{
				APIBaseURL:          "http://emis.local:9090",
				DatabaseDSN:         "custom.db",
				OnlineCheckInterval: 10 * time.Second,
				SyncInterval:        60 * time.Second,
				RequestTimeout:      5 * time.Second,
			}},
		{name: "Test2 incorrect sync interval", args: []string{"cmd", "-a", "http://emis.local:9090", "-s", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

package flagx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/myday/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag followed by another flag keeps no value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "multiple allowed flags kept in order",
			args:         []string{"-a", ":50051", "-d", "postgres://x", "--other", "x"},
			allowedFlags: []string{"-d", "-a"},
			want:         []string{"-a", ":50051", "-d", "postgres://x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/p/short.toml", ConfigFileFlag([]string{"-c", "/p/short.toml"}))
	assert.Equal(t, "/p/long.yaml", ConfigFileFlag([]string{"-a", ":1", "-config", "/p/long.yaml"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1"}))
	assert.Equal(t, "/p/2.json", ConfigFileFlag([]string{"-c", "/p/1.json", "-config", "/p/2.json"}))
	assert.Equal(t, "/p/3.yml", ConfigFileFlag([]string{"entry", "list", "--config=/p/3.yml"}))
}

type sample struct {
	Addr     string         `json:"addr" toml:"addr" yaml:"addr"`
	Interval timex.Duration `json:"interval" toml:"interval" yaml:"interval"`
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDecodeFile_AllFormats(t *testing.T) {
	files := map[string]string{
		"c.json": `{"addr":"a:1","interval":"2s"}`,
		"c.toml": "addr = \"a:1\"\ninterval = \"2s\"\n",
		"c.yaml": "addr: a:1\ninterval: 2s\n",
		"c.yml":  "addr: a:1\ninterval: 2s\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			var s sample
			require.NoError(t, DecodeFile(writeFile(t, name, body), &s))
			assert.Equal(t, "a:1", s.Addr)
			assert.Equal(t, 2*time.Second, s.Interval.Duration)
		})
	}
}

func TestDecodeFile_Errors(t *testing.T) {
	var s sample
	require.ErrorContains(t, DecodeFile(writeFile(t, "c.ini", "x=1"), &s), "unsupported config format")
	require.ErrorContains(t, DecodeFile(filepath.Join(t.TempDir(), "missing.json"), &s), "read config")
	require.ErrorContains(t, DecodeFile(writeFile(t, "bad.json", "{"), &s), "decode config")
}

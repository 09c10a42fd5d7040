// FILE: lixenwraith/envhanced/decode_test.go
package envhanced

import (
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"defaults.env": "PORT=8080\nDEBUG=False\nTIMEOUT=30s\nHOSTS=a,b,c\nDB_HOST=localhost\nDB_PORT=5432\n",
		"environ.env":  "PORT=9090\nBIND=10.0.0.1\nSUBNET=10.0.0.0/8\nENDPOINT=https://api.example.com/v1\n",
	})
	s := newTestStore(tmpDir, map[string]string{
		"LIMITS":   `{"rps":100,"burst":20}`,
		"REPLICAS": `["r1","r2"]`,
		"NAME":     "svc",
		"DEBUG":    "True",
	}, nil)

	t.Run("AllFields", func(t *testing.T) {
		type AppConfig struct {
			Port     int            `env:"PORT"`
			Debug    bool           `env:"DEBUG"`
			Timeout  time.Duration  `env:"TIMEOUT"`
			Hosts    []string       `env:"HOSTS"`
			Bind     net.IP         `env:"BIND"`
			Subnet   *net.IPNet     `env:"SUBNET"`
			Endpoint *url.URL       `env:"ENDPOINT"`
			Limits   map[string]int `env:"LIMITS"`
			Replicas []string       `env:"REPLICAS"`
			Name     string
			Absent   string `env:"ABSENT"`
		}

		var cfg AppConfig
		require.NoError(t, s.Scan(&cfg))

		assert.Equal(t, 9090, cfg.Port)
		assert.True(t, cfg.Debug)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, []string{"a", "b", "c"}, cfg.Hosts)
		assert.True(t, net.ParseIP("10.0.0.1").Equal(cfg.Bind))
		require.NotNil(t, cfg.Subnet)
		assert.Equal(t, "10.0.0.0/8", cfg.Subnet.String())
		require.NotNil(t, cfg.Endpoint)
		assert.Equal(t, "api.example.com", cfg.Endpoint.Host)
		assert.Equal(t, map[string]int{"rps": 100, "burst": 20}, cfg.Limits)
		assert.Equal(t, []string{"r1", "r2"}, cfg.Replicas)
		assert.Equal(t, "svc", cfg.Name, "untagged fields match case-insensitively")
		assert.Empty(t, cfg.Absent)
	})

	t.Run("Prefix", func(t *testing.T) {
		var db struct {
			Host string `env:"HOST"`
			Port int    `env:"PORT"`
		}
		require.NoError(t, s.ScanPrefix("DB_", &db))
		assert.Equal(t, "localhost", db.Host)
		assert.Equal(t, 5432, db.Port)
	})

	t.Run("SingleSource", func(t *testing.T) {
		var defaults struct {
			Port  int  `env:"PORT"`
			Debug bool `env:"DEBUG"`
		}
		require.NoError(t, s.ScanSource(SourceDefaults, &defaults))
		assert.Equal(t, 8080, defaults.Port)
		assert.False(t, defaults.Debug)
	})

	t.Run("CustomTag", func(t *testing.T) {
		custom := New(Options{
			Dir:         tmpDir,
			Environment: MapEnvironment{},
			TagName:     "cfg",
		})
		var cfg struct {
			Port int `cfg:"PORT"`
		}
		require.NoError(t, custom.Scan(&cfg))
		assert.Equal(t, 9090, cfg.Port)
	})

	t.Run("InvalidTarget", func(t *testing.T) {
		var cfg struct{}
		assert.Error(t, s.Scan(cfg))
		assert.Error(t, s.Scan(nil))
	})

	t.Run("DecodeFailure", func(t *testing.T) {
		var cfg struct {
			Bind net.IP `env:"NAME"`
		}
		err := s.Scan(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid IP address")
	})
}

func TestBind(t *testing.T) {
	s := newTestStore(t.TempDir(), map[string]string{
		"PORT":    "8080",
		"HOSTS":   "a,b",
		"DEBUG":   "True",
		"TIMEOUT": "5s",
	}, nil)

	t.Run("RawValues", func(t *testing.T) {
		var cfg struct {
			Port     int           `env:"PORT"`
			Hosts    []string      `env:"HOSTS"`
			Debug    bool          `env:"DEBUG"`
			Timeout  time.Duration `env:"TIMEOUT"`
			Fallback string        `env:"FALLBACK" envDefault:"default"`
		}
		require.NoError(t, s.Bind(&cfg))

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, []string{"a", "b"}, cfg.Hosts)
		assert.True(t, cfg.Debug)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, "default", cfg.Fallback)
	})

	t.Run("RequiredMissing", func(t *testing.T) {
		var cfg struct {
			Token string `env:"TOKEN,required"`
		}
		err := s.Bind(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TOKEN")
	})

	t.Run("IgnoresRealEnvironment", func(t *testing.T) {
		t.Setenv("ENVHANCED_BIND_ONLY_OS", "set")
		var cfg struct {
			OnlyOS string `env:"ENVHANCED_BIND_ONLY_OS"`
		}
		require.NoError(t, s.Bind(&cfg))
		assert.Empty(t, cfg.OnlyOS)
	})
}

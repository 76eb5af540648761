package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/cartpile/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	data := `
[cart]
capacity = 12

[cart.pile.region]
right_edge = 480

[cart.pile.jitter]
rotation_jitter_degrees = 0

[server]
addr = "127.0.0.1:9000"
read_timeout = "2s"

[store]
backend = "redis"
redis_db = 3
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Cart.Capacity != 12 {
		t.Errorf("Capacity = %d, want 12", cfg.Cart.Capacity)
	}
	if r := cfg.Cart.Pile.Region; r.Right != 480 || r.RowHeight != 30 {
		t.Errorf("Region = %+v, want right 480 with default row height", r)
	}
	if j := cfg.Cart.Pile.Jitter; j.RotationDegrees != 0 || j.PositionX != 30 {
		t.Errorf("Jitter = %+v", j)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.RedisDB != 3 || cfg.Store.RedisAddr != "localhost:6379" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Meter.Max != 100 {
		t.Errorf("Meter.Max = %d, want default 100", cfg.Meter.Max)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[cart\n", "invalid config"},
		{"unknown key", "[cart]\nsize = 3\n", "unknown config key"},
		{"capacity", "[cart]\ncapacity = 0\n", "capacity"},
		{"region", "[cart.pile.region]\nleft_edge = 400\n", "left_edge"},
		{"jitter", "[cart.pile.jitter]\nposition_jitter_y = -1\n", "position_jitter_y"},
		{"meter", "[meter]\nmax_hp = 0\n", "max_hp"},
		{"backend", "[store]\nbackend = \"sqlite\"\n", "store.backend"},
		{"mongo", "[store]\nbackend = \"mongo\"\nmongo_uri = \"\"\n", "mongo_uri"},
		{"addr", "[server]\naddr = \"\"\n", "server.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %q, want INVALID_CONFIG", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cartpile.toml")
	if err := os.WriteFile(path, []byte("[meter]\ngood_item_heal = 25\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Meter.GoodHeal != 25 {
		t.Errorf("GoodHeal = %d, want 25", cfg.Meter.GoodHeal)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load() of explicit missing file returned nil error")
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without file: %v", err)
	}
	if cfg.Cart.Capacity != Default().Cart.Capacity {
		t.Errorf("Capacity = %d, want default", cfg.Cart.Capacity)
	}

	p, _ := Path()
	if want := filepath.Join(dir, "cartpile", "config.toml"); p != want {
		t.Fatalf("Path() = %q, want %q", p, want)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("[cart]\ncapacity = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Cart.Capacity != 4 {
		t.Errorf("Capacity = %d, want 4 from %s", cfg.Cart.Capacity, p)
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	got, err := DataDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/data", "cartpile", "carts"); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	cfg, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(Encode()) error: %v\n%s", err, buf.String())
	}
	if cfg != Default() {
		t.Errorf("round trip changed config:\n%+v\n%+v", cfg, Default())
	}
}

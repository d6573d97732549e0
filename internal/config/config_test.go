package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/nrfrpc/internal/logging"
	"github.com/danmuck/nrfrpc/internal/testutil/testlog"
	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nrfrpc.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadTemplates(t *testing.T) {
	testlog.Start(t)
	for _, kind := range []string{KindSerial, KindSocket} {
		path := filepath.Join(t.TempDir(), kind+".toml")
		if err := WriteTemplate(path, kind, false); err != nil {
			t.Fatalf("write %s template: %v", kind, err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("load %s template: %v", kind, err)
		}
		if cfg.Transport.Kind != kind {
			t.Fatalf("unexpected kind: %q", cfg.Transport.Kind)
		}
		if len(cfg.Client.Groups) != 2 || cfg.Client.Groups[0] != "bt_rpc" || cfg.Client.Groups[1] != "rpc_utils" {
			t.Fatalf("unexpected groups: %v", cfg.Client.Groups)
		}
		if cfg.Transport.InterByteGap != 5*time.Millisecond {
			t.Fatalf("unexpected gap: %v", cfg.Transport.InterByteGap)
		}
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[transport]
kind = "socket"
address = "/tmp/uart.sock"
network = "unix"

[client]
read_timeout = "750ms"

[[client.groups]]
name = " bt_rpc "

[[client.groups]]
name = ""

[log]
level = "debug"
timestamp = false

[metrics]
enabled = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Transport.Network != "unix" || cfg.Transport.Address != "/tmp/uart.sock" {
		t.Fatalf("unexpected transport: %+v", cfg.Transport)
	}
	if cfg.Transport.Baud != 115200 {
		t.Fatalf("expected default baud, got %d", cfg.Transport.Baud)
	}
	if cfg.Client.ReadTimeout != 750*time.Millisecond {
		t.Fatalf("unexpected read timeout: %v", cfg.Client.ReadTimeout)
	}
	if cfg.Client.ResponseBuffer != 256 {
		t.Fatalf("expected default response buffer, got %d", cfg.Client.ResponseBuffer)
	}
	if len(cfg.Client.Groups) != 1 || cfg.Client.Groups[0] != "bt_rpc" {
		t.Fatalf("unexpected groups: %v", cfg.Client.Groups)
	}
	if !cfg.Metrics.Enabled {
		t.Fatalf("expected metrics enabled")
	}

	lc := cfg.Logging(logging.DefaultConfig(logging.ProfileRuntime))
	if lc.Level != zerolog.DebugLevel || lc.Timestamp {
		t.Fatalf("unexpected logging config: %+v", lc)
	}
	rc := cfg.RPC(nil)
	if rc.ReadTimeout != 750*time.Millisecond || len(rc.Groups) != 1 {
		t.Fatalf("unexpected rpc config: %+v", rc)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	testlog.Start(t)
	tests := map[string]string{
		"unknown kind":     "[transport]\nkind = \"usb\"\n",
		"serial no port":   "[transport]\nkind = \"serial\"\n",
		"socket no addr":   "[transport]\nkind = \"socket\"\n",
		"bad network":      "[transport]\nkind = \"socket\"\naddress = \"x\"\nnetwork = \"udp\"\n",
		"small buffer":     "[transport]\nport = \"/dev/null\"\n[client]\nresponse_buffer = 4\n",
		"bad level":        "[transport]\nport = \"/dev/null\"\n[log]\nlevel = \"loud\"\n",
		"duplicate groups": "[transport]\nport = \"/dev/null\"\n[[client.groups]]\nname = \"a\"\n[[client.groups]]\nname = \"a\"\n",
		"no groups":        "[transport]\nport = \"/dev/null\"\n[client]\ngroups = []\n",
	}
	for name, body := range tests {
		if _, err := Load(writeConfig(t, body)); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected invalid config, got %v", name, err)
		}
	}
}

func TestLoadParseErrors(t *testing.T) {
	testlog.Start(t)
	if _, err := Load(writeConfig(t, "[client]\nread_timeout = \"soon\"\n")); err == nil {
		t.Fatalf("expected duration parse error")
	}
	if _, err := Load(writeConfig(t, "[transport\n")); err == nil {
		t.Fatalf("expected toml parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "# existing\n")
	if err := WriteTemplate(path, KindSerial, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := WriteTemplate(path, KindSerial, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := Template("usb"); err == nil {
		t.Fatalf("expected unknown template kind error")
	}
}

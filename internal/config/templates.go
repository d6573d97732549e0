package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindSerial:
		return serialTemplate, nil
	case KindSocket:
		return socketTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const clientTemplate = `
[client]
# 0 waits for the peer forever.
read_timeout = "0s"
response_buffer = 256

[[client.groups]]
name = "bt_rpc"

[[client.groups]]
name = "rpc_utils"

[log]
level = "info"
no_color = false
timestamp = true

[metrics]
enabled = false
`

const serialTemplate = `[transport]
kind = "serial"
port = "/dev/ttyACM0"
baud = 115200
inter_byte_gap = "5ms"
` + clientTemplate

const socketTemplate = `[transport]
kind = "socket"
network = "tcp"
address = "127.0.0.1:4000"
inter_byte_gap = "5ms"
` + clientTemplate

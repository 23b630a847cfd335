package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "runtime":
		return runtimeTemplate, nil
	case "probe":
		return probeTemplate, nil
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

const runtimeTemplate = `name = "scan-ctl"
addr = ":9600"
cors_origins = ["http://localhost:3000"]
heartbeat = "5s"

[program]
id = "prog.blink"
args = []
period = "100ms"
probe = true
`

const probeTemplate = `addr = "http://127.0.0.1:9600"
timeout = "5s"
`

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/scanctl/internal/logging"
	"github.com/danmuck/scanctl/internal/scan"
)

func main() {
	configPath := flag.String("config", "", "path to a runtime config in TOML; defaults apply when empty")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := scan.DefaultServiceConfig()
	if *configPath != "" {
		loaded, err := loadServiceConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scanctl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	svc := scan.NewServiceWithConfig(cfg)
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "scanctl: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"log"

	"github.com/danmuck/scanctl/internal/config"
)

func main() {
	kind := flag.String("kind", "runtime", "config kind: runtime|probe")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation (defaults to per-kind cmd path)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			switch *kind {
			case "runtime":
				path = "cmd/scanctl/config.toml"
			case "probe":
				path = "cmd/scanprobe/config.toml"
			default:
				log.Fatalf("unknown kind: %s", *kind)
			}
		}

		switch *kind {
		case "runtime":
			if _, err := config.LoadRuntimeConfig(path); err != nil {
				log.Fatal(err)
			}
		case "probe":
			if _, err := config.LoadProbeConfig(path); err != nil {
				log.Fatal(err)
			}
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
		log.Printf("Validated %s config at %s", *kind, path)
		return
	}

	target := *output
	if target == "" {
		switch *kind {
		case "runtime":
			target = "cmd/scanctl/config.toml"
		case "probe":
			target = "cmd/scanprobe/config.toml"
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
	}

	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, target)
}

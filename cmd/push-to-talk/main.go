package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/TanaroSch/push-to-talk/internal/app"
	"github.com/TanaroSch/push-to-talk/internal/config"
)

const version = "v1.0.0"

// The tray loop must own the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fv := config.BindFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	log.Printf("Push to Talk %s starting...", version)

	// Without -config the built-in defaults apply; no file is touched.
	cfg := config.Default()
	if fv.ConfigPathSet {
		var err error
		cfg, err = config.Load(fv.ConfigPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		log.Printf("Loaded config from %s", cfg.GetConfigPath())
	}
	if fv.AnySet() {
		if err := config.ApplyFlags(cfg, fv); err != nil {
			log.Fatalf("Error in flags: %v", err)
		}
	} else {
		log.Println("No command-line options given, using built-in defaults")
	}

	application := app.New(cfg, version)
	if err := application.Run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

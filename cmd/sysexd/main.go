// Command sysexd runs a sysexconf engine against a real serial device,
// driven by a TOML device profile.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	logs "github.com/danmuck/smplog"

	"github.com/faderbank/sysexconf/internal/admin"
	"github.com/faderbank/sysexconf/internal/config"
	"github.com/faderbank/sysexconf/internal/logging"
	"github.com/faderbank/sysexconf/internal/observability"
	"github.com/faderbank/sysexconf/internal/store"
	"github.com/faderbank/sysexconf/internal/sysex"
	"github.com/faderbank/sysexconf/internal/transport"
)

func main() {
	logging.ConfigureRuntime()

	profilePath := flag.String("profile", "", "path to the device profile TOML file")
	serialAddr := flag.String("serial", "", "serial device path, e.g. /dev/ttyUSB0")
	baudRate := flag.Int("baud", 31250, "serial baud rate")
	adminAddr := flag.String("admin", "", "admin HTTP listen address, empty disables it")
	flag.Parse()

	if err := run(*profilePath, *serialAddr, *baudRate, *adminAddr); err != nil {
		fmt.Fprintf(os.Stderr, "sysexd: %v\n", err)
		os.Exit(1)
	}
}

func run(profilePath, serialAddr string, baudRate int, adminAddr string) error {
	if profilePath == "" {
		return fmt.Errorf("-profile is required")
	}
	if serialAddr == "" {
		return fmt.Errorf("-serial is required")
	}

	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return err
	}

	serialCfg := transport.DefaultConfig(serialAddr)
	serialCfg.BaudRate = baudRate
	port, err := transport.Open(serialCfg)
	if err != nil {
		return err
	}
	defer port.Close()

	backend := store.NewMemory(profile)
	backend.SetTransmit(func(message []byte) {
		if err := port.Write(message); err != nil {
			logs.Errf("sysexd: write failed: %v", err)
		}
	})

	engine := sysex.NewEngine(profile.ManufacturerID, backend)
	if err := profile.Install(engine); err != nil {
		return err
	}

	stats := observability.NewStats()
	engine.SetStatsRecorder(stats)

	if adminAddr != "" {
		logger := observability.InitLogger("sysexd")
		srv := admin.NewServer(engine, stats, logger)
		go func() {
			if err := srv.ListenAndServe(adminAddr); err != nil {
				logs.Errf("sysexd: admin server stopped: %v", err)
			}
		}()
		logs.Infof("sysexd: admin surface listening on %s", adminAddr)
	}

	logs.Infof("sysexd: serving %s at %d baud, blocks=%d", serialAddr, baudRate, engine.BlockCount())

	startedAt := time.Now()
	err = port.Run(engine.HandleMessage)
	logs.Errf("sysexd: transport loop ended after %s: %v", time.Since(startedAt), err)
	return err
}

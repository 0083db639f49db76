package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/padpluck/padpluck/internal/config"
	"github.com/padpluck/padpluck/internal/engine"
	"github.com/padpluck/padpluck/internal/midi"
)

func main() {
	var (
		configPath   = flag.String("config", "", "config file path (default: user config dir)")
		profilesPath = flag.String("profiles", "", "instrument profiles YAML path")
		pushPort     = flag.String("push-port", "", "controller port name substring")
		outPort      = flag.String("out-port", "", "virtual output port name")
		listPorts    = flag.Bool("list-ports", false, "list MIDI input ports and exit")
		debug        = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(log, *configPath, *profilesPath, *pushPort, *outPort, *listPorts); err != nil {
		log.Fatal(err)
	}
}

func run(log *logrus.Logger, configPath, profilesPath, pushPort, outPort string, listPorts bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if pushPort != "" {
		cfg.PushPort = pushPort
	}
	if outPort != "" {
		cfg.ProcessedPort = outPort
	}

	manager, err := midi.NewManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	if listPorts {
		names, err := manager.ListInPorts()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	if profilesPath == "" {
		if path, err := config.Path(); err == nil {
			profilesPath = filepath.Join(filepath.Dir(path), "profiles.yaml")
		}
	}
	profiles, err := config.LoadProfiles(profilesPath)
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}
	perform, err := cfg.Perform(profiles)
	if err != nil {
		return fmt.Errorf("assembling configuration: %w", err)
	}

	in, err := manager.FindInPort(cfg.PushPort)
	if err != nil {
		return err
	}
	ctrlPort, err := manager.FindOutPort(cfg.PushPort)
	if err != nil {
		return err
	}
	virtual, err := manager.OpenVirtualOut(cfg.ProcessedPort)
	if err != nil {
		return err
	}

	ctrlSend, err := manager.Sender(ctrlPort)
	if err != nil {
		return err
	}
	ctrlSend = midi.RateLimited(ctrlSend, time.Duration(cfg.PushDelayMs)*time.Millisecond)
	outSend, err := manager.Sender(virtual)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"controller": in.String(),
		"output":     cfg.ProcessedPort,
		"instrument": perform.InstrumentName,
		"tuning":     perform.TuningName,
	}).Info("starting")

	eng := engine.New(engine.Options{
		Device:  midi.GetDevice(midi.DeviceType(cfg.DeviceType)),
		Ctrl:    ctrlSend,
		Out:     outSend,
		Perform: perform,
		Log:     logrus.NewEntry(log),
	})
	if err := eng.Start(); err != nil {
		return fmt.Errorf("initializing controller: %w", err)
	}

	stop, err := manager.Listen(in, eng.Feed)
	if err != nil {
		return err
	}
	defer stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return eng.Run(ctx)
}

func loadConfig(path string) (*config.App, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

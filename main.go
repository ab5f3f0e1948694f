package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mbalug7/go-rfof/pkg/config"
	"github.com/mbalug7/go-rfof/pkg/telemetry"
)

type options struct {
	configPath string
	board      string
	busName    string
	atten      float64
	lna        bool
	ld         float64
	monitor    bool
	json       bool
	set        map[string]bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("rfofctl", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "path to the YAML config")
	fs.StringVar(&o.board, "board", "", "board variant, frx or ftx (overrides config)")
	fs.StringVar(&o.busName, "bus", "", "i2c bus name, e.g. /dev/i2c-1 (overrides config)")
	fs.Float64Var(&o.atten, "atten", 0, "set attenuation in dB (0 - 31.75)")
	fs.BoolVar(&o.lna, "lna", false, "switch the LNA bias on or off (ftx)")
	fs.Float64Var(&o.ld, "ld", 0, "set the laser current in mA (0 - 50, ftx)")
	fs.BoolVar(&o.monitor, "monitor", false, "stream telemetry until interrupted")
	fs.BoolVar(&o.json, "json", false, "print the snapshot as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func loadConfig(o *options) (*config.Config, error) {
	cfg := &config.Config{}
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.set["board"] {
		cfg.Board = o.board
	}
	if o.set["bus"] {
		cfg.Bus.Name = o.busName
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	cfg, err := loadConfig(o)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, o, logger); err != nil {
		logger.Error("rfofctl failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, o *options, logger *zap.Logger) (err error) {
	b, closeBoard, err := openBoard(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeBoard())
	}()

	if err := b.Init(); err != nil {
		return err
	}
	if err := applyControls(b, o, logger); err != nil {
		return err
	}

	if !o.monitor {
		s, cerr := b.Collect(time.Now())
		if o.json {
			err = telemetry.NewEncoder(os.Stdout).Encode(s)
		} else {
			err = telemetry.WriteText(os.Stdout, s)
		}
		return multierr.Append(cerr, err)
	}

	out, closeOut, err := openSink(cfg.Telemetry.Serial)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeOut())
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	enc := telemetry.NewEncoder(out)
	interval := time.Duration(cfg.Telemetry.IntervalMs) * time.Millisecond
	logger.Info("streaming telemetry",
		zap.String("board", cfg.Board),
		zap.Duration("interval", interval),
		zap.String("serial", cfg.Telemetry.Serial.Port))
	return telemetry.Run(ctx, interval, b.Collect, enc.Encode, logger)
}

func applyControls(b *board, o *options, logger *zap.Logger) error {
	if o.set["atten"] {
		if err := b.SetAttenuationDB(o.atten); err != nil {
			return err
		}
		logger.Info("attenuation set", zap.Float64("dB", o.atten))
	}
	if (o.set["lna"] || o.set["ld"]) && b.ftx == nil {
		return fmt.Errorf("-lna and -ld need an %s board", config.BoardFtx)
	}
	if o.set["lna"] {
		if err := b.ftx.EnableLNA(o.lna); err != nil {
			return err
		}
	}
	if o.set["ld"] {
		if err := b.ftx.SetLaserCurrent(o.ld); err != nil {
			return err
		}
		logger.Info("laser current set", zap.Float64("mA", o.ld))
	}
	return nil
}

// openSink returns stdout when no serial port is configured.
func openSink(sc config.SerialConfig) (io.Writer, func() error, error) {
	if sc.Port == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	p, err := telemetry.OpenSerial(sc.Port, sc.Baud)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

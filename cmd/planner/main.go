// Command planner encodes swap request files into router calldata.
//
//	planner -config config.yaml [-register] [-publish] request.yaml...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/you/route-planner/internal/config"
	"github.com/you/route-planner/internal/connectors/redisfeed"
	"github.com/you/route-planner/internal/interop"
	"github.com/you/route-planner/internal/metrics"
	"github.com/you/route-planner/internal/multicall"
	"github.com/you/route-planner/internal/planner"
	"github.com/you/route-planner/internal/request"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.Config{
		Level:    lvl,
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stack",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		// stdout carries the plans
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}

func main() {
	cfgPath := flag.String("config", "", "config file; built-in mainnet defaults when empty")
	register := flag.Bool("register", false, "write plans into the interop fixture file")
	publish := flag.Bool("publish", false, "publish plans to the redis feed")
	linger := flag.Duration("linger", 0, "keep the metrics endpoint up this long after planning")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, "load config:", err)
			os.Exit(2)
		}
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if flag.NArg() == 0 {
		logger.Fatal("no request files given")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Warn("signal received, stopping")
		cancel()
	}()

	var opts []planner.Option
	if *register {
		if cfg.Interop.Path == "" {
			logger.Fatal("-register needs interop.path in the config")
		}
		opts = append(opts, planner.WithFixtures(interop.Open(cfg.Interop.Path)))
	}
	if *publish || cfg.Redis.Enabled {
		pub := redisfeed.NewPublisher(cfg)
		defer pub.Close()
		opts = append(opts, planner.WithFeed(pub))
	}

	svc, err := planner.New(cfg, logger, opts...)
	if err != nil {
		logger.Fatal("planner init", zap.Error(err))
	}
	metrics.Endpoint{Addr: cfg.Metrics.Addr}.Serve(ctx, logger)

	reqs := make([]*request.Request, 0, flag.NArg())
	for _, path := range flag.Args() {
		req, err := request.Load(path)
		if err != nil {
			logger.Fatal("load request", zap.String("path", path), zap.Error(err))
		}
		reqs = append(reqs, req)
	}

	results, planErr := svc.PlanAll(ctx, reqs)
	out := make(map[string]multicall.MethodParameters, len(results))
	for _, r := range results {
		if r.Err == nil {
			out[r.Name] = r.Params
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("write plans", zap.Error(err))
	}

	if *linger > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(*linger):
		}
	}
	if planErr != nil {
		logger.Error("some requests failed", zap.Error(planErr))
		logger.Sync()
		os.Exit(1)
	}
}

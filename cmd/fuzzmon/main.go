package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"fuzzmon/internal/config"
	"fuzzmon/internal/engine"
	"fuzzmon/internal/monitor"
	"fuzzmon/internal/stats"
	"fuzzmon/internal/synth"
)

const (
	ExitSuccess = 0
	ExitError   = 2
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	duration := flag.Duration("duration", 0, "run duration (0 = until interrupted)")
	reportInterval := flag.Duration("report-interval", 0, "override status report interval")
	sampleInterval := flag.Duration("sample-interval", 0, "override program sampling interval")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
		cfg = loaded
	}

	// CLI flags override config file values
	if *reportInterval > 0 {
		cfg.Monitor.ReportInterval = *reportInterval
	}
	if *sampleInterval > 0 {
		cfg.Monitor.SampleInterval = *sampleInterval
	}

	color := term.IsTerminal(int(os.Stdout.Fd()))
	if cfg.Monitor.Color != nil {
		color = *cfg.Monitor.Color
	}
	if *noColor {
		color = false
	}

	eng := engine.New()

	acc := stats.NewAccumulator(eng.Clock)
	acc.Attach(eng)

	mon := monitor.NewMonitor(os.Stdout, acc, eng.Clock)
	mon.ReportInterval = cfg.Monitor.ReportInterval
	mon.SampleInterval = cfg.Monitor.SampleInterval
	mon.Color = color
	mon.Attach(eng)

	var ctx context.Context
	var cancel context.CancelFunc
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), *duration)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	interrupted := false
	go func() {
		<-sigCh
		interrupted = true
		cancel()
	}()

	driver := synth.NewDriver(cfg.Engine, eng, acc)
	start := time.Now()
	_ = driver.Run(ctx)

	reason := fmt.Sprintf("duration elapsed after %v", time.Since(start).Round(time.Second))
	if interrupted {
		reason = "received interrupt signal"
	}
	eng.Loop.Sync(func() {
		eng.Events.PublishShutdown(reason)
	})
	eng.Loop.Stop()

	os.Exit(ExitSuccess)
}

// Command notesock-server is the MIDI trigger relay daemon.
//
// It resolves the configured output port against the connected MIDI
// devices, binds a local socket endpoint, and relays note-name tokens
// received over the socket as Note On/Off pulses.
//
// Usage:
//
//	notesock-server [flags]
//
// Flags:
//
//	--config string          Configuration file path
//	--socket string          Socket endpoint path override
//	--list                   Print all output port names and exit
//	--check                  Resolve the configuration and exit without starting
//	--event-log string       Append structured events to this file
//	--metrics-listen string  Serve Prometheus metrics on this host:port
//	--version                Print the version and exit
//
// Exit codes: 0 on success and when another instance is already
// running, 1 on open/bind failures, 2 on configuration and resolution
// failures.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/notesock/notesock-go/pkg/catalog"
	"github.com/notesock/notesock-go/pkg/config"
	"github.com/notesock/notesock-go/pkg/log"
	"github.com/notesock/notesock-go/pkg/match"
	"github.com/notesock/notesock-go/pkg/metric"
	"github.com/notesock/notesock-go/pkg/output/rtmidi"
	"github.com/notesock/notesock-go/pkg/service"
	"github.com/notesock/notesock-go/pkg/transport"
	"github.com/notesock/notesock-go/pkg/version"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

var (
	flagConfig        = flag.String("config", "", "configuration file path")
	flagSocket        = flag.String("socket", "", "socket endpoint path override")
	flagList          = flag.Bool("list", false, "print all output port names and exit")
	flagCheck         = flag.Bool("check", false, "resolve the configuration and exit without starting")
	flagEventLog      = flag.String("event-log", "", "append structured events to this file")
	flagMetricsListen = flag.String("metrics-listen", "", "serve Prometheus metrics on this host:port")
	flagVersion       = flag.Bool("version", false, "print the version and exit")
)

func main() {
	flag.Parse()
	os.Exit(run(log.NewDiagnosticLogger()))
}

func run(logger *slog.Logger) int {
	if *flagVersion {
		fmt.Println("notesock-server " + version.String())
		return exitOK
	}
	if *flagList {
		return listPorts()
	}
	if *flagCheck {
		return checkConfig(logger)
	}
	return serve(logger)
}

// listPorts prints every healed output port name, one per line.
func listPorts() int {
	driver, err := rtmidi.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize MIDI:", err)
		return exitRuntime
	}
	defer driver.Close()

	recs, err := catalog.List(driver)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to enumerate output ports:", err)
		return exitRuntime
	}
	for _, rec := range recs {
		fmt.Println(rec.Display)
	}
	return exitOK
}

// checkConfig resolves the configuration against the live catalog and
// prints the selected port without opening anything.
func checkConfig(logger *slog.Logger) int {
	driver, err := rtmidi.New()
	if err != nil {
		logger.Error("failed to initialize MIDI", "err", err)
		return exitRuntime
	}
	defer driver.Close()

	cfg, code := loadConfig(logger, driver)
	if cfg == nil {
		return code
	}

	recs, err := catalog.List(driver)
	if err != nil {
		logger.Error("failed to enumerate output ports", "err", err)
		return exitRuntime
	}
	sel, err := match.Resolve(recs, cfg.Device, cfg.Port)
	if err != nil {
		reportResolutionFailure(logger, err)
		return exitConfig
	}

	fmt.Printf("%s (channel %d)\n", sel.Display, cfg.Channel)
	return exitOK
}

func serve(logger *slog.Logger) int {
	// The guard must run before the MIDI driver loads: a second instance
	// exits on the probe without paying for device enumeration.
	cfg, code := loadConfig(logger, nil)
	if cfg == nil {
		return code
	}
	socketPath := endpointPath(cfg)

	if err := transport.Probe(socketPath); err != nil {
		if errors.Is(err, transport.ErrAlreadyRunning) {
			logger.Info("another instance is already running", "socket", socketPath)
			return exitOK
		}
		logger.Error("refusing socket endpoint", "socket", socketPath, "err", err)
		return exitRuntime
	}

	driver, err := rtmidi.New()
	if err != nil {
		logger.Error("failed to initialize MIDI", "err", err)
		return exitRuntime
	}
	defer driver.Close()

	events, closeEvents, code := buildEventLogger(logger, cfg)
	if events == nil {
		return code
	}
	defer closeEvents()

	var metrics *metric.Metrics
	var metricsServer *metric.Server
	if addr := metricsAddr(cfg); addr != "" {
		metrics = metric.NewMetrics()
		metricsServer = metric.NewServer(addr, metrics)
		if err := metricsServer.Start(); err != nil {
			logger.Error("failed to start metrics endpoint", "err", err)
			return exitRuntime
		}
		defer func() { _ = metricsServer.Stop() }()
		logger.Info("metrics endpoint listening", "addr", metricsServer.Addr())
	}

	svc, err := service.New(service.Config{
		SocketPath:   socketPath,
		Channel:      cfg.Channel,
		DeviceFilter: cfg.Device,
		PortFilter:   cfg.Port,
		Driver:       driver,
		Logger:       logger,
		EventLogger:  events,
		Metrics:      metrics,
	})
	if err != nil {
		logger.Error("invalid service configuration", "err", err)
		return exitConfig
	}

	if err := svc.Start(); err != nil {
		switch {
		case errors.Is(err, transport.ErrAlreadyRunning):
			// Lost the race to another instance between probe and bind.
			logger.Info("another instance is already running", "socket", socketPath)
			return exitOK
		case errors.Is(err, match.ErrNoMatch), errors.Is(err, match.ErrAmbiguous):
			reportResolutionFailure(logger, err)
			return exitConfig
		default:
			logger.Error("failed to start", "err", err)
			return exitRuntime
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	if err := svc.Stop(); err != nil {
		logger.Warn("shutdown incomplete", "err", err)
	}
	return exitOK
}

// loadConfig loads and validates the configuration. On a missing file it
// prints a hint listing the currently available ports; the driver may be
// nil, in which case enumeration for the hint is attempted on a throwaway
// driver. Returns nil and the exit code on failure.
func loadConfig(logger *slog.Logger, driver *rtmidi.Driver) (*config.Config, int) {
	path := *flagConfig
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			logger.Error("cannot determine config path", "err", err)
			return nil, exitConfig
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrMissing) {
			logger.Error("config file not found", "path", path)
			printAvailableHint(driver)
		} else {
			logger.Error("invalid config", "path", path, "err", err)
		}
		return nil, exitConfig
	}
	return cfg, exitOK
}

// printAvailableHint lists the currently available ports on stderr so the
// operator can write a first config. Best-effort.
func printAvailableHint(driver *rtmidi.Driver) {
	if driver == nil {
		d, err := rtmidi.New()
		if err != nil {
			return
		}
		defer d.Close()
		driver = d
	}
	recs, err := catalog.List(driver)
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stderr, "available output ports:")
	for _, rec := range recs {
		fmt.Fprintln(os.Stderr, "  "+rec.Display)
	}
}

// reportResolutionFailure prints the matched and available port lists so
// the operator can fix the filter.
func reportResolutionFailure(logger *slog.Logger, err error) {
	logger.Error("cannot resolve output port", "err", err)

	var resErr *match.ResolutionError
	if !errors.As(err, &resErr) {
		return
	}
	if len(resErr.Matched) > 1 {
		fmt.Fprintln(os.Stderr, "filter matched multiple ports:")
		for _, name := range resErr.Matched {
			fmt.Fprintln(os.Stderr, "  "+name)
		}
	}
	fmt.Fprintln(os.Stderr, "available output ports:")
	for _, name := range resErr.All {
		fmt.Fprintln(os.Stderr, "  "+name)
	}
}

// buildEventLogger assembles the event sink: diagnostics always, plus the
// capture file when configured. The returned closer flushes the file.
func buildEventLogger(logger *slog.Logger, cfg *config.Config) (log.Logger, func(), int) {
	adapter := log.NewSlogAdapter(logger)

	path := *flagEventLog
	if path == "" {
		path = cfg.EventLog
	}
	if path == "" {
		return adapter, func() {}, exitOK
	}

	fileLogger, err := log.NewFileLogger(path)
	if err != nil {
		logger.Error("failed to open event log", "path", path, "err", err)
		return nil, nil, exitRuntime
	}
	closer := func() { _ = fileLogger.Close() }
	return log.NewMultiLogger(adapter, fileLogger), closer, exitOK
}

// endpointPath applies the override precedence: flag, config, default.
func endpointPath(cfg *config.Config) string {
	if *flagSocket != "" {
		return *flagSocket
	}
	if cfg.Socket != "" {
		return cfg.Socket
	}
	return transport.DefaultSocketPath()
}

// metricsAddr applies the override precedence: flag, config.
func metricsAddr(cfg *config.Config) string {
	if *flagMetricsListen != "" {
		return *flagMetricsListen
	}
	return cfg.MetricsListen
}

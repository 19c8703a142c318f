// Command robomaster-driver opens a control session with a RoboMaster
// chassis over SocketCAN, optionally running a short scripted demo
// sequence and printing decoded telemetry as it arrives.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samsamfire/gorobomaster/chassis"
	"github.com/samsamfire/gorobomaster/engine"
	"github.com/samsamfire/gorobomaster/telemetry"
	"github.com/samsamfire/gorobomaster/transport"
	"github.com/samsamfire/gorobomaster/transport/brutella"
	"github.com/samsamfire/gorobomaster/transport/socketcan"
)

func main() {
	iface := flag.String("i", "can0", "SocketCAN interface name")
	transportName := flag.String("transport", "socketcan", "CAN backend: socketcan or brutella")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	demo := flag.Bool("demo", false, "run a short scripted sequence (work mode, forward, turn, LED breath, stop)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	bus, err := newTransport(*transportName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	eng := engine.New(bus, engine.Logger(logger))
	controller := chassis.New(eng, chassis.Logger(logger))

	controller.SetCallback(func(s telemetry.State) {
		if s.Battery.HasData {
			logger.Info("telemetry", "battery_percent", s.Battery.Percent, "current_ma", s.Battery.Current)
		}
		if s.Attitude.HasData {
			logger.Debug("attitude", "yaw", s.Attitude.Yaw, "pitch", s.Attitude.Pitch, "roll", s.Attitude.Roll)
		}
	})

	if err := controller.Open(*iface); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", *iface, err)
		os.Exit(1)
	}
	defer controller.Close()

	logger.Info("driver running", "interface", *iface)

	if *demo {
		runDemo(controller, logger)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

func runDemo(c *chassis.Controller, logger *slog.Logger) {
	logger.Info("demo: work mode on")
	c.SetWorkMode(true)
	time.Sleep(200 * time.Millisecond)

	logger.Info("demo: forward")
	c.SetVelocity(0.5, 0, 0)
	time.Sleep(1 * time.Second)

	logger.Info("demo: turning")
	c.SetVelocity(0, 0, 90)
	time.Sleep(1 * time.Second)

	logger.Info("demo: led breath")
	c.SetLEDBreath(chassis.LEDMaskAll, 0, 255, 0, 500*time.Millisecond, 500*time.Millisecond)
	time.Sleep(500 * time.Millisecond)

	logger.Info("demo: stop")
	c.Stop()
}

func newTransport(name string) (transport.Transport, error) {
	switch name {
	case "socketcan":
		return socketcan.New(), nil
	case "brutella":
		return brutella.New(), nil
	default:
		return nil, fmt.Errorf("unknown transport %q (want socketcan or brutella)", name)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

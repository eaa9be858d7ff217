// Command encoder reads JSON message descriptions, encodes them as
// application-specific messages and prints the framed sentences. The
// sentences can also be written to a transponder on a serial port or sent
// to UDP destinations.
//
// Each description is a JSON object such as
//
//	{"kind": "text_description", "message": {"source_id": 366123456, "link_id": 7, "text": "NO ANCHORING"}}
//
// where kind is one of area_notice, env_report, met_hydro,
// text_description or traffic_signal.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.bug.st/serial"

	"github.com/madpsy/aisasm/logging"
	"github.com/madpsy/aisasm/metrics"
	"github.com/madpsy/aisasm/sentence"
	"github.com/madpsy/aisasm/seqstore"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := fs.String("config", "settings.json", "Path to settings.json")
	var over flagOverrides
	over.register(fs)
	fs.Parse(os.Args[1:])

	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		log.Fatalf("%v", err)
	}
	over.apply(fs, &cfg)
	logging.Setup("", cfg.Debug)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	failed, err := run(ctx, cfg)
	if err != nil {
		log.Fatalf("%d description(s) failed, first: %v", failed, err)
	}
}

func run(ctx context.Context, cfg Config) (int, error) {
	opts, err := cfg.Options()
	if err != nil {
		return 0, err
	}

	framer := sentence.NewFramer()
	if cfg.RedisAddr != "" {
		store, err := seqstore.New(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return 0, err
		}
		defer store.Close()
		if cfg.RedisPrefix != "" {
			store.Prefix = cfg.RedisPrefix
		}
		store.Debug = cfg.Debug
		framer.Seq = store
		log.Printf("Allocating sequence identifiers from Redis at %s", cfg.RedisAddr)
	}

	sinks := []io.Writer{os.Stdout}
	if cfg.SerialPort != "" {
		port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: cfg.SerialBaud})
		if err != nil {
			return 0, err
		}
		defer port.Close()
		log.Printf("Writing to %s @ %d baud", cfg.SerialPort, cfg.SerialBaud)
		sinks = append(sinks, port)
	}
	for _, d := range splitAndTrim(cfg.UDPDestinations, ",") {
		addr, err := net.ResolveUDPAddr("udp", d)
		if err != nil {
			return 0, err
		}
		c, err := net.DialUDP("udp", nil, addr)
		if err != nil {
			return 0, err
		}
		defer c.Close()
		log.Printf("Forwarding to %s", addr)
		sinks = append(sinks, c)
	}

	in := io.Reader(os.Stdin)
	if cfg.Input != "-" && cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		in = f
	}

	stats := metrics.New()
	e := &Emitter{
		Framer:    framer,
		Options:   opts,
		ByteAlign: cfg.ByteAlign,
		Sinks:     sinks,
		Stats:     stats,
		Debug:     cfg.Debug,
	}
	failed, err := e.Run(ctx, in)
	snap := stats.Roll(time.Now(), 0)
	log.Printf("Encoded %d messages, %d failed", snap.Totals["encoded"], failed)
	return failed, err
}

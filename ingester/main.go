// Command ingester reads AIS sentences from stdin, a file, UDP, a serial
// port or MQTT, reassembles them and prints one JSON record per decoded
// message.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/madpsy/aisasm/logging"
	"github.com/madpsy/aisasm/metrics"
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
	failed := logging.OpenFailedDecodeLog(filepath.Dir(*configPath), cfg.FailedDecodeLog, cfg.LogRotation)
	defer failed.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, failed); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg Config, failed *logging.FailedDecodeLog) error {
	stats := metrics.New()
	pipe := NewPipeline(os.Stdout, stats, failed)
	pipe.IncludeRaw = cfg.IncludeRaw
	pipe.Debug = cfg.Debug
	pipe.SetDedupeWindow(time.Duration(cfg.DedupeWindowMs) * time.Millisecond)

	if cfg.HTTPPort != 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", stats.Handler())
		srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.HTTPPort), Handler: mux}
		go func() {
			log.Printf("Serving /metrics on port %d", cfg.HTTPPort)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	if cfg.Host != "" {
		reporter, err := metrics.NewInfluxReporter(cfg.InfluxConfig, map[string]string{"service": "ingester"})
		if err != nil {
			log.Printf("warning: InfluxDB disabled: %v", err)
		} else {
			defer reporter.Close()
			interval := time.Duration(cfg.Interval) * time.Second
			if interval <= 0 {
				interval = time.Minute
			}
			go reporter.Run(ctx, stats, interval)
		}
	}

	lines := make(chan Line, 1000)
	var wg sync.WaitGroup
	start := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				log.Printf("%s: %v", name, err)
			}
		}()
	}

	sources := 0
	if cfg.Input != "" {
		sources++
		start("input", func() error {
			if cfg.Input == "-" {
				return readLines(ctx, os.Stdin, "stdin", false, lines)
			}
			f, err := os.Open(cfg.Input)
			if err != nil {
				return err
			}
			defer f.Close()
			return readLines(ctx, f, "file:"+filepath.Base(cfg.Input), false, lines)
		})
	}
	if cfg.UDPListenPort != 0 {
		sources++
		start("udp", func() error { return serveUDP(ctx, cfg.UDPListenPort, lines) })
	}
	if cfg.SerialPort != "" {
		sources++
		start("serial", func() error { return serveSerial(ctx, cfg.SerialPort, cfg.SerialBaud, lines) })
	}
	if cfg.MQTTServer != "" {
		client, err := subscribeMQTT(cfg, lines)
		if err != nil {
			log.Printf("%v", err)
		} else {
			sources++
			defer func() {
				client.Disconnect(250)
				log.Println("Disconnected from MQTT broker")
			}()
		}
	}
	if sources == 0 {
		return fmt.Errorf("no input configured")
	}

	// A file or stdin alone ends the run at EOF.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	streaming := cfg.UDPListenPort != 0 || cfg.SerialPort != "" || cfg.MQTTServer != ""

	ttl := cfg.FragmentTTL()
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case l := <-lines:
			pipe.Handle(l)
		case <-ticker.C:
			pipe.Expire(ttl)
		case <-done:
			if streaming {
				done = nil
				continue
			}
			for {
				select {
				case l := <-lines:
					pipe.Handle(l)
				default:
					pipe.Expire(0)
					return nil
				}
			}
		case <-ctx.Done():
			pipe.Expire(0)
			return nil
		}
	}
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/madpsy/aisasm/logging"
	"github.com/madpsy/aisasm/metrics"
)

type Config struct {
	// Input is a file to read sentences from; "-" is stdin. Empty
	// disables it.
	Input         string `json:"input"`
	UDPListenPort int    `json:"udp_listen_port"`
	SerialPort    string `json:"serial_port"`
	SerialBaud    int    `json:"serial_baud"`
	MQTTServer    string `json:"mqtt_server"`
	MQTTTLS       bool   `json:"mqtt_tls"`
	MQTTAuth      string `json:"mqtt_auth"`
	MQTTTopic     string `json:"mqtt_topic"`
	HTTPPort      int    `json:"http_port"`
	// FragmentTTLMs is how long a partial multi-sentence group may wait.
	FragmentTTLMs int `json:"fragment_ttl_ms"`
	// DedupeWindowMs drops a sentence seen again within the window; 0
	// disables it.
	DedupeWindowMs  int              `json:"dedupe_window_ms"`
	FailedDecodeLog string           `json:"failed_decode_log"`
	LogRotation     logging.Rotation `json:"failed_decode_log_rotation"`
	IncludeRaw      bool             `json:"include_raw"`
	Debug           bool             `json:"debug"`
	metrics.InfluxConfig
}

func defaultConfig() Config {
	return Config{
		Input:          "-",
		SerialBaud:     38400,
		MQTTTopic:      "ais/nmea",
		FragmentTTLMs:  2000,
		DedupeWindowMs: 1000,
		InfluxConfig:   metrics.InfluxConfig{Port: 8086, Database: "aisasm", Interval: 60},
	}
}

func (c Config) FragmentTTL() time.Duration {
	return time.Duration(c.FragmentTTLMs) * time.Millisecond
}

// loadConfig reads path over the defaults. A missing file is fine when
// the path was not given explicitly.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid JSON in %q: %w", path, err)
	}
	if cfg.FailedDecodeLog != "" && !filepath.IsAbs(cfg.FailedDecodeLog) {
		cfg.FailedDecodeLog = filepath.Join(filepath.Dir(path), cfg.FailedDecodeLog)
	}
	return cfg, nil
}

// flagOverrides holds the command line values; only flags that were set
// replace the file values.
type flagOverrides struct {
	input      string
	udpPort    int
	serialPort string
	baud       int
	mqttServer string
	mqttTopic  string
	httpPort   int
	ttlMs      int
	dedupeMs   int
	failedLog  string
	includeRaw bool
	debug      bool
}

func (o *flagOverrides) register(fs *flag.FlagSet) {
	fs.StringVar(&o.input, "input", "-", "File to read sentences from, - for stdin, empty to disable")
	fs.IntVar(&o.udpPort, "udp-port", 0, "UDP port to listen on for sentences")
	fs.StringVar(&o.serialPort, "serial", "", "Serial port device")
	fs.IntVar(&o.baud, "baud", 38400, "Serial baud rate")
	fs.StringVar(&o.mqttServer, "mqtt-server", "", "MQTT broker host:port")
	fs.StringVar(&o.mqttTopic, "mqtt-topic", "ais/nmea", "MQTT topic carrying raw sentences")
	fs.IntVar(&o.httpPort, "http-port", 0, "Port for the /metrics endpoint")
	fs.IntVar(&o.ttlMs, "fragment-ttl", 2000, "Milliseconds a partial group may wait")
	fs.IntVar(&o.dedupeMs, "dedupe-window", 1000, "Deduplication window in milliseconds, 0 to disable")
	fs.StringVar(&o.failedLog, "failed-log", "", "Failed decode log file")
	fs.BoolVar(&o.includeRaw, "include-raw", false, "Include the source sentences in the output")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
}

func (o *flagOverrides) apply(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = o.input
		case "udp-port":
			cfg.UDPListenPort = o.udpPort
		case "serial":
			cfg.SerialPort = o.serialPort
		case "baud":
			cfg.SerialBaud = o.baud
		case "mqtt-server":
			cfg.MQTTServer = o.mqttServer
		case "mqtt-topic":
			cfg.MQTTTopic = o.mqttTopic
		case "http-port":
			cfg.HTTPPort = o.httpPort
		case "fragment-ttl":
			cfg.FragmentTTLMs = o.ttlMs
		case "dedupe-window":
			cfg.DedupeWindowMs = o.dedupeMs
		case "failed-log":
			cfg.FailedDecodeLog = o.failedLog
		case "include-raw":
			cfg.IncludeRaw = o.includeRaw
		case "debug":
			cfg.Debug = o.debug
		}
	})
}

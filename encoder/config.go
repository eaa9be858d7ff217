package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/madpsy/aisasm/sentence"
)

type Config struct {
	// Input is a file of message descriptions; "-" is stdin.
	Input   string `json:"input"`
	Type    string `json:"type"`
	Talker  string `json:"talker"`
	Channel string `json:"channel"`
	// BBMMessageType is 8 or 14 for BBM output.
	BBMMessageType int    `json:"bbm_message_type"`
	ByteAlign      bool   `json:"byte_align"`
	SerialPort     string `json:"serial_port"`
	SerialBaud     int    `json:"serial_baud"`
	// UDPDestinations is a comma-separated list of host:port.
	UDPDestinations string `json:"udp_destinations"`
	RedisAddr       string `json:"redis_addr"`
	RedisDB         int    `json:"redis_db"`
	RedisPrefix     string `json:"redis_prefix"`
	Debug           bool   `json:"debug"`
}

func defaultConfig() Config {
	return Config{
		Input:          "-",
		Type:           sentence.TypeVDM,
		Talker:         "AI",
		BBMMessageType: 8,
		SerialBaud:     38400,
	}
}

// Options returns the framing options for the configured sentence type.
func (c Config) Options() (sentence.Options, error) {
	opts := sentence.Options{
		Talker:  c.Talker,
		Type:    strings.ToUpper(c.Type),
		Channel: c.Channel,
	}
	switch opts.Type {
	case sentence.TypeVDM, sentence.TypeVDO:
	case sentence.TypeBBM:
		opts.MessageType = c.BBMMessageType
	default:
		return opts, fmt.Errorf("unsupported sentence type %q", c.Type)
	}
	return opts, nil
}

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
	return cfg, nil
}

type flagOverrides struct {
	input     string
	typ       string
	channel   string
	byteAlign bool
	serial    string
	baud      int
	udp       string
	redis     string
	debug     bool
}

func (o *flagOverrides) register(fs *flag.FlagSet) {
	fs.StringVar(&o.input, "input", "-", "File of JSON message descriptions, - for stdin")
	fs.StringVar(&o.typ, "type", sentence.TypeVDM, "Sentence type: VDM, VDO or BBM")
	fs.StringVar(&o.channel, "channel", "", "Radio channel (A/B for VDM/VDO, 0-3 for BBM)")
	fs.BoolVar(&o.byteAlign, "byte-align", false, "Zero-pad the payload to a whole number of bytes")
	fs.StringVar(&o.serial, "serial", "", "Transponder serial port to write sentences to")
	fs.IntVar(&o.baud, "baud", 38400, "Serial baud rate")
	fs.StringVar(&o.udp, "udp", "", "Comma-separated UDP destinations")
	fs.StringVar(&o.redis, "redis", "", "Redis host:port for shared sequence identifiers")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
}

func (o *flagOverrides) apply(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = o.input
		case "type":
			cfg.Type = o.typ
		case "channel":
			cfg.Channel = o.channel
		case "byte-align":
			cfg.ByteAlign = o.byteAlign
		case "serial":
			cfg.SerialPort = o.serial
		case "baud":
			cfg.SerialBaud = o.baud
		case "udp":
			cfg.UDPDestinations = o.udp
		case "redis":
			cfg.RedisAddr = o.redis
		case "debug":
			cfg.Debug = o.debug
		}
	})
}

// splitAndTrim splits and trims.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

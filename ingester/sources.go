package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.bug.st/serial"
)

// Line is one received sentence and where it came from.
type Line struct {
	Source string
	Text   string
}

// splitLines queues every non-empty line of chunk.
func splitLines(source, chunk string, out chan<- Line) {
	for _, l := range strings.Split(chunk, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out <- Line{Source: source, Text: l}
		}
	}
}

// readLines queues lines from r until EOF or ctx ends. With follow, EOF
// is retried, as a serial port returns it between bursts.
func readLines(ctx context.Context, r io.Reader, source string, follow bool, out chan<- Line) error {
	reader := bufio.NewReader(r)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		frame, err := reader.ReadString('\n')
		if frame != "" {
			splitLines(source, frame, out)
		}
		if err != nil {
			if err == io.EOF {
				if !follow {
					return nil
				}
				time.Sleep(10 * time.Millisecond)
				continue
			}
			return fmt.Errorf("%s read error: %w", source, err)
		}
	}
}

// serveSerial reads sentences from a receiver on a serial port.
func serveSerial(ctx context.Context, device string, baud int, out chan<- Line) error {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(device, mode)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", device, err)
	}
	defer port.Close()
	log.Printf("Listening on %s @ %d baud", device, baud)
	go func() {
		<-ctx.Done()
		port.Close()
	}()
	return readLines(ctx, port, "serial:"+device, true, out)
}

// serveUDP reads datagrams of one or more sentences.
func serveUDP(ctx context.Context, port int, out chan<- Line) error {
	addr := fmt.Sprintf(":%d", port)
	pc, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("UDP listen %s: %w", addr, err)
	}
	log.Printf("Listening on UDP port %d", port)
	go func() {
		<-ctx.Done()
		pc.Close()
	}()
	buf := make([]byte, 65536)
	for {
		n, from, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("UDP read error on port %d: %v", port, err)
			continue
		}
		host, _, _ := net.SplitHostPort(from.String())
		splitLines("udp:"+host, string(buf[:n]), out)
	}
}

// subscribeMQTT connects to the broker and queues every line of every
// message published on topic.
func subscribeMQTT(cfg Config, out chan<- Line) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	scheme := "tcp://"
	if cfg.MQTTTLS {
		scheme = "ssl://"
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.AddBroker(scheme + cfg.MQTTServer)

	if cfg.MQTTAuth != "" {
		authParts := strings.SplitN(cfg.MQTTAuth, ":", 2)
		if len(authParts) == 2 {
			opts.SetUsername(authParts[0])
			opts.SetPassword(authParts[1])
		} else {
			log.Printf("Invalid MQTT authentication format. Expected user:pass.")
		}
	}

	opts.SetClientID(fmt.Sprintf("aisasm-ingester-%d", time.Now().UnixNano()))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	source := "mqtt:" + cfg.MQTTTopic
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		token := c.Subscribe(cfg.MQTTTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			splitLines(source, string(msg.Payload()), out)
		})
		if token.Wait() && token.Error() != nil {
			log.Printf("Failed to subscribe to %s: %v", cfg.MQTTTopic, token.Error())
			return
		}
		log.Printf("Subscribed to MQTT topic %s", cfg.MQTTTopic)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	log.Printf("Successfully connected to MQTT broker: %s", cfg.MQTTServer)
	return client, nil
}

// Command binarydecoder decodes a single application-specific message
// given on the command line, either as Base64 bytes or as an armored
// payload, and prints it as JSON.
package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/madpsy/aisasm/armor"
	"github.com/madpsy/aisasm/bitbuf"
	"github.com/madpsy/aisasm/decoders"
)

// input returns the message bits from exactly one of the two encodings.
func input(b64, payload string, pad int) (*bitbuf.Buffer, error) {
	switch {
	case b64 != "" && payload != "":
		return nil, fmt.Errorf("use either -message or -payload, not both")
	case b64 != "":
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("error decoding Base64: %w", err)
		}
		return bitbuf.FromBytes(raw), nil
	case payload != "":
		return armor.Unpack(payload, pad)
	}
	return nil, fmt.Errorf("no message given")
}

// decode returns the JSON form of the message in b. The zero fill of a
// Base64 byte string is at most seven bits, which the decoders accept as
// residual.
func decode(d *decoders.Decoder, b *bitbuf.Buffer) ([]byte, error) {
	m, err := d.Decode(b)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(m, "", "  ")
}

func main() {
	msgPtr := flag.String("message", "", "Base64 encoded message bytes, envelope included")
	payloadPtr := flag.String("payload", "", "Armored payload as carried in a VDM sentence")
	padPtr := flag.Int("pad", 0, "Fill bits of the armored payload")
	debug := flag.Bool("debug", false, "Print the raw bits")
	flag.Parse()

	b, err := input(*msgPtr, *payloadPtr, *padPtr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: binarydecoder -message <Base64Message> | -payload <armored> [-pad n]")
		log.Fatalf("%v", err)
	}
	if *debug {
		log.Printf("[DEBUG] %d bits: %s", b.Len(), b)
	}

	out, err := decode(decoders.DefaultDecoder, b)
	if err != nil {
		log.Fatalf("decode failure: %v", err)
	}
	fmt.Println(string(out))
}

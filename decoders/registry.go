package decoders

import (
	"fmt"

	"github.com/madpsy/aisasm/bitbuf"
)

// Key identifies an application-specific message by MessageID, DAC and FI.
type Key struct {
	MessageID, DAC, FI int
}

// DecoderFunc decodes the payload that follows the 56-bit envelope.
type DecoderFunc func(d *Decoder, env Envelope, payload *bitbuf.Buffer) (Message, error)

var registry = make(map[Key]DecoderFunc)

// RegisterDecoder is called by each message in its init().
func RegisterDecoder(messageID, dac, fi int, fn DecoderFunc) {
	key := Key{messageID, dac, fi}
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("decoder for %v already registered", key))
	}
	registry[key] = fn
}

// Get returns the DecoderFunc (if any) for this triple.
func Get(messageID, dac, fi int) (DecoderFunc, bool) {
	fn, ok := registry[Key{messageID, dac, fi}]
	return fn, ok
}

// Registered lists the known keys.
func Registered() []Key {
	keys := make([]Key, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	return keys
}

package main

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/madpsy/aisasm/armor"
	"github.com/madpsy/aisasm/decoders"
)

func TestDecodeBase64(t *testing.T) {
	m := decoders.NewMetHydro(2655619)
	m.WindSpeed = decoders.Some(12)
	b, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	in, err := input(base64.StdEncoding.EncodeToString(b.Bytes()), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	out, err := decode(decoders.DefaultDecoder, in)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		SourceID  uint32 `json:"source_id"`
		FI        int    `json:"fi"`
		WindSpeed *int   `json:"wind_speed"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got.SourceID != 2655619 || got.FI != 31 || got.WindSpeed == nil || *got.WindSpeed != 12 {
		t.Errorf("decoded %s", out)
	}
}

func TestDecodePayload(t *testing.T) {
	m := decoders.NewTextDescription(366123456, 4, "KEEP CLEAR")
	b, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	payload, pad, err := armor.Pack(b, true)
	if err != nil {
		t.Fatal(err)
	}
	in, err := input("", payload, pad)
	if err != nil {
		t.Fatal(err)
	}
	out, err := decode(decoders.DefaultDecoder, in)
	if err != nil {
		t.Fatal(err)
	}
	var got decoders.TextDescription
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got.Text != "KEEP CLEAR" || got.LinkID != 4 {
		t.Errorf("decoded %s", out)
	}
}

func TestDecodeBase64Padded(t *testing.T) {
	// 56 + 10 + 6*6 = 102 bits, sent as 13 bytes
	m := decoders.NewTextDescription(366123456, 1, "HELLO!")
	b, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	in, err := input(base64.StdEncoding.EncodeToString(b.Bytes()), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if in.Len() != 104 {
		t.Fatalf("%d bits", in.Len())
	}
	out, err := decode(decoders.DefaultDecoder, in)
	if err != nil {
		t.Fatal(err)
	}
	var got decoders.TextDescription
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got.Text != "HELLO!" {
		t.Errorf("decoded %s", out)
	}
}

func TestInputErrors(t *testing.T) {
	if _, err := input("", "", 0); err == nil {
		t.Error("empty input accepted")
	}
	if _, err := input("AAAA", "13u", 0); err == nil {
		t.Error("both encodings accepted")
	}
	if _, err := input("not base64!", "", 0); err == nil {
		t.Error("bad Base64 accepted")
	}
}

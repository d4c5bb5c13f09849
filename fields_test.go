package zvt

import (
	"bytes"
	"context"
	"testing"
)

func TestBCDCodecRoundTrip(t *testing.T) {
	c := BCDCodec{Length: 3}
	data, err := c.Serialize(context.Background(), "000123")
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(data, []byte{0x00, 0x01, 0x23}) {
		t.Errorf("data = %x, want 000123", data)
	}
	v, rest, err := c.Parse(context.Background(), data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.(string) != "000123" || len(rest) != 0 {
		t.Errorf("Parse = %v/%x, want 000123/empty", v, rest)
	}
}

func TestBCDCodecTogeratesPseudoTetrade(t *testing.T) {
	// 0xFF is not a valid packed-decimal byte but receipt numbers use it
	// as a sentinel ("FFFF" meaning "all"); Parse must tolerate it.
	v, _, err := (BCDCodec{Length: 2}).Parse(context.Background(), []byte{0xff, 0xff})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.(string) != "FFFF" {
		t.Errorf("Parse = %v, want FFFF", v)
	}
}

func TestStringCodecNegativeLengthConsumesRemainder(t *testing.T) {
	c := StringCodec{Length: -1}
	v, rest, err := c.Parse(context.Background(), []byte("hello world"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.(string) != "hello world" {
		t.Errorf("Parse = %q, want %q", v, "hello world")
	}
	if rest != nil {
		t.Errorf("rest = %v, want nil", rest)
	}

	out, err := c.Serialize(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(out) != "abc" {
		t.Errorf("Serialize = %q, want %q (no padding)", out, "abc")
	}
}

func TestStringCodecFixedLengthPads(t *testing.T) {
	c := StringCodec{Length: 5}
	out, err := c.Serialize(context.Background(), "ab")
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(out) != 5 {
		t.Errorf("len(out) = %d, want 5", len(out))
	}
}

func TestVarBytesCodecLLLVARRoundTrip(t *testing.T) {
	c := VarBytesCodec{HeaderDigits: 3}
	payload := []byte{0x01, 0x02, 0x03}
	data, err := c.Serialize(context.Background(), payload)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	wantHeader := []byte{0xf0, 0xf0, 0xf3}
	if !bytes.Equal(data[:3], wantHeader) {
		t.Errorf("header = %x, want %x", data[:3], wantHeader)
	}
	v, rest, err := c.Parse(context.Background(), data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(v.([]byte), payload) || len(rest) != 0 {
		t.Errorf("Parse = %x/%x, want %x/empty", v, rest, payload)
	}
}

func TestVarLengthDigitsRejectsBadNibble(t *testing.T) {
	_, _, err := varLengthDigits([]byte{0x01, 0x02}, 1)
	if err == nil {
		t.Fatal("expected an error for a non-0xF0-marked length nibble")
	}
}

func TestFlagByteCodecRoundTrip(t *testing.T) {
	c := FlagByteCodec{}
	data, err := c.Serialize(context.Background(), uint64(0xfa))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	v, rest, err := c.Parse(context.Background(), data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.(byte) != 0xfa || len(rest) != 0 {
		t.Errorf("Parse = %v/%x, want 0xfa/empty", v, rest)
	}
}

func TestIntCodecBigEndian(t *testing.T) {
	c := BEIntCodec(2)
	data, err := c.Serialize(context.Background(), uint64(0x0102))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(data, []byte{0x01, 0x02}) {
		t.Errorf("data = %x, want 0102", data)
	}
}

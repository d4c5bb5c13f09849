package serial

import (
	"net"
	"testing"
	"time"
)

func TestFramerSendReceiveRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	sender := NewFramer(a).WithConfig(Config{T1: time.Second, T2: time.Second, AckTimeout: time.Second, MaxCRCRetry: 3})
	receiver := NewFramer(b).WithConfig(Config{T1: time.Second, T2: time.Second, AckTimeout: time.Second, MaxCRCRetry: 3})

	payload := []byte{0x06, 0x00, 0x02, 0x12, 0x34}
	errc := make(chan error, 1)
	go func() { errc <- sender.Send(payload) }()

	got, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("got %x, want %x", got, payload)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestFramerEscapesEmbeddedDLE(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	sender := NewFramer(a).WithConfig(Config{T1: time.Second, T2: time.Second, AckTimeout: time.Second, MaxCRCRetry: 3})
	receiver := NewFramer(b).WithConfig(Config{T1: time.Second, T2: time.Second, AckTimeout: time.Second, MaxCRCRetry: 3})

	payload := []byte{0x06, DLE, 0x00, DLE, DLE, 0x01}
	errc := make(chan error, 1)
	go func() { errc <- sender.Send(payload) }()

	got, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("got %x, want %x", got, payload)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestFramerRejectsBadHeader(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	receiver := NewFramer(b).WithConfig(Config{T1: 50 * time.Millisecond, T2: 50 * time.Millisecond, AckTimeout: time.Second, MaxCRCRetry: 3})

	go func() { _, _ = a.Write([]byte{0xAA, 0xBB, 0xCC}) }()

	_, err := receiver.Receive()
	if err == nil {
		t.Fatal("expected a framing error for a bad header")
	}
}

package serial

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	zvt "github.com/xx25/go-zvt"
)

// Config holds the framing layer's timing parameters (§4.4). T2 bounds the
// initial two-byte header read; T1 bounds each subsequent byte once
// framing has begun.
type Config struct {
	T1          time.Duration
	T2          time.Duration
	AckTimeout  time.Duration // the 1s ACK poll window
	MaxCRCRetry int           // frames Receive reads before giving up on CRC failures
}

func defaultConfig() Config {
	return Config{
		T1:          200 * time.Millisecond,
		T2:          5 * time.Second,
		AckTimeout:  1 * time.Second,
		MaxCRCRetry: 3,
	}
}

// Framer wraps any io.ReadWriter with the ZVT DLE/STX/ETX/CRC/ACK/NAK
// discipline, continuing the teacher's transportReader/transportWriter
// split so the same framing logic works over a real serial port, a
// net.Pipe in tests, or anything else satisfying io.ReadWriter.
type Framer struct {
	tr     *transportReader
	tw     *transportWriter
	cfg    Config
	logger *slog.Logger
}

// NewFramer wraps rw with default timeouts and slog.Default().
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		tr:     newTransportReader(rw, slog.Default()),
		tw:     newTransportWriter(rw),
		cfg:    defaultConfig(),
		logger: slog.Default(),
	}
}

// WithConfig overrides the framer's timing parameters.
func (f *Framer) WithConfig(cfg Config) *Framer {
	f.cfg = cfg
	return f
}

// WithLogger overrides the framer's logger.
func (f *Framer) WithLogger(logger *slog.Logger) *Framer {
	f.logger = logger
	f.tr.logger = logger
	return f
}

// Send frames and transmits an APDU, then waits for the sender-side
// acknowledgement byte (§4.4 "Send"/"Send acknowledgement"). It returns
// nil only after an ACK is observed.
func (f *Framer) Send(payload []byte) error {
	f.logger.Debug("serial send", "len", len(payload))

	if err := f.tw.writeByte(DLE); err != nil {
		return err
	}
	if err := f.tw.writeByte(STX); err != nil {
		return err
	}
	if err := f.tw.writeEscaped(payload); err != nil {
		return err
	}
	if err := f.tw.writeByte(DLE); err != nil {
		return err
	}
	if err := f.tw.writeByte(ETX); err != nil {
		return err
	}
	crc := zvt.CRC16(append(append([]byte{}, payload...), ETX))
	if err := f.tw.writeRaw([]byte{byte(crc & 0xff), byte(crc >> 8)}); err != nil {
		return err
	}
	if err := f.tw.Flush(); err != nil {
		return err
	}

	deadline := time.Now().Add(f.cfg.AckTimeout)
	for {
		b, err := f.tr.readByte(f.cfg.AckTimeout)
		if err != nil {
			return err
		}
		switch b {
		case ACK:
			return nil
		case NAK:
			return fmt.Errorf("zvt/serial: transmit failed (NAK): %w", ErrFraming)
		default:
			if time.Now().After(deadline) {
				return ErrTimeout
			}
		}
	}
}

// Receive reads one framed APDU off the wire (§4.4 "Receive"), reading at
// most cfg.MaxCRCRetry frames while CRC checks fail before giving up. On
// success it sends ACK; each CRC-failed attempt sends NAK first.
func (f *Framer) Receive() ([]byte, error) {
	for attempt := 0; ; attempt++ {
		payload, err := f.receiveOnce()
		if err == nil {
			if werr := f.tw.writeByte(ACK); werr != nil {
				return nil, werr
			}
			if werr := f.tw.Flush(); werr != nil {
				return nil, werr
			}
			return payload, nil
		}
		if err != errCRCMismatch {
			return nil, err
		}
		f.logger.Warn("serial receive CRC mismatch, sending NAK", "attempt", attempt+1)
		if werr := f.tw.writeByte(NAK); werr != nil {
			return nil, werr
		}
		if werr := f.tw.Flush(); werr != nil {
			return nil, werr
		}
		if attempt >= f.cfg.MaxCRCRetry-1 {
			return nil, err
		}
	}
}

var errCRCMismatch = fmt.Errorf("zvt/serial: CRC mismatch: %w", ErrFraming)

func (f *Framer) receiveOnce() ([]byte, error) {
	h0, err := f.tr.readByte(f.cfg.T2)
	if err != nil {
		return nil, err
	}
	h1, err := f.tr.readByte(f.cfg.T2)
	if err != nil {
		return nil, err
	}
	if h0 != DLE || h1 != STX {
		return nil, fmt.Errorf("zvt/serial: expected DLE STX header, got 0x%02x 0x%02x: %w", h0, h1, ErrFraming)
	}

	var payload []byte
	dleSeen := false
	for {
		b, err := f.tr.readByte(f.cfg.T1)
		if err != nil {
			return nil, err
		}
		if dleSeen {
			dleSeen = false
			switch b {
			case DLE:
				payload = append(payload, DLE)
				continue
			case ETX:
				crcLo, err := f.tr.readByte(f.cfg.T1)
				if err != nil {
					return nil, err
				}
				crcHi, err := f.tr.readByte(f.cfg.T1)
				if err != nil {
					return nil, err
				}
				framed := append(append([]byte{}, payload...), ETX, crcLo, crcHi)
				if !zvt.CRC16Verify(framed) {
					return nil, errCRCMismatch
				}
				return payload, nil
			default:
				return nil, fmt.Errorf("zvt/serial: DLE without sense (0x%02x): %w", b, ErrFraming)
			}
		}
		if b == DLE {
			dleSeen = true
			continue
		}
		payload = append(payload, b)
	}
}

func (f *Framer) clearDeadline() { f.tr.clearDeadline() }

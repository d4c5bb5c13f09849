// Package serial implements the ZVT serial wire: DLE/STX/ETX byte
// stuffing, CRC-16/XMODEM checking, and ACK/NAK acknowledgement over any
// io.ReadWriter, plus a real Linux serial port opener.
package serial

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"time"
)

// Frame delimiters and control bytes (§4.4, §6).
const (
	DLE = 0x10
	STX = 0x02
	ETX = 0x03
	ACK = 0x06
	NAK = 0x15
)

var (
	// ErrFraming covers header mismatch, an orphan DLE, or a CRC mismatch
	// surviving all local retries.
	ErrFraming = errors.New("zvt/serial: framing error")
	// ErrTimeout covers T1 (inter-byte), T2 (header), and the 1s ACK poll.
	ErrTimeout = errors.New("zvt/serial: timeout")
)

// deadlineSetter is implemented by transports that support read deadlines
// (e.g. net.Conn, *Port).
type deadlineSetter interface {
	SetReadDeadline(time.Time) error
}

// transportReader wraps an io.Reader with buffering and per-byte read
// deadlines, the same split the teacher's zmodem transportReader uses to
// let T1/T2 apply without the caller managing raw syscalls.
type transportReader struct {
	r      *bufio.Reader
	ds     deadlineSetter
	logger *slog.Logger
}

func newTransportReader(r io.Reader, logger *slog.Logger) *transportReader {
	tr := &transportReader{r: bufio.NewReaderSize(r, 4096), logger: logger}
	if ds, ok := r.(deadlineSetter); ok {
		tr.ds = ds
	}
	return tr
}

// readByte reads one raw byte, applying timeout as the read deadline when
// the transport supports it and the buffer is empty.
func (tr *transportReader) readByte(timeout time.Duration) (byte, error) {
	if tr.r.Buffered() == 0 && tr.ds != nil && timeout > 0 {
		if err := tr.ds.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return 0, err
		}
	}
	b, err := tr.r.ReadByte()
	if err != nil {
		if isTimeout(err) {
			return 0, ErrTimeout
		}
		return 0, err
	}
	return b, nil
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

func (tr *transportReader) clearDeadline() {
	if tr.ds != nil {
		_ = tr.ds.SetReadDeadline(time.Time{})
	}
}

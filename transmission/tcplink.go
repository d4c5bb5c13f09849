package transmission

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// TCPLink implements Link over the unframed socket wire (§6 "TCP wire"):
// no DLE escaping, no CRC, no ACK/NAK. The APDU's own length field is the
// only message boundary, so Receive reads just enough of the stream to
// find it.
type TCPLink struct {
	conn net.Conn
	br   *bufio.Reader
	bw   io.Writer
	t1   time.Duration
}

// NewTCPLink wraps an already-dialed connection (see transport.DialSocket).
func NewTCPLink(conn net.Conn, t1 time.Duration) *TCPLink {
	return &TCPLink{conn: conn, br: bufio.NewReader(conn), bw: conn, t1: t1}
}

// Send writes the APDU's bytes directly onto the stream; there is no
// acknowledgement byte on this transport.
func (l *TCPLink) Send(payload []byte) error {
	if l.t1 > 0 {
		if err := l.conn.SetWriteDeadline(time.Now().Add(l.t1)); err != nil {
			return fmt.Errorf("zvt/transmission: tcp set write deadline: %w", err)
		}
	}
	_, err := l.bw.Write(payload)
	if err != nil {
		return fmt.Errorf("zvt/transmission: tcp write: %w", err)
	}
	return nil
}

// Receive reads one APDU by first consuming the control field and length
// header, then the declared body length, reconstructing the same raw byte
// layout zvt.ParseAPDU expects.
func (l *TCPLink) Receive() ([]byte, error) {
	if l.t1 > 0 {
		if err := l.conn.SetReadDeadline(time.Now().Add(l.t1)); err != nil {
			return nil, fmt.Errorf("zvt/transmission: tcp set read deadline: %w", err)
		}
	}
	header := make([]byte, 3)
	if _, err := io.ReadFull(l.br, header); err != nil {
		return nil, fmt.Errorf("zvt/transmission: tcp read header: %w", err)
	}
	raw := append([]byte{}, header...)

	n := int(header[2])
	if n == 0xff {
		ext := make([]byte, 2)
		if _, err := io.ReadFull(l.br, ext); err != nil {
			return nil, fmt.Errorf("zvt/transmission: tcp read extended length: %w", err)
		}
		raw = append(raw, ext...)
		n = int(ext[0]) | int(ext[1])<<8
	}

	if n > 0 {
		body := make([]byte, n)
		if _, err := io.ReadFull(l.br, body); err != nil {
			return nil, fmt.Errorf("zvt/transmission: tcp read body: %w", err)
		}
		raw = append(raw, body...)
	}
	return raw, nil
}

// DialTCP is a convenience constructor combining a context-bound dial with
// NewTCPLink; callers that already have a net.Conn (e.g. from
// transport.DialSocket) should call NewTCPLink directly.
func DialTCP(ctx context.Context, dial func() (net.Conn, error), t1 time.Duration) (*TCPLink, error) {
	conn, err := dial()
	if err != nil {
		return nil, err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	return NewTCPLink(conn, t1), nil
}

// Package transport provides the TCP byte-pipe dialer for the ZVT
// protocol's "socket://" wire (§6), grounded on ecrterm's SocketTransport/
// TcpTransport (both thin wrappers over socket.create_connection).
package transport

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// ErrConnect is returned when the socket:// target refuses or is
// unreachable within the connect timeout.
var ErrConnect = errors.New("zvt/transport: connect failed")

const defaultConnectTimeout = 30 * time.Second

// DialSocket parses a socket://host:port[?connect_timeout=secs] URI
// (host may be a bracketed IPv6 literal) and returns a connected
// io.ReadWriter. No framing is applied on this transport: the APDU's own
// length field is the message boundary (§6 "TCP wire").
func DialSocket(uri string) (net.Conn, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("zvt/transport: parse %q: %w", uri, err)
	}
	if u.Scheme != "socket" {
		return nil, fmt.Errorf("zvt/transport: unsupported scheme %q: %w", u.Scheme, ErrConnect)
	}
	if u.Hostname() == "" || u.Port() == "" {
		return nil, fmt.Errorf("zvt/transport: %q missing host or port: %w", uri, ErrConnect)
	}

	timeout := defaultConnectTimeout
	if raw := u.Query().Get("connect_timeout"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("zvt/transport: invalid connect_timeout %q: %w", raw, err)
		}
		timeout = time.Duration(secs) * time.Second
	}

	addr := net.JoinHostPort(u.Hostname(), u.Port())
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("zvt/transport: dial %s: %w: %v", addr, ErrConnect, err)
	}
	return conn, nil
}

//go:build linux

package serial

import (
	"fmt"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"github.com/daedaluz/fdev/poll"
	ioctl "github.com/daedaluz/goioctl"
)

// termios mirrors struct termios from <asm-generic/termbits.h>, just
// enough of it to configure line parameters (Daedaluz-goserial's Termios).
type termios struct {
	Iflag, Oflag, Cflag, Lflag uint32
	Line                       byte
	Cc                         [19]byte
}

const (
	tcgets = uintptr(0x5401)
	tcsets = uintptr(0x5402)

	tiocmbis = uintptr(0x5416) // set indicated modem bits
	tiocmget = uintptr(0x5415)

	cs8    = 0000060
	cstopb = 0000100
	cread  = 0000200
	clocal = 0004000
	b9600  = 0000015

	tiocmDTR = 0x002
	tiocmRTS = 0x004
)

// Port is a real Linux serial device, opened and configured for ZVT's
// line parameters (9600 8N2, no flow control, RTS/DTR asserted), grounded
// on Daedaluz-goserial's Port/Termios/ioctl wrapper.
type Port struct {
	fd      int
	closed  atomic.Bool
	timeout time.Duration
}

// Open opens name (e.g. "/dev/ttyUSB0"), configures it per §6's line
// parameters, and asserts RTS/DTR.
func Open(name string) (*Port, error) {
	fd, err := syscall.Open(name, syscall.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("zvt/serial: open %s: %w", name, err)
	}
	p := &Port{fd: fd}
	if err := p.configure(); err != nil {
		_ = syscall.Close(fd)
		return nil, err
	}
	if err := p.assertModemLines(); err != nil {
		_ = syscall.Close(fd)
		return nil, err
	}
	return p, nil
}

func (p *Port) configure() error {
	var t termios
	if err := ioctl.Ioctl(uintptr(p.fd), tcgets, uintptr(unsafe.Pointer(&t))); err != nil {
		return fmt.Errorf("zvt/serial: TCGETS: %w", err)
	}
	t.Iflag = 0
	t.Oflag = 0
	t.Lflag = 0
	t.Cflag = cread | clocal | cs8 | cstopb | b9600
	if err := ioctl.Ioctl(uintptr(p.fd), tcsets, uintptr(unsafe.Pointer(&t))); err != nil {
		return fmt.Errorf("zvt/serial: TCSETS: %w", err)
	}
	return nil
}

func (p *Port) assertModemLines() error {
	bits := uint32(tiocmDTR | tiocmRTS)
	if err := ioctl.Ioctl(uintptr(p.fd), tiocmbis, uintptr(unsafe.Pointer(&bits))); err != nil {
		return fmt.Errorf("zvt/serial: TIOCMBIS: %w", err)
	}
	return nil
}

func (p *Port) Read(data []byte) (int, error) {
	if p.closed.Load() {
		return 0, syscall.EBADF
	}
	if p.timeout > 0 {
		if err := poll.WaitInput(p.fd, p.timeout); err != nil {
			return 0, err
		}
	}
	return syscall.Read(p.fd, data)
}

func (p *Port) Write(data []byte) (int, error) {
	if p.closed.Load() {
		return 0, syscall.EBADF
	}
	return syscall.Write(p.fd, data)
}

// SetReadDeadline implements the framing layer's deadlineSetter by
// recording a read timeout duration applied on the next Read, since the
// underlying fd has no notion of an absolute deadline.
func (p *Port) SetReadDeadline(t time.Time) error {
	if t.IsZero() {
		p.timeout = 0
		return nil
	}
	d := time.Until(t)
	if d < 0 {
		d = 0
	}
	p.timeout = d
	return nil
}

func (p *Port) Close() error {
	if p.closed.Swap(true) {
		return syscall.EBADF
	}
	return syscall.Close(p.fd)
}

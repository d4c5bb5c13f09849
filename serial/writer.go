package serial

import (
	"bufio"
	"io"
)

// transportWriter wraps an io.Writer with buffering, mirroring the
// teacher's transportWriter split between raw and escaped writes.
type transportWriter struct {
	w *bufio.Writer
}

func newTransportWriter(w io.Writer) *transportWriter {
	return &transportWriter{w: bufio.NewWriterSize(w, 4096)}
}

func (tw *transportWriter) writeByte(b byte) error {
	return tw.w.WriteByte(b)
}

func (tw *transportWriter) writeRaw(data []byte) error {
	_, err := tw.w.Write(data)
	return err
}

// writeEscaped doubles every DLE byte in data, the §4.4 "escape" function.
func (tw *transportWriter) writeEscaped(data []byte) error {
	for _, b := range data {
		if b == DLE {
			if err := tw.w.WriteByte(DLE); err != nil {
				return err
			}
		}
		if err := tw.w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

func (tw *transportWriter) Flush() error {
	return tw.w.Flush()
}

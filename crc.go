package zvt

// CRC-16/XMODEM: polynomial 0x1021, initial value 0, no input or output
// reflection, no final XOR. Used as the frame trailer in §6 serial framing,
// computed over the unescaped APDU bytes plus the trailing ETX.

const crc16Poly = 0x1021

var crc16Table [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ crc16Poly
			} else {
				crc <<= 1
			}
		}
		crc16Table[i] = crc
	}
}

// crc16Update folds data into an in-progress CRC accumulator. Start with 0.
func crc16Update(crc uint16, data []byte) uint16 {
	for _, b := range data {
		crc = (crc << 8) ^ crc16Table[byte(crc>>8)^b]
	}
	return crc
}

// crc16Finalize is a no-op for CRC-16/XMODEM; kept for symmetry with the
// incremental update API.
func crc16Finalize(crc uint16) uint16 {
	return crc
}

// crc16Calc computes the CRC-16/XMODEM of data in one call.
func crc16Calc(data []byte) uint16 {
	return crc16Finalize(crc16Update(0, data))
}

// CRC16Verify reports whether the last two bytes of data are the correct
// CRC-16/XMODEM of the bytes preceding them, in the low-byte-first wire
// order §4.4/§6 frames use (CRC_lo || CRC_hi).
func CRC16Verify(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	body, trailer := data[:len(data)-2], data[len(data)-2:]
	want := uint16(trailer[0]) | uint16(trailer[1])<<8
	return crc16Calc(body) == want
}

// CRC16 computes the CRC-16/XMODEM of data, exported for the serial
// framing layer (§4.4), which checksums payload||ETX before the trailing
// CRC bytes are appended to the wire frame.
func CRC16(data []byte) uint16 {
	return crc16Calc(data)
}

package zvt

import (
	"encoding/binary"
	"testing"
)

func TestCRC16Calc(t *testing.T) {
	// Standard CRC-16/XMODEM check value for the ASCII string "123456789".
	got := crc16Calc([]byte("123456789"))
	if got != 0x31C3 {
		t.Errorf("crc16Calc(\"123456789\") = 0x%04x, want 0x31c3", got)
	}
}

func TestCRC16EmptyData(t *testing.T) {
	if crc16Calc(nil) != 0 {
		t.Errorf("crc16Calc(nil) should be 0")
	}
}

func TestCRC16Incremental(t *testing.T) {
	data := []byte("Hello, ZVT terminal!")
	expected := crc16Calc(data)

	crc := crc16Update(0, data[:5])
	crc = crc16Update(crc, data[5:])
	crc = crc16Finalize(crc)

	if crc != expected {
		t.Errorf("incremental CRC mismatch: got 0x%04x, want 0x%04x", crc, expected)
	}
}

func TestCRC16Verify(t *testing.T) {
	data := []byte("Hello, ZVT terminal!")
	crc := crc16Calc(data)

	var trailer [2]byte
	binary.LittleEndian.PutUint16(trailer[:], crc)
	all := append(append([]byte{}, data...), trailer[:]...)

	if !CRC16Verify(all) {
		t.Errorf("CRC16Verify failed for crc=0x%04x", crc)
	}
	all[len(all)-1] ^= 0xff
	if CRC16Verify(all) {
		t.Errorf("CRC16Verify should fail after corrupting trailer")
	}
}

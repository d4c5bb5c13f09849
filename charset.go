package zvt

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// CharacterSet identifies the text encoding a string field is transmitted
// in, carried as a single byte on the wire (bitmap 0x2f) or pinned by
// context (§2 GLOSSARY, ecrterm.packets.types.CharacterSet).
type CharacterSet byte

const (
	CharsetASCII7Bit CharacterSet = 0x00
	CharsetISO8859_1 CharacterSet = 0x01
	CharsetISO8859_2 CharacterSet = 0x02
	CharsetISO8859_3 CharacterSet = 0x03
	CharsetISO8859_4 CharacterSet = 0x04
	CharsetISO8859_5 CharacterSet = 0x05
	CharsetISO8859_6 CharacterSet = 0x06
	CharsetISO8859_7 CharacterSet = 0x07
	CharsetISO8859_8 CharacterSet = 0x08
	CharsetISO8859_9 CharacterSet = 0x09
	CharsetISO8859_10 CharacterSet = 0x0a
	CharsetISO8859_11 CharacterSet = 0x0b
	CharsetISO8859_13 CharacterSet = 0x0d
	CharsetISO8859_14 CharacterSet = 0x0e
	CharsetISO8859_15 CharacterSet = 0x0f
	CharsetISO8859_16 CharacterSet = 0x10
	CharsetUTF8       CharacterSet = 0xfe
	// CharsetDefault is CP437, the ZVT terminal's native 8-bit set.
	CharsetDefault CharacterSet = 0xff
)

func (c CharacterSet) String() string {
	switch c {
	case CharsetASCII7Bit:
		return "ASCII_7BIT"
	case CharsetUTF8:
		return "UTF8"
	case CharsetDefault:
		return "CP437"
	default:
		return fmt.Sprintf("ISO_8859_%d", byte(c))
	}
}

func (c CharacterSet) encoding() (encoding.Encoding, error) {
	switch c {
	case CharsetASCII7Bit, CharsetUTF8:
		return encoding.Nop, nil
	case CharsetDefault:
		return charmap.CodePage437, nil
	case CharsetISO8859_1:
		return charmap.ISO8859_1, nil
	case CharsetISO8859_2:
		return charmap.ISO8859_2, nil
	case CharsetISO8859_3:
		return charmap.ISO8859_3, nil
	case CharsetISO8859_4:
		return charmap.ISO8859_4, nil
	case CharsetISO8859_5:
		return charmap.ISO8859_5, nil
	case CharsetISO8859_6:
		return charmap.ISO8859_6, nil
	case CharsetISO8859_7:
		return charmap.ISO8859_7, nil
	case CharsetISO8859_8:
		return charmap.ISO8859_8, nil
	case CharsetISO8859_9:
		return charmap.ISO8859_9, nil
	case CharsetISO8859_10:
		return charmap.ISO8859_10, nil
	case CharsetISO8859_13:
		return charmap.ISO8859_13, nil
	case CharsetISO8859_14:
		return charmap.ISO8859_14, nil
	case CharsetISO8859_15:
		return charmap.ISO8859_15, nil
	case CharsetISO8859_16:
		return charmap.ISO8859_16, nil
	default:
		return nil, fmt.Errorf("zvt: unsupported character set 0x%02x", byte(c))
	}
}

// EncodeText encodes s for the wire under the given character set. ASCII
// and UTF-8 are passed through unmodified; everything else is transcoded
// via golang.org/x/text's charmap tables.
func EncodeText(s string, cs CharacterSet) ([]byte, error) {
	enc, err := cs.encoding()
	if err != nil {
		return nil, err
	}
	return enc.NewEncoder().Bytes([]byte(s))
}

// DecodeText decodes wire bytes under the given character set.
func DecodeText(data []byte, cs CharacterSet) (string, error) {
	enc, err := cs.encoding()
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// zvt7BitCharset is the terminal's custom 7-bit "ASCII with umlauts" table.
// It is not one of the standard CharacterSet values — it replaces eight
// ASCII slots (0x5B-0x5D and 0x7B-0x7F) with German umlauts, szlig and
// Delta, and has no library encoding; ported directly from ecrterm's
// ZVT_7BIT_CHARACTER_SET table. It is reached only through
// Encode7Bit/Decode7Bit; no field codec in this package selects it.
var zvt7BitCharset = buildZVT7BitCharset()

func buildZVT7BitCharset() [128]rune {
	var table [128]rune
	for i := range table {
		table[i] = rune(i)
	}
	for i, r := range []rune("ÄÖÜ") {
		table[0x5B+i] = r
	}
	for i, r := range []rune("äöüßΔ") {
		table[0x7B+i] = r
	}
	return table
}

// Encode7Bit encodes s using the terminal's 7-bit umlaut character set.
// It returns an error if s contains a rune outside the table.
func Encode7Bit(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		idx := -1
		for i, tr := range zvt7BitCharset {
			if tr == r {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("zvt: rune %q not in 7-bit character set", r)
		}
		out = append(out, byte(idx))
	}
	return out, nil
}

// Decode7Bit decodes bytes encoded with the terminal's 7-bit umlaut
// character set. The high bit of each byte is masked off, matching the
// reference implementation's tolerance of 8-bit-clean transports.
func Decode7Bit(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = zvt7BitCharset[b&0x7f]
	}
	return string(runes)
}

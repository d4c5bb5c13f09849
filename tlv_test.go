package zvt

import "testing"

func TestTLVRoundTripSerialNumber(t *testing.T) {
	root := NewTLVContainer(ZVTDictionary)
	root.Set(0x1F42, "12345678")

	data, err := root.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	parsed, err := ParseTLV(data, ZVTDictionary, false)
	if err != nil {
		t.Fatalf("ParseTLV: %v", err)
	}
	child := parsed.At(0x1F42)
	if s, ok := child.Value.(string); !ok || s != "12345678" {
		t.Errorf("serial_number = %v, want 12345678", child.Value)
	}
}

func TestTLVFeigCvendForcesPrimitive(t *testing.T) {
	// Every tag in 0xFF00-0xFFFF starts with the byte 0xFF, whose
	// constructed bit is set, so such tags are constructed by default; the
	// FEIG quirk must force them to primitive.
	if tlvConstructedBit(0xFF20, false) != true {
		t.Fatal("sanity: 0xFF20 should be constructed outside the FEIG quirk")
	}
	if tlvConstructedBit(0xFF20, true) != false {
		t.Error("FEIG_CVEND quirk should force 0xFF00-0xFFFF to primitive encoding")
	}
}

func TestTLVUnknownTagFallsBackToRawBytes(t *testing.T) {
	root := NewTLVContainer(ZVTDictionary)
	root.Set(0x09, []byte{0xde, 0xad, 0xbe, 0xef})

	data, err := root.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parsed, err := ParseTLV(data, ZVTDictionary, false)
	if err != nil {
		t.Fatalf("ParseTLV: %v", err)
	}
	child := parsed.At(0x09)
	got, ok := child.Value.([]byte)
	if !ok || string(got) != "\xde\xad\xbe\xef" {
		t.Errorf("unknown tag value = %v, want raw bytes passthrough", child.Value)
	}
}

func TestTLVContainerNestedChildren(t *testing.T) {
	root := NewTLVContainer(ZVTDictionary)
	container := root.At(0x23)
	container.Set(0x08, "0099")

	data, err := root.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parsed, err := ParseTLV(data, ZVTDictionary, false)
	if err != nil {
		t.Fatalf("ParseTLV: %v", err)
	}
	got := parsed.At(0x23).At(0x08)
	if s, ok := got.Value.(string); !ok || s != "0099" {
		t.Errorf("nested receipt number = %v, want 0099", got.Value)
	}
}

func TestTLVPendingNodeSerializesEmpty(t *testing.T) {
	root := NewTLVContainer(ZVTDictionary)
	// At() alone creates an implicit pending node; never assigning a value
	// must not emit any bytes for it, so the root holds only its own zero
	// length byte.
	_ = root.At(0x40)

	data, err := root.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(data) != 1 || data[0] != 0x00 {
		t.Errorf("pending node with no value should serialize to nothing, got %x, want 00", data)
	}
}

func TestReadTLVLengthMultiByteForm(t *testing.T) {
	// a length of 200 doesn't fit in 7 bits, so it takes the 0x81-prefixed
	// multi-byte form.
	n, rest, err := readTLVLength([]byte{0x81, 0xc8, 0xff})
	if err != nil {
		t.Fatalf("readTLVLength: %v", err)
	}
	if n != 200 {
		t.Errorf("length = %d, want 200", n)
	}
	if len(rest) != 1 || rest[0] != 0xff {
		t.Errorf("rest = %x, want one trailing byte", rest)
	}
}

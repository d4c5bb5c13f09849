package zvt

import (
	"context"
	"encoding/hex"
	"fmt"
)

// FieldSlot is one entry of a Schema's ordered fixed-field list
// (ecrterm.packets.apdu.FieldContainer's per-class FIELDS dict).
type FieldSlot struct {
	Name             string
	Codec            FieldCodec
	Required         bool
	IgnoreParseError bool
}

// Schema describes one concrete packet type's wire shape: its ordered
// fixed fields plus which optional bitmap tags it may carry
// (ecrterm.packets.apdu.APDU class attributes FIELDS/REQUIRED_BITMAPS/
// ALLOWED_BITMAPS/OVERRIDE_BITMAPS, gathered here instead of being
// computed by a metaclass).
type Schema struct {
	Name             string
	Fields           []FieldSlot
	AllowedBitmaps   map[byte]bool // nil means all tags in Bitmaps are allowed
	RequiredBitmaps  []byte
	OverrideBitmaps  map[byte]BitmapEntry
}

// mustValidate panics at init() time if Fields places a required field
// after an optional one, mirroring FieldContainer.__new__'s TypeError.
// This is schema authoring state, checked once per process, not a runtime
// parse error, so a panic at package init is the idiomatic place for it.
func (s *Schema) mustValidate() *Schema {
	haveOptional := false
	for _, f := range s.Fields {
		if f.Required {
			if haveOptional {
				panic(fmt.Sprintf("zvt: schema %q: required field %q follows an optional field", s.Name, f.Name))
			}
		} else {
			haveOptional = true
		}
	}
	return s
}

func (s *Schema) bitmapEntry(tag byte) (BitmapEntry, bool) {
	if s.OverrideBitmaps != nil {
		if e, ok := s.OverrideBitmaps[tag]; ok {
			return e, true
		}
	}
	e, ok := Bitmaps[tag]
	return e, ok
}

func (s *Schema) bitmapAllowed(tag byte) bool {
	if s.AllowedBitmaps == nil {
		return true
	}
	return s.AllowedBitmaps[tag]
}

// bitmapValue is one entry of a packet's optional-field tail, kept as an
// ordered slice (not a map) so serialization reproduces insertion order,
// as Python's OrderedDict-backed _bitmaps does.
type bitmapValue struct {
	Tag   byte
	Value any
}

// BasePacket is the common APDU machinery every concrete packet type
// embeds: control field, ordered fixed-field values, and the optional
// bitmap tail (ecrterm.packets.apdu.APDU).
type BasePacket struct {
	schema       *Schema
	controlField [2]byte
	values       map[string]any
	bitmaps      []bitmapValue
}

func newBasePacket(schema *Schema, controlField [2]byte) BasePacket {
	return BasePacket{schema: schema, controlField: controlField, values: map[string]any{}}
}

// ControlField returns the two-byte command/response class+instruction.
func (p *BasePacket) ControlField() [2]byte { return p.controlField }

// Schema returns the packet's field schema.
func (p *BasePacket) Schema() *Schema { return p.schema }

// Get returns a fixed field's value, or a bitmap's value by name, or
// (nil, false) if neither is set — the read half of Python's dynamic
// __getattr__/__setattr__ pair, made explicit.
func (p *BasePacket) Get(name string) (any, bool) {
	if v, ok := p.values[name]; ok {
		return v, true
	}
	for _, bv := range p.bitmaps {
		if e, ok := p.schema.bitmapEntry(bv.Tag); ok && e.Name == name {
			return bv.Value, true
		}
	}
	return nil, false
}

// Set assigns a fixed field or a bitmap field by name. Setting a bitmap
// name that isn't on the schema's ALLOWED_BITMAPS list is an error, as in
// APDU.__setattr__.
func (p *BasePacket) Set(name string, value any) error {
	for _, f := range p.schema.Fields {
		if f.Name == name {
			p.values[name] = value
			return nil
		}
	}
	tag, ok := bitmapTagByName[name]
	if !ok {
		return newErr(KindSchema, fmt.Sprintf("unknown field %q", name), nil)
	}
	if !p.schema.bitmapAllowed(tag) {
		return newErr(KindSchema, fmt.Sprintf("bitmap %q (0x%02X) not allowed on %s", name, tag, p.schema.Name), nil)
	}
	for i, bv := range p.bitmaps {
		if bv.Tag == tag {
			p.bitmaps[i].Value = value
			return nil
		}
	}
	p.bitmaps = append(p.bitmaps, bitmapValue{Tag: tag, Value: value})
	return nil
}

// SetBitmapTag assigns a bitmap by raw tag, for a caller that only knows
// the numeric tag (e.g. a vendor-specific extension not in the Bitmaps
// table, via OverrideBitmaps).
func (p *BasePacket) SetBitmapTag(tag byte, value any) {
	for i, bv := range p.bitmaps {
		if bv.Tag == tag {
			p.bitmaps[i].Value = value
			return
		}
	}
	p.bitmaps = append(p.bitmaps, bitmapValue{Tag: tag, Value: value})
}

// parseBody fills in p's fixed fields and bitmap tail from body, the bytes
// following the control field and length header. It implements the
// blacklist-based backtracking strategy of APDU._parse_inner/APDU.parse:
// a field marked IgnoreParseError that fails to parse is blacklisted and
// the whole pass — fixed fields AND the bitmap tail, as one unit, mirroring
// _parse_inner parsing both under the same try — is retried, skipping it,
// until either parsing succeeds or no more blacklist candidates remain. A
// failure in the bitmap tail therefore backtracks exactly like a failure in
// a fixed field: it can't itself be blacklisted, but it can force an
// earlier ignorable field out of the body so the split between fixed
// fields and bitmap tail changes on retry.
func parseBody(ctx context.Context, p *BasePacket, body []byte) error {
	blacklist := map[string]bool{}
	for {
		fields, bitmaps, err := tryParseFixedAndBitmaps(ctx, p.schema, body, blacklist)
		if err == nil {
			for _, pf := range fields {
				p.values[pf.name] = pf.value
			}
			p.bitmaps = bitmaps
			return nil
		}
		pe, ok := err.(*fieldParseFailure)
		if !ok {
			return err
		}
		if pe.ignorable {
			blacklist[pe.name] = true
			continue
		}
		// Find the first non-blacklisted ignorable field and blacklist it
		// instead, per APDU._parse_inner's outer-loop fallback.
		found := false
		for _, f := range p.schema.Fields {
			if !f.Required && f.IgnoreParseError && !blacklist[f.Name] {
				blacklist[f.Name] = true
				found = true
				break
			}
		}
		if !found {
			return newErr(pe.kind, fmt.Sprintf("%s in data: %s", pe.err.Error(), hex.EncodeToString(body)), pe.err)
		}
	}
}

type parsedField struct {
	name  string
	value any
}

type fieldParseFailure struct {
	name      string
	ignorable bool
	kind      ErrorKind
	err       error
}

func (f *fieldParseFailure) Error() string { return f.err.Error() }

// tryParseFixedAndBitmaps runs one pass over the schema's fixed fields,
// skipping blacklisted ones and stopping early once body is exhausted
// (APDU's "if not data: break"), then parses whatever remains as the
// bitmap tail — all within the one attempt the outer retry loop in
// parseBody can blacklist a field and redo.
func tryParseFixedAndBitmaps(ctx context.Context, schema *Schema, body []byte, blacklist map[string]bool) ([]parsedField, []bitmapValue, error) {
	var fields []parsedField
	rest := body
	for _, f := range schema.Fields {
		if len(rest) == 0 {
			break
		}
		if blacklist[f.Name] {
			continue
		}
		v, next, err := f.Codec.Parse(ctx, rest)
		if err != nil {
			return nil, nil, &fieldParseFailure{name: f.Name, ignorable: f.IgnoreParseError, kind: KindParseField, err: err}
		}
		fields = append(fields, parsedField{name: f.Name, value: v})
		rest = next
	}
	bitmaps, err := parseBitmapTail(ctx, schema, rest)
	if err != nil {
		return nil, nil, err
	}
	return fields, bitmaps, nil
}

func parseBitmapTail(ctx context.Context, schema *Schema, data []byte) ([]bitmapValue, error) {
	var bitmaps []bitmapValue
	for len(data) > 0 {
		tag := data[0]
		entry, ok := schema.bitmapEntry(tag)
		if !ok {
			return nil, &fieldParseFailure{name: fmt.Sprintf("bitmap 0x%02X", tag), kind: KindParseBitmap, err: fmt.Errorf("invalid bitmap 0x%02X", tag)}
		}
		v, rest, err := entry.Codec.Parse(ctx, data[1:])
		if err != nil {
			return nil, &fieldParseFailure{name: fmt.Sprintf("bitmap 0x%02X (%s)", tag, entry.Name), kind: KindParseBitmap, err: err}
		}
		bitmaps = setBitmapValue(bitmaps, tag, v)
		data = rest
	}
	return bitmaps, nil
}

func setBitmapValue(bitmaps []bitmapValue, tag byte, value any) []bitmapValue {
	for i, bv := range bitmaps {
		if bv.Tag == tag {
			bitmaps[i].Value = value
			return bitmaps
		}
	}
	return append(bitmaps, bitmapValue{Tag: tag, Value: value})
}

// Serialize encodes the packet to wire bytes: control field, a 1- or
// 3-byte length header (APDU.compute_length_field), the fixed fields in
// schema order, then the bitmap tail in insertion order.
func (p *BasePacket) Serialize(ctx context.Context) ([]byte, error) {
	var body []byte
	for _, f := range p.schema.Fields {
		v, ok := p.values[f.Name]
		if !ok {
			continue
		}
		b, err := f.Codec.Serialize(ctx, v)
		if err != nil {
			return nil, newErr(KindParseField, f.Name, err)
		}
		body = append(body, b...)
	}
	for _, bv := range p.bitmaps {
		entry, ok := p.schema.bitmapEntry(bv.Tag)
		if !ok {
			return nil, newErr(KindSchema, fmt.Sprintf("no bitmap entry for tag 0x%02X", bv.Tag), nil)
		}
		b, err := entry.Codec.Serialize(ctx, bv.Value)
		if err != nil {
			return nil, newErr(KindParseField, entry.Name, err)
		}
		body = append(body, bv.Tag)
		body = append(body, b...)
	}
	lengthHeader, err := computeLengthField(len(body))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 2+len(lengthHeader)+len(body))
	out = append(out, p.controlField[:]...)
	out = append(out, lengthHeader...)
	out = append(out, body...)
	return out, nil
}

// computeLengthField encodes an APDU body length as either one byte
// (<255) or 0xFF followed by a little-endian uint16 (APDU.compute_length_field).
func computeLengthField(n int) ([]byte, error) {
	if n < 255 {
		return []byte{byte(n)}, nil
	}
	if n < 0xffff {
		return []byte{0xff, byte(n), byte(n >> 8)}, nil
	}
	return nil, newErr(KindSchema, "APDU body too long to encode", nil)
}

func readLengthField(data []byte) (int, []byte, error) {
	if len(data) == 0 {
		return 0, data, newErr(KindFraming, "missing length byte", nil)
	}
	n, rest := int(data[0]), data[1:]
	if n == 0xff {
		if len(rest) < 2 {
			return 0, data, newErr(KindFraming, "truncated extended length", nil)
		}
		n = int(rest[0]) | int(rest[1])<<8
		rest = rest[2:]
	}
	return n, rest, nil
}

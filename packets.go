package zvt

import (
	"context"
	"sort"
)

// passwordField is the three-byte BCD password every CommandWithPassword
// subclass starts with (ecrterm.base_packets.CommandWithPassword).
var passwordField = FieldSlot{Name: "password", Codec: BCDCodec{Length: 3}, Required: true}

func schemaWithPassword(name string, fields ...FieldSlot) *Schema {
	all := append([]FieldSlot{passwordField}, fields...)
	return (&Schema{Name: name, Fields: all}).mustValidate()
}

// --- Concrete command/response schemas (§6 packet catalog), grounded on
// ecrterm.packets.base_packets ---

var registrationSchema = schemaWithPassword("Registration",
	FieldSlot{Name: "config_byte", Codec: FlagByteCodec{}, Required: true},
	FieldSlot{Name: "cc", Codec: BCDIntCodec{Length: 2}, Required: false},
)

var kassenberichtSchema = schemaWithPassword("Kassenbericht")
var endOfDaySchema = schemaWithPassword("EndOfDay")
var initialisationSchema = schemaWithPassword("Initialisation")
var statusEnquirySchema = schemaWithPassword("StatusEnquiry")
var setTerminalIDSchema = schemaWithPassword("SetTerminalID")

// WriteFiles carries its file table in the "tlv" bitmap (tag 0x2d entries
// of file id/length), and answers the PT's RequestFile sub-requests the
// same way (ecrterm's WriteFiles.__init__/get_answer_).
var writeFilesSchema = (&Schema{
	Name:           "WriteFiles",
	Fields:         []FieldSlot{passwordField},
	AllowedBitmaps: bitmapSet("tlv"),
}).mustValidate()

var logOffSchema = (&Schema{Name: "LogOff"}).mustValidate()

var displayTextSchema = (&Schema{
	Name: "DisplayText",
	AllowedBitmaps: bitmapSet("display_duration", "line1", "line2", "line3", "line4",
		"line5", "line6", "line7", "line8", "beeps"),
}).mustValidate()

var displayTextIntInputSchema = (&Schema{Name: "DisplayTextIntInput"}).mustValidate()
var abortCommandSchema = (&Schema{Name: "AbortCommand"}).mustValidate()

var completionSchema = (&Schema{
	Name: "Completion",
	Fields: []FieldSlot{
		{Name: "sw_version", Codec: VarStringCodec{HeaderDigits: 3}, Required: false, IgnoreParseError: true},
		{Name: "terminal_status", Codec: ByteCodec, Required: false, IgnoreParseError: true},
	},
	AllowedBitmaps: bitmapSet("tlv", "service_byte", "tid", "currency_code"),
}).mustValidate()

var abortSchema = (&Schema{
	Name:   "Abort",
	Fields: []FieldSlot{{Name: "result_code", Codec: ByteCodec, Required: true}},
}).mustValidate()

var statusInformationSchema = (&Schema{Name: "StatusInformation"}).mustValidate()

var intermediateStatusInformationSchema = (&Schema{
	Name: "IntermediateStatusInformation",
	Fields: []FieldSlot{
		{Name: "intermediate_status", Codec: ByteCodec, Required: true},
		{Name: "timeout", Codec: ByteCodec, Required: false},
	},
}).mustValidate()

// PacketReceived doubles as the plain ack and as WriteFiles' file-content
// answer to a RequestFile sub-request, which rides in on the "tlv" bitmap
// (ecrterm's WriteFiles.get_answer_ constructs a bare PacketReceived with
// a tlv= kwarg).
var packetReceivedSchema = (&Schema{
	Name:           "PacketReceived",
	AllowedBitmaps: bitmapSet("tlv"),
}).mustValidate()
var packetReceivedErrorSchema = (&Schema{Name: "PacketReceivedError"}).mustValidate()

var authorisationSchema = (&Schema{
	Name: "Authorisation",
	AllowedBitmaps: bitmapSet("amount", "currency_code", "service_byte", "track_1",
		"card_expire", "card_number", "track_2", "track_3", "timeout", "max_status_infos",
		"pump_nr", "cvv", "additional", "card_type", "tlv"),
}).mustValidate()

var printLineSchema = (&Schema{
	Name: "PrintLine",
	Fields: []FieldSlot{
		{Name: "attribute", Codec: ByteCodec, Required: true},
		{Name: "text", Codec: StringCodec{Length: -1}, Required: false, IgnoreParseError: true},
	},
}).mustValidate()

var printTextBlockSchema = (&Schema{
	Name:            "PrintTextBlock",
	RequiredBitmaps: []byte{tagOf("tlv")},
}).mustValidate()

var diagnosisSchema = (&Schema{Name: "Diagnosis"}).mustValidate()

var activateCardReaderSchema = (&Schema{
	Name:   "ActivateCardReader",
	Fields: []FieldSlot{{Name: "activate", Codec: ByteCodec, Required: true}},
}).mustValidate()

var readCardSchema = (&Schema{
	Name:           "ReadCard",
	Fields:         []FieldSlot{{Name: "timeout", Codec: ByteCodec, Required: true}},
	AllowedBitmaps: bitmapSet("service_byte", "dialog_control", "tlv"),
}).mustValidate()

var closeCardSessionSchema = (&Schema{Name: "CloseCardSession"}).mustValidate()
var resetTerminalSchema = (&Schema{Name: "ResetTerminal"}).mustValidate()

var changePTConfigurationSchema = (&Schema{
	Name:           "ChangePTConfiguration",
	AllowedBitmaps: bitmapSet("tlv"),
}).mustValidate()

// RequestFile carries the requested file id/offset in its "tlv" bitmap
// (tag 0x2d, children 0x1d/0x1e), a PT-initiated sub-request during
// WriteFiles (ecrterm's WriteFiles._handle_super_response).
var requestFileSchema = (&Schema{
	Name:           "RequestFile",
	AllowedBitmaps: bitmapSet("tlv"),
}).mustValidate()

var reservationRequestSchema = authorisationSchema // 06 22, same bitmap shape as Authorisation

var reservationPartialReversalSchema = (&Schema{
	Name: "ReservationPartialReversal",
	AllowedBitmaps: bitmapSet("receipt", "amount", "currency_code", "additional",
		"trace_number", "aid", "tlv"),
}).mustValidate()

var openReservationsEnquirySchema = (&Schema{
	Name:           "OpenReservationsEnquiry",
	AllowedBitmaps: bitmapSet("receipt"),
}).mustValidate()

var reservationBookTotalSchema = (&Schema{
	Name: "ReservationBookTotal",
	AllowedBitmaps: bitmapSet("receipt", "amount", "currency_code", "service_byte",
		"additional", "trace_number", "card_type", "aid", "tlv"),
}).mustValidate()

func tagOf(name string) byte {
	tag, ok := bitmapTagByName[name]
	if !ok {
		panic("zvt: unknown bitmap name " + name)
	}
	return tag
}

func bitmapSet(names ...string) map[byte]bool {
	m := make(map[byte]bool, len(names))
	for _, n := range names {
		m[tagOf(n)] = true
	}
	return m
}

// --- Concrete packet types ---
// Each wraps BasePacket with its control field and schema, and exposes the
// handful of typed accessors the reference implementation adds on top of
// plain field access (get_serial_number, get_receipt_numbers, ...).

type Registration struct{ BasePacket }
type Kassenbericht struct{ BasePacket }
type EndOfDay struct{ BasePacket }
type LogOff struct{ BasePacket }
type Initialisation struct{ BasePacket }
type DisplayText struct{ BasePacket }
type DisplayTextIntInput struct{ BasePacket }
type AbortCommand struct{ BasePacket }

type Completion struct{ BasePacket }

// SerialNumber extracts the terminal serial number (tag 0x1F42) from the TLV
// field's top level or from one level down, inside a constructed child such
// as the device information container, if present (ecrterm's
// Completion.get_serial_number).
func (p *Completion) SerialNumber() (string, bool) {
	v, ok := p.Get("tlv")
	if !ok {
		return "", false
	}
	tlv, ok := v.(*TLVNode)
	if !ok || !tlv.Constructed {
		return "", false
	}
	candidates := append([]*TLVNode{}, tlv.Children...)
	for _, child := range tlv.Children {
		if child.Constructed {
			candidates = append(candidates, child.Children...)
		}
	}
	for _, child := range candidates {
		if child.Tag != 0x1F42 {
			continue
		}
		if s, ok := child.Value.(string); ok {
			return s, true
		}
	}
	return "", false
}

type Abort struct{ BasePacket }

// ReceiptNumbers collects open receipt numbers from both the flat
// "receipt" bitmap and the TLV receipt-numbers container, deduplicated
// (ecrterm's Abort.get_receipt_numbers).
func (p *Abort) ReceiptNumbers() []string {
	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		if s == "" || s == "ffff" || s == "FFFF" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	if v, ok := p.Get("receipt"); ok {
		if s, ok := v.(string); ok {
			add(s)
		}
	}
	if v, ok := p.Get("tlv"); ok {
		if tlv, ok := v.(*TLVNode); ok && tlv.Constructed {
			for _, container := range tlv.Children {
				if container.Tag != 0x23 || !container.Constructed {
					continue
				}
				for _, item := range container.Children {
					if item.Tag == 0x08 {
						if s, ok := item.Value.(string); ok {
							add(s)
						}
					}
				}
			}
		}
	}
	return out
}

type StatusInformation struct{ BasePacket }

// EndOfDayInfo returns the amount field carried by a status information
// packet sent during an end-of-day cycle (ecrterm's
// StatusInformation.get_end_of_day_information). It does not return the
// "totals" bitmap; its raw bytes are read with Get("totals"). The typed breakdown of
// the "totals" bitmap by card scheme is left to a caller that needs it —
// TODO: decode the totals LLLVAR payload into per-scheme turnover once a
// concrete vendor's totals format is available to test against.
func (p *StatusInformation) EndOfDayInfo() (amount uint64, ok bool) {
	v, ok := p.Get("amount")
	if !ok {
		return 0, false
	}
	return v.(uint64), true
}

type IntermediateStatusInformation struct{ BasePacket }
type PacketReceived struct{ BasePacket }
type PacketReceivedError struct{ BasePacket }
type Authorisation struct{ BasePacket }
type PrintLine struct{ BasePacket }
type PrintTextBlock struct{ BasePacket }
type Diagnosis struct{ BasePacket }
type ActivateCardReader struct{ BasePacket }
type ReadCard struct{ BasePacket }
type CloseCardSession struct{ BasePacket }
type ResetTerminal struct{ BasePacket }
type ChangePTConfiguration struct{ BasePacket }
type SetTerminalID struct{ BasePacket }
type RequestFile struct{ BasePacket }
type WriteFiles struct{ BasePacket }
type ReservationRequest struct{ BasePacket }
type ReservationPartialReversal struct{ BasePacket }
type OpenReservationsEnquiry struct{ BasePacket }
type ReservationBookTotal struct{ BasePacket }

// NewOpenReservationsEnquiry pins the receipt field to "FFFF", the
// pseudo-tetrade sentinel meaning "all open reservations"
// (ecrterm's OpenReservationsEnquiry.__init__).
func NewOpenReservationsEnquiry() *OpenReservationsEnquiry {
	p := &OpenReservationsEnquiry{BasePacket: newBasePacket(openReservationsEnquirySchema, [2]byte{CmdClassStd, 0x23})}
	_ = p.Set("receipt", "FFFF")
	return p
}

// NewPacketReceived builds the bare "80 00" acknowledgement APDU the
// transmission engine sends after every intermediate or terminal response
// (ecrterm's PacketReceived, §4.5).
func NewPacketReceived() *PacketReceived {
	return &PacketReceived{BasePacket: newBasePacket(packetReceivedSchema, [2]byte{RespOK, 0x00})}
}

// NewRegistration builds a Registration command (ecrterm's Registration),
// the first APDU an ECR sends a freshly connected PT.
func NewRegistration(password string, configByte byte) *Registration {
	p := &Registration{BasePacket: newBasePacket(registrationSchema, [2]byte{CmdClassStd, 0x00})}
	_ = p.Set("password", password)
	_ = p.Set("config_byte", uint64(configByte))
	return p
}

// NewLogOff builds the bare LogOff command.
func NewLogOff() *LogOff {
	return &LogOff{BasePacket: newBasePacket(logOffSchema, [2]byte{CmdClassStd, 0x02})}
}

// NewStatusEnquiry builds a StatusEnquiry command.
func NewStatusEnquiry(password string) *StatusEnquiry {
	p := &StatusEnquiry{BasePacket: newBasePacket(statusEnquirySchema, [2]byte{CmdClassStatus, 0x01})}
	_ = p.Set("password", password)
	return p
}

// NewCompletion builds the bare Completion response a PT sends to end a
// successful dialogue.
func NewCompletion() *Completion {
	return &Completion{BasePacket: newBasePacket(completionSchema, [2]byte{CmdClassStd, 0x0f})}
}

// NewAbort builds the Abort response a PT sends to end a failed dialogue,
// carrying the failure's result_code.
func NewAbort(resultCode byte) *Abort {
	p := &Abort{BasePacket: newBasePacket(abortSchema, [2]byte{CmdClassStd, 0x1e})}
	_ = p.Set("result_code", uint64(resultCode))
	return p
}

// NewWriteFiles builds a WriteFiles command announcing one or more files'
// ids and sizes to the PT (ecrterm's WriteFiles.__init__, which appends one
// "x2d" TLV entry per file with overwrite=False), which subsequently pulls
// each file's content back via RequestFile sub-requests during the
// dialogue. files maps a file id to its full content.
func NewWriteFiles(password string, files map[byte][]byte) *WriteFiles {
	p := &WriteFiles{BasePacket: newBasePacket(writeFilesSchema, [2]byte{CmdClassService, 0x14})}
	_ = p.Set("password", password)
	tlv := NewTLVContainer(ZVTDictionary)
	ids := make([]byte, 0, len(files))
	for fileID := range files {
		ids = append(ids, fileID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, fileID := range ids {
		entry := tlv.AppendChild(uint32(0x2d))
		entry.Set(0x1d, uint64(fileID))
		entry.Set(0x1f00, uint64(len(files[fileID])))
	}
	_ = p.Set("tlv", tlv)
	return p
}

// NewFileAnswer builds the PacketReceived answer WriteFiles sends back for
// a RequestFile sub-request, carrying the requested slice of file content
// (ecrterm's WriteFiles.get_answer_).
func NewFileAnswer(fileID byte, offset uint32, data []byte) *PacketReceived {
	p := NewPacketReceived()
	tlv := NewTLVContainer(ZVTDictionary)
	entry := tlv.At(uint32(0x2d))
	entry.Set(0x1d, uint64(fileID))
	entry.Set(0x1e, uint64(offset))
	entry.Set(0x1c, data)
	_ = p.Set("tlv", tlv)
	return p
}

// NewRequestFile builds the PT's file-pull sub-request (ecrterm's
// RequestFile), mainly useful for tests exercising WriteFiles' answer
// flow without a real terminal.
func NewRequestFile(fileID byte, offset uint32) *RequestFile {
	p := &RequestFile{BasePacket: newBasePacket(requestFileSchema, [2]byte{CmdClassPT, 0x0c})}
	tlv := NewTLVContainer(ZVTDictionary)
	entry := tlv.At(uint32(0x2d))
	entry.Set(0x1d, uint64(fileID))
	entry.Set(0x1e, uint64(offset))
	_ = p.Set("tlv", tlv)
	return p
}

// RequestedFile reads the file id and start offset a RequestFile
// sub-request asks for, from its "tlv" tag 0x2d container
// (ecrterm's `cmd.tlv.x2d.x1d`/`.x1e`).
func (p *RequestFile) RequestedFile() (fileID byte, offset uint32, ok bool) {
	v, present := p.Get("tlv")
	if !present {
		return 0, 0, false
	}
	root, isNode := v.(*TLVNode)
	if !isNode {
		return 0, 0, false
	}
	child := root.At(uint32(0x2d))
	idVal, idOK := child.At(0x1d).Value.(uint64)
	offVal, offOK := child.At(0x1e).Value.(uint64)
	if !idOK {
		return 0, 0, false
	}
	if !offOK {
		offVal = 0
	}
	return byte(idVal), uint32(offVal), true
}

// packetKind is one entry of the dispatch registry ParseAPDU consults,
// the Go analogue of APDU._iterate_subclasses()/can_parse.
type packetKind struct {
	classByte int // -1 matches any byte (Ellipsis)
	instrByte int
	schema    *Schema
	build     func(cf [2]byte) Packet
	canParse  func(data []byte) bool // nil means "match on class/instr alone"
}

func wrap[T any](schema *Schema, set func(*T, BasePacket)) func(cf [2]byte) Packet {
	return func(cf [2]byte) Packet {
		v := new(T)
		set(v, newBasePacket(schema, cf))
		return any(v).(Packet)
	}
}

// packetRegistry lists every concrete packet type ParseAPDU can
// auto-dispatch to, most specific match first. WriteFiles is present for
// construction but excluded from auto-dispatch (can_parse always false),
// matching the reference implementation's note that it collides with
// other 08-class commands on the wire.
var packetRegistry = []packetKind{
	{CmdClassStd, 0x00, registrationSchema, wrap(registrationSchema, func(p *Registration, b BasePacket) { p.BasePacket = b }), nil},
	{0x0f, 0x10, kassenberichtSchema, wrap(kassenberichtSchema, func(p *Kassenbericht, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x50, endOfDaySchema, wrap(endOfDaySchema, func(p *EndOfDay, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x02, logOffSchema, wrap(logOffSchema, func(p *LogOff, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x93, initialisationSchema, wrap(initialisationSchema, func(p *Initialisation, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0xe0, displayTextSchema, wrap(displayTextSchema, func(p *DisplayText, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0xe2, displayTextIntInputSchema, wrap(displayTextIntInputSchema, func(p *DisplayTextIntInput, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0xb0, abortCommandSchema, wrap(abortCommandSchema, func(p *AbortCommand, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x0f, completionSchema, wrap(completionSchema, func(p *Completion, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x1e, abortSchema, wrap(abortSchema, func(p *Abort, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassPT, 0x0f, statusInformationSchema, wrap(statusInformationSchema, func(p *StatusInformation, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassPT, 0xff, intermediateStatusInformationSchema, wrap(intermediateStatusInformationSchema, func(p *IntermediateStatusInformation, b BasePacket) { p.BasePacket = b }), nil},
	{RespOK, 0x00, packetReceivedSchema, wrap(packetReceivedSchema, func(p *PacketReceived, b BasePacket) { p.BasePacket = b }), nil},
	{RespError, -1, packetReceivedErrorSchema, wrap(packetReceivedErrorSchema, func(p *PacketReceivedError, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x01, authorisationSchema, wrap(authorisationSchema, func(p *Authorisation, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0xd1, printLineSchema, wrap(printLineSchema, func(p *PrintLine, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0xd3, printTextBlockSchema, wrap(printTextBlockSchema, func(p *PrintTextBlock, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x70, diagnosisSchema, wrap(diagnosisSchema, func(p *Diagnosis, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassService, 0x50, activateCardReaderSchema, wrap(activateCardReaderSchema, func(p *ActivateCardReader, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0xc0, readCardSchema, wrap(readCardSchema, func(p *ReadCard, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0xc5, closeCardSessionSchema, wrap(closeCardSessionSchema, func(p *CloseCardSession, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x18, resetTerminalSchema, wrap(resetTerminalSchema, func(p *ResetTerminal, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStatus, 0x01, statusEnquirySchema, wrap(statusEnquirySchema, func(p *StatusEnquiry, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassService, 0x13, changePTConfigurationSchema, wrap(changePTConfigurationSchema, func(p *ChangePTConfiguration, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x1b, setTerminalIDSchema, wrap(setTerminalIDSchema, func(p *SetTerminalID, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassPT, 0x0c, requestFileSchema, wrap(requestFileSchema, func(p *RequestFile, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassService, 0x14, writeFilesSchema, wrap(writeFilesSchema, func(p *WriteFiles, b BasePacket) { p.BasePacket = b }), func([]byte) bool { return false }},
	{CmdClassStd, 0x22, reservationRequestSchema, wrap(reservationRequestSchema, func(p *ReservationRequest, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x23, reservationPartialReversalSchema, wrap(reservationPartialReversalSchema, func(p *ReservationPartialReversal, b BasePacket) { p.BasePacket = b }), nil},
	{CmdClassStd, 0x24, reservationBookTotalSchema, wrap(reservationBookTotalSchema, func(p *ReservationBookTotal, b BasePacket) { p.BasePacket = b }), nil},
}

type StatusEnquiry struct{ BasePacket }

// Packet is the common interface every concrete APDU type satisfies via
// its embedded BasePacket.
type Packet interface {
	ControlField() [2]byte
	Schema() *Schema
	Get(name string) (any, bool)
	Set(name string, value any) error
	Serialize(ctx context.Context) ([]byte, error)
}

// ParseAPDU parses a complete APDU (control field + length + body),
// dispatching to the most appropriate registered packet type
// (APDU.parse/APDU._iterate_subclasses). If no concrete type claims the
// control field, it falls back to a bare BasePacket, analogous to
// instantiating the APDU base class directly.
func ParseAPDU(ctx context.Context, data []byte) (Packet, error) {
	if len(data) < 2 {
		return nil, newErr(KindFraming, "APDU shorter than control field", nil)
	}
	cf := [2]byte{data[0], data[1]}
	rest := data[2:]

	length, rest, err := readLengthField(rest)
	if err != nil {
		return nil, err
	}
	if len(rest) < length {
		return nil, newErr(KindFraming, "APDU body shorter than declared length", nil)
	}
	body := rest[:length]

	for _, kind := range packetRegistry {
		if kind.canParse != nil && !kind.canParse(data) {
			continue
		}
		if kind.classByte != -1 && byte(kind.classByte) != cf[0] {
			continue
		}
		if kind.instrByte != -1 && byte(kind.instrByte) != cf[1] {
			continue
		}
		pkt := kind.build(cf)
		if err := parseBody(ctx, packetBase(pkt), body); err != nil {
			return nil, err
		}
		return pkt, nil
	}

	base := newBasePacket((&Schema{Name: "APDU"}).mustValidate(), cf)
	if err := parseBody(ctx, &base, body); err != nil {
		return nil, err
	}
	return &base, nil
}

// packetBase extracts the *BasePacket embedded in a concrete Packet value
// via its ControlField/Schema/Get/Set/Serialize method set; every
// concrete type in this package embeds BasePacket directly, so a type
// switch covers them all without reflection.
func packetBase(p Packet) *BasePacket {
	switch v := p.(type) {
	case *Registration:
		return &v.BasePacket
	case *Kassenbericht:
		return &v.BasePacket
	case *EndOfDay:
		return &v.BasePacket
	case *LogOff:
		return &v.BasePacket
	case *Initialisation:
		return &v.BasePacket
	case *DisplayText:
		return &v.BasePacket
	case *DisplayTextIntInput:
		return &v.BasePacket
	case *AbortCommand:
		return &v.BasePacket
	case *Completion:
		return &v.BasePacket
	case *Abort:
		return &v.BasePacket
	case *StatusInformation:
		return &v.BasePacket
	case *IntermediateStatusInformation:
		return &v.BasePacket
	case *PacketReceived:
		return &v.BasePacket
	case *PacketReceivedError:
		return &v.BasePacket
	case *Authorisation:
		return &v.BasePacket
	case *PrintLine:
		return &v.BasePacket
	case *PrintTextBlock:
		return &v.BasePacket
	case *Diagnosis:
		return &v.BasePacket
	case *ActivateCardReader:
		return &v.BasePacket
	case *ReadCard:
		return &v.BasePacket
	case *CloseCardSession:
		return &v.BasePacket
	case *ResetTerminal:
		return &v.BasePacket
	case *StatusEnquiry:
		return &v.BasePacket
	case *ChangePTConfiguration:
		return &v.BasePacket
	case *SetTerminalID:
		return &v.BasePacket
	case *RequestFile:
		return &v.BasePacket
	case *WriteFiles:
		return &v.BasePacket
	case *ReservationRequest:
		return &v.BasePacket
	case *ReservationPartialReversal:
		return &v.BasePacket
	case *OpenReservationsEnquiry:
		return &v.BasePacket
	case *ReservationBookTotal:
		return &v.BasePacket
	case *BasePacket:
		return v
	default:
		panic("zvt: unregistered packet type in packetBase")
	}
}

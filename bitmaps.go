package zvt

// BitmapEntry is one row of the global bitmap tag table: the codec used to
// parse/serialize its value, the Go-facing field name, and a human
// description (ecrterm.packets.bitmaps.BITMAPS).
type BitmapEntry struct {
	Codec       FieldCodec
	Name        string
	Description string
}

// Bitmaps is the tag -> BitmapEntry table consulted once an APDU's
// ordered fixed fields are exhausted and the remainder is a sequence of
// tag-prefixed optional fields (§4.1, §6). Ported verbatim from
// ecrterm.packets.bitmaps.BITMAPS.
var Bitmaps = map[byte]BitmapEntry{
	0x01: {ByteCodec, "timeout", "binary time-out"},
	0x02: {ByteCodec, "max_status_infos", "binary max.status infos"},
	0x03: {ByteCodec, "service_byte", "binary service-byte"},
	0x04: {BCDIntCodec{Length: 6}, "amount", "Amount"},
	0x05: {ByteCodec, "pump_nr", "binary pump-Nr."},
	0x06: {TLVFieldCodec{}, "tlv", "TLV"},
	0x0B: {BCDCodec{Length: 3}, "trace_number", "trace-number"},
	0x0C: {BCDCodec{Length: 3}, "time", "Time"},
	0x0D: {BCDCodec{Length: 2}, "date_day", "date, MM DD (see AA)"},
	0x0E: {BCDCodec{Length: 2}, "card_expire", "expiry-date, YY MM"},
	0x17: {BCDCodec{Length: 2}, "card_sequence_number", "card sequence-number"},
	0x19: {ByteCodec, "payment_type", "binary status-byte/payment-type/card-type"},
	0x22: {VarBytesCodec{HeaderDigits: 2}, "card_number", "card_number, PAN / EF_ID, 'E' used to indicate masked numeric digit"},
	0x23: {VarBytesCodec{HeaderDigits: 2}, "track_2", "track 2 data, 'E' used to indicate masked numeric digit"},
	0x24: {VarBytesCodec{HeaderDigits: 3}, "track_3", "track 3 data, 'E' used to indicate masked numeric digit"},
	0x27: {ByteCodec, "result_code", "binary result-code"},
	0x29: {BCDCodec{Length: 4}, "tid", "TID"},
	0x2A: {FixedBytesCodec{Length: 15}, "vu", "ASCII VU-number"},
	0x2D: {VarBytesCodec{HeaderDigits: 2}, "track_1", "track 1 data"},
	0x2E: {VarBytesCodec{HeaderDigits: 3}, "sync_chip_data", "synchronous chip data"},
	0x37: {BCDCodec{Length: 3}, "trace_number_original", "trace-number of the original transaction for reversal"},
	0x3A: {BCDCodec{Length: 2}, "cvv", "the field cvv is optionally used for mail order"},
	0x3B: {FixedBytesCodec{Length: 8}, "aid", "AID authorisation-attribute"},
	0x3C: {VarBytesCodec{HeaderDigits: 3}, "additional", "additional-data/additional-text"},
	0x3D: {BCDCodec{Length: 3}, "password", "Password"},
	0x49: {BCDIntCodec{Length: 2}, "currency_code", "currency code"},
	0x60: {VarBytesCodec{HeaderDigits: 3}, "totals", "individual totals"},
	0x87: {BCDCodec{Length: 2}, "receipt", "receipt-number"},
	0x88: {BCDCodec{Length: 3}, "turnover", "turnover record number"},
	0x8A: {ByteCodec, "card_type", "binary card-type (card-number according to ZVT-protocol; comparison 8C)"},
	0x8B: {VarBytesCodec{HeaderDigits: 2}, "card_name", "card-name"},
	0x8C: {ByteCodec, "card_operator", "binary card-type-ID of the network operator (comparison 8A)"},
	0x92: {VarBytesCodec{HeaderDigits: 3}, "offline_chip", "additional-data ec-Cash with chip offline"},
	0x9A: {VarBytesCodec{HeaderDigits: 3}, "geldkarte", "Geldkarte payments-/failed-payment record/total record Geldkarte"},
	0xA0: {ByteCodec, "result_code_as", "binary result-code-AS"},
	0xA7: {VarBytesCodec{HeaderDigits: 2}, "chip_ef_id", "chip-data, EF_ID"},
	0xAA: {BCDCodec{Length: 3}, "date", "date YY MM DD (see 0D)"},
	0xAF: {VarBytesCodec{HeaderDigits: 3}, "ef_info", "EF_Info"},
	0xBA: {FixedBytesCodec{Length: 5}, "aid_param", "binary AID-parameter"},
	0xD0: {ByteCodec, "algo_key", "binary algorithm-Key"},
	0xD1: {VarBytesCodec{HeaderDigits: 2}, "offset", "card offset/PIN-data"},
	0xD2: {ByteCodec, "direction", "binary direction"},
	0xD3: {ByteCodec, "key_position", "binary key-position"},
	0xE0: {ByteCodec, "input_min", "binary min. length of the input"},
	0xE1: {VarStringCodec{HeaderDigits: 2}, "iline1", "text2 line 1"},
	0xE2: {VarStringCodec{HeaderDigits: 2}, "iline2", "text2 line 2"},
	0xE3: {VarStringCodec{HeaderDigits: 2}, "iline3", "text2 line 3"},
	0xE4: {VarStringCodec{HeaderDigits: 2}, "iline4", "text2 line 4"},
	0xE5: {VarStringCodec{HeaderDigits: 2}, "iline5", "text2 line 5"},
	0xE6: {VarStringCodec{HeaderDigits: 2}, "iline6", "text2 line 6"},
	0xE7: {VarStringCodec{HeaderDigits: 2}, "iline7", "text2 line 7"},
	0xE8: {VarStringCodec{HeaderDigits: 2}, "iline8", "text2 line 8"},
	0xE9: {ByteCodec, "max_input_length", "binary max. length of the input"},
	0xEA: {ByteCodec, "input_echo", "binary echo the Input"},
	0xEB: {FixedBytesCodec{Length: 8}, "mac", "binary MAC over text 1 and text 2"},
	0xF0: {ByteCodec, "display_duration", "binary display-duration"},
	0xF1: {VarStringCodec{HeaderDigits: 2}, "line1", "text1 line 1"},
	0xF2: {VarStringCodec{HeaderDigits: 2}, "line2", "text1 line 2"},
	0xF3: {VarStringCodec{HeaderDigits: 2}, "line3", "text1 line 3"},
	0xF4: {VarStringCodec{HeaderDigits: 2}, "line4", "text1 line 4"},
	0xF5: {VarStringCodec{HeaderDigits: 2}, "line5", "text1 line 5"},
	0xF6: {VarStringCodec{HeaderDigits: 2}, "line6", "text1 line 6"},
	0xF7: {VarStringCodec{HeaderDigits: 2}, "line7", "text1 line 7"},
	0xF8: {VarStringCodec{HeaderDigits: 2}, "line8", "text1 line 8"},
	0xF9: {ByteCodec, "beeps", "binary number of beep-tones"},
	0xFA: {ByteCodec, "status", "binary status"},
	0xFB: {ByteCodec, "ok_required", "binary confirmation the input with <OK> required"},
	0xFC: {ByteCodec, "dialog_control", "binary dialog-control"},
}

// bitmapTagByName is the reverse index, built once, used by Schema to
// resolve ALLOWED/REQUIRED/OVERRIDE bitmap lists given by field name.
var bitmapTagByName = func() map[string]byte {
	m := make(map[string]byte, len(Bitmaps))
	for tag, e := range Bitmaps {
		m[e.Name] = tag
	}
	return m
}()

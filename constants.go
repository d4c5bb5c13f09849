package zvt

// Serial control bytes used to frame an APDU on the wire (§6).
const (
	DLE = 0x10 // Data Link Escape
	STX = 0x02 // Start of Text
	ETX = 0x03 // End of Text
	ACK = 0x06 // Positive acknowledge
	NAK = 0x15 // Negative acknowledge
)

// Command classes, the first byte of an APDU's control field.
const (
	CmdClassStd     = 0x06 // ECR -> PT, standard commands
	CmdClassService = 0x08 // ECR -> PT, service commands
	CmdClassPT      = 0x04 // PT -> ECR
	CmdClassStatus  = 0x05 // status enquiry only (05 01)
)

// Response control-field first byte values, PT -> ECR only.
const (
	RespOK    = 0x80
	RespError = 0x84
)

// CurrencyEUR is the BCD currency code for Euro.
const CurrencyEUR = "0978"

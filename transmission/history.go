package transmission

import zvt "github.com/xx25/go-zvt"

// Exchange is one APDU crossing the wire in either direction, recorded in
// an Engine run's History for diagnostics and tests.
type Exchange struct {
	Outbound bool
	Packet   zvt.Packet
}

// History is the append-only log of a single Engine.Run, the Go analogue
// of ecrterm's Transport.deque/history list.
type History []Exchange

package transmission

import (
	"context"

	zvt "github.com/xx25/go-zvt"
)

// Listener is invoked for every intermediate response the PT sends while a
// command is outstanding (PacketReceived, (Intermediate)StatusInformation,
// PrintLine, PrintTextBlock), mirroring ecrterm's on_intermediate_status
// style hooks.
type Listener func(ctx context.Context, response zvt.Packet)

// SuperResponder lets a command answer a PT sub-request inline, as
// WriteFiles does for RequestFile (§4.8, ecrterm's
// WriteFiles._handle_super_response). It returns the answer APDU to send
// back and whether it claimed the sub-request; returning handled=false
// falls back to the engine's default "ack and continue" behaviour.
type SuperResponder func(ctx context.Context, subRequest zvt.Packet) (answer zvt.Packet, handled bool)

// Command is one ECR-initiated dialogue: the outbound APDU plus the
// engine-facing hooks that shape how its response loop behaves.
type Command struct {
	Packet zvt.Packet

	// WaitForCompletion, when false, ends Run as soon as the ACK byte is
	// observed (ecrterm commands with wait_for_completion=False).
	WaitForCompletion bool

	// OnIntermediate, if set, is called for every intermediate response
	// before the engine acknowledges it.
	OnIntermediate Listener

	// SuperRespond, if set, is consulted for APDUs the engine does not
	// otherwise recognise as terminal/intermediate (e.g. RequestFile).
	SuperRespond SuperResponder
}

// NewCommand wraps packet with WaitForCompletion defaulted to true, the
// common case for every command except those the PT answers with a bare
// ACK (ecrterm's Command.wait_for_completion default).
func NewCommand(packet zvt.Packet) *Command {
	return &Command{Packet: packet, WaitForCompletion: true}
}

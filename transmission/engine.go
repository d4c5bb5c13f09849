// Package transmission drives one ECR-initiated command across a Link,
// implementing the master/slave exchange described in §4.5: send, await
// ACK/NAK, then loop over the PT's responses until a terminal APDU ends
// the dialogue. It mirrors the teacher's explicit state-enum-plus-switch
// session loop (zmodem's Sender/Receiver) with ZVT's APDU types standing
// in for ZMODEM's header/subpacket types.
package transmission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	zvt "github.com/xx25/go-zvt"
)

// State names the engine's position in the §4.5 state machine, kept
// mainly for logging and tests.
type State int

const (
	Idle State = iota
	SendingCommand
	AwaitingAck
	ReceivingResponses
	Completed
	Aborted
	TransportFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SendingCommand:
		return "sending_command"
	case AwaitingAck:
		return "awaiting_ack"
	case ReceivingResponses:
		return "receiving_responses"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	case TransportFailed:
		return "transport_failed"
	default:
		return "unknown"
	}
}

// ErrProtocol marks a PacketReceivedError from the PT. Any other APDU that
// no branch or SuperResponder claims, an unanswered sub-request included,
// is acked and the response loop continues.
var ErrProtocol = errors.New("zvt/transmission: protocol error")

// Result is what Run returns on a clean dialogue end: Completion yields
// Code 0, Abort yields Code set to the PT's result_code.
type Result struct {
	Code    int
	Aborted bool
}

// Engine runs one Command at a time over a Link, recording every APDU
// exchanged into History.
type Engine struct {
	link    Link
	cfg     Config
	logger  *slog.Logger
	state   State
	history History
}

// New wraps link (a *serial.Framer or *TCPLink) with default timing.
func New(link Link) *Engine {
	return &Engine{link: link, cfg: defaults(), logger: slog.Default(), state: Idle}
}

// WithConfig overrides the engine's retry/timing parameters.
func (e *Engine) WithConfig(cfg Config) *Engine {
	e.cfg = cfg
	return e
}

// WithLogger overrides the engine's logger.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

// History returns the most recent Run's exchange log.
func (e *Engine) History() History { return e.history }

// State returns the engine's current position in the state machine.
func (e *Engine) State() State { return e.state }

// Run drives cmd to completion: serialize and send it, wait for the ACK,
// then loop over the PT's responses per §4.5 until a terminal APDU (or a
// transport/protocol failure) ends the dialogue.
func (e *Engine) Run(ctx context.Context, cmd *Command) (Result, error) {
	e.history = nil
	e.state = SendingCommand

	data, err := cmd.Packet.Serialize(ctx)
	if err != nil {
		e.state = TransportFailed
		return Result{}, fmt.Errorf("zvt/transmission: serialize command: %w", err)
	}
	e.record(true, cmd.Packet)

	e.state = AwaitingAck
	if err := e.link.Send(data); err != nil {
		e.state = TransportFailed
		return Result{}, fmt.Errorf("zvt/transmission: send command: %w", err)
	}

	if !cmd.WaitForCompletion {
		e.state = Completed
		return Result{Code: 0}, nil
	}

	e.state = ReceivingResponses
	for {
		if err := ctx.Err(); err != nil {
			e.state = TransportFailed
			return Result{}, err
		}

		raw, err := e.link.Receive()
		if err != nil {
			e.state = TransportFailed
			return Result{}, fmt.Errorf("zvt/transmission: receive response: %w", err)
		}

		resp, err := zvt.ParseAPDU(ctx, raw)
		if err != nil {
			e.state = TransportFailed
			return Result{}, fmt.Errorf("zvt/transmission: parse response: %w", err)
		}
		e.record(false, resp)

		result, done, err := e.dispatch(ctx, cmd, resp)
		if err != nil {
			e.state = TransportFailed
			return Result{}, err
		}
		if done {
			if result.Aborted {
				e.state = Aborted
			} else {
				e.state = Completed
			}
			return result, nil
		}
	}
}

// dispatch implements the per-APDU branch of §4.5's response loop: ack and
// continue for intermediate responses, ack and stop for terminal ones,
// fail outright on PacketReceivedError, and hand sub-requests to the
// command's SuperResponder when present.
func (e *Engine) dispatch(ctx context.Context, cmd *Command, resp zvt.Packet) (Result, bool, error) {
	switch v := resp.(type) {
	case *zvt.Completion:
		if err := e.ack(ctx); err != nil {
			return Result{}, false, err
		}
		return Result{Code: 0}, true, nil

	case *zvt.Abort:
		if err := e.ack(ctx); err != nil {
			return Result{}, false, err
		}
		code := 0
		if raw, ok := v.Get("result_code"); ok {
			if n, ok := raw.(uint64); ok {
				code = int(n)
			}
		}
		return Result{Code: code, Aborted: true}, true, nil

	case *zvt.PacketReceivedError:
		return Result{}, false, fmt.Errorf("zvt/transmission: PT reported a packet error: %w", ErrProtocol)

	case *zvt.PacketReceived, *zvt.IntermediateStatusInformation, *zvt.StatusInformation,
		*zvt.PrintLine, *zvt.PrintTextBlock:
		if cmd.OnIntermediate != nil {
			cmd.OnIntermediate(ctx, resp)
		}
		if err := e.ack(ctx); err != nil {
			return Result{}, false, err
		}
		return Result{}, false, nil

	default:
		if cmd.SuperRespond != nil {
			if answer, handled := cmd.SuperRespond(ctx, resp); handled {
				out, err := answer.Serialize(ctx)
				if err != nil {
					return Result{}, false, fmt.Errorf("zvt/transmission: serialize super-response answer: %w", err)
				}
				if err := e.link.Send(out); err != nil {
					return Result{}, false, fmt.Errorf("zvt/transmission: send super-response answer: %w", err)
				}
				e.record(true, answer)
				return Result{}, false, nil
			}
		}
		e.logger.Warn("zvt/transmission: unrecognised APDU, acking and continuing",
			"control_field", resp.ControlField())
		if err := e.ack(ctx); err != nil {
			return Result{}, false, err
		}
		return Result{}, false, nil
	}
}

func (e *Engine) ack(ctx context.Context) error {
	ack := zvt.NewPacketReceived()
	data, err := ack.Serialize(ctx)
	if err != nil {
		return fmt.Errorf("zvt/transmission: serialize ack: %w", err)
	}
	if err := e.link.Send(data); err != nil {
		return fmt.Errorf("zvt/transmission: send ack: %w", err)
	}
	e.record(true, ack)
	return nil
}

func (e *Engine) record(outbound bool, p zvt.Packet) {
	e.history = append(e.history, Exchange{Outbound: outbound, Packet: p})
}

// Package arq implements automatic repeat request sessions. A session sends
// the frames of one message through a link and retransmits them according to
// the acknowledgments that an outcome source reports.
package arq

import (
	"errors"
	"fmt"

	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/lan/medium"
	"github.com/sarchlab/linksim/sim"
)

// Errors that end a session.
var (
	ErrRetryLimit = errors.New("retry limit reached")
	ErrTimeout    = errors.New("session timed out")
	ErrCancelled  = errors.New("session cancelled")
	ErrLinkDown   = errors.New("link is not attached")
)

// A Link carries the frames of a session. *medium.Connection is a Link.
// Sessions only send through an attached link.
type Link interface {
	Attached() bool
	Transmit(sender medium.Node, f *frame.Frame) *contention.Attempt
	Forward(sender medium.Node, f *frame.Frame)
}

// Protocol selects the retransmission discipline.
type Protocol int

// The supported protocols.
const (
	// StopAndWait keeps one frame in flight and resends it until it is
	// acknowledged. Without MaxAttempts or a timeout, a link that never
	// acknowledges keeps the session running forever.
	StopAndWait Protocol = iota

	// GoBackN sends a window of frames and restarts the whole window on the
	// first negative acknowledgment.
	GoBackN

	// SelectiveRepeat sends a window of frames and resends, once, only the
	// frames that are negatively acknowledged.
	SelectiveRepeat
)

func (p Protocol) String() string {
	switch p {
	case StopAndWait:
		return "saw"
	case GoBackN:
		return "gbn"
	case SelectiveRepeat:
		return "sr"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// ParseProtocol converts the short name of a protocol to a Protocol.
func ParseProtocol(name string) (Protocol, error) {
	switch name {
	case "saw", "stop-and-wait":
		return StopAndWait, nil
	case "gbn", "go-back-n":
		return GoBackN, nil
	case "sr", "selective-repeat":
		return SelectiveRepeat, nil
	default:
		return 0, fmt.Errorf("unknown protocol %q", name)
	}
}

// Outcome is the final result of a session.
type Outcome int

// The outcomes of a session.
const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Hook positions of a session. The item is the session.
var (
	// HookPosFrameSent marks a frame handed to the link. The detail is the
	// frame.
	HookPosFrameSent = &sim.HookPos{Name: "arq-send"}

	// HookPosAck marks a positive acknowledgment. The detail is the
	// sequence number.
	HookPosAck = &sim.HookPos{Name: "ack"}

	// HookPosNak marks a negative acknowledgment. The detail is the
	// sequence number.
	HookPosNak = &sim.HookPos{Name: "nak"}

	// HookPosRestart marks a Go-Back-N session starting its window over.
	// The detail is the number of restarts so far.
	HookPosRestart = &sim.HookPos{Name: "restart"}

	// HookPosSessionEnd marks the end of a session. The detail is the
	// outcome.
	HookPosSessionEnd = &sim.HookPos{Name: "session-end"}
)

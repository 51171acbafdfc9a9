package arq

import (
	"fmt"

	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/lan/medium"
	"github.com/sarchlab/linksim/lan/outcome"
	"github.com/sarchlab/linksim/sim"
)

type sendEvent struct {
	*sim.EventBase
	seq int
}

type checkEvent struct {
	*sim.EventBase
}

type timeoutEvent struct {
	*sim.EventBase
}

// A Session delivers one message with one protocol. Sessions are actors:
// all their progress happens in Handle.
type Session struct {
	*sim.ComponentBase

	engine      sim.Engine
	source      outcome.Source
	protocol    Protocol
	windowSize  int
	interval    sim.VTimeInSec
	maxAttempts int
	maxRestarts int
	timeout     sim.VTimeInSec
	contention  bool

	started  bool
	sender   medium.Node
	link     Link
	message  *frame.Frame
	window   frame.Window
	sends    []int
	restarts int
	attempts []*contention.Attempt
	outcome  Outcome
	err      error
	onDone   []func(*Session)
	notified bool
}

// Protocol returns the protocol of the session.
func (s *Session) Protocol() Protocol {
	return s.protocol
}

// Start begins sending msg from sender through link at the current time.
func (s *Session) Start(sender medium.Node, link Link, msg *frame.Frame) {
	s.Lock()
	defer s.Unlock()

	if s.started {
		panic(fmt.Sprintf("session %s already started", s.Name()))
	}

	s.started = true
	s.sender = sender
	s.link = link
	s.message = msg

	if s.protocol == StopAndWait {
		s.window = frame.Window{frame.Numbered(msg, 0)}
	} else {
		s.window = frame.NewWindow(msg, s.windowSize)
	}

	s.sends = make([]int, len(s.window))

	now := s.engine.CurrentTime()

	if s.timeout > 0 {
		s.engine.Schedule(&timeoutEvent{
			EventBase: sim.NewEventBase(now+s.timeout, s),
		})
	}

	s.scheduleWindow(now)
}

// OnDone registers a function to call when the session ends. The function
// runs after the session releases its lock.
func (s *Session) OnDone(f func(*Session)) {
	s.Lock()
	defer s.Unlock()

	s.onDone = append(s.onDone, f)
}

// Cancel stops the session. Events that are still pending become no-ops and
// frames that are still contending for the medium are aborted.
func (s *Session) Cancel() {
	s.Lock()
	s.finish(s.engine.CurrentTime(), OutcomeCancelled, ErrCancelled)
	callbacks := s.takeDoneCallbacks()
	s.Unlock()

	s.notify(callbacks)
}

// Handle advances the session.
func (s *Session) Handle(e sim.Event) error {
	s.Lock()
	s.handle(e)
	callbacks := s.takeDoneCallbacks()
	s.Unlock()

	s.notify(callbacks)

	return nil
}

func (s *Session) handle(e sim.Event) {
	if s.outcome != OutcomePending {
		return
	}

	switch evt := e.(type) {
	case *sendEvent:
		s.send(evt.Time(), evt.seq)
	case *checkEvent:
		s.check(evt.Time())
	case *timeoutEvent:
		s.finish(evt.Time(), OutcomeCancelled, ErrTimeout)
	default:
		panic(fmt.Sprintf("session %s cannot handle event of type %T",
			s.Name(), e))
	}
}

func (s *Session) takeDoneCallbacks() []func(*Session) {
	if s.outcome == OutcomePending || s.notified {
		return nil
	}

	s.notified = true

	return s.onDone
}

func (s *Session) notify(callbacks []func(*Session)) {
	for _, f := range callbacks {
		f(s)
	}
}

// scheduleWindow sends the frames of the window one interval apart and
// checks the acknowledgments one interval after the last frame.
func (s *Session) scheduleWindow(start sim.VTimeInSec) {
	for i := range s.window {
		s.engine.Schedule(&sendEvent{
			EventBase: sim.NewEventBase(
				start+sim.VTimeInSec(i)*s.interval, s),
			seq: i,
		})
	}

	s.engine.Schedule(&checkEvent{
		EventBase: sim.NewEventBase(
			start+sim.VTimeInSec(len(s.window))*s.interval, s),
	})
}

func (s *Session) send(now sim.VTimeInSec, seq int) {
	if !s.link.Attached() {
		s.finish(now, OutcomeFailed, ErrLinkDown)
		return
	}

	f := s.window[seq]
	s.sends[seq]++

	s.invokeHook(now, HookPosFrameSent, f)

	if !s.contention {
		s.link.Forward(s.sender, f)
		return
	}

	attempt := s.link.Transmit(s.sender, f)
	if attempt != nil {
		s.attempts = append(s.attempts, attempt)
	}
}

func (s *Session) check(now sim.VTimeInSec) {
	switch s.protocol {
	case StopAndWait:
		s.checkStopAndWait(now)
	case GoBackN:
		s.checkGoBackN(now)
	case SelectiveRepeat:
		s.checkSelectiveRepeat(now)
	}
}

func (s *Session) checkStopAndWait(now sim.VTimeInSec) {
	if s.sample(now, 0) {
		s.finish(now, OutcomeSuccess, nil)
		return
	}

	if s.maxAttempts > 0 && s.sends[0] >= s.maxAttempts {
		s.finish(now, OutcomeFailed, ErrRetryLimit)
		return
	}

	s.scheduleWindow(now)
}

func (s *Session) checkGoBackN(now sim.VTimeInSec) {
	for seq := range s.window {
		if s.sample(now, seq) {
			continue
		}

		if s.maxRestarts > 0 && s.restarts >= s.maxRestarts {
			s.finish(now, OutcomeFailed, ErrRetryLimit)
			return
		}

		s.restarts++
		s.invokeHook(now, HookPosRestart, s.restarts)
		s.scheduleWindow(now)

		return
	}

	s.finish(now, OutcomeSuccess, nil)
}

func (s *Session) checkSelectiveRepeat(now sim.VTimeInSec) {
	for seq := range s.window {
		if !s.sample(now, seq) {
			s.send(now, seq)
		}

		if s.outcome != OutcomePending {
			return
		}
	}

	s.finish(now, OutcomeSuccess, nil)
}

func (s *Session) sample(now sim.VTimeInSec, seq int) bool {
	if s.source.NextAck(seq) {
		s.invokeHook(now, HookPosAck, seq)
		return true
	}

	s.invokeHook(now, HookPosNak, seq)

	return false
}

func (s *Session) finish(now sim.VTimeInSec, o Outcome, err error) {
	if s.outcome != OutcomePending {
		return
	}

	s.outcome = o
	s.err = err

	if o != OutcomeSuccess {
		s.abortAttempts()
	}

	s.invokeHook(now, HookPosSessionEnd, o)
}

func (s *Session) abortAttempts() {
	for _, a := range s.attempts {
		a.Abort()
	}
}

func (s *Session) invokeHook(
	now sim.VTimeInSec,
	pos *sim.HookPos,
	detail interface{},
) {
	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Now:    now,
		Pos:    pos,
		Item:   s,
		Detail: detail,
	})
}

// Outcome returns the outcome of the session so far.
func (s *Session) Outcome() Outcome {
	s.Lock()
	defer s.Unlock()

	return s.outcome
}

// Err returns the error that ended the session, if any.
func (s *Session) Err() error {
	s.Lock()
	defer s.Unlock()

	return s.err
}

// Done tells if the session has ended.
func (s *Session) Done() bool {
	return s.Outcome() != OutcomePending
}

// Window returns the frames of the session.
func (s *Session) Window() frame.Window {
	s.Lock()
	defer s.Unlock()

	return s.window
}

// Sends returns how many times the frame with sequence number seq was sent.
func (s *Session) Sends(seq int) int {
	s.Lock()
	defer s.Unlock()

	if seq < 0 || seq >= len(s.sends) {
		return 0
	}

	return s.sends[seq]
}

// TotalSends returns how many frames were sent in total.
func (s *Session) TotalSends() int {
	s.Lock()
	defer s.Unlock()

	total := 0
	for _, n := range s.sends {
		total += n
	}

	return total
}

// Restarts returns how many times a Go-Back-N session restarted its window.
func (s *Session) Restarts() int {
	s.Lock()
	defer s.Unlock()

	return s.restarts
}

// Attempts returns the contention attempts of the frames sent so far.
func (s *Session) Attempts() []*contention.Attempt {
	s.Lock()
	defer s.Unlock()

	attempts := make([]*contention.Attempt, len(s.attempts))
	copy(attempts, s.attempts)

	return attempts
}

func (s *Session) String() string {
	return fmt.Sprintf("%s %s %s", s.Name(), s.protocol, s.outcome)
}

package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type labeledEvent struct {
	*EventBase
	label string
}

func newLabeledEvent(
	t VTimeInSec,
	handler Handler,
	label string,
) labeledEvent {
	return labeledEvent{EventBase: NewEventBase(t, handler), label: label}
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := NewMockEvent(mockCtrl)
		evt2 := NewMockEvent(mockCtrl)
		evt3 := NewMockEvent(mockCtrl)
		evt4 := NewMockEvent(mockCtrl)

		evt1.EXPECT().Time().Return(VTimeInSec(4.0)).AnyTimes()
		evt1.EXPECT().Handler().Return(handler1).AnyTimes()
		evt2.EXPECT().Time().Return(VTimeInSec(2.0)).AnyTimes()
		evt2.EXPECT().Handler().Return(handler2).AnyTimes()
		evt3.EXPECT().Time().Return(VTimeInSec(3.0)).AnyTimes()
		evt3.EXPECT().Handler().Return(handler1).AnyTimes()
		evt4.EXPECT().Time().Return(VTimeInSec(5.0)).AnyTimes()
		evt4.EXPECT().Handler().Return(handler1).AnyTimes()

		handleEvt2 := handler2.EXPECT().Handle(evt2).Do(func(_ Event) {
			engine.Schedule(evt3)
			engine.Schedule(evt4)
		})
		handleEvt3 := handler1.EXPECT().Handle(evt3).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).After(handleEvt3)
		handler1.EXPECT().Handle(evt4).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5.0)))
	})

	It("should run same-time events in scheduling order", func() {
		var order []string
		handler := HandlerFunc(func(e Event) error {
			order = append(order, e.(labeledEvent).label)
			return nil
		})

		for _, label := range []string{"a", "b", "c", "d", "e", "f"} {
			engine.Schedule(newLabeledEvent(1, handler, label))
		}

		Expect(engine.Run()).To(Succeed())
		Expect(order).To(Equal([]string{"a", "b", "c", "d", "e", "f"}))
	})

	It("should invoke hooks around each event", func() {
		hook := NewMockHook(mockCtrl)
		engine.AcceptHook(hook)

		handler := NewMockHandler(mockCtrl)
		evt := newLabeledEvent(1.5, handler, "x")

		before := hook.EXPECT().
			Func(gomock.Any()).
			Do(func(ctx HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosBeforeEvent))
				Expect(ctx.Now).To(Equal(VTimeInSec(1.5)))
			})
		handle := handler.EXPECT().Handle(evt).After(before)
		hook.EXPECT().
			Func(gomock.Any()).
			Do(func(ctx HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosAfterEvent))
			}).
			After(handle)

		engine.Schedule(evt)

		Expect(engine.Run()).To(Succeed())
	})

	It("should panic when scheduling in the past", func() {
		handler := HandlerFunc(func(e Event) error {
			engine.Schedule(newLabeledEvent(1, HandlerFunc(nil), "late"))
			return nil
		})

		engine.Schedule(newLabeledEvent(2, handler, "now"))

		Expect(func() { _ = engine.Run() }).To(Panic())
	})

	It("should stop at the first handler error", func() {
		var handled []string
		handler := HandlerFunc(func(e Event) error {
			label := e.(labeledEvent).label
			handled = append(handled, label)
			if label == "bad" {
				return errBadEvent
			}

			return nil
		})

		engine.Schedule(newLabeledEvent(1, handler, "good"))
		engine.Schedule(newLabeledEvent(2, handler, "bad"))
		engine.Schedule(newLabeledEvent(3, handler, "never"))

		err := engine.Run()

		Expect(err).To(MatchError(errBadEvent))
		Expect(handled).To(Equal([]string{"good", "bad"}))
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(2)))
	})

	It("should hold events while paused", func() {
		handled := make(chan struct{}, 1)
		engine.Schedule(newLabeledEvent(1, HandlerFunc(func(Event) error {
			handled <- struct{}{}
			return nil
		}), "x"))

		engine.Pause()
		engine.Pause()

		done := make(chan error)
		go func() { done <- engine.Run() }()

		Consistently(handled, "50ms").ShouldNot(Receive())

		engine.Continue()

		Eventually(handled).Should(Receive())
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should call simulation end handlers with the final time", func() {
		engine.Schedule(newLabeledEvent(3, HandlerFunc(func(Event) error {
			return nil
		}), "only"))
		Expect(engine.Run()).To(Succeed())

		var endTime VTimeInSec
		engine.RegisterSimulationEndHandler(endFunc(func(now VTimeInSec) {
			endTime = now
		}))
		engine.Finished()

		Expect(endTime).To(Equal(VTimeInSec(3)))
	})
})

var errBadEvent = errors.New("bad event")

type endFunc func(now VTimeInSec)

func (f endFunc) Handle(now VTimeInSec) {
	f(now)
}

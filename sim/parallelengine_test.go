package sim

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingHandler struct {
	sync.Mutex
	times []VTimeInSec
}

func (h *countingHandler) Handle(e Event) error {
	h.Lock()
	h.times = append(h.times, e.Time())
	h.Unlock()

	return nil
}

var _ = Describe("ParallelEngine", func() {
	It("should run every event exactly once in time order", func() {
		engine := NewParallelEngine()
		handler := &countingHandler{}

		for i := 0; i < 50; i++ {
			engine.Schedule(NewEventBase(VTimeInSec(i%5), handler))
		}

		Expect(engine.Run()).To(Succeed())
		Expect(handler.times).To(HaveLen(50))
		for i := 1; i < len(handler.times); i++ {
			Expect(handler.times[i] >= handler.times[i-1]).To(BeTrue())
		}
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(4)))
	})

	It("should follow events scheduled by handlers", func() {
		engine := NewParallelEngine()
		var count int
		var lock sync.Mutex

		var handler HandlerFunc
		handler = func(e Event) error {
			lock.Lock()
			count++
			lock.Unlock()

			if e.Time() < 10 {
				engine.Schedule(NewEventBase(e.Time()+1, handler))
			}

			return nil
		}

		engine.Schedule(NewEventBase(0, handler))

		Expect(engine.Run()).To(Succeed())
		Expect(count).To(Equal(11))
	})

	It("should finish the round before returning an error", func() {
		engine := NewParallelEngine()
		handler := &countingHandler{}
		failing := HandlerFunc(func(Event) error { return errBadEvent })

		engine.Schedule(NewEventBase(1, failing))
		for i := 0; i < 8; i++ {
			engine.Schedule(NewEventBase(1, handler))
		}
		engine.Schedule(NewEventBase(2, handler))

		err := engine.Run()

		Expect(err).To(MatchError(errBadEvent))
		Expect(handler.times).To(HaveLen(8))
	})
})

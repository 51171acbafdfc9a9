package arq

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/linksim/lan/frame"
	"github.com/sarchlab/linksim/lan/medium"
	"github.com/sarchlab/linksim/lan/outcome"
	"github.com/sarchlab/linksim/sim"
)

type sentFrame struct {
	now sim.VTimeInSec
	seq int
}

var _ = Describe("Session", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *sim.SerialEngine
		link     *MockLink
		script   *outcome.Script
		sender   *medium.EndDevice
		sent     []sentFrame
		builder  Builder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = sim.NewSerialEngine()
		link = NewMockLink(mockCtrl)
		script = outcome.NewScript()
		sender = medium.NewEndDevice("A")
		sent = nil
		builder = MakeBuilder().
			WithEngine(engine).
			WithOutcomeSource(script)

		link.EXPECT().Attached().Return(true).AnyTimes()
		link.EXPECT().
			Forward(sender, gomock.Any()).
			Do(func(_ medium.Node, f *frame.Frame) {
				sent = append(sent, sentFrame{engine.CurrentTime(), f.Seq()})
			}).
			AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	sentSeqs := func() []int {
		seqs := make([]int, len(sent))
		for i, s := range sent {
			seqs[i] = s.seq
		}
		return seqs
	}

	Context("stop-and-wait", func() {
		BeforeEach(func() {
			builder = builder.WithProtocol(StopAndWait)
		})

		It("should finish on the first acknowledgment", func() {
			s := builder.Build("SAW")
			s.Start(sender, link, frame.Compose("B", "hello"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeSuccess))
			Expect(s.Err()).NotTo(HaveOccurred())
			Expect(s.Sends(0)).To(Equal(1))
			Expect(engine.CurrentTime()).To(BeNumerically("~", 0.5))
			Expect(s.Window().Frame(0).Content()).To(Equal("B: hello"))
			Expect(s.Window().Frame(0).Seq()).To(Equal(0))
		})

		It("should resend until acknowledged", func() {
			script.QueueAcks(false, false, true)
			s := builder.Build("SAW")
			s.Start(sender, link, frame.Compose("B", "hello"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeSuccess))
			Expect(s.Sends(0)).To(Equal(3))
			Expect(sent).To(Equal([]sentFrame{
				{0, 0}, {0.5, 0}, {1.0, 0},
			}))
			Expect(script.AckSamples()).To(Equal([]int{0, 0, 0}))
		})

		It("should stop after the maximum number of attempts", func() {
			script.DefaultAck = false
			s := builder.WithMaxAttempts(3).Build("SAW")
			s.Start(sender, link, frame.Compose("B", "hello"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeFailed))
			Expect(s.Err()).To(MatchError(ErrRetryLimit))
			Expect(s.TotalSends()).To(Equal(3))
		})

		It("should stop at the timeout", func() {
			script.DefaultAck = false
			s := builder.WithTimeout(10).Build("SAW")
			s.Start(sender, link, frame.Compose("B", "hello"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeCancelled))
			Expect(s.Err()).To(MatchError(ErrTimeout))
			Expect(s.Sends(0)).To(Equal(20))
		})
	})

	Context("go-back-n", func() {
		BeforeEach(func() {
			builder = builder.WithProtocol(GoBackN)
		})

		It("should send the window one interval apart", func() {
			s := builder.Build("GBN")
			s.Start(sender, link, frame.Compose("B", "data"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeSuccess))
			Expect(sent).To(Equal([]sentFrame{
				{0, 0}, {0.5, 1}, {1.0, 2}, {1.5, 3}, {2.0, 4},
			}))
			Expect(script.AckSamples()).To(Equal([]int{0, 1, 2, 3, 4}))
			Expect(engine.CurrentTime()).To(BeNumerically("~", 2.5))
			Expect(s.Restarts()).To(Equal(0))
		})

		It("should restart the whole window on the first negative ack", func() {
			script.QueueAcks(true, true, false)
			s := builder.Build("GBN")
			s.Start(sender, link, frame.Compose("B", "data"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeSuccess))
			Expect(s.Restarts()).To(Equal(1))
			Expect(sentSeqs()).To(Equal([]int{0, 1, 2, 3, 4, 0, 1, 2, 3, 4}))
			Expect(script.AckSamples()).
				To(Equal([]int{0, 1, 2, 0, 1, 2, 3, 4}))
			for seq := 0; seq < 5; seq++ {
				Expect(s.Sends(seq)).To(Equal(2))
			}
		})

		It("should give up after the maximum number of restarts", func() {
			script.DefaultAck = false
			s := builder.WithMaxRestarts(3).Build("GBN")
			s.Start(sender, link, frame.Compose("B", "data"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeFailed))
			Expect(s.Err()).To(MatchError(ErrRetryLimit))
			Expect(s.Restarts()).To(Equal(3))
			Expect(s.TotalSends()).To(Equal(20))
		})

		It("should use the default restart bound", func() {
			script.DefaultAck = false
			s := builder.Build("GBN")
			s.Start(sender, link, frame.Compose("B", "data"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Restarts()).To(Equal(DefaultMaxRestarts))
			Expect(s.Err()).To(MatchError(ErrRetryLimit))
		})

		It("should stop sending once cancelled", func() {
			var s *Session
			handler := sim.HandlerFunc(func(sim.Event) error {
				s.Cancel()
				return nil
			})
			engine.Schedule(sim.NewEventBase(1.0, handler))

			s = builder.Build("GBN")
			s.Start(sender, link, frame.Compose("B", "data"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeCancelled))
			Expect(s.Err()).To(MatchError(ErrCancelled))
			Expect(sentSeqs()).To(Equal([]int{0, 1}))
			Expect(script.AckSamples()).To(BeEmpty())
		})
	})

	Context("selective-repeat", func() {
		BeforeEach(func() {
			builder = builder.WithProtocol(SelectiveRepeat)
		})

		It("should resend only the negatively acknowledged frames", func() {
			script.QueueAcks(true, false, true, false, true)
			s := builder.Build("SR")
			s.Start(sender, link, frame.Compose("B", "data"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeSuccess))
			Expect(sentSeqs()).To(Equal([]int{0, 1, 2, 3, 4, 1, 3}))
			Expect(script.AckSamples()).To(Equal([]int{0, 1, 2, 3, 4}))
			Expect(sent[5].now).To(BeNumerically("~", 2.5))
			Expect(sent[6].now).To(BeNumerically("~", 2.5))
		})

		It("should resend at most once", func() {
			script.DefaultAck = false
			s := builder.WithWindowSize(3).Build("SR")
			s.Start(sender, link, frame.Compose("B", "data"))

			Expect(engine.Run()).To(Succeed())

			Expect(s.Outcome()).To(Equal(OutcomeSuccess))
			Expect(s.TotalSends()).To(Equal(6))
		})
	})

	It("should notify once when done", func() {
		s := builder.WithProtocol(GoBackN).Build("GBN")
		calls := 0
		s.OnDone(func(done *Session) {
			Expect(done.Outcome()).To(Equal(OutcomeSuccess))
			calls++
		})
		s.Start(sender, link, frame.Compose("B", "data"))

		Expect(engine.Run()).To(Succeed())
		s.Cancel()

		Expect(calls).To(Equal(1))
		Expect(s.Outcome()).To(Equal(OutcomeSuccess))
	})

	It("should fail without sending once the link is down", func() {
		down := NewMockLink(mockCtrl)
		down.EXPECT().Attached().Return(false)

		s := builder.Build("SAW")
		s.Start(sender, down, frame.Compose("B", "hello"))

		Expect(engine.Run()).To(Succeed())

		Expect(s.Outcome()).To(Equal(OutcomeFailed))
		Expect(s.Err()).To(MatchError(ErrLinkDown))
		Expect(s.TotalSends()).To(Equal(0))
		Expect(script.AckSamples()).To(BeEmpty())
	})

	It("should not start twice", func() {
		s := builder.Build("SAW")
		s.Start(sender, link, frame.New("B: x"))

		Expect(func() { s.Start(sender, link, frame.New("B: x")) }).To(Panic())
	})

	It("should contend for every transmission when asked to", func() {
		link := NewMockLink(mockCtrl)
		link.EXPECT().Attached().Return(true).AnyTimes()
		link.EXPECT().Transmit(sender, gomock.Any()).Return(nil).Times(5)

		s := builder.
			WithProtocol(GoBackN).
			WithContention(true).
			Build("GBN")
		s.Start(sender, link, frame.Compose("B", "data"))

		Expect(engine.Run()).To(Succeed())
		Expect(s.Outcome()).To(Equal(OutcomeSuccess))
	})
})

var _ = Describe("Session with a mocked source", func() {
	It("should sample acknowledgments in window order", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		source := NewMockSource(mockCtrl)
		link := NewMockLink(mockCtrl)
		engine := sim.NewSerialEngine()
		sender := medium.NewEndDevice("A")

		link.EXPECT().Attached().Return(true).AnyTimes()
		link.EXPECT().Forward(sender, gomock.Any()).Times(8)
		gomock.InOrder(
			source.EXPECT().NextAck(0).Return(true),
			source.EXPECT().NextAck(1).Return(false),
			source.EXPECT().NextAck(0).Return(true),
			source.EXPECT().NextAck(1).Return(true),
			source.EXPECT().NextAck(2).Return(true),
			source.EXPECT().NextAck(3).Return(true),
		)

		s := MakeBuilder().
			WithEngine(engine).
			WithOutcomeSource(source).
			WithProtocol(GoBackN).
			WithWindowSize(4).
			Build("GBN")
		s.Start(sender, link, frame.Compose("B", "data"))

		Expect(engine.Run()).To(Succeed())
		Expect(s.Outcome()).To(Equal(OutcomeSuccess))
		mockCtrl.Finish()
	})
})

var _ = Describe("Builder", func() {
	It("should validate its parameters", func() {
		b := MakeBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithOutcomeSource(outcome.NewScript())

		Expect(func() { MakeBuilder().Build("x") }).To(Panic())
		Expect(func() { b.WithWindowSize(0).Build("x") }).To(Panic())
		Expect(func() { b.WithInterval(0).Build("x") }).To(Panic())
		Expect(func() { b.WithMaxRestarts(-1).Build("x") }).To(Panic())
		Expect(func() { b.WithTimeout(-1).Build("x") }).To(Panic())
		Expect(func() { b.WithProtocol(Protocol(9)).Build("x") }).To(Panic())
	})
})

var _ = Describe("Protocol", func() {
	DescribeTable("parsing",
		func(name string, p Protocol) {
			got, err := ParseProtocol(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(p))
			Expect(ParseProtocol(got.String())).To(Equal(p))
		},
		Entry("stop-and-wait", "saw", StopAndWait),
		Entry("go-back-n", "go-back-n", GoBackN),
		Entry("selective-repeat", "sr", SelectiveRepeat),
	)

	It("should reject unknown protocols", func() {
		_, err := ParseProtocol("csma")
		Expect(err).To(HaveOccurred())
	})
})

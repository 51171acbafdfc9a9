package tracing

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/linksim/sim"
)

type fakeDomain struct {
	*sim.ComponentBase
}

func newFakeDomain(name string) *fakeDomain {
	return &fakeDomain{ComponentBase: sim.NewComponentBase(name)}
}

func (d *fakeDomain) Handle(_ sim.Event) error {
	return nil
}

var (
	hookPosPing = &sim.HookPos{Name: "ping"}
	hookPosPong = &sim.HookPos{Name: "pong"}
)

func (d *fakeDomain) emit(now sim.VTimeInSec, pos *sim.HookPos, item, detail any) {
	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Now:    now,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}

var _ = Describe("EventFromHook", func() {
	It("should describe the hook invocation", func() {
		d := newFakeDomain("Device A")

		e := EventFromHook(sim.HookCtx{
			Domain: d,
			Now:    1.5,
			Pos:    hookPosPing,
			Item:   "B: hello",
			Detail: 3,
		})

		Expect(e).To(Equal(Event{
			Time:    1.5,
			Kind:    "ping",
			Actor:   "Device A",
			Payload: "B: hello [3]",
		}))
	})

	It("should leave out what is not given", func() {
		e := EventFromHook(sim.HookCtx{Now: 2})

		Expect(e).To(Equal(Event{Time: 2}))
	})
})

var _ = Describe("Recorder", func() {
	var (
		a, b     *fakeDomain
		recorder *Recorder
	)

	BeforeEach(func() {
		a = newFakeDomain("A")
		b = newFakeDomain("B")
		recorder = NewRecorder()
		CollectTraces(recorder, a, b)
	})

	It("should record events in order", func() {
		a.emit(0, hookPosPing, "1", nil)
		b.emit(1, hookPosPong, "2", nil)
		a.emit(2, hookPosPong, "3", nil)

		events := recorder.Events()
		Expect(events).To(HaveLen(3))
		for i, e := range events {
			Expect(e.Seq).To(Equal(i))
		}
		Expect(recorder.EventsOfKind("pong")).To(HaveLen(2))
		Expect(recorder.Count("pong", "A")).To(Equal(1))
		Expect(recorder.Count("pong", "")).To(Equal(2))
		Expect(recorder.Len()).To(Equal(3))

		recorder.Reset()
		Expect(recorder.Len()).To(Equal(0))
	})

	It("should not collect twice with the same hook", func() {
		h := NewHook(recorder)
		a.AcceptHook(h)

		Expect(func() { a.AcceptHook(h) }).To(Panic())
	})
})

var _ = Describe("Filter and Multi", func() {
	It("should only pass the selected kinds", func() {
		r1 := NewRecorder()
		r2 := NewRecorder()
		d := newFakeDomain("D")
		CollectTrace(d, Multi(Filter(r1, "ping"), Filter(r2)))

		d.emit(0, hookPosPing, nil, nil)
		d.emit(0, hookPosPong, nil, nil)

		Expect(r1.Len()).To(Equal(1))
		Expect(r2.Len()).To(Equal(2))
	})
})

var _ = Describe("LogTracer", func() {
	It("should log with fields and levels", func() {
		buf := new(bytes.Buffer)
		logger := logrus.New()
		logger.SetOutput(buf)
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)

		t := NewLogTracer(logger).WithLevel("pong", logrus.DebugLevel)
		t.Record(Event{Time: 1, Kind: "ping", Actor: "A", Payload: "x"})
		t.Record(Event{Time: 2, Kind: "pong", Actor: "A", Payload: "y"})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(1))

		var entry map[string]any
		Expect(json.Unmarshal([]byte(lines[0]), &entry)).To(Succeed())
		Expect(entry["msg"]).To(Equal("x"))
		Expect(entry["kind"]).To(Equal("ping"))
		Expect(entry["actor"]).To(Equal("A"))
		Expect(entry["level"]).To(Equal("info"))
		Expect(entry["vtime"]).To(BeNumerically("==", 1))
		Expect(entry).NotTo(HaveKey("fields.time"))
		Expect(entry).To(HaveKey("time"))
	})
})

var _ = Describe("JSONTracer", func() {
	It("should write one line per event", func() {
		buf := new(bytes.Buffer)
		t := NewJSONTracer(buf)

		t.Record(Event{Time: 0.5, Kind: "send", Actor: "A", Payload: "B: hi"})
		t.Record(Event{Time: 1, Kind: "receive", Actor: "B", Payload: "B: hi"})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[1]).To(Equal(`{"seq":1,"time":1,"kind":"receive",` +
			`"actor":"B","payload":"B: hi"}`))
	})
})

var _ = Describe("CSVTracer", func() {
	It("should write rows when flushed", func() {
		buf := new(bytes.Buffer)
		t := NewCSVTracer(buf)

		t.Record(Event{Time: 0.5, Kind: "send", Actor: "A", Payload: "B: hi, there"})
		Expect(buf.Len()).To(Equal(0))

		t.Flush()

		Expect(buf.String()).To(Equal(
			"Seq,Time,Kind,Actor,Payload\n" +
				"0,0.5000000000,send,A,\"B: hi, there\"\n"))
	})
})

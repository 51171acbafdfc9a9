package tracing

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/linksim/datarecording"
)

var _ = Describe("DBTracer", func() {
	var (
		db     *sql.DB
		tracer *DBTracer
		reader TraceReader
	)

	BeforeEach(func() {
		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		db.SetMaxOpenConns(1)

		tracer = NewDBTracer(datarecording.NewWithDB(db))
		reader = NewTraceReader(datarecording.NewReaderWithDB(db))
	})

	AfterEach(func() {
		db.Close()
	})

	record := func() {
		tracer.Record(Event{Time: 0, Kind: "send", Actor: "Device A"})
		tracer.Record(Event{Time: 0, Kind: "learn", Actor: "Switch 1"})
		tracer.Record(Event{Time: 1, Kind: "receive", Actor: "Device B"})
		tracer.Record(Event{Time: 2, Kind: "receive", Actor: "Device C"})
		tracer.Flush()
	}

	It("should store and query events", func() {
		record()

		events, total, err := reader.ListEvents(context.Background(),
			EventQuery{Kind: "receive"})

		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(2))
		Expect(events).To(Equal([]Event{
			{Seq: 2, Time: 1, Kind: "receive", Actor: "Device B"},
			{Seq: 3, Time: 2, Kind: "receive", Actor: "Device C"},
		}))
	})

	It("should select by actor and time", func() {
		record()

		events, total, err := reader.ListEvents(context.Background(),
			EventQuery{
				EnableTimeRange: true,
				StartTime:       0.5,
				EndTime:         1.5,
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(1))
		Expect(events[0].Actor).To(Equal("Device B"))

		events, _, err = reader.ListEvents(context.Background(),
			EventQuery{Actor: "Switch 1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(1))
		Expect(events[0].Kind).To(Equal("learn"))
	})

	It("should list actors", func() {
		record()

		actors, err := reader.ListActors(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(actors).To(Equal([]string{
			"Device A", "Device B", "Device C", "Switch 1",
		}))
	})

	It("should skip events out of the time range", func() {
		tracer.SetTimeRange(0.5, 1.5)
		record()

		events, total, err := reader.ListEvents(context.Background(),
			EventQuery{Limit: 10})

		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(1))
		Expect(events[0].Seq).To(Equal(0))
	})
})

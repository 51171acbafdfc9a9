package addressing_test

import (
	"github.com/sarchlab/linksim/lan/addressing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Table", func() {
	var t addressing.Table

	BeforeEach(func() {
		t = addressing.NewTable()
	})

	It("should report unknown devices", func() {
		_, found := t.Lookup("A", 0)
		Expect(found).To(BeFalse())
	})

	It("should learn devices", func() {
		t.Learn("A", "Switch 1.A", 0)

		conn, found := t.Lookup("A", 1)

		Expect(found).To(BeTrue())
		Expect(conn).To(Equal("Switch 1.A"))
		Expect(t.Len()).To(Equal(1))
	})

	It("should overwrite on learn", func() {
		t.Learn("A", "c1", 0)
		t.Learn("A", "c2", 1)

		conn, _ := t.Lookup("A", 2)

		Expect(conn).To(Equal("c2"))
		Expect(t.Entries()).To(Equal([]addressing.Entry{
			{Device: "A", Connection: "c2", LearnedAt: 1},
		}))
	})

	It("should forget devices and connections", func() {
		t.Learn("A", "c1", 0)
		t.Learn("B", "c1", 0)
		t.Learn("C", "c2", 0)

		t.Forget("C")
		Expect(t.ForgetConnection("c1")).To(Equal(2))
		Expect(t.Len()).To(Equal(0))
	})

	It("should list entries sorted by device", func() {
		t.Learn("B", "c2", 0)
		t.Learn("A", "c1", 0)

		entries := t.Entries()

		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Device).To(Equal("A"))
		Expect(entries[1].Device).To(Equal("B"))
	})

	Context("with aging", func() {
		BeforeEach(func() {
			t = addressing.MakeBuilder().WithAgingTime(10).Build()
		})

		It("should expire old entries", func() {
			t.Learn("A", "c1", 0)

			_, found := t.Lookup("A", 10)
			Expect(found).To(BeTrue())

			_, found = t.Lookup("A", 10.5)
			Expect(found).To(BeFalse())
			Expect(t.Len()).To(Equal(0))
		})

		It("should refresh the age on learn", func() {
			t.Learn("A", "c1", 0)
			t.Learn("A", "c1", 8)

			_, found := t.Lookup("A", 15)
			Expect(found).To(BeTrue())
		})
	})

	It("should never expire when aging is disabled", func() {
		t = addressing.MakeBuilder().WithAgingTime(0).Build()
		t.Learn("A", "c1", 0)

		_, found := t.Lookup("A", 1e9)
		Expect(found).To(BeTrue())
	})

	Context("with capacity", func() {
		BeforeEach(func() {
			t = addressing.MakeBuilder().WithCapacity(2).Build()
		})

		It("should evict the least recently learned entry", func() {
			t.Learn("A", "c1", 0)
			t.Learn("B", "c2", 0)
			t.Learn("A", "c1", 0)
			t.Learn("C", "c3", 0)

			_, found := t.Lookup("B", 0)
			Expect(found).To(BeFalse())
			_, found = t.Lookup("A", 0)
			Expect(found).To(BeTrue())
			_, found = t.Lookup("C", 0)
			Expect(found).To(BeTrue())
		})

		It("should not evict when overwriting", func() {
			t.Learn("A", "c1", 0)
			t.Learn("B", "c2", 0)
			t.Learn("B", "c3", 0)

			Expect(t.Len()).To(Equal(2))
		})
	})

	It("should reject invalid parameters", func() {
		Expect(func() { addressing.MakeBuilder().WithCapacity(-1).Build() }).To(Panic())
		Expect(func() { addressing.MakeBuilder().WithAgingTime(-1).Build() }).To(Panic())
	})
})

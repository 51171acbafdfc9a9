package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("HookableBase", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *HookableBase
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewHookableBase()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should invoke every hook with the context", func() {
		hook1 := NewMockHook(mockCtrl)
		hook2 := NewMockHook(mockCtrl)
		domain.AcceptHook(hook1)
		domain.AcceptHook(hook2)

		ctx := HookCtx{Domain: domain, Pos: HookPosBeforeEvent, Item: 1}
		hook1.EXPECT().Func(ctx)
		hook2.EXPECT().Func(ctx)

		Expect(domain.NumHooks()).To(Equal(2))
		domain.InvokeHook(ctx)
	})

	It("should reject duplicated hooks", func() {
		hook := NewMockHook(mockCtrl)
		domain.AcceptHook(hook)

		Expect(func() { domain.AcceptHook(hook) }).To(Panic())
	})
})

var _ = Describe("ComponentBase", func() {
	It("should require a name", func() {
		Expect(func() { NewComponentBase("") }).To(Panic())
		Expect(func() { NewComponentBase("a\tb") }).To(Panic())
		Expect(NewComponentBase("Switch 1").Name()).To(Equal("Switch 1"))
	})
})

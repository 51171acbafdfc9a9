package sim

// HookPos names a point where a Hookable reports what it does.
type HookPos struct {
	Name string
}

// HookCtx describes one report. Item is the subject, such as a frame or an
// attempt. Detail is optional extra information.
type HookCtx struct {
	Domain Hookable
	Now    VTimeInSec
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable is anything that hooks can observe.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
}

// A Hook observes Hookables.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc lets an ordinary function act as a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase implements Hookable. Hooks must be attached before the run
// starts.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase without hooks.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// NumHooks returns the number of attached hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// AcceptHook attaches a hook. Attaching the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	for _, existing := range h.Hooks {
		if existing == hook {
			panic("duplicated hook")
		}
	}

	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook passes ctx to every hook in the order they were attached.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}

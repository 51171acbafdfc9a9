package sim

import (
	"strings"
	"sync"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Component is a element that is being simulated.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase provides some functions that other component can use. The
// embedded mutex guards the component state when a ParallelEngine runs two
// events of the same component at the same time.
type ComponentBase struct {
	HookableBase
	sync.Mutex
	name string
}

// NewComponentBase creates a new ComponentBase
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	c := new(ComponentBase)
	c.name = name

	return c
}

// Name returns the name of the BasicComponent
func (c *ComponentBase) Name() string {
	return c.name
}

// NameMustBeValid panics if the name cannot identify a component.
func NameMustBeValid(name string) {
	if strings.TrimSpace(name) == "" {
		panic("name must not be empty")
	}

	if strings.ContainsAny(name, "\n\t") {
		panic("name must not contain tabs or line breaks: " + name)
	}
}

// Package simulation wires the engine, the event stream and the monitor that
// a linksim run needs.
package simulation

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/linksim/datarecording"
	"github.com/sarchlab/linksim/lan/arq"
	"github.com/sarchlab/linksim/monitoring"
	"github.com/sarchlab/linksim/sim"
	"github.com/sarchlab/linksim/tracing"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id     string
	engine sim.Engine
	logger *logrus.Logger

	recorder     *tracing.Recorder
	tracer       tracing.Tracer
	dataRecorder datarecording.DataRecorder
	dbTracer     *tracing.DBTracer
	monitor      *monitoring.Monitor
	monitorURL   string

	lock          sync.Mutex
	components    []sim.Component
	compNameIndex map[string]int
	terminated    bool
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetRecorder returns the recorder that keeps every event in memory.
func (s *Simulation) GetRecorder() *tracing.Recorder {
	return s.recorder
}

// GetTracer returns the tracer that every registered component reports to.
func (s *Simulation) GetTracer() tracing.Tracer {
	return s.tracer
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// when the events are not stored.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// RegisterComponent registers a component with the simulation. Components
// that can be hooked report their events to the tracer of the simulation.
func (s *Simulation) RegisterComponent(c sim.Component) {
	s.lock.Lock()
	defer s.lock.Unlock()

	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if hookable, ok := c.(tracing.NamedHookable); ok {
		tracing.CollectTrace(hookable, s.tracer)
	}

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	s.lock.Lock()
	defer s.lock.Unlock()

	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// Components returns all the registered components in registration order.
func (s *Simulation) Components() []sim.Component {
	s.lock.Lock()
	defer s.lock.Unlock()

	comps := make([]sim.Component, len(s.components))
	copy(comps, s.components)

	return comps
}

// TrackSessions shows the progress of the sessions on the monitor.
func (s *Simulation) TrackSessions(name string, sessions ...*arq.Session) {
	if s.monitor == nil || len(sessions) == 0 {
		return
	}

	bar := s.monitor.CreateProgressBar(name, uint64(len(sessions)))

	for _, sess := range sessions {
		sess.OnDone(func(done *arq.Session) {
			bar.Finish(done.Outcome() == arq.OutcomeSuccess)

			if bar.Done() {
				s.monitor.CompleteProgressBar(bar)
			}
		})
	}
}

// Run processes all the events and flushes the stored events.
func (s *Simulation) Run() error {
	err := s.engine.Run()
	if err != nil {
		return fmt.Errorf("simulation %s: %w", s.id, err)
	}

	s.engine.Finished()

	if s.dbTracer != nil {
		s.dbTracer.Flush()
	}

	return nil
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.terminated {
		return
	}

	s.terminated = true

	if s.dataRecorder != nil {
		s.dataRecorder.Close()
	}
}

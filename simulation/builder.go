package simulation

import (
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/linksim/datarecording"
	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/medium"
	"github.com/sarchlab/linksim/monitoring"
	"github.com/sarchlab/linksim/sim"
	"github.com/sarchlab/linksim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	parallelEngine bool
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	recordOn       bool
	outputFileName string
	dataRecorder   datarecording.DataRecorder
	logger         *logrus.Logger
	traceKinds     []string
	tracers        []tracing.Tracer
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithParallelEngine sets the simulation to use a parallel engine.
func (b Builder) WithParallelEngine() Builder {
	b.parallelEngine = true
	return b
}

// WithMonitoring starts a monitoring server with the simulation.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page once the server starts.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithRecording stores the event stream into a SQLite file.
func (b Builder) WithRecording() Builder {
	b.recordOn = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithDataRecorder stores the event stream with the given recorder.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.dataRecorder = r
	return b
}

// WithLogger writes the event stream to the logger.
func (b Builder) WithLogger(logger *logrus.Logger) Builder {
	b.logger = logger
	return b
}

// WithTraceKinds limits the events that are logged and stored to the given
// kinds. The in-memory recorder always keeps every event.
func (b Builder) WithTraceKinds(kinds ...string) Builder {
	b.traceKinds = kinds
	return b
}

// WithTracer adds a tracer that receives the filtered event stream.
func (b Builder) WithTracer(t tracing.Tracer) Builder {
	b.tracers = append(b.tracers, t)
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}

	if !b.recordOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}

	if b.recordOn && b.dataRecorder != nil {
		panic("recording to a file and to a given recorder are exclusive")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:            xid.New().String(),
		compNameIndex: make(map[string]int),
		recorder:      tracing.NewRecorder(),
	}

	s.engine = sim.NewSerialEngine()
	if b.parallelEngine {
		s.engine = sim.NewParallelEngine()
	}

	tracers := append([]tracing.Tracer(nil), b.tracers...)

	if b.logger != nil {
		s.logger = b.logger
		tracers = append(tracers, newLogTracer(b.logger))
	}

	b.buildDataRecorder(s)
	if s.dataRecorder != nil {
		s.dbTracer = tracing.NewDBTracer(s.dataRecorder)
		tracers = append(tracers, s.dbTracer)
	}

	s.tracer = tracing.Multi(
		s.recorder,
		tracing.Filter(tracing.Multi(tracers...), b.traceKinds...),
	)

	if b.monitorOn {
		b.buildMonitor(s)
	}

	return s
}

func (b Builder) buildDataRecorder(s *Simulation) {
	if b.dataRecorder != nil {
		s.dataRecorder = b.dataRecorder
		return
	}

	if !b.recordOn {
		return
	}

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "linksim_" + s.id
	}

	s.dataRecorder = datarecording.New(outputPath)
}

func (b Builder) buildMonitor(s *Simulation) {
	s.monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	s.monitor.RegisterEngine(s.engine)
	s.monitor.RegisterRecorder(s.recorder)
	s.monitorURL = s.monitor.StartServer()

	if !b.openBrowser {
		return
	}

	err := s.monitor.OpenBrowser(s.monitorURL)
	if err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("cannot open browser")
	}
}

func newLogTracer(logger *logrus.Logger) *tracing.LogTracer {
	return tracing.NewLogTracer(logger).
		WithLevel(contention.HookPosExhausted.Name, logrus.WarnLevel).
		WithLevel(medium.HookPosHopLimitDrop.Name, logrus.WarnLevel).
		WithLevel(contention.HookPosBackoff.Name, logrus.DebugLevel).
		WithLevel(medium.HookPosLearn.Name, logrus.DebugLevel)
}

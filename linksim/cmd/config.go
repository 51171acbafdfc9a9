package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/linksim/datarecording"
	"github.com/sarchlab/linksim/lan/outcome"
	"github.com/sarchlab/linksim/sim"
	"github.com/sarchlab/linksim/simulation"
	"github.com/sarchlab/linksim/tracing"
)

// runConfig holds the flags that every scenario command shares.
type runConfig struct {
	logLevel string
	logJSON  bool
	seed     int64
	outcome  string
	parallel bool

	record     bool
	output     string
	traceKinds []string
	traceOut   string
	traceFmt   string

	clickHouseAddr     string
	clickHouseDatabase string
	clickHouseUser     string
	clickHousePassword string

	monitor     bool
	monitorPort int
	openBrowser bool

	logger   *logrus.Logger
	cleanups []func()
}

func (c *runConfig) registerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.logLevel, "log-level", "info",
		"log level: panic, fatal, error, warn, info, debug or trace")
	flags.BoolVar(&c.logJSON, "log-json", false, "log in JSON")
	flags.Int64Var(&c.seed, "seed", 1, "seed of the random outcomes")
	flags.StringVar(&c.outcome, "outcome", "random",
		"collision and acknowledgment oracle: random, perfect or hostile")
	flags.BoolVar(&c.parallel, "parallel", false, "use the parallel engine")

	flags.BoolVar(&c.record, "record", false,
		"store the events into a SQLite file")
	flags.StringVar(&c.output, "output", "",
		"name of the SQLite file, without extension")
	flags.StringSliceVar(&c.traceKinds, "trace-kinds", nil,
		"only log and store these event kinds")
	flags.StringVar(&c.traceOut, "trace-out", "",
		"also write the events to this file")
	flags.StringVar(&c.traceFmt, "trace-format", "json",
		"format of the trace file: json or csv")

	flags.StringVar(&c.clickHouseAddr, "clickhouse-addr", "",
		"store the events into the ClickHouse server at this address")
	flags.StringVar(&c.clickHouseDatabase, "clickhouse-database", "default",
		"ClickHouse database")
	flags.StringVar(&c.clickHouseUser, "clickhouse-user", "default",
		"ClickHouse user")
	flags.StringVar(&c.clickHousePassword, "clickhouse-password", "",
		"ClickHouse password")

	flags.BoolVar(&c.monitor, "monitor", false,
		"serve the simulation over HTTP")
	flags.IntVar(&c.monitorPort, "monitor-port", 0,
		"port of the monitoring server, random if 0")
	flags.BoolVar(&c.openBrowser, "open-browser", false,
		"open the monitoring server in a browser")
}

func (c *runConfig) setUpLogger(out io.Writer) error {
	level, err := logrus.ParseLevel(c.logLevel)
	if err != nil {
		return err
	}

	c.logger = logrus.New()
	c.logger.SetOutput(out)
	c.logger.SetLevel(level)

	if c.logJSON {
		c.logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		c.logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	return nil
}

func (c *runConfig) outcomeSource() (outcome.Source, error) {
	switch c.outcome {
	case "random":
		return outcome.NewRandom(c.seed), nil
	case "perfect":
		return outcome.Constant{Ack: true}, nil
	case "hostile":
		return outcome.Constant{Collide: true}, nil
	default:
		return nil, fmt.Errorf("unknown outcome %q", c.outcome)
	}
}

func (c *runConfig) buildSimulation() (*simulation.Simulation, error) {
	b := simulation.MakeBuilder().
		WithLogger(c.logger).
		WithTraceKinds(c.traceKinds...)

	if c.parallel {
		b = b.WithParallelEngine()
	}

	if c.output != "" && !c.record {
		return nil, fmt.Errorf("--output needs --record")
	}

	if c.record && c.clickHouseAddr != "" {
		return nil, fmt.Errorf("--record and --clickhouse-addr are exclusive")
	}

	if c.record {
		b = b.WithRecording().WithOutputFileName(c.output)
	}

	if c.clickHouseAddr != "" {
		r, err := datarecording.NewClickHouseRecorder(
			datarecording.ClickHouseConfig{
				Addr:     c.clickHouseAddr,
				Database: c.clickHouseDatabase,
				Username: c.clickHouseUser,
				Password: c.clickHousePassword,
			})
		if err != nil {
			return nil, err
		}

		b = b.WithDataRecorder(r)

		sim.UseXIDGenerator()
	}

	if c.traceOut != "" {
		t, err := c.openTraceFile()
		if err != nil {
			return nil, err
		}

		b = b.WithTracer(t)
	}

	if c.monitor {
		b = b.WithMonitoring().WithMonitorPort(c.monitorPort)
		if c.openBrowser {
			b = b.WithBrowser()
		}
	}

	s := b.Build()
	c.addCleanup(s.Terminate)
	atexit.Register(c.cleanup)

	return s, nil
}

func (c *runConfig) openTraceFile() (tracing.Tracer, error) {
	if c.traceFmt != "json" && c.traceFmt != "csv" {
		return nil, fmt.Errorf("unknown trace format %q", c.traceFmt)
	}

	f, err := os.Create(c.traceOut)
	if err != nil {
		return nil, err
	}

	if c.traceFmt == "json" {
		c.addCleanup(func() { f.Close() })
		return tracing.NewJSONTracer(f), nil
	}

	t := tracing.NewCSVTracer(f)
	c.addCleanup(func() {
		t.Flush()
		f.Close()
	})

	return t, nil
}

func (c *runConfig) addCleanup(f func()) {
	c.cleanups = append(c.cleanups, f)
}

// cleanup flushes and closes what the run opened, last opened first.
func (c *runConfig) cleanup() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}

	c.cleanups = nil
}

// hold keeps the monitor serving until the process is interrupted.
func (c *runConfig) hold(s *simulation.Simulation) {
	if !c.monitor {
		return
	}

	c.logger.Infof("Simulation finished. Monitor is still serving at %s, "+
		"press Ctrl+C to exit.", s.MonitorURL())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	<-sig
}

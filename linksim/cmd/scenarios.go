package cmd

import (
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/sarchlab/linksim/lan/arq"
	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/scenario"
	"github.com/sarchlab/linksim/sim"
)

func newLinkCommand(cfg *runConfig) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Send a message between two devices that share a hub.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cfg.buildSimulation()
			if err != nil {
				return err
			}
			defer cfg.cleanup()

			t, err := scenario.DedicatedLink(s, message)
			if err != nil {
				return err
			}

			printDeliveries(cmd.OutOrStdout(), t)
			cfg.hold(s)

			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "hello",
		"message that Device 1 sends")

	return cmd
}

func newStarCommand(cfg *runConfig) *cobra.Command {
	var (
		sender  int
		message string
	)

	cmd := &cobra.Command{
		Use:   "star",
		Short: "Send a message from one of five devices around a hub.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sender == 0 {
				rng := rand.New(rand.NewSource(cfg.seed))
				sender = scenario.PickDevice(rng, scenario.DefaultNumDevices)
			}

			s, err := cfg.buildSimulation()
			if err != nil {
				return err
			}
			defer cfg.cleanup()

			cfg.logger.Infof("%s sends %q", scenario.DeviceName(sender), message)

			t, err := scenario.Star(s, sender, message)
			if err != nil {
				return err
			}

			printDeliveries(cmd.OutOrStdout(), t)
			cfg.hold(s)

			return nil
		},
	}

	cmd.Flags().IntVarP(&sender, "sender", "s", 0,
		"sending device from 1 to 5, random if 0")
	cmd.Flags().StringVarP(&message, "message", "m", "hello",
		"message to send")

	return cmd
}

func newSwitchCommand(cfg *runConfig) *cobra.Command {
	var (
		sc      scenario.SwitchConfig
		timeout float64
	)

	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Send a message between two of five devices on a switch.",
		Long: `Send a message between two of five devices on a switch. The ` +
			`protocol is csma for a single CSMA/CD transmission, or saw, gbn ` +
			`or sr for a Stop-and-Wait, Go-Back-N or Selective-Repeat session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := cfg.outcomeSource()
			if err != nil {
				return err
			}

			s, err := cfg.buildSimulation()
			if err != nil {
				return err
			}
			defer cfg.cleanup()

			sc.Source = source
			sc.Seed = cfg.seed
			sc.Timeout = sim.VTimeInSec(timeout)
			boundStopAndWait(&sc)

			r, err := scenario.Switched(s, sc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if r.Attempt != nil {
				printAttempt(out, r.Attempt)
			}

			if r.Session != nil {
				printSession(out, r.Session)
			}

			printDeliveries(out, r.Topology)
			cfg.hold(s)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&sc.Sender, "sender", "s", 1, "sending device from 1 to 5")
	flags.IntVarP(&sc.Receiver, "receiver", "r", 2,
		"receiving device from 1 to 5")
	flags.StringVarP(&sc.Message, "message", "m", "hello", "message to send")
	flags.StringVarP(&sc.Protocol, "protocol", "p", scenario.ProtocolCSMA,
		"csma, saw, gbn or sr")
	flags.IntVar(&sc.WindowSize, "window", 0, "ARQ window size")
	flags.IntVar(&sc.MaxAttempts, "max-attempts", 0,
		"Stop-and-Wait attempt limit, 10 if 0 and no timeout is set")
	flags.IntVar(&sc.MaxRestarts, "max-restarts", 0, "Go-Back-N restart limit")
	flags.Float64Var(&timeout, "timeout", 0,
		"virtual seconds before an ARQ session gives up, none if 0")
	flags.BoolVar(&sc.Contention, "contention", false,
		"send every ARQ frame through CSMA/CD")

	return cmd
}

// boundStopAndWait caps the attempts of a Stop-and-Wait session that has
// neither an attempt limit nor a timeout.
func boundStopAndWait(sc *scenario.SwitchConfig) {
	p, err := arq.ParseProtocol(sc.Protocol)
	if err != nil || p != arq.StopAndWait {
		return
	}

	if sc.MaxAttempts == 0 && sc.Timeout == 0 {
		sc.MaxAttempts = contention.DefaultMaxAttempts
	}
}

func newLearnCommand(cfg *runConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "learn",
		Short: "Show how a switch learns A, B and C.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cfg.buildSimulation()
			if err != nil {
				return err
			}
			defer cfg.cleanup()

			t, err := scenario.Learning(s)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printDeliveries(out, t)
			printTable(out, t)
			cfg.hold(s)

			return nil
		},
	}
}

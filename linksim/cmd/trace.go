package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/linksim/datarecording"
	"github.com/sarchlab/linksim/tracing"
)

func newTraceCommand() *cobra.Command {
	var (
		query      tracing.EventQuery
		start, end float64
		listActors bool
	)

	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Print the events of a recorded run.",
		Long: `Print the events of a run recorded with --record. FILE may ` +
			`omit the .sqlite3 extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := datarecording.NewReader(recordingFile(args[0]))
			if err != nil {
				return err
			}
			defer reader.Close()

			tr := tracing.NewTraceReader(reader)
			out := cmd.OutOrStdout()

			if listActors {
				actors, err := tr.ListActors(cmd.Context())
				if err != nil {
					return err
				}

				for _, a := range actors {
					fmt.Fprintln(out, a)
				}

				return nil
			}

			if cmd.Flags().Changed("start") || cmd.Flags().Changed("end") {
				query.EnableTimeRange = true
				query.StartTime = start
				query.EndTime = end
			}

			events, total, err := tr.ListEvents(cmd.Context(), query)
			if err != nil {
				return err
			}

			for _, e := range events {
				fmt.Fprintln(out, e)
			}

			fmt.Fprintf(out, "%d of %d event(s)\n", len(events), total)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&query.Kind, "kind", "", "only print events of this kind")
	flags.StringVar(&query.Actor, "actor", "", "only print events of this actor")
	flags.IntVar(&query.Limit, "limit", 0, "maximum number of events, 0 for all")
	flags.Float64Var(&start, "start", 0, "earliest event time")
	flags.Float64Var(&end, "end", 1e18, "latest event time")
	flags.BoolVar(&listActors, "actors", false, "list the actors instead")

	return cmd
}

func recordingFile(name string) string {
	if strings.HasSuffix(name, ".sqlite3") {
		return name
	}

	_, err := os.Stat(name)
	if err == nil {
		return name
	}

	return name + ".sqlite3"
}

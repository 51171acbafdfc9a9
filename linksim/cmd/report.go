package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/linksim/lan/addressing"
	"github.com/sarchlab/linksim/lan/arq"
	"github.com/sarchlab/linksim/lan/contention"
	"github.com/sarchlab/linksim/lan/scenario"
)

func printDeliveries(w io.Writer, t *scenario.Topology) {
	for _, d := range t.Devices {
		contents := d.ReceivedContents()
		if len(contents) == 0 {
			fmt.Fprintf(w, "%s received nothing\n", d.Name())
			continue
		}

		fmt.Fprintf(w, "%s received %d frame(s): %s\n",
			d.Name(), len(contents), strings.Join(contents, " | "))
	}
}

func printAttempt(w io.Writer, a *contention.Attempt) {
	fmt.Fprintf(w, "CSMA/CD attempt %s: %d collision(s)", a.State(),
		a.Collisions())

	if a.Err() != nil {
		fmt.Fprintf(w, ", %v", a.Err())
	}

	fmt.Fprintln(w)
}

func printSession(w io.Writer, s *arq.Session) {
	fmt.Fprintf(w, "%s session %s: %d send(s), %d restart(s)",
		s.Protocol(), s.Outcome(), s.TotalSends(), s.Restarts())

	if s.Err() != nil {
		fmt.Fprintf(w, ", %v", s.Err())
	}

	fmt.Fprintln(w)
}

func printTable(w io.Writer, t *scenario.Topology) {
	owner, ok := t.Medium.(interface{ AddressTable() addressing.Table })
	if !ok {
		return
	}

	fmt.Fprintf(w, "Address table of %s:\n", t.Medium.Name())

	for _, e := range owner.AddressTable().Entries() {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

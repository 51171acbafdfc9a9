// Command linksim runs link-layer network scenarios.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/linksim/linksim/cmd"
)

func main() {
	atexit.Exit(cmd.Execute())
}

// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// "amm-simulator" drives the exchange engines from simulation plans and
// serves queries over the resulting state.
package main

import (
	"context"
	"os"

	"github.com/galacticcouncil/Basilisk-node-sub002/cmd/amm-simulator/cmd"
	"github.com/galacticcouncil/Basilisk-node-sub002/utils"
)

func main() {
	if err := cmd.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		utils.Outf("{{red}}amm-simulator exited with error:{{/}} %+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

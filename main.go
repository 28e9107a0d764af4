package main

import (
	"github.com/alecthomas/kong"

	"brygghaus.dev/BeerLedger/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("Beer Ledger"), kong.Description("BeerLedger is a beer catalog and rating service."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}

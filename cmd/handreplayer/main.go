package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version   kong.VersionFlag `short:"v" help:"Show version"`
	Serve     ServeCmd         `cmd:"" help:"Run the recorder behind a WebSocket server"`
	Format    FormatCmd        `cmd:"" help:"Format a hand script as hand history text"`
	Replay    ReplayCmd        `cmd:"" help:"Replay a hand script action by action"`
	ExportPHH ExportPHHCmd     `cmd:"export-phh" help:"Export a hand script in PHH form"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("handreplayer"),
		kong.Description("Record, replay and export no-limit hold'em hands"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

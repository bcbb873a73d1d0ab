package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"

	"github.com/turnstileops/turnstilectl/cmd/turnstilectl/internal/commands"
	"github.com/turnstileops/turnstilectl/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login     commands.LoginCmd     `cmd:"" help:"Sign in to the access-control network"`
		Register  commands.RegisterCmd  `cmd:"" help:"Create an operator account"`
		Logout    commands.LogoutCmd    `cmd:"" help:"Clear the stored session"`
		Status    commands.StatusCmd    `cmd:"" help:"Show session status"`
		Locations commands.LocationsCmd `cmd:"" help:"Manage locations"`
		Gates     commands.GatesCmd     `cmd:"" help:"Manage gates"`
		History   commands.HistoryCmd   `cmd:"" help:"Show movement history"`
		Occupancy commands.OccupancyCmd `cmd:"" help:"Show derived occupancy for a location"`
		Server    string                `help:"Credential gateway URL" env:"TURNSTILECTL_SERVER"`
		Config    string                `help:"Config file path" type:"path"`
		Debug     bool                  `help:"Enable debug mode."`
		Version   kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	err := cmd.Run(&commands.Globals{
		Server:  cli.Server,
		Config:  cli.Config,
		Debug:   cli.Debug,
		Version: version,
	})
	cmd.FatalIfErrorf(err)
}

package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/df07/go-sphere-pathtracer/web/server"
	"github.com/urfave/cli"
)

// ServeFlags are the options accepted by the serve command
var ServeFlags = []cli.Flag{
	cli.IntFlag{
		Name:   "port, p",
		Value:  8080,
		Usage:  "port to serve on",
		EnvVar: "PATHTRACER_PORT",
	},
	cli.IntFlag{
		Name:   "workers",
		Value:  0,
		Usage:  "render workers per request, 0 for one per CPU",
		EnvVar: "PATHTRACER_WORKERS",
	},
}

// Serve runs the HTTP render service until interrupted
func Serve(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return server.NewServer(ctx.Int("port"), ctx.Int("workers")).Start(runCtx)
}

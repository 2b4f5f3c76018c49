package main

import (
	"fmt"
	"os"

	"github.com/df07/go-sphere-pathtracer/cmd"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render sphere scenes using path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level: debug, info, notice, warning or error",
			EnvVar: "PATHTRACER_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a built-in scene to an image file. Size and sampling settings default to
the scene's own values; every flag can also be set through its PATHTRACER_*
environment variable.

Interrupting the render writes the tiles finished so far.`,
			Flags:  cmd.RenderFlags,
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:   "serve",
			Usage:  "serve renders over HTTP",
			Flags:  cmd.ServeFlags,
			Action: cmd.Serve,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RenderFlags are the options accepted by the render command
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "scene, s",
		Value:  "default",
		Usage:  "built-in scene to render (see the scenes command)",
		EnvVar: "PATHTRACER_SCENE",
	},
	cli.IntFlag{
		Name:   "width",
		Usage:  "frame width (default: scene setting)",
		EnvVar: "PATHTRACER_WIDTH",
	},
	cli.IntFlag{
		Name:   "height",
		Usage:  "frame height (default: scene setting)",
		EnvVar: "PATHTRACER_HEIGHT",
	},
	cli.IntFlag{
		Name:   "spp",
		Usage:  "samples per pixel (default: scene setting)",
		EnvVar: "PATHTRACER_SPP",
	},
	cli.IntFlag{
		Name:   "depth",
		Usage:  "maximum bounces per path (default: scene setting)",
		EnvVar: "PATHTRACER_DEPTH",
	},
	cli.IntFlag{
		Name:   "workers",
		Value:  0,
		Usage:  "number of render workers, 0 for one per CPU",
		EnvVar: "PATHTRACER_WORKERS",
	},
	cli.IntFlag{
		Name:   "tile-size",
		Value:  32,
		Usage:  "edge length of a render tile in pixels",
		EnvVar: "PATHTRACER_TILE_SIZE",
	},
	cli.Int64Flag{
		Name:   "seed",
		Value:  42,
		Usage:  "random seed for sampling and random scenes",
		EnvVar: "PATHTRACER_SEED",
	},
	cli.StringFlag{
		Name:   "out, o",
		Value:  "render.png",
		Usage:  "image filename for the rendered frame",
		EnvVar: "PATHTRACER_OUT",
	},
	cli.StringFlag{
		Name:   "format, f",
		Usage:  "image format: png, bmp, tiff or ppm (default: from the output extension)",
		EnvVar: "PATHTRACER_FORMAT",
	},
	cli.Float64Flag{
		Name:   "aperture",
		Usage:  "lens aperture, overrides the scene camera",
		EnvVar: "PATHTRACER_APERTURE",
	},
	cli.Float64Flag{
		Name:   "vfov",
		Usage:  "vertical field of view in degrees, overrides the scene camera",
		EnvVar: "PATHTRACER_VFOV",
	},
}

// renderOptions collects the render flags after scene defaults are applied
type renderOptions struct {
	sceneName string
	outFile   string
	format    output.Format
	config    renderer.Config
	camera    geometry.CameraConfig
}

// parseRenderOptions reads the flags. Size and sampling flags left unset fall back to the scene.
func parseRenderOptions(ctx *cli.Context, sc *scene.Scene) (renderOptions, error) {
	opts := renderOptions{
		sceneName: sc.Name,
		outFile:   ctx.String("out"),
		config: renderer.Config{
			Width:           sc.Sampling.Width,
			Height:          sc.Sampling.Height,
			SamplesPerPixel: sc.Sampling.SamplesPerPixel,
			MaxDepth:        sc.Sampling.MaxDepth,
			TileSize:        ctx.Int("tile-size"),
			NumWorkers:      ctx.Int("workers"),
			Seed:            ctx.Int64("seed"),
		},
	}

	if ctx.IsSet("width") {
		opts.config.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		opts.config.Height = ctx.Int("height")
	}
	if ctx.IsSet("spp") {
		opts.config.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		opts.config.MaxDepth = ctx.Int("depth")
	}
	if err := opts.config.Validate(); err != nil {
		return opts, err
	}

	var err error
	if name := ctx.String("format"); name != "" {
		opts.format, err = output.ParseFormat(name)
	} else {
		opts.format, err = output.FormatFromPath(opts.outFile)
	}
	if err != nil {
		return opts, err
	}

	opts.camera = sc.Camera
	if ctx.IsSet("aperture") {
		opts.camera.Aperture = ctx.Float64("aperture")
	}
	if ctx.IsSet("vfov") {
		opts.camera.VFov = ctx.Float64("vfov")
	}
	opts.camera.AspectRatio = float64(opts.config.Width) / float64(opts.config.Height)

	return opts, nil
}

// RenderFrame renders a single frame of a built-in scene to an image file
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := scene.Lookup(ctx.String("scene"), ctx.Int64("seed"))
	if err != nil {
		return err
	}

	opts, err := parseRenderOptions(ctx, sc)
	if err != nil {
		return err
	}

	camera, err := geometry.NewCamera(opts.camera)
	if err != nil {
		return err
	}

	raytracer, err := renderer.NewRaytracer(sc.World, camera, sc.Background, opts.config)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering scene %q (%d objects)", sc.Name, sc.GetPrimitiveCount())
	img, stats, renderErr := raytracer.RenderImage(runCtx)
	if renderErr != nil && !errors.Is(renderErr, renderer.ErrInterrupted) {
		return renderErr
	}

	// An interrupted render still saves the tiles that finished
	if err := output.WriteFile(opts.outFile, img, opts.format); err != nil {
		return err
	}
	logger.Noticef("wrote %s", opts.outFile)

	displayRenderStats(opts, stats)
	return renderErr
}

func displayRenderStats(opts renderOptions, stats renderer.RenderStats) {
	var buf bytes.Buffer
	writeRenderStats(&buf, opts, stats)
	logger.Noticef("render statistics\n%s", buf.String())
}

func writeRenderStats(w io.Writer, opts renderOptions, stats renderer.RenderStats) {
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Resolution", "Tiles", "Workers", "Samples", "Rays", "Rays/pixel", "Render time"})
	table.Append([]string{
		opts.sceneName,
		fmt.Sprintf("%dx%d", opts.config.Width, opts.config.Height),
		p.Sprintf("%d", stats.Tiles),
		p.Sprintf("%d", stats.Workers),
		p.Sprintf("%d", stats.TotalSamples),
		p.Sprintf("%d", stats.TotalRays),
		p.Sprintf("%.1f", perPixel(stats)),
		stats.RenderTime.String(),
	})
	table.SetFooter([]string{"", "", "", "", "", "", "RAYS/SEC", p.Sprintf("%.0f", stats.RaysPerSecond())})
	table.Render()
}

func perPixel(stats renderer.RenderStats) float64 {
	if stats.TotalPixels == 0 {
		return 0
	}
	return float64(stats.TotalRays) / float64(stats.TotalPixels)
}

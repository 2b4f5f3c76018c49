package cmd

import (
	"fmt"
	"io"

	"github.com/df07/go-sphere-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the built-in scenes and their default settings
func ListScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	return writeSceneTable(ctx.App.Writer)
}

func writeSceneTable(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description", "Objects", "Size", "SPP", "Depth"})

	for _, info := range scene.ListAllScenes() {
		sc, err := scene.Lookup(info.ID, 0)
		if err != nil {
			return err
		}
		table.Append([]string{
			info.ID,
			info.Description,
			fmt.Sprintf("%d", sc.GetPrimitiveCount()),
			fmt.Sprintf("%dx%d", sc.Sampling.Width, sc.Sampling.Height),
			fmt.Sprintf("%d", sc.Sampling.SamplesPerPixel),
			fmt.Sprintf("%d", sc.Sampling.MaxDepth),
		})
	}

	table.Render()
	return nil
}

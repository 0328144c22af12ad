package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-vfx/fx/layer"
)

func newLayersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "layers <scene.yaml|photostream.csv|image-dir>",
		Short: "List the layer stack, top layer first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), layerTable(in.built.Compositor))
			return nil
		},
	}
}

// layerTable renders the stack with the top layer in the first row.
func layerTable(c *layer.Compositor) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Layer", "Clip", "Start", "Frames", "Alpha"})

	clips, starts, alphas := c.Clips(), c.Starts(), c.Alphas()
	for l := len(clips) - 1; l >= 0; l-- {
		tw.AppendRow(table.Row{
			strconv.Itoa(l),
			clips[l].Name(),
			strconv.Itoa(starts[l]),
			strconv.Itoa(clips[l].Duration()),
			strconv.FormatFloat(alphas[l], 'g', 3, 64),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	return tw.Render()
}

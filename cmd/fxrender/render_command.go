package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-vfx/fx/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var (
		outDir    string
		start     int
		end       int
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "render <scene.yaml|photostream.csv|image-dir>",
		Short: "Render frames to numbered PNG files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config

			in, err := openInput(ctx, args[0])
			if err != nil {
				return err
			}

			ws, err := in.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			if outDir == "" {
				outDir = cfg.Paths.OutputDir
			}

			w, err := render.NewPNGWriter(outDir,
				render.WithDigits(cfg.Render.FrameDigits),
				render.WithOverwrite(overwrite || cfg.Render.Overwrite),
			)
			if err != nil {
				return err
			}

			r, err := in.built.Renderer(render.WithLogger(ctx.logger))
			if err != nil {
				return err
			}

			n, err := r.Run(w, start, end)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", n, w.Dir())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default paths.output_dir)")
	cmd.Flags().IntVar(&start, "start", 0, "First frame to render")
	cmd.Flags().IntVar(&end, "end", -1, "Frame to stop before; negative counts from the end, -1 renders through the last frame")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Write into an existing output directory")

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-vfx/fx/background"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/render"
	"github.com/cwbudde/algo-vfx/fx/source"
)

func newDiffCommand(ctx *commandContext) *cobra.Command {
	var (
		bgPath    string
		outDir    string
		sigma     float64
		start     int
		end       int
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "diff <scene.yaml|photostream.csv|image-dir>",
		Short: "Write per-frame background difference maps as grayscale PNGs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config

			in, err := openInput(ctx, args[0])
			if err != nil {
				return err
			}
			comp := in.built.Compositor

			if bgPath == "" {
				bgPath = in.background()
			}

			var bg *raster.Raster
			if bgPath != "" {
				bg, err = source.LoadImage(bgPath, comp.Shape().Domain)
			} else {
				ctx.logger.Info("diff: no background given, using uniform gray")
				bg, err = background.Uniform(comp.Shape())
			}
			if err != nil {
				return err
			}

			differ, err := background.New(bg, background.WithSigma(sigma))
			if err != nil {
				return err
			}

			w, err := render.NewPNGWriter(outDir,
				render.WithDigits(cfg.Render.FrameDigits),
				render.WithOverwrite(overwrite || cfg.Render.Overwrite),
			)
			if err != nil {
				return err
			}

			r, err := render.New(diffSource{comp: comp, differ: differ}, in.built.Clock, render.WithLogger(ctx.logger))
			if err != nil {
				return err
			}

			n, err := r.Run(w, start, end)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d difference maps to %s\n", n, w.Dir())
			return nil
		},
	}

	cmd.Flags().StringVarP(&bgPath, "background", "b", "", "Background image (default: the scene's, else uniform gray)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "diff", "Output directory")
	cmd.Flags().Float64Var(&sigma, "sigma", background.DefaultSigma, "Blur standard deviation in pixels")
	cmd.Flags().IntVar(&start, "start", 0, "First frame")
	cmd.Flags().IntVar(&end, "end", -1, "Frame to stop before; negative counts from the end")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Write into an existing output directory")

	return cmd
}

// diffSource turns composite frames into single-channel difference maps.
type diffSource struct {
	comp   render.Source
	differ *background.Differ
}

func (d diffSource) Duration() int { return d.comp.Duration() }

func (d diffSource) Frame(t int) (*raster.Raster, error) {
	frame, err := d.comp.Frame(t)
	if err != nil {
		return nil, err
	}

	diff, err := d.differ.FrameDiff(frame)
	if err != nil {
		return nil, err
	}

	shape := frame.Shape()
	shape.Channels = 1
	shape.Domain = raster.Float

	out, err := raster.New(shape)
	if err != nil {
		return nil, err
	}
	if err := out.SetPlane(0, diff); err != nil {
		return nil, err
	}

	return out, nil
}

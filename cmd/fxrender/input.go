package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-vfx/fx/effect"
	"github.com/cwbudde/algo-vfx/fx/effects"
	"github.com/cwbudde/algo-vfx/fx/layer"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/render"
	"github.com/cwbudde/algo-vfx/fx/source"
	"github.com/cwbudde/algo-vfx/internal/scene"
	"github.com/cwbudde/algo-vfx/internal/workspace"
)

// input is a resolved command argument: a scene file, a photostream table
// or an image directory.
type input struct {
	path      string
	name      string
	kind      string
	built     *scene.Built
	clip      layer.Clip
	sceneFile *scene.Scene
}

func openInput(c *commandContext, path string) (*input, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	in := &input{path: abs, name: strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(abs)); {
	case info.IsDir():
		in.kind = workspace.InputImageDir
		in.clip, err = source.OpenDir(in.name, abs)
	case ext == ".csv":
		in.kind = workspace.InputPhotostream
		in.clip, err = source.LoadPhotostream(in.name, abs, raster.Uint8)
	case ext == ".yaml" || ext == ".yml":
		in.kind = workspace.InputScene
		err = in.openScene(c)
	default:
		return nil, fmt.Errorf("%s: expected a scene (.yaml), a photostream (.csv) or an image directory", path)
	}
	if err != nil {
		return nil, err
	}

	if in.built == nil {
		comp := layer.New(in.name)
		if err := comp.Add(in.clip); err != nil {
			return nil, err
		}
		clock, err := render.NewClock(comp.Duration() - 1)
		if err != nil {
			return nil, err
		}
		in.built = &scene.Built{Name: in.name, Compositor: comp, Clock: clock}
	}

	return in, nil
}

func (in *input) openScene(c *commandContext) error {
	cfg := c.config
	s, err := scene.Load(in.path)
	if err != nil {
		return err
	}

	registry := effects.DefaultRegistry(
		effects.WithSmoothing(cfg.Render.SmoothingWindow),
		effects.WithSeed(cfg.Render.Seed),
	)

	b, err := scene.Build(s,
		scene.WithLogger(c.logger),
		scene.WithRegistry(registry),
		scene.WithBake(effect.WithSmoothingKernel(cfg.SmoothingKernel())),
	)
	if err != nil {
		return err
	}

	in.name = s.Name
	in.sceneFile = s
	in.built = b

	return nil
}

// background returns the scene's background path, if any.
func (in *input) background() string {
	if in.sceneFile == nil || in.sceneFile.Background == "" {
		return ""
	}
	return in.sceneFile.Path(in.sceneFile.Background)
}

func (in *input) openWorkspace(c *commandContext) (*workspace.Workspace, error) {
	return workspace.Open(c.config.Paths.WorkspaceDir, in.name,
		workspace.WithLogger(c.logger),
		workspace.WithSource(in.path, in.kind),
		workspace.WithBackground(in.background()),
	)
}

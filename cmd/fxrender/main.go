// Command fxrender renders keyframed effect scenes to numbered PNG frames.
//
// Usage:
//
//	fxrender render scene.yaml --out frames/
//	fxrender render photos.csv --start 10 --end -1
//	fxrender layers scene.yaml
//	fxrender diff frames/ --background empty.png --out masks/
//	fxrender version
//
// Settings are read from fxrender.toml in the working directory, or the
// file given with --config.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

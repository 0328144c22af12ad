// Package source provides frame sources that satisfy layer.Clip: in-memory
// sequences, held stills, image directories and photostreams (a CSV listing
// images and how many frames each is shown for).
//
// Image files are decoded with the standard library png and jpeg codecs plus
// the bmp, tiff and webp decoders from golang.org/x/image.
package source

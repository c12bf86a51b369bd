// Command mklq derives the low quality texture tier from the high quality one.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"terra/loader"
	"terra/settle"
)

func main() {
	var (
		inDir   = flag.String("in", "assets/images/hq", "High quality tier directory.")
		outDir  = flag.String("out", "assets/images/lq", "Low quality tier output directory.")
		maxW    = flag.Int("max", 1024, "Maximum output width in pixels.")
		quality = flag.Int("quality", 80, "JPEG quality.")
	)
	flag.Parse()

	if *maxW <= 0 {
		fatalf("usage: mklq -in hq/ -out lq/ [-max 1024] [-quality 80]")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatalf("mklq: %v", err)
	}

	res := settle.All(context.Background(), loader.DefaultManifest(),
		func(a loader.Asset) string { return a.Name },
		func(_ context.Context, a loader.Asset) (struct{}, error) {
			in := filepath.Join(*inDir, filepath.FromSlash(a.Path))
			out := filepath.Join(*outDir, filepath.FromSlash(a.Path))
			return struct{}{}, shrinkFile(in, out, *maxW, *quality)
		}, 4)

	failed := 0
	for _, r := range settle.Failures(res) {
		failed++
		_, _ = fmt.Fprintf(os.Stderr, "mklq: %s: %v\n", r.ID, r.Err)
	}
	fmt.Printf("mklq: %d/%d textures written to %s\n", len(res)-failed, len(res), *outDir)
	if failed > 0 {
		os.Exit(1)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func shrinkFile(inPath, outPath string, maxW, quality int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	src, err := loader.DecodeImage(in)
	if err != nil {
		return err
	}
	dst := shrink(src, maxW)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := encode(out, outPath, dst, quality); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// shrink scales src so its width is at most maxW, keeping the aspect ratio.
func shrink(src image.Image, maxW int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxW {
		return src
	}
	h := b.Dy() * maxW / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxW, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func encode(f *os.File, name string, img image.Image, quality int) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	case ".png":
		return png.Encode(f, img)
	}
	return fmt.Errorf("unsupported extension %q", filepath.Ext(name))
}

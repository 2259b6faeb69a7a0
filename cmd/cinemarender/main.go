// Command cinemarender composites one viewpoint of a Cinema dataset and
// writes it as a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cquammen/cinema"
	"github.com/cquammen/cinema/dataset"
)

func main() {
	var (
		data       = flag.String("data", ".", "dataset directory holding info.json")
		layers     = flag.String("layers", "", "layer spec such as 1c2s (default: every layer by its first field)")
		controls   = flag.String("controls", "", "comma separated name=value pairs, e.g. phi=30,theta=90")
		light      = flag.String("light", "-1,1", "light position x,y")
		background = flag.String("background", "#ffffff", "background color")
		width      = flag.Int("width", 0, "output width (0: composite size)")
		height     = flag.Int("height", 0, "output height (0: composite size)")
		interp     = flag.String("interp", "bilinear", "resampling: nearest, approx-bilinear, bilinear, catmull-rom")
		workers    = flag.Int("workers", runtime.GOMAXPROCS(0), "lit pass workers")
		output     = flag.String("output", "composite.png", "output file")
		verbose    = flag.Bool("v", false, "log to stderr")
	)
	flag.Parse()

	if *verbose {
		cinema.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	bg, err := cinema.ParseColor(*background)
	if err != nil {
		log.Fatalf("Invalid background: %v", err)
	}
	lx, ly, err := parsePair(*light)
	if err != nil {
		log.Fatalf("Invalid light position: %v", err)
	}
	mode, err := cinema.ParseInterpolation(*interp)
	if err != nil {
		log.Fatalf("Invalid interpolation: %v", err)
	}
	requested, err := parseControls(*controls)
	if err != nil {
		log.Fatalf("Invalid controls: %v", err)
	}

	store, err := dataset.Open(*data)
	if err != nil {
		log.Fatalf("Failed to open dataset: %v", err)
	}
	defer store.Close()
	ds := store.Info()

	spec := ds.DefaultLayerSpec()
	if *layers != "" {
		if spec, err = cinema.ParseLayerSpec(*layers); err != nil {
			log.Fatalf("Invalid layers: %v", err)
		}
	}
	resolved, err := cinema.ResolveLayers(spec, ds)
	if err != nil {
		log.Fatalf("Invalid layers: %v", err)
	}

	view, _ := ds.DefaultControls().Merge(requested)
	dir, err := view.ViewDirection()
	if err != nil {
		log.Fatalf("Invalid controls: %v", err)
	}

	start := time.Now()
	sheet, err := store.Fetch(context.Background(), view)
	if err != nil {
		log.Fatalf("Failed to load sprite sheet: %v", err)
	}
	loaded := time.Since(start)

	comp := cinema.NewCompositor(ds, store.Rendering(),
		cinema.WithBackgroundColor(bg),
		cinema.WithWorkers(*workers))
	defer comp.Close()
	comp.SetLightPosition(lx, ly)

	start = time.Now()
	out, err := comp.Composite(sheet, resolved, dir)
	if err != nil {
		log.Fatalf("Failed to composite: %v", err)
	}
	composited := time.Since(start)

	if *width > 0 || *height > 0 {
		iw, ih := out.Bounds()
		if *width <= 0 {
			*width = *height * iw / ih
		}
		if *height <= 0 {
			*height = *width * ih / iw
		}
		vp := cinema.NewViewport(*width, *height)
		vp.Reset(out.Bounds())
		display := image.NewNRGBA(image.Rect(0, 0, vp.Width, vp.Height))
		vp.Draw(display, out, mode)
		out = cinema.ImageBufFromImage(display)
	}

	if err := out.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	p := message.NewPrinter(language.English)
	w, h := out.Bounds()
	p.Printf("%s: %d layers (%s), %dx%d, %d bytes\n", *output, len(resolved), spec.LayerString(), w, h, out.ByteSize())
	p.Printf("load %v, composite %v (%d pixels/s)\n", loaded.Round(time.Microsecond), composited.Round(time.Microsecond), pixelRate(w*h, composited))
}

func pixelRate(pixels int, d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(float64(pixels) / d.Seconds())
}

// parseControls reads "name=value,name=value".
func parseControls(s string) (cinema.Controls, error) {
	out := cinema.Controls{}
	if s == "" {
		return out, nil
	}
	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return out, nil
}

func parsePair(s string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected x,y, got %q", s)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
		return 0, 0, err
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

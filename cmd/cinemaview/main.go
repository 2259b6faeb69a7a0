// Command cinemaview browses a Cinema dataset in the terminal.
//
// Keys: arrows step phi and theta through the parameter list, w/a/s/d pan,
// +/- zoom, r resets the camera, l moves the light, q quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cquammen/cinema"
	"github.com/cquammen/cinema/dataset"
)

const (
	statusRefreshMs = 100
	zoomStep        = 1.25
	panStep         = 4
)

// Light positions cycled by 'l'.
var lightPositions = [][2]float64{{-1, 1}, {1, 1}, {1, -1}, {-1, -1}, {0, 0}}

type App struct {
	screen tcell.Screen
	ctx    context.Context
	store  *dataset.Store
	comp   *cinema.Compositor
	viewer *cinema.Viewer

	frame   *image.NRGBA
	lastErr error
	light   int
}

func NewApp(ctx context.Context, store *dataset.Store, layers string, opts ...cinema.ViewerOption) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	a := &App{screen: screen, ctx: ctx, store: store}
	ds := store.Info()
	a.comp = cinema.NewCompositor(ds, store.Rendering())

	cols, rows := screen.Size()
	opts = append(opts, cinema.WithViewportSize(displaySize(cols, rows)))
	if a.viewer, err = cinema.NewViewer(ds, a.comp, store, opts...); err != nil {
		a.cleanup()
		return nil, err
	}

	// Viewer events arrive on fetch goroutines; hand them to the UI loop.
	a.viewer.Subscribe(func(ev cinema.Event) {
		switch ev.Type {
		case cinema.EventDrawn:
			_ = screen.PostEvent(tcell.NewEventInterrupt(ev.Image))
		case cinema.EventError:
			_ = screen.PostEvent(tcell.NewEventInterrupt(ev.Err))
		}
	}, cinema.EventDrawn, cinema.EventError)

	if layers != "" {
		spec, err := cinema.ParseLayerSpec(layers)
		if err == nil {
			err = a.viewer.UpdateQuery(ctx, spec, ds.DefaultControls())
		}
		if err != nil {
			a.cleanup()
			return nil, err
		}
	} else {
		a.viewer.ShowViewpoint(ctx, ds.DefaultControls(), false)
	}

	return a, nil
}

// displaySize returns the pixel size of the image area: every cell shows
// two pixels stacked, and the bottom row is the status line.
func displaySize(cols, rows int) (int, int) {
	return max(cols, 1), max(rows-1, 1) * 2
}

// step moves parameter name by delta positions through its values,
// wrapping at both ends.
func (a *App) step(name string, delta int) {
	p, ok := a.store.Info().Parameter(name)
	if !ok || len(p.Values) == 0 {
		return
	}
	current := a.viewer.Controls()[name]
	if current == "" {
		current = p.Default
	}
	i := max(p.Index(current), 0)
	i = ((i+delta)%len(p.Values) + len(p.Values)) % len(p.Values)
	a.viewer.ShowViewpoint(a.ctx, cinema.Controls{name: p.Values[i]}, false)
}

func (a *App) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			a.step("phi", -1)
		case tcell.KeyRight:
			a.step("phi", 1)
		case tcell.KeyUp:
			a.step("theta", -1)
		case tcell.KeyDown:
			a.step("theta", 1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case '+', '=':
				a.viewer.Zoom(zoomStep)
			case '-':
				a.viewer.Zoom(1 / zoomStep)
			case 'w':
				a.viewer.Pan(0, panStep)
			case 's':
				a.viewer.Pan(0, -panStep)
			case 'a':
				a.viewer.Pan(panStep, 0)
			case 'd':
				a.viewer.Pan(-panStep, 0)
			case 'r':
				a.viewer.ResetCamera()
			case 'l':
				a.light = (a.light + 1) % len(lightPositions)
				pos := lightPositions[a.light]
				a.comp.SetLightPosition(pos[0], pos[1])
				a.viewer.ForceRedraw(a.ctx)
			}
		}

	case *tcell.EventResize:
		cols, rows := a.screen.Size()
		a.viewer.Resize(displaySize(cols, rows))
		a.screen.Sync()

	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case *image.NRGBA:
			a.frame = data
			a.lastErr = nil
		case error:
			a.lastErr = data
		}
		a.draw()
	}
	return true
}

func (a *App) draw() {
	a.screen.Clear()
	if a.frame != nil {
		drawFrame(a.screen, a.frame)
	}
	cols, rows := a.screen.Size()
	drawStatus(a.screen, cols, rows-1, a.status())
	a.screen.Show()
}

func (a *App) status() string {
	controls := a.viewer.Controls()
	cur, avg := a.viewer.FPS()
	s := fmt.Sprintf(" phi=%s theta=%s layers=%s %s %d fps (avg %d)",
		controls["phi"], controls["theta"], a.viewer.LayerSpec(), a.viewer.State(), cur, avg)
	if a.lastErr != nil {
		s += " error: " + a.lastErr.Error()
	}
	return s
}

func (a *App) run() {
	ticker := time.NewTicker(statusRefreshMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}
		case <-ticker.C:
			a.draw()
		}
	}
}

func (a *App) cleanup() {
	a.screen.Fini()
	if a.viewer != nil {
		a.viewer.Wait()
	}
	a.comp.Close()
}

func main() {
	var (
		data    = flag.String("data", ".", "dataset directory holding info.json")
		layers  = flag.String("layers", "", "layer spec such as 1c2s")
		interp  = flag.String("interp", "nearest", "resampling: nearest, approx-bilinear, bilinear, catmull-rom")
		stats   = flag.Bool("stats", false, "draw the frame rate into the image")
		logFile = flag.String("log", "", "write debug logs to this file")
	)
	flag.Parse()

	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer f.Close()
		cinema.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	mode, err := cinema.ParseInterpolation(*interp)
	if err != nil {
		log.Fatalf("Invalid interpolation: %v", err)
	}

	store, err := dataset.Open(*data)
	if err != nil {
		log.Fatalf("Failed to open dataset: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, store, *layers, cinema.WithInterpolation(mode), cinema.WithStatsOverlay(*stats))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer app.cleanup()

	app.run()
}

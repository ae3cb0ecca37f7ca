package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	uilocator "github.com/menta2k/ui-locator"
	"github.com/menta2k/ui-locator/internal/config"
	"github.com/menta2k/ui-locator/internal/utils"
	"github.com/menta2k/ui-locator/pkg/agent"
	"github.com/menta2k/ui-locator/pkg/client"
	"github.com/menta2k/ui-locator/pkg/geometry"
	"github.com/menta2k/ui-locator/pkg/input"
	"github.com/menta2k/ui-locator/pkg/llamacpp"
	"github.com/menta2k/ui-locator/pkg/locator"
	"github.com/menta2k/ui-locator/pkg/ollama"
	"github.com/menta2k/ui-locator/pkg/processing"
	"github.com/menta2k/ui-locator/pkg/screen"
)

func main() {
	// Optional .env for server URLs and model names.
	_ = godotenv.Load()

	var in, target, backend, url, model, cfgPath, stepsPath, windowSpec string
	var gridWidth, iterations int
	var padding, minSize float64
	var timeout time.Duration
	var sendFmt string
	var sendSize, sendQ int
	var debug bool
	var debugDir, dbgext string
	var doClick bool
	var saveConfig string

	flag.StringVar(&in, "in", "", "input capture path (jpg/png/webp); empty captures the screen")
	flag.StringVar(&target, "target", "", "description of the element to locate")
	flag.StringVar(&backend, "backend", envOr("UILOCATOR_BACKEND", "ollama"), "backend to use: ollama or llamacpp")
	flag.StringVar(&url, "url", os.Getenv("UILOCATOR_URL"), "server URL (defaults: ollama=http://localhost:11434, llamacpp=http://localhost:8080)")
	flag.StringVar(&model, "model", envOr("UILOCATOR_MODEL", "openbmb/minicpm-v4.5"), "model name")
	flag.StringVar(&cfgPath, "config", "", "JSON config file (flags override it)")
	flag.StringVar(&stepsPath, "steps", "", "JSON step list to execute instead of a single locate")
	flag.StringVar(&windowSpec, "window", "", "window logical bounds as x,y,w,h for screen mapping")

	flag.IntVar(&gridWidth, "grid", 0, "grid width per iteration")
	flag.IntVar(&iterations, "iters", 0, "refinement iterations")
	flag.Float64Var(&padding, "pad", 0, "padding factor for context crops")
	flag.Float64Var(&minSize, "minsize", 0, "stop early when target is at most this many pixels per side")
	flag.DurationVar(&timeout, "timeout", 0, "per-query oracle timeout")

	flag.StringVar(&sendFmt, "sendfmt", "", "format sent to the model: jpg|png")
	flag.IntVar(&sendSize, "sendsize", -1, "max long side sent to the model (px), 0=original")
	flag.IntVar(&sendQ, "sendq", 0, "JPEG quality for the model payload (1-100)")

	flag.BoolVar(&debug, "debug", false, "write per-iteration annotated images")
	flag.StringVar(&debugDir, "out", "", "debug artifact directory")
	flag.StringVar(&dbgext, "dbgext", "", "debug artifact format: png|jpg|webp")
	flag.BoolVar(&doClick, "click", false, "click the resolved screen point (requires -window)")
	flag.StringVar(&saveConfig, "saveconfig", "", "write the effective configuration to this path and exit")

	flag.Parse()

	cfg := loadConfig(cfgPath)
	applyFlagOverrides(cfg, gridWidth, iterations, padding, minSize, timeout, backend, url, model, sendFmt, sendSize, sendQ, debugDir, dbgext)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if saveConfig != "" {
		if err := cfg.SaveToFile(saveConfig); err != nil {
			log.Fatalf("failed to save config: %v", err)
		}
		log.Printf("wrote %s", saveConfig)
		return
	}

	if target == "" && stepsPath == "" {
		log.Fatalf("usage: %s -target \"submit button\" [-in capture.png] [-backend ollama|llamacpp] [-window x,y,w,h] [-click]", filepath.Base(os.Args[0]))
	}

	classifier := newClassifier(cfg)
	loc := newLocator(cfg, classifier)

	if debug {
		if err := utils.EnsureDir(cfg.Output.DebugDir); err != nil {
			log.Fatal(err)
		}
		proc := processing.NewProcessor()
		label := target
		if label == "" {
			label = "steps"
		}
		loc.SetSnapshot(func(iteration int, annotated image.Image) {
			path := utils.IterationFilename(cfg.Output.DebugDir, iteration, label, cfg.Output.DebugFormat)
			if err := proc.SaveImage(annotated, path, cfg.Output.DebugFormat, cfg.Output.Quality, false); err != nil {
				log.Printf("debug save %s failed: %v", path, err)
			} else {
				log.Printf("wrote %s", path)
			}
		})
	}

	ctx := context.Background()

	window, haveWindow := parseWindow(windowSpec)

	// Step-list mode.
	if stepsPath != "" {
		if !haveWindow {
			log.Fatal("-steps requires -window for screen mapping")
		}
		steps, err := agent.LoadSteps(stepsPath)
		if err != nil {
			log.Fatal(err)
		}
		runner := agent.NewRunner(loc.Core(), window)
		if err := runner.Run(ctx, steps); err != nil {
			log.Fatal(err)
		}
		log.Printf("executed %d steps", len(steps))
		return
	}

	// Single locate.
	img := loadCapture(loc, in, window, haveWindow)

	result, err := loc.LocateInImage(ctx, img, target)
	if err != nil {
		var lerr *locator.Error
		if errors.As(err, &lerr) {
			log.Printf("refinement failed at iteration %d (target %v, crop %v)", lerr.Iteration, lerr.Target, lerr.Crop)
		}
		log.Fatal(err)
	}

	for _, it := range result.Iterations {
		log.Printf("iteration %d: cell %d -> target %v (crop %v)", it.Index, it.Cell, it.Target, it.Crop)
	}
	log.Printf("resolved %q at %v", target, result.Point)

	if haveWindow {
		b := img.Bounds()
		size := geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())}
		p, err := screen.ToScreen(result.Point, size, window)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("screen point: (%.2f, %.2f)", p.X, p.Y)
		if doClick {
			if err := input.Click(p); err != nil {
				log.Fatal(err)
			}
			log.Printf("clicked")
		}
	} else if doClick {
		log.Fatal("-click requires -window")
	}

	// Machine-readable result for callers that wrap the CLI.
	js, _ := json.Marshal(map[string]any{
		"x": result.Point.X,
		"y": result.Point.Y,
	})
	fmt.Println(string(js))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadConfig(path string) *config.Config {
	if path == "" {
		if def := config.GetConfigPath(); utils.FileExists(def) {
			path = def
		}
	}
	if path == "" {
		return config.Default()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func applyFlagOverrides(cfg *config.Config, gridWidth, iterations int, padding, minSize float64, timeout time.Duration, backend, url, model, sendFmt string, sendSize, sendQ int, debugDir, dbgext string) {
	if gridWidth > 0 {
		cfg.Locator.GridWidth = gridWidth
	}
	if iterations > 0 {
		cfg.Locator.Iterations = iterations
	}
	if padding > 0 {
		cfg.Locator.PaddingFactor = padding
	}
	if minSize > 0 {
		cfg.Locator.MinTargetSize = minSize
	}
	if timeout > 0 {
		cfg.Locator.QueryTimeoutMS = int(timeout / time.Millisecond)
	}
	if backend != "" {
		cfg.Oracle.Backend = backend
	}
	if url != "" {
		cfg.Oracle.URL = url
	}
	if model != "" {
		cfg.Oracle.Model = model
	}
	if sendFmt != "" {
		cfg.Send.Format = sendFmt
	}
	if sendSize >= 0 {
		cfg.Send.MaxDim = sendSize
	}
	if sendQ > 0 {
		cfg.Send.Quality = sendQ
	}
	if debugDir != "" {
		cfg.Output.DebugDir = debugDir
	}
	if dbgext != "" {
		cfg.Output.DebugFormat = dbgext
	}
}

func newClassifier(cfg *config.Config) client.RegionClassifier {
	switch cfg.Oracle.Backend {
	case "ollama":
		url := cfg.Oracle.URL
		if url == "" {
			url = "http://localhost:11434"
		}
		c, err := ollama.NewClient(url)
		if err != nil {
			log.Fatalf("failed to create Ollama client: %v", err)
		}
		return c
	case "llamacpp":
		c, err := llamacpp.NewClient(cfg.Oracle.URL)
		if err != nil {
			log.Fatalf("failed to create llama.cpp client: %v", err)
		}
		return c
	default:
		log.Fatalf("unknown backend: %s (use 'ollama' or 'llamacpp')", cfg.Oracle.Backend)
		return nil
	}
}

func newLocator(cfg *config.Config, classifier client.RegionClassifier) *uilocator.Locator {
	loc, err := uilocator.NewWithConfig(classifier, cfg.Oracle.Model,
		locator.Config{
			GridWidth:     cfg.Locator.GridWidth,
			Iterations:    cfg.Locator.Iterations,
			PaddingFactor: cfg.Locator.PaddingFactor,
			MinTargetSize: cfg.Locator.MinTargetSize,
			QueryTimeout:  time.Duration(cfg.Locator.QueryTimeoutMS) * time.Millisecond,
		},
		uilocator.SendOptions{
			Format:  cfg.Send.Format,
			MaxDim:  cfg.Send.MaxDim,
			Quality: cfg.Send.Quality,
		})
	if err != nil {
		log.Fatal(err)
	}
	return loc
}

func loadCapture(loc *uilocator.Locator, in string, window geometry.Rect, haveWindow bool) image.Image {
	if in != "" {
		img, err := loc.LoadImage(in)
		if err != nil {
			log.Fatal(err)
		}
		return img
	}

	var img image.Image
	var err error
	if haveWindow {
		img, err = screen.CaptureRegion(window)
	} else {
		img, err = screen.Capture()
	}
	if err != nil {
		log.Fatal(err)
	}
	return img
}

func parseWindow(spec string) (geometry.Rect, bool) {
	if spec == "" {
		return geometry.Rect{}, false
	}
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		log.Fatalf("invalid -window %q, want x,y,w,h", spec)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			log.Fatalf("invalid -window %q: %v", spec, err)
		}
		vals[i] = v
	}
	return geometry.NewRect(geometry.FrameScreen, vals[0], vals[1], vals[2], vals[3]), true
}

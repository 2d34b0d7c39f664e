package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	nchess "github.com/corentings/chess/v2"
	appcfg "github.com/park285/heatboard/internal/config"
	"github.com/park285/heatboard/internal/domain"
	"github.com/park285/heatboard/internal/obslog"
	"github.com/park285/heatboard/internal/render"
	"github.com/park285/heatboard/internal/server"
	"github.com/park285/heatboard/internal/timeline"
	"github.com/park285/heatboard/internal/tui"
	"go.uber.org/zap"
)

const usage = `heatboard - chess heatmap playback

Usage:
  heatboard view [-pgn FILE]            interactive terminal playback
  heatboard show [-pgn FILE] [-index N] print one position to stdout
  heatboard export [-pgn FILE] -out F   write the timeline as an animated GIF
  heatboard serve [-pgn FILE]           expose playback over HTTP

Without -pgn a built-in demo game is loaded.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer logger.Sync()

	switch os.Args[1] {
	case "view":
		err = runView(os.Args[2:], cfg, logger)
	case "show":
		err = runShow(os.Args[2:], cfg)
	case "export":
		err = runExport(os.Args[2:], cfg, logger)
	case "serve":
		err = runServe(os.Args[2:], cfg, logger)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

// demoPGN is the Scholar's Mate, the same game the viewer boots with when no
// file is given.
const demoPGN = `[Event "Demo"]
[Site "?"]
[Result "1-0"]

1. e4 e5 2. Bc4 Nc6 3. Qh5 Nf6 4. Qxf7# 1-0
`

func loadTimeline(path string) (*timeline.Timeline, error) {
	var (
		game *nchess.Game
		err  error
	)
	if path == "" {
		game, err = timeline.LoadPGN(strings.NewReader(demoPGN))
	} else {
		game, err = timeline.LoadPGNFile(path)
	}
	if err != nil {
		return nil, err
	}
	return timeline.Build(game)
}

func runView(args []string, cfg *appcfg.AppConfig, logger *zap.Logger) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	pgn := fs.String("pgn", "", "PGN file to replay")
	fs.Parse(args)

	tl, err := loadTimeline(*pgn)
	if err != nil {
		return err
	}
	return tui.Run(tl, cfg, logger)
}

func runShow(args []string, cfg *appcfg.AppConfig) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	pgn := fs.String("pgn", "", "PGN file to replay")
	index := fs.Int("index", 0, "position index, 0 is the initial position")
	out := fs.String("out", "", "write a PNG here instead of printing text")
	fs.Parse(args)

	tl, err := loadTimeline(*pgn)
	if err != nil {
		return err
	}
	snap, err := tl.Snapshot(*index)
	if err != nil {
		return err
	}

	if *out != "" {
		opts := render.FrameOptions{
			Index:     *index,
			Total:     tl.Len(),
			LabelMode: domain.ParseLabelMode(cfg.LabelMode),
			RayColor:  domain.ParseRayColor(cfg.RayColor),
		}
		if code, title := tl.Opening(); code != "" {
			opts.Opening = fmt.Sprintf("%s %s", code, title)
		}
		png, err := render.NewFrameRenderer().RenderPNG(context.Background(), snap, opts)
		if err != nil {
			return err
		}
		return os.WriteFile(*out, png, 0o644)
	}

	printSnapshot(os.Stdout, tl, snap, *index, domain.ParseLabelMode(cfg.LabelMode))
	return nil
}

func printSnapshot(w io.Writer, tl *timeline.Timeline, snap *timeline.Snapshot, index int, mode domain.LabelMode) {
	fmt.Fprintf(w, "%s (%d/%d)\n", snap.Label, index+1, tl.Len())
	if code, title := tl.Opening(); code != "" {
		fmt.Fprintf(w, "%s %s\n", code, title)
	}
	fmt.Fprintln(w)
	for row := 0; row < domain.GridSize; row++ {
		fmt.Fprintf(w, "%d ", domain.GridSize-row)
		for col := 0; col < domain.GridSize; col++ {
			text := snap.Annotation(domain.Square{Row: row, Col: col}, mode)
			if text == "" {
				text = "."
			}
			fmt.Fprintf(w, " %2s", text)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, "  ")
	for col := 0; col < domain.GridSize; col++ {
		fmt.Fprintf(w, "  %c", 'a'+col)
	}
	fmt.Fprintln(w)
}

func runExport(args []string, cfg *appcfg.AppConfig, logger *zap.Logger) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	pgn := fs.String("pgn", "", "PGN file to replay")
	out := fs.String("out", "heatboard.gif", "output GIF path")
	waves := fs.Bool("waves", true, "animate attack highlights inside each position")
	fs.Parse(args)

	tl, err := loadTimeline(*pgn)
	if err != nil {
		return err
	}

	opts := render.ExportOptions{
		Interval:      cfg.Interval(),
		FramesPerMove: cfg.ExportFramesPerMove,
		Stride:        cfg.ExportStride,
		ShowWaves:     *waves,
		LabelMode:     domain.ParseLabelMode(cfg.LabelMode),
		RayColor:      domain.ParseRayColor(cfg.RayColor),
	}
	if code, title := tl.Opening(); code != "" {
		opts.Opening = fmt.Sprintf("%s %s", code, title)
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err := render.NewFrameRenderer().ExportGIF(context.Background(), tl, opts, f); err != nil {
		return err
	}
	logger.Info("export finished",
		zap.String("path", *out),
		zap.Int("positions", tl.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	fmt.Printf("wrote %s (%d positions)\n", *out, tl.Len())
	return nil
}

func runServe(args []string, cfg *appcfg.AppConfig, logger *zap.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	pgn := fs.String("pgn", "", "PGN file to replay")
	addr := fs.String("addr", "", "listen address, overrides config")
	fs.Parse(args)

	if *addr != "" {
		cfg.ServeAddr = *addr
	}

	tl, err := loadTimeline(*pgn)
	if err != nil {
		return err
	}
	srv, err := server.New(tl, cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Serve(ctx)
}

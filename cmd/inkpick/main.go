// inkpick is a handwritten character picker: draw a character, watch the
// ranked candidate list update live, and click a candidate to commit it.
package main

import (
	"flag"
	"fmt"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"

	"inkpick/internal/capture"
	"inkpick/internal/config"
	"inkpick/internal/geom"
	"inkpick/internal/logging"
	"inkpick/internal/matcher"
	"inkpick/internal/recompute"
	"inkpick/internal/recording"
)

var configPath = flag.String("config", "", "path to config file")

func main() {
	flag.Parse()

	cfg, cfgLoader, log, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title("inkpick"))
		w.Option(app.Size(unit.Dp(420), unit.Dp(560)))

		if err := loop(w, cfg, cfgLoader, log); err != nil {
			log.Error("window loop failed", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

// setup loads configuration and builds the logger. When a config file is
// in play a Loader is returned too, so the file can be hot reloaded.
func setup() (*config.Config, *config.Loader, *logging.Logger, error) {
	path := *configPath
	if path == "" {
		// Use the platform config file when present, defaults otherwise.
		if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
			path = config.DefaultConfigPath()
		}
	}

	var (
		cfg       *config.Config
		cfgLoader *config.Loader
		err       error
	)
	if path != "" {
		cfgLoader = config.NewLoader(path)
		cfg, err = cfgLoader.Load()
	} else {
		cfg, err = config.Load("")
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	format, _ := logging.ParseFormat(cfg.Logging.Format)
	log, err := logging.New(&logging.Config{
		Level:     level,
		Format:    format,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: "inkpick",
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logging: %w", err)
	}
	logging.SetDefault(log)
	return cfg, cfgLoader, log, nil
}

// loop runs the window event loop over a fully wired capture pipeline.
func loop(w *app.Window, cfg *config.Config, cfgLoader *config.Loader, log *logging.Logger) error {
	norm, err := geom.NewNormalizer(1)
	if err != nil {
		return err
	}

	sink := newCanvasSink(w)
	session := capture.NewSession(norm, sink)
	defer session.Close()

	loader := matcher.NewLoader(cfg.Matcher.DataPath, log)
	defer loader.Close()

	graph := recompute.New(session, loader, cfg.Matcher.Limit, log)

	// The matcher's backing data loads asynchronously; drawing works
	// immediately and the accumulated strokes are matched once it
	// arrives.
	loader.OnReady(func() {
		graph.Recompute()
		w.Invalidate()
	})
	loader.Start()
	if cfg.Matcher.HotReload {
		if err := loader.Watch(); err != nil {
			log.Warn("character data watch unavailable", "error", err)
		}
	}

	// Config file edits apply the matcher limit live; other sections
	// take effect on restart.
	if cfgLoader != nil {
		cfgLoader.OnChange(func(c *config.Config) {
			graph.SetLimit(c.Matcher.Limit)
			graph.Recompute()
			w.Invalidate()
			log.Info("configuration reloaded", "matcher_limit", c.Matcher.Limit)
		})
		if err := cfgLoader.Watch(); err != nil {
			log.Warn("config watch unavailable", "error", err)
		}
		defer cfgLoader.Close()
	}

	recorder, err := buildRecorder(cfg, log)
	if err != nil {
		// Recording is best effort: without it the picker still works.
		log.Warn("selection recording unavailable", "error", err)
	}
	if recorder != nil {
		defer recorder.Close()
	}

	u := newUI(cfg, log, norm, session, graph, sink, recorder)

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			u.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

// buildRecorder assembles the configured recording chain: a local journal
// always, plus a websocket collector when a URL is configured.
func buildRecorder(cfg *config.Config, log *logging.Logger) (recording.Recorder, error) {
	if !cfg.Recording.Enabled {
		return nil, nil
	}
	journal, err := recording.OpenJournal(cfg.Recording.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open selection journal: %w", err)
	}
	var remote recording.Recorder
	if cfg.Recording.CollectorURL != "" {
		remote = recording.NewWSRecorder(cfg.Recording.CollectorURL, log)
	}
	return recording.NewTee(journal, remote, log), nil
}

// inkmatch is the command line companion to inkpick: it runs the stroke
// matcher without a window, validates character data files, and inspects
// the local selection journal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"inkpick/internal/config"
	"inkpick/internal/geom"
	"inkpick/internal/matcher"
	"inkpick/internal/recording"
)

var (
	configPath = flag.String("config", "", "path to config file")
	dataPath   = flag.String("data", "", "character data file (overrides config)")
	limit      = flag.Int("limit", 0, "max candidates (overrides config)")
	asJSON     = flag.Bool("json", false, "emit JSON instead of a table")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	switch cmd := flag.Arg(0); cmd {
	case "match":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: inkmatch match <strokes.json | ->")
			os.Exit(1)
		}
		cmdMatch(flag.Arg(1))
	case "check":
		cmdCheck()
	case "journal":
		cmdJournal()
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `inkmatch - Stroke matcher utility for inkpick

Usage: inkmatch [options] <command> [args]

Commands:
  match <file>    Rank candidates for strokes read from file ("-" = stdin)
  check           Validate the configured character data file
  journal         Show selections not yet delivered to the collector
  help            Show this help message

Options:
  -config <path>  Path to config file
  -data <path>    Character data file (overrides config)
  -limit <n>      Max candidates (overrides config)
  -json           Emit JSON instead of a table`)
}

func loadConfig() *config.Config {
	path := *configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
			path = config.DefaultConfigPath()
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.Matcher.DataPath = *dataPath
	}
	if *limit > 0 {
		cfg.Matcher.Limit = *limit
	}
	return cfg
}

func cmdMatch(source string) {
	cfg := loadConfig()

	strokes, err := readStrokes(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading strokes: %v\n", err)
		os.Exit(1)
	}

	m, err := matcher.LoadFile(cfg.Matcher.DataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading character data: %v\n", err)
		os.Exit(1)
	}

	candidates := m.Match(strokes, cfg.Matcher.Limit)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(candidates); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(candidates) == 0 {
		fmt.Println("No candidates.")
		return
	}
	fmt.Printf("%-6s %-10s %s\n", "Rank", "Character", "Score")
	for i, c := range candidates {
		fmt.Printf("%-6d %-10s %.2f\n", i+1, c.Character, c.Score)
	}
}

func cmdCheck() {
	cfg := loadConfig()

	m, err := matcher.LoadFile(cfg.Matcher.DataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Character data INVALID: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Character data OK: %s (%d characters)\n", cfg.Matcher.DataPath, m.Len())
}

func cmdJournal() {
	cfg := loadConfig()

	journal, err := recording.OpenJournal(cfg.Recording.JournalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		os.Exit(1)
	}
	defer journal.Close()

	ctx := context.Background()
	total, err := journal.Count(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
		os.Exit(1)
	}
	pending, err := journal.Undelivered(ctx, 100)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(pending); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Journal: %s\n", cfg.Recording.JournalPath)
	fmt.Printf("Total selections: %d, undelivered: %d\n", total, len(pending))
	if len(pending) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("%-12s %-10s %-8s %s\n", "ID", "Character", "Strokes", "Recorded")
	for _, sel := range pending {
		id := sel.ID
		if len(id) > 10 {
			id = id[:10] + ".."
		}
		fmt.Printf("%-12s %-10s %-8d %s\n",
			id, sel.Character, len(sel.Strokes), sel.RecordedAt.Format("2006-01-02 15:04:05"))
	}
}

// readStrokes decodes a stroke collection from a file or stdin. The
// format is the same nested [x, y] array layout the character data uses
// for medians.
func readStrokes(source string) (geom.Collection, error) {
	var r io.Reader = os.Stdin
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var strokes geom.Collection
	dec := json.NewDecoder(r)
	if err := dec.Decode(&strokes); err != nil {
		return nil, fmt.Errorf("decode strokes: %w", err)
	}
	if len(strokes) == 0 {
		return nil, fmt.Errorf("no strokes in input")
	}
	return strokes, nil
}

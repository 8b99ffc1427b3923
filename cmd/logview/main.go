package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/logview/internal/api"
	"github.com/altinukshini/logview/internal/cache"
	"github.com/altinukshini/logview/internal/config"
	"github.com/altinukshini/logview/internal/follow"
	"github.com/altinukshini/logview/internal/tui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: logview [flags] [file]\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Reads the log from file, from stdin, or from a GitHub Actions job (-R owner/repo -job ID).\n\n")
	flag.PrintDefaults()
}

func main() {
	defaults := config.Default()

	configPath := flag.String("config", config.DefaultPath(), "Config file (TOML)")
	repo := flag.String("R", "", "Repository in owner/repo format")
	jobID := flag.Int64("job", 0, "GitHub Actions job ID to view")
	followFile := flag.Bool("follow", false, "Keep reading the file as it grows")
	filterMode := flag.Bool("filter", false, "Start in filter mode")
	cacheSizeMB := flag.Int("cache-size", defaults.CacheSizeMB, "Max job log cache size in MB")
	cacheTTL := flag.Duration("cache-ttl", defaults.CacheTTL, "Job log cache TTL")
	tailInterval := flag.Duration("tail-interval", defaults.TailInterval, "Poll interval for in-progress jobs")
	logFile := flag.String("log", defaults.LogFile, "Debug log file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println("logview", version)
		os.Exit(0)
	}

	cfg := defaults
	if err := cfg.LoadFile(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line win over the config file.
	var repoErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "R":
			repoErr = cfg.SetRepo(*repo)
		case "follow":
			cfg.Follow = *followFile
		case "filter":
			cfg.FilterMode = *filterMode
		case "cache-size":
			cfg.CacheSizeMB = *cacheSizeMB
		case "cache-ttl":
			cfg.CacheTTL = *cacheTTL
		case "tail-interval":
			cfg.TailInterval = *tailInterval
		case "log":
			cfg.LogFile = *logFile
		}
	})
	if repoErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", repoErr)
		os.Exit(1)
	}
	cfg.JobID = *jobID
	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: at most one log file can be given")
		flag.Usage()
		os.Exit(1)
	}
	cfg.File = flag.Arg(0)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Set up logging; the TUI owns the terminal.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err == nil {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			log.Printf("Could not open log file: %v", err)
		} else {
			defer f.Close()
			log.SetOutput(f)
		}
	}
	log.Printf("logview %s starting", version)

	var opts []tui.Option
	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}

	var client tui.JobClient
	var logCache *cache.LogCache
	switch cfg.Source() {
	case config.SourceJob:
		c, err := api.NewClient(cfg.Owner, cfg.Repo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Auth error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Make sure you are authenticated with: gh auth login")
			os.Exit(1)
		}
		client = c

		cacheDir := filepath.Join(os.TempDir(), "logview", "logs")
		logCache, err = cache.NewLogCache(cacheDir, cfg.CacheSizeMB, cfg.CacheTTL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cache error: %v\n", err)
			os.Exit(1)
		}
		start := time.Now()
		if err := logCache.Evict(); err != nil {
			log.Printf("cache eviction failed: %v", err)
		} else {
			log.Printf("cache eviction took %s", time.Since(start))
		}
		if size, err := logCache.TotalSize(); err == nil {
			log.Printf("cache holds %.1f MB", float64(size)/(1<<20))
		}

	case config.SourceFile:
		if _, err := os.Stat(cfg.File); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if cfg.Follow {
			w, err := follow.New(cfg.File)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer w.Close()
			opts = append(opts, tui.WithWatcher(w))
		}

	default:
		info, err := os.Stdin.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice != 0 {
			fmt.Fprintln(os.Stderr, "Error: no log given; pass a file, pipe a log into stdin, or use -R owner/repo -job ID")
			flag.Usage()
			os.Exit(1)
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read stdin: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, tui.WithInput(string(data)))
		// stdin carried the log; keys come from the terminal.
		programOpts = append(programOpts, tea.WithInputTTY())
	}

	app := tui.NewApp(cfg, client, logCache, opts...)
	p := tea.NewProgram(app, programOpts...)
	app.SetProgram(p)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package cmd implements the CLI command structure for todoneko.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todoneko/internal/app"
	"github.com/nibzard/todoneko/internal/config"
	"github.com/nibzard/todoneko/internal/emotion"
	"github.com/nibzard/todoneko/internal/logging"
	"github.com/nibzard/todoneko/internal/pet"
	"github.com/nibzard/todoneko/internal/todo"
	"github.com/nibzard/todoneko/internal/ui"
	"github.com/nibzard/todoneko/internal/watch"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todoneko CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todoneko", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand; the UI is the default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return mutateCommand(cfg, app.Add, remainingArgs)
	case "done", "toggle":
		return mutateCommand(cfg, app.Toggle, remainingArgs)
	case "rm", "remove":
		return mutateCommand(cfg, app.Remove, remainingArgs)
	case "emotion":
		return emotionCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "path":
		fmt.Fprintln(stdout, cfg.DataFile)
		return nil
	case "logs":
		return logsCommand(ctx, cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// cliLogger logs to stderr for one-shot subcommands.
func cliLogger(cfg *config.Config) *log.Logger {
	return logging.New(stderr, logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps))
}

// newState builds the application state from the configuration.
func newState(cfg *config.Config, sched emotion.Scheduler, logger *log.Logger) *app.State {
	return app.New(app.Options{
		DataFile:      cfg.DataFile,
		Emotions:      cfg.EmotionNames(),
		HappyDuration: cfg.HappyDuration(),
		Scheduler:     sched,
		Logger:        logger,
	})
}

// loadForCLI loads the state for a subcommand. Unlike the UI, the CLI
// refuses to continue from an unreadable or corrupt data file so a
// one-shot command never overwrites it.
func loadForCLI(cfg *config.Config) (*app.State, error) {
	state := newState(cfg, nil, cliLogger(cfg))
	if res := state.Load(); res.Failed() {
		return nil, fmt.Errorf("loading %s: %w", cfg.DataFile, res.Err)
	}
	return state, nil
}

func frameOptions(cfg *config.Config) pet.Options {
	assets := make([]pet.Asset, 0, len(cfg.Emotions))
	for _, e := range cfg.Emotions {
		assets = append(assets, pet.Asset{Name: e.Name, File: e.File})
	}
	return pet.Options{
		AssetDir:  cfg.AssetDir,
		Assets:    assets,
		MaxWidth:  cfg.MaxWidth,
		MaxHeight: cfg.MaxHeight,
		Cols:      cfg.ArtWidth,
	}
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoneko tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	fileLog, err := logging.OpenFile(cfg.LogFile, logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, true))
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer fileLog.Close()
	logger := fileLog.Logger

	sched := ui.NewScheduler()
	state := newState(cfg, sched, logger)
	startup := state.Load()

	opts := ui.Options{
		State:         state,
		Frames:        pet.LoadSet(frameOptions(cfg), logger),
		Animator:      pet.NewAnimator(cfg.IdleFrames),
		Scheduler:     sched,
		Templates:     cfg.Templates,
		FrameInterval: cfg.FrameInterval(),
		Startup:       startup,
		Logger:        logger,
	}

	if cfg.Watch {
		w, err := watch.New(cfg.DataFile, logger)
		if err != nil {
			logger.Warn("not watching data file", "path", cfg.DataFile, "err", err)
		} else {
			w.Start(ctx)
			defer w.Close()
			opts.Watcher = w
		}
	}

	logger.Info("starting ui", "data", cfg.DataFile, "emotion", state.Emotions.Get())
	return ui.Run(ctx, opts)
}

// lsCommand prints the checklist in order.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoneko ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	onlyDone := fs.Bool("done", false, "Show only completed todos")
	onlyOpen := fs.Bool("open", false, "Show only open todos")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *onlyDone && *onlyOpen {
		return fmt.Errorf("-done and -open are mutually exclusive")
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	state, err := loadForCLI(cfg)
	if err != nil {
		return err
	}

	printed := 0
	for _, it := range state.Todos.List() {
		if (*onlyDone && !it.Done) || (*onlyOpen && it.Done) {
			continue
		}
		printItem(stdout, it)
		printed++
	}
	if printed == 0 {
		fmt.Fprintln(stdout, "No todos.")
		return nil
	}
	open, done := state.Todos.Counts()
	fmt.Fprintf(stdout, "\n%d open, %d done\n", open, done)
	return nil
}

func printItem(w io.Writer, it todo.Item) {
	box := "[ ]"
	if it.Done {
		box = "[x]"
	}
	fmt.Fprintf(w, "%s %s\n", box, it.Title)
}

// mutateCommand runs add, done or rm for the title given as arguments.
func mutateCommand(cfg *config.Config, kind app.Kind, args []string) error {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%s: a todo title is required", kind)
	}

	state, err := loadForCLI(cfg)
	if err != nil {
		return err
	}
	res := state.Dispatch(app.Command{Kind: kind, Title: title})
	if res.Failed() {
		return fmt.Errorf("%s: %w", res.Status, res.Err)
	}
	fmt.Fprintln(stdout, res.Status)
	return nil
}

// emotionCommand prints or sets the persisted emotion.
func emotionCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoneko emotion", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) > 1 {
		return fmt.Errorf("unexpected arguments: %v", rest[1:])
	}

	state, err := loadForCLI(cfg)
	if err != nil {
		return err
	}

	if len(rest) == 0 {
		current := state.Emotions.Get()
		for _, name := range state.Emotions.Names() {
			marker := "  "
			if name == current {
				marker = "* "
			}
			fmt.Fprintf(stdout, "%s%s\n", marker, name)
		}
		return nil
	}

	res := state.Dispatch(app.Command{Kind: app.SetEmotion, Emotion: rest[0]})
	if res.Failed() {
		return fmt.Errorf("%s: %w", res.Status, res.Err)
	}
	if res := state.Dispatch(app.Command{Kind: app.Save}); res.Failed() {
		return fmt.Errorf("%s: %w", res.Status, res.Err)
	}
	fmt.Fprintf(stdout, "Emotion set to %s\n", state.Emotions.Get())
	return nil
}

// doctorCommand checks the data directory, the data file and the pet assets.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoneko doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	w := stdout
	fmt.Fprintln(w, "TodoNeko Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Check data directory
	fmt.Fprintf(w, "Data directory: %s\n", cfg.DataDir)
	if info, err := os.Stat(cfg.DataDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first save)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Check data file
	fmt.Fprintf(w, "Data file: %s\n", cfg.DataFile)
	if info, err := os.Stat(cfg.DataFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first save)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	} else {
		doc, err := todo.Load(cfg.DataFile)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Invalid: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ Valid")
			known := false
			for _, name := range cfg.EmotionNames() {
				if name == doc.LastEmotion {
					known = true
				}
			}
			if !known {
				fmt.Fprintf(w, "  ⚠️  Unknown lastEmotion %q (will fall back to %s)\n", doc.LastEmotion, emotion.Fallback)
			}
			if *verbose {
				fmt.Fprintf(w, "  Todos: %d\n", len(doc.Todos))
				for _, it := range doc.Todos {
					fmt.Fprint(w, "    ")
					printItem(w, it)
				}
				fmt.Fprintf(w, "  Last emotion: %s\n", doc.LastEmotion)
			}
		}
	}
	fmt.Fprintln(w)

	// Check pet assets
	if cfg.AssetDir == "" {
		fmt.Fprintln(w, "Assets: built-in art")
	} else {
		fmt.Fprintf(w, "Assets: %s\n", cfg.AssetDir)
	}
	set := pet.LoadSet(frameOptions(cfg), nil)
	missing := set.Placeholders()
	for _, f := range missing {
		fmt.Fprintf(w, "  ⚠️  %s: %v\n", f.Emotion, f.Err)
	}
	if len(missing) == 0 {
		fmt.Fprintln(w, "  ✅ OK")
	}
	if *verbose {
		for _, name := range set.Names() {
			f := set.Frame(name)
			src := f.Source
			if src == "" {
				src = "built-in"
			}
			fmt.Fprintf(w, "    %s: %s (%d lines)\n", name, src, len(f.Lines))
		}
	}
	fmt.Fprintln(w)

	// Log file
	fmt.Fprintf(w, "Log file: %s\n", cfg.LogFile)
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. TodoNeko will start with an empty list.")
	return fmt.Errorf("doctor checks failed")
}

// configCommand prints the resolved configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todoneko config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "# No config file found; using defaults")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "# Read %s\n", f)
	}

	keys := make([]string, 0, len(cws.Sources))
	for k, src := range cws.Sources {
		if src != config.SourceDefault {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(stdout, "# %s from %s\n", k, cws.Sources[k])
	}
	fmt.Fprintln(stdout)

	return toml.NewEncoder(stdout).Encode(cws.Config)
}

// logsCommand prints the tail of the log file.
func logsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoneko logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 50, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(cfg.LogFile); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(stdout, "No log file yet.")
		return nil
	}
	return logging.TailLog(ctx, stdout, cfg.LogFile, *n, *follow)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todoneko version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "TodoNeko - a pet cat that keeps your todo list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todoneko [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui              Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  ls [-done|-open] List todos")
	fmt.Fprintln(w, "  add <title>      Add a todo")
	fmt.Fprintln(w, "  done <title>     Toggle a todo between open and done")
	fmt.Fprintln(w, "  rm <title>       Remove a todo")
	fmt.Fprintln(w, "  emotion [name]   Show or set the pet's emotion")
	fmt.Fprintln(w, "  doctor [-v]      Check the data file and pet assets")
	fmt.Fprintln(w, "  config [-example] Show the resolved configuration")
	fmt.Fprintln(w, "  path             Print the data file path")
	fmt.Fprintln(w, "  logs [-n N] [-f] Show the log file")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

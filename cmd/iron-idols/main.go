package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/lixenwraith/iron-idols/config"
	"github.com/lixenwraith/iron-idols/content"
	"github.com/lixenwraith/iron-idols/core"
	"github.com/lixenwraith/iron-idols/logs"
	"github.com/lixenwraith/iron-idols/render"
	"github.com/lixenwraith/iron-idols/sequencer"
	"github.com/lixenwraith/iron-idols/status"
	"github.com/lixenwraith/iron-idols/terminal"
)

// flags holds the command line; zero values leave the config file untouched
type flags struct {
	configPath  string
	scriptPath  string
	fast        bool
	skip        bool
	hiddenDelay time.Duration
	hiddenSet   bool
	color       string
	debug       bool
	logFile     string
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("iron-idols", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "Path to a TOML config file")
	fs.StringVar(&f.scriptPath, "script", "", "Path to a TOML script layered over the built-in content")
	fs.BoolVar(&f.fast, "fast", false, "Play every step without delays")
	fs.BoolVar(&f.skip, "skip", false, "Start at the closing composition")
	fs.DurationVar(&f.hiddenDelay, "hidden-delay", 0, "Idle time before the hidden message; 0 disables it")
	fs.StringVar(&f.color, "color", "", "Color mode: auto, truecolor, 256")
	fs.BoolVar(&f.debug, "debug", false, "Log at debug level")
	fs.StringVar(&f.logFile, "log-file", "", "Append logs to this file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "hidden-delay" {
			f.hiddenSet = true
		}
	})
	return f, nil
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.scriptPath != "" {
		cfg.Script = f.scriptPath
	}
	if f.fast {
		cfg.Timing.Scale = 0
	}
	if f.hiddenSet {
		cfg.Timing.HiddenMessageDelay = config.Duration(f.hiddenDelay)
	}
	if f.color != "" {
		cfg.Terminal.Color = f.color
	}
	if f.debug {
		cfg.Log.Level = "debug"
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "flags")
	}
	return cfg, nil
}

func newSequencer(cfg *config.Config, script *content.Script, log *logs.Logger, reg *status.Registry, hidden bool) *sequencer.Sequencer {
	sc := sequencer.Config{
		Script:   script,
		Timings:  cfg.Timings(),
		Carousel: cfg.CarouselTimings(),
	}
	if hidden {
		sc.HiddenDelay = cfg.Timing.HiddenMessageDelay.Std()
	}
	return sequencer.New(sc, sequencer.WithLogger(log.Logger), sequencer.WithStatus(reg))
}

// runPlain plays the sequence without a screen and prints the closing document
func runPlain(ctx context.Context, seq *sequencer.Sequencer, skip bool, out io.Writer) error {
	defer seq.Close()
	if skip {
		seq.Interrupt()
	}
	doc := render.NewDocument()
	if err := seq.Run(ctx, doc.Root()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, doc.PlainText())
	return err
}

// runScreen presents the sequence on a tcell screen until a quit key or signal
func runScreen(ctx context.Context, cfg *config.Config, seq *sequencer.Sequencer, skip bool, log *logs.Logger) error {
	colors, err := cfg.Theme.Palette()
	if err != nil {
		return err
	}
	bg, err := cfg.Theme.BackgroundColor()
	if err != nil {
		return err
	}

	terminal.ApplyColorMode(terminal.ParseColorMode(cfg.Terminal.Color))
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	core.SetCrashTerminal(screen)
	defer func() {
		core.SetCrashTerminal(nil)
		screen.Fini()
	}()
	screen.HideCursor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	doc := render.NewDocument()
	presenter := terminal.NewPresenter(screen, doc, terminal.NewPalette(colors, bg), log.Logger)
	presenter.ShowHint(cfg.Terminal.SkipHint)

	if skip {
		seq.Interrupt()
	}
	core.Go(func() {
		if err := seq.Run(ctx, doc.Root()); err != nil && ctx.Err() == nil {
			log.Error("sequence failed", "error", err)
		}
	})

	presenter.Run(ctx, seq.Interrupt, seq.Done())
	cancel()
	<-seq.Done()
	seq.Close()
	return nil
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	log, err := logs.New(logs.Options{Level: level, File: cfg.Log.File, Journal: cfg.Log.Journal})
	if err != nil {
		return err
	}
	defer log.Close()

	script, err := content.Load(cfg.Script)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := status.NewRegistry()
	interactive := term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
	log.Info("starting", "interactive", interactive, "scale", cfg.Timing.Scale, "color", cfg.Terminal.Color)

	if !interactive {
		err = runPlain(ctx, newSequencer(cfg, script, log, reg, false), f.skip, os.Stdout)
	} else {
		err = runScreen(ctx, cfg, newSequencer(cfg, script, log, reg, true), f.skip, log)
	}
	log.LogAttrs(context.Background(), slog.LevelInfo, "exiting", reg.Attrs()...)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "iron-idols: %v\n", err)
		os.Exit(1)
	}
}

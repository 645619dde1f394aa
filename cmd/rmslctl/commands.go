package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"kblayout/internal/config"
	"kblayout/internal/export"
	"kblayout/internal/i18n"
	"kblayout/internal/layout"
	"kblayout/internal/logging"
	"kblayout/internal/source"
)

// keyboardFlags are shared by commands that build a keyboard.
type keyboardFlags struct {
	lang *int
	mode *int
	file *string
}

func addKeyboardFlags(fs *flag.FlagSet) keyboardFlags {
	return keyboardFlags{
		lang: fs.Int("lang", -1, "keyboard language (default from config)"),
		mode: fs.Int("mode", -1, "keyboard mode (default from config)"),
		file: fs.String("file", "", "layout file to build instead of the layout directory"),
	}
}

// build lays out the keyboard the flags and config describe. An explicit
// file must build; the layout directory falls back like the keyboard does.
func (f keyboardFlags) build(cfg *config.Config, log *slog.Logger) (*layout.Keyboard, string) {
	opts := cfg.LayoutOptions()
	opts.Logger = log
	if *f.mode >= 0 {
		opts.Mode = *f.mode
	}

	if *f.file != "" {
		logging.Debug("building layout file", "path", *f.file, "mode", opts.Mode)
		text, err := source.ReadFile(*f.file)
		if err != nil {
			fatalf("Error reading layout: %v", err)
		}
		kb, err := layout.Build(text, opts)
		if err != nil {
			fatalf("Error building %s: %v", *f.file, err)
		}
		return kb, *f.file
	}

	lang := i18n.Language(cfg.Keyboard.Language)
	if *f.lang >= 0 {
		lang = i18n.Language(*f.lang)
	}
	kb, origin, err := source.Load(source.NewDir(cfg.Layouts.Dir), lang, opts, log)
	if err != nil {
		fatalf("Error building keyboard: %v", err)
	}
	return kb, describeOrigin(origin)
}

func describeOrigin(o source.Origin) string {
	if o.BuiltIn {
		return "built-in layout"
	}
	return o.Path
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	kf := addKeyboardFlags(fs)
	format := fs.String("format", "json", "output format: json, yaml or rmsl")
	output := fs.String("o", "", "write to file instead of stdout")
	fs.Parse(args)

	cfg := loadConfig()
	logger := newLogger(cfg)
	defer logger.Close()

	kb, from := kf.build(cfg, logger.Logger)
	logging.Info("keyboard built", "source", from, "rows", len(kb.Rows()), "keys", len(kb.Keys()))

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatalf("Error creating output: %v", err)
		}
		defer f.Close()
		out = f
	}

	if *format == "rmsl" {
		text, err := kb.MarshalRMSL()
		if err != nil {
			fatalf("Error encoding layout: %v", err)
		}
		fmt.Fprintln(out, text)
		return
	}

	ef, err := export.ParseFormat(*format)
	if err != nil {
		fatalf("%v", err)
	}
	if err := export.Write(out, kb, ef); err != nil {
		fatalf("Error writing keyboard: %v", err)
	}
}

func cmdHit(args []string) {
	fs := flag.NewFlagSet("hit", flag.ExitOnError)
	kf := addKeyboardFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: rmslctl hit [-lang N] [-file F] <x> <y>")
		os.Exit(1)
	}
	x, errX := strconv.Atoi(fs.Arg(0))
	y, errY := strconv.Atoi(fs.Arg(1))
	if errX != nil || errY != nil {
		fatalf("Coordinates must be integers")
	}

	cfg := loadConfig()
	logger := newLogger(cfg)
	defer logger.Close()

	kb, _ := kf.build(cfg, logger.Logger)
	key, ok := kb.KeyAt(x, y)
	if !ok {
		fmt.Printf("No key at (%d, %d)\n", x, y)
		os.Exit(1)
	}
	fmt.Println(describeKey(key))
}

func describeKey(k *layout.Key) string {
	var b strings.Builder
	fmt.Fprintf(&b, "code=%d", k.Code)
	if k.Label != "" {
		fmt.Fprintf(&b, " label=%q", k.Label)
	}
	if k.IconName != "" {
		fmt.Fprintf(&b, " icon=%s", k.IconName)
	}
	fmt.Fprintf(&b, " row=%d x=%d y=%d w=%d h=%d", k.Row, k.X, k.Y, k.Width, k.Height)
	if k.Edges != 0 {
		fmt.Fprintf(&b, " edges=%s", k.Edges)
	}
	if k.PopupCharacters != "" {
		fmt.Fprintf(&b, " popup=%q", k.PopupCharacters)
	}
	return b.String()
}

func cmdPopup(args []string) {
	fs := flag.NewFlagSet("popup", flag.ExitOnError)
	keyWidth := fs.Int("key-width", 0, "key width in pixels (default: a tenth of the display)")
	template := fs.String("template", "", "file with keyboard-level attributes for the popup")
	format := fs.String("format", "json", "output format: json or yaml")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rmslctl popup [-key-width N] [-template F] <characters>")
		os.Exit(1)
	}

	cfg := loadConfig()
	logger := newLogger(cfg)
	defer logger.Close()

	opts := cfg.LayoutOptions()
	opts.Logger = logger.Logger

	var tmpl string
	if *template != "" {
		var err error
		if tmpl, err = source.ReadFile(*template); err != nil {
			fatalf("Error reading template: %v", err)
		}
	}
	width := *keyWidth
	if width <= 0 {
		width = opts.DisplayWidth / 10
	}

	kb, err := layout.NewPopupKeyboard(tmpl, fs.Arg(0), width, opts)
	if err != nil {
		fatalf("Error building popup: %v", err)
	}
	ef, err := export.ParseFormat(*format)
	if err != nil {
		fatalf("%v", err)
	}
	if err := export.Write(os.Stdout, kb, ef); err != nil {
		fatalf("Error writing popup: %v", err)
	}
}

func cmdLanguages(args []string) {
	fs := flag.NewFlagSet("languages", flag.ExitOnError)
	locale := fs.String("locale", i18n.SystemLocale(), "locale for language names")
	fs.Parse(args)

	cfg := loadConfig()

	catalog, err := i18n.NewCatalog()
	if err != nil {
		fatalf("Error loading messages: %v", err)
	}

	installed := map[i18n.Language]bool{}
	if langs, err := source.NewDir(cfg.Layouts.Dir).Languages(); err == nil {
		for _, l := range langs {
			installed[l] = true
		}
	}

	fmt.Printf("Layout directory: %s\n\n", cfg.Layouts.Dir)
	fmt.Printf("%-3s %-28s %-10s %s\n", "ID", "Name", "Layout", "")
	fmt.Println(strings.Repeat("-", 50))
	for _, l := range i18n.Languages() {
		status := "built-in"
		if installed[l] {
			status = "installed"
		} else if l != i18n.EnglishQWERTY {
			status = "fallback"
		}
		marker := ""
		if int(l) == cfg.Keyboard.Language {
			marker = "*"
		}
		fmt.Printf("%-3d %-28s %-10s %s\n", int(l), catalog.Name(l, *locale), status, marker)
	}
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rmslctl validate <file>...")
		os.Exit(1)
	}

	cfg := loadConfig()
	logger := newLogger(cfg)
	defer logger.Close()

	opts := cfg.LayoutOptions()
	opts.Logger = logger.Logger

	failed := 0
	for _, path := range fs.Args() {
		detail, err := validateFile(path, opts)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", path, err)
			continue
		}
		fmt.Printf("ok    %s%s\n", path, detail)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func validateFile(path string, opts layout.Options) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return "", export.Validate(data)
	case ext == ".yaml" || ext == ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return "", export.ValidateYAML(data)
	case source.IsLayoutFile(path) || ext == source.Ext:
		text, err := source.ReadFile(path)
		if err != nil {
			return "", err
		}
		kb, err := layout.Build(text, opts)
		if err != nil {
			return "", err
		}
		if err := export.ValidateKeyboard(kb); err != nil {
			return "", err
		}
		return fmt.Sprintf(" (%d rows, %d keys)", len(kb.Rows()), len(kb.Keys())), nil
	default:
		return "", fmt.Errorf("unknown file type")
	}
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Parse(args)

	path := *configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		path = config.ConfigPath()
	}

	loader := config.NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	logger := newLogger(cfg)
	defer logger.Close()
	log := logger.WithComponent("watch").Logger

	opts := cfg.LayoutOptions()
	opts.Logger = logger.Logger
	m := source.NewManager(cfg.Layouts.Dir, i18n.Language(cfg.Keyboard.Language), opts, logger.Logger)
	m.OnReload(func(kb *layout.Keyboard, o source.Origin) {
		log.Info("keyboard ready",
			"source", describeOrigin(o),
			"language", int(o.Requested),
			"rows", len(kb.Rows()),
			"keys", len(kb.Keys()),
			"width", kb.MinWidth(),
			"height", kb.Height())
	})
	if _, _, err := m.Load(); err != nil {
		fatalf("Error building keyboard: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quiet := time.Duration(cfg.LayoutDebounceMs()) * time.Millisecond
	if err := m.Watch(ctx, quiet); err != nil {
		log.Warn("not watching layouts", "dir", cfg.Layouts.Dir, "error", err)
	}
	defer m.Close()

	loader.OnChange(func(c *config.Config) {
		opts := c.LayoutOptions()
		opts.Logger = logger.Logger
		if _, err := m.SetOptions(opts); err != nil {
			log.Error("applying config", "error", err)
			return
		}
		if lang := i18n.Language(c.Keyboard.Language); lang != m.Language() {
			if _, err := m.SetLanguage(lang); err != nil {
				log.Error("switching language", "error", err)
			}
		}
	})
	if _, err := os.Stat(path); err == nil {
		if err := loader.Watch(); err != nil {
			log.Warn("not watching config", "path", path, "error", err)
		}
	}
	defer loader.Close()

	fmt.Fprintln(os.Stderr, "Watching for layout changes. Press Ctrl-C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigChan:
			return
		case err, ok := <-loader.Errors():
			if !ok {
				return
			}
			log.Warn("config reload rejected", "error", err)
		}
	}
}

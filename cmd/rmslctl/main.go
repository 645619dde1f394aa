// rmslctl builds, inspects and validates keyboard layouts.
package main

import (
	"flag"
	"fmt"
	"os"

	"kblayout/internal/config"
	"kblayout/internal/logging"
)

var (
	configPath = flag.String("config", "", "path to config file")
	verbose    = flag.Bool("v", false, "log at debug level")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	switch cmd {
	case "build":
		cmdBuild(args)
	case "hit":
		cmdHit(args)
	case "popup":
		cmdPopup(args)
	case "languages":
		cmdLanguages(args)
	case "validate":
		cmdValidate(args)
	case "watch":
		cmdWatch(args)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `rmslctl - keyboard layout tool

Usage: rmslctl [options] <command> [args]

Commands:
  build [-lang N] [-mode N] [-file F] [-format json|yaml|rmsl]
                        Lay out a keyboard and print it
  hit [-lang N] [-file F] <x> <y>
                        Print the key under a point
  popup [-key-width N] [-format json|yaml] <characters>
                        Lay out a popup character grid
  languages [-locale L] List keyboard languages and installed layouts
  validate <file>...    Check .rmsl layouts and exported .json/.yaml documents
  watch                 Rebuild the active layout whenever it changes
  help                  Show this help message

Options:
  -config <path>  Path to config file (default: searched, then `+config.ConfigPath()+`)
  -v              Log at debug level`)
}

// loadConfig resolves, loads and validates the configuration. Warnings are
// logged; errors are fatal.
func loadConfig() *config.Config {
	path := *configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	warnings, err := config.Check(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		logging.Warn("config warning", "field", w.Field, "message", w.Message)
	}
	return cfg
}

// newLogger builds the process logger from the config.
func newLogger(cfg *config.Config) *logging.Logger {
	lc, err := cfg.LoggerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	lc.Component = "rmslctl"
	if *verbose {
		lc.Level = logging.LevelDebug
	}
	logger, err := logging.New(lc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	return logger
}

func fatalf(format string, args ...any) {
	logging.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

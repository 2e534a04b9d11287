package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/lagna/internal/config"
	"github.com/hpungsan/lagna/internal/db"
	"github.com/hpungsan/lagna/internal/logging"
	"github.com/hpungsan/lagna/internal/mcp"
	"github.com/hpungsan/lagna/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"chart": true, "store": true, "fetch": true, "list": true,
	"delete": true, "purge": true, "match": true, "dasha": true,
	"varga": true, "serve": true, "help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _
  | |    __ _  __ _ _ __   __ _
  | |   / _' |/ _' | '_ \ / _' |
  | |__| (_| | (_| | | | | (_| |
  |_____\__,_|\__, |_| |_|\__,_|
              |___/

  Sidereal birth charts, dashas and Guna Milan

  Usage: lagna <command> [options]
         lagna --help

  MCP server mode requires piped input.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion(os.Args) {
		app := newCLIApp(nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, config.RepoDir)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatal("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config: %v", err)
	}

	// stdout carries JSON output or the MCP protocol; logs go to stderr.
	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		fatal("%v", err)
	}
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.WithField("tools", unknown).Warn("unknown tools in disabled_tools")
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		log.WithField("types", unknown).Warn("unknown types in disabled_types")
	}

	database, err := db.Init(baseDir)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	engine := ops.NewDefaultEngine(cfg, log)

	if isCLIMode(os.Args) {
		app := newCLIApp(database, engine, log)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			database.Close()
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'lagna --help' for usage.\n")
		database.Close()
		os.Exit(1)
	}

	// MCP server mode (default)
	log.WithField("version", Version).Debug("starting MCP server on stdio")
	if err := mcp.Run(database, engine, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		database.Close()
		os.Exit(1)
	}
}

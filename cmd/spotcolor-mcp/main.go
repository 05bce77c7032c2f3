package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/ironsheep/spotcolor-mcp/internal/server"
	"github.com/ironsheep/spotcolor-mcp/internal/spotcolor"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("spotcolor-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	flags := flag.NewFlagSet("spotcolor-mcp", flag.ExitOnError)
	configPath := flags.String("config", os.Getenv("SPOTCOLOR_CONFIG"), "TOML file with classifier and simplifier thresholds")
	_ = flags.Parse(os.Args[1:])

	logger := newLogger(os.Getenv("SPOTCOLOR_LOG_LEVEL"))
	logger.Debug().Str("version", Version).Str("built", BuildTime).Str("commit", GitCommit).Msg("spotcolor MCP server starting")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("config", *configPath).Msg("cannot load config")
	}

	engine := spotcolor.New(*cfg, logger)
	srv := server.New(engine, logger)
	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// newLogger writes human readable logs to stderr (stdout is for MCP protocol).
// Unknown or empty levels fall back to info.
func newLogger(level string) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// loadConfig returns the default thresholds when path is empty.
func loadConfig(path string) (*spotcolor.Config, error) {
	if path == "" {
		cfg := spotcolor.DefaultConfig()
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	return spotcolor.LoadConfig(data)
}

func printHelp() {
	fmt.Println("spotcolor-mcp - MCP server for spot color print preparation")
	fmt.Println()
	fmt.Println("Usage: spotcolor-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <file>  TOML thresholds file (defaults built in)")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SPOTCOLOR_CONFIG=<file>        Same as --config")
	fmt.Println("  SPOTCOLOR_LOG_LEVEL=debug      Log level (trace, debug, info, warn, error)")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

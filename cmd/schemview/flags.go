package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/schemview/schemview/internal/logger"
)

var (
	maxDepth  int64
	modsDir   string
	logLevel  string
	logFormat string
	debug     bool
)

func decodeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "max-depth",
			Usage:       "max compound/list nesting depth",
			Value:       0,
			Destination: &maxDepth,
		},
		&cli.StringFlag{
			Name:        "mods-dir",
			Usage:       "directory of mod archives used to resolve mod names",
			Destination: &modsDir,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// newLogger builds the logger the logging flags describe.
func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if debug {
		level = logger.ParseLevel("debug")
	}
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	default:
		return logger.Pretty(os.Stderr, level)
	}
}

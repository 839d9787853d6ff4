package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/schemview/schemview/internal/logger"
	"github.com/schemview/schemview/internal/mcdata"
	"github.com/schemview/schemview/internal/modmeta"
	"github.com/schemview/schemview/internal/nbt"
	"github.com/schemview/schemview/internal/schematic"
)

func inspectCmd() *cli.Command {
	var (
		asJSON       bool
		showProgress bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the summary of a schematic file",
		ArgsUsage: "<file.nbt>",
		Flags: append(append(decodeFlags(), loggingFlags()...),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the summary as JSON",
				Destination: &asJSON,
			},
			&cli.BoolFlag{
				Name:        "progress",
				Usage:       "print decode progress to stderr",
				Destination: &showProgress,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: schemview inspect <file.nbt>")
			}
			cfg := LoadConfig()
			applyConfig(cmd, cfg)
			log := newLogger()

			path := cmd.Args().First()
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			var progress nbt.ProgressFunc
			if showProgress {
				progress = func(status string, percent float64) {
					fmt.Fprintf(os.Stderr, "\r%-40s %5.1f%%", status, percent)
					if percent >= 100 {
						fmt.Fprintln(os.Stderr)
					}
				}
			}

			registry := buildRegistry(cfg, log)
			root, err := nbt.NewDecoder(nbt.Options{
				MaxDepth: int(maxDepth),
				Progress: progress,
				Logger:   log,
			}).Decode(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}

			compound, ok := root.Tag.(*nbt.Compound)
			if !ok {
				return fmt.Errorf("decode %s: root is not a compound", path)
			}
			summary, err := schematic.NewExtractor(registry, mcdata.Versions(), log).Extract(compound)
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(path, summary)
			return nil
		},
	}
}

// buildRegistry seeds the mod registry with built-ins, config overrides,
// and an optional archive scan of --mods-dir.
func buildRegistry(cfg Config, log logger.Logger) *mcdata.ModRegistry {
	registry := mcdata.Mods()
	for ns, display := range cfg.ModNames {
		registry.Add(ns, display)
	}
	if modsDir != "" {
		mods, err := modmeta.ScanDir(modsDir, registry, log)
		if err != nil {
			log.Warn("mod archive scan failed", "dir", modsDir, "error", err)
		} else {
			log.Debug("scanned mod archives", "dir", modsDir, "registered", len(mods))
		}
	}
	return registry
}

func printSummary(path string, s *schematic.Summary) {
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Version: %s | blocks=%d | size=%dx%dx%d\n",
		s.Version, s.TotalBlocks, s.Width, s.Height, s.Length)

	if len(s.Mods) > 0 {
		fmt.Println()
		fmt.Println("Mods:")
		for _, m := range s.Mods {
			fmt.Printf("  %s\n", m)
		}
	}

	if len(s.Blocks) > 0 {
		fmt.Println()
		fmt.Println("Blocks:")
		for _, b := range s.Blocks {
			fmt.Printf("  %-48s %d\n", b.Name, b.Count)
		}
	}
}

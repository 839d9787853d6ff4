package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/schemview/schemview/internal/mcdata"
	"github.com/schemview/schemview/internal/modmeta"
)

func modsCmd() *cli.Command {
	return &cli.Command{
		Name:      "mods",
		Usage:     "Scan a directory of mod archives and print the names they declare",
		ArgsUsage: "<mods-dir>",
		Flags:     loggingFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: schemview mods <mods-dir>")
			}
			log := newLogger()

			registry := mcdata.Mods()
			mods, err := modmeta.ScanDir(cmd.Args().First(), registry, log)
			if err != nil {
				return err
			}
			fmt.Printf("registered %d mods\n", len(mods))

			sort.Slice(mods, func(i, j int) bool { return mods[i].ID < mods[j].ID })
			for _, m := range mods {
				fmt.Printf("  %-32s %s\n", m.ID, m.Name)
			}
			return nil
		},
	}
}

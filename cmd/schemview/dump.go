package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/schemview/schemview/internal/nbt"
)

func dumpCmd() *cli.Command {
	var arrayLimit int64

	return &cli.Command{
		Name:      "dump",
		Usage:     "Decode a schematic and print the full tag tree",
		ArgsUsage: "<file.nbt>",
		Flags: append(append(decodeFlags(), loggingFlags()...),
			&cli.Int64Flag{
				Name:        "array-limit",
				Usage:       "max array elements to print per tag (0 = no limit)",
				Value:       16,
				Destination: &arrayLimit,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: schemview dump <file.nbt>")
			}
			applyConfig(cmd, LoadConfig())
			log := newLogger()

			path := cmd.Args().First()
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			root, err := nbt.NewDecoder(nbt.Options{
				MaxDepth: int(maxDepth),
				Logger:   log,
			}).Decode(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			printTag(root.Name, root.Tag, 0, int(arrayLimit))
			return nil
		},
	}
}

func printTag(name string, tag nbt.Tag, indent, arrayLimit int) {
	pad := strings.Repeat("  ", indent)
	label := name
	if label == "" {
		label = "(unnamed)"
	}
	switch v := tag.(type) {
	case *nbt.Compound:
		fmt.Printf("%s%s (compound, %d entries)\n", pad, label, v.Len())
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			printTag(key, child, indent+1, arrayLimit)
		}
	case nbt.List:
		fmt.Printf("%s%s (list of %s, %d items)\n", pad, label, v.Elem, len(v.Items))
		for i, item := range v.Items {
			printTag(fmt.Sprintf("[%d]", i), item, indent+1, arrayLimit)
		}
	case nbt.ByteArray:
		fmt.Printf("%s%s (byte_array, %d bytes)\n", pad, label, len(v))
	case nbt.IntArray:
		fmt.Printf("%s%s (int_array, %d): %s\n", pad, label, len(v), formatInts(v, arrayLimit))
	case nbt.LongArray:
		fmt.Printf("%s%s (long_array, %d): %s\n", pad, label, len(v), formatLongs(v, arrayLimit))
	case nbt.String:
		fmt.Printf("%s%s (string): %q\n", pad, label, string(v))
	default:
		fmt.Printf("%s%s (%s): %v\n", pad, label, tag.Type(), tag)
	}
}

func formatInts(v []int32, limit int) string {
	parts := make([]string, 0, len(v))
	for i, n := range v {
		if limit > 0 && i == limit {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatLongs(v []int64, limit int) string {
	parts := make([]string, 0, len(v))
	for i, n := range v {
		if limit > 0 && i == limit {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

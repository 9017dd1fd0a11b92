package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go8080/i8080/memory"
)

// romcat concatenates a cabinet's separate ROM chip dumps into one flat 64
// KiB image, the way Space Invaders ships as four 2 KiB chips at fixed
// offsets (0x0000, 0x0800, 0x1000, 0x1800) rather than one file.
func newRomcatCmd() *cobra.Command {
	var chips []string
	var out string

	cmd := &cobra.Command{
		Use:   "romcat",
		Short: "Concatenate ROM chip dumps at fixed offsets into one 64k image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("romcat: -out is required")
			}

			images := make([]memory.Image, 0, len(chips))
			for _, chip := range chips {
				offsetStr, path, ok := strings.Cut(chip, ":")
				if !ok {
					return fmt.Errorf("romcat: -chip %q must be OFFSET:PATH", chip)
				}
				offset, err := strconv.ParseUint(strings.TrimPrefix(offsetStr, "0x"), 16, 16)
				if err != nil {
					return fmt.Errorf("romcat: -chip %q: bad hex offset: %w", chip, err)
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("romcat: reading %s: %w", path, err)
				}
				images = append(images, memory.Image{Offset: uint16(offset), Data: data})
			}

			flat, err := memory.Flatten(images...)
			if err != nil {
				return fmt.Errorf("romcat: %w", err)
			}
			return os.WriteFile(out, flat[:], 0o644)
		},
	}

	cmd.Flags().StringArrayVar(&chips, "chip", nil, "OFFSET:PATH of a chip dump, repeatable; OFFSET is hex (e.g. 0x1000:invaders.e)")
	cmd.Flags().StringVar(&out, "out", "", "output file for the flattened 64k image")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go8080/i8080/board/cpm"
	"github.com/go8080/i8080/board/invaders"
)

func newRunCmd() *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Run a ROM or .COM image against a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			switch board {
			case "cpm":
				b, err := cpm.New(data, os.Stdout)
				if err != nil {
					return err
				}
				return b.Run()
			case "invaders":
				cab, err := invaders.New(data)
				if err != nil {
					return err
				}
				return cab.Run()
			default:
				return fmt.Errorf("unknown board %q (want cpm or invaders)", board)
			}
		},
	}

	cmd.Flags().StringVar(&board, "board", "cpm", "board to run the image on: cpm or invaders")
	return cmd
}

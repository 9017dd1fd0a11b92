// i8080 is the reference command-line harness for the core: it can run a
// raw ROM or .COM image against the CP/M or Space Invaders board, convert
// an Intel HEX file into a flat binary image, or assemble an image from
// its constituent chip dumps.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "i8080",
		Short: "Intel 8080 emulator core: run images, build and convert ROMs",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newRomcatCmd())
	root.AddCommand(newIhex2binCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

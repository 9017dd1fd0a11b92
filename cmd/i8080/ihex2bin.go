package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Intel HEX record types this converter understands. Others (start
// segment/linear address) only affect a debugger's entry point, not the
// memory image, so they're accepted and ignored.
const (
	ihexRecData                = 0x00
	ihexRecEOF                 = 0x01
	ihexRecExtendedSegmentAddr = 0x02
	ihexRecExtendedLinearAddr  = 0x04
)

// newIhex2binCmd converts an Intel HEX source file (":llaaaatt<data>cc"
// records) into a flat binary image, the format 8080-era EPROM
// programmers and test ROMs actually ship in.
func newIhex2binCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "ihex2bin <file.hex>",
		Short: "Convert an Intel HEX file into a flat binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("ihex2bin: -out is required")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("ihex2bin: %w", err)
			}
			defer f.Close()

			var mem [65536]byte
			hi := uint32(0)
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := scanner.Text()
				if line == "" {
					continue
				}
				done, err := parseIhexLine(line, &mem, &hi)
				if err != nil {
					return fmt.Errorf("ihex2bin: %w", err)
				}
				if done {
					break
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("ihex2bin: reading %s: %w", args[0], err)
			}

			return os.WriteFile(out, mem[:], 0o644)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file for the flattened binary image")
	return cmd
}

// parseIhexLine applies one Intel HEX record to mem, reporting done=true on
// an EOF record. hi tracks the current extended linear address (the high
// 16 bits added to every record's 16-bit address field).
func parseIhexLine(line string, mem *[65536]byte, hi *uint32) (done bool, err error) {
	if line[0] != ':' {
		return false, fmt.Errorf("record %q missing leading ':'", line)
	}
	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return false, fmt.Errorf("record %q: %w", line, err)
	}
	if len(raw) < 5 {
		return false, fmt.Errorf("record %q too short", line)
	}

	count := raw[0]
	addr := uint16(raw[1])<<8 | uint16(raw[2])
	recType := raw[3]
	if len(raw) != int(count)+5 {
		return false, fmt.Errorf("record %q: byte count %d doesn't match record length", line, count)
	}
	data := raw[4 : 4+count]
	checksum := raw[4+count]

	var sum byte
	for _, b := range raw[:len(raw)-1] {
		sum += b
	}
	if want := byte(0x100 - int(sum)); want != checksum {
		return false, fmt.Errorf("record %q: checksum %#02x, want %#02x", line, checksum, want)
	}

	switch recType {
	case ihexRecData:
		base := *hi + uint32(addr)
		for i, b := range data {
			mem[uint16(base+uint32(i))] = b
		}
	case ihexRecEOF:
		return true, nil
	case ihexRecExtendedLinearAddr:
		if count != 2 {
			return false, fmt.Errorf("record %q: extended linear address needs 2 data bytes", line)
		}
		*hi = (uint32(data[0])<<8 | uint32(data[1])) << 16
	case ihexRecExtendedSegmentAddr:
		if count != 2 {
			return false, fmt.Errorf("record %q: extended segment address needs 2 data bytes", line)
		}
		*hi = (uint32(data[0])<<8 | uint32(data[1])) << 4
	}
	return false, nil
}

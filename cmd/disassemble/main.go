// disassemble loads a raw memory image and disassembles it to stdout
// starting at the first instruction.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go8080/i8080/disassemble"
)

var (
	startPC = flag.Int("start_pc", 0x0000, "PC value to start disassembling")
	offset  = flag.Int("offset", 0x0000, "Offset into the 64k image to load the file at. Everything else reads as zero.")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [-start_pc <pc>] [-offset <offset>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	b, err := os.ReadFile(fn)
	if err != nil {
		log.Fatalf("can't open %s: %v", fn, err)
	}

	max := 1<<16 - *offset
	if l := len(b); l > max {
		log.Printf("length %d at offset %d too long, truncating to 64k", l, *offset)
		b = b[:max]
	}

	var mem [65536]byte
	copy(mem[*offset:], b)

	pc := uint16(*startPC)
	fmt.Printf("0x%X bytes loaded at offset 0x%04X, disassembling from 0x%04X\n", len(b), *offset, pc)

	cnt := 0
	for cnt < len(b) {
		text, length := disassemble.Step(pc, &mem)
		fmt.Printf("%04X: %s\n", pc, text)
		pc += uint16(length)
		cnt += length
	}
}

// Package memory defines the address-map helpers boards use to describe
// ROM windows into an i8080 CPU's flat 64 KiB address space, and a small
// helper for loading program images into it.
//
// The CPU owns its memory directly (a plain [65536]byte array — see the cpu
// package); this package only builds the data boards hand to
// cpu.CPU.SetROM describing which regions of that array reject writes.
package memory

import "fmt"

// Region is a half-open byte range [Begin, End) of the 64 KiB address space.
// Stores whose target address falls in a Region are silently dropped.
type Region struct {
	Begin, End uint16
}

// Contains reports whether addr falls inside the region.
func (r Region) Contains(addr uint16) bool {
	return addr >= r.Begin && addr < r.End
}

// Map is an ordered list of Regions. The zero Map contains no ROM and
// rejects no stores.
type Map []Region

// Contains reports whether addr falls inside any region of the map.
func (m Map) Contains(addr uint16) bool {
	for _, r := range m {
		if r.Contains(addr) {
			return true
		}
	}
	return false
}

// NewMap builds a Map from the given regions, validating that each is a
// proper half-open range (Begin <= End) within the 16 bit address space.
// The sentinel {0,0} terminator from the C original's array-of-structs
// convention isn't needed here; a Go slice already carries its own length.
func NewMap(regions ...Region) (Map, error) {
	for i, r := range regions {
		if r.Begin > r.End {
			return nil, fmt.Errorf("memory: region %d has begin 0x%04X after end 0x%04X", i, r.Begin, r.End)
		}
	}
	return Map(regions), nil
}

// Image is a named chip dump or binary blob destined for a fixed offset in
// the 64 KiB address space, as arcade boards load them (Space Invaders
// ships as four separate chips at 0x0000/0x0800/0x1000/0x1800).
type Image struct {
	Offset uint16
	Data   []byte
}

// Flatten lays out a set of Images into one 64 KiB buffer, in the order
// given. Overlapping images overwrite earlier ones at the overlap. It
// returns an error if any image runs past the end of the address space.
func Flatten(images ...Image) ([65536]byte, error) {
	var out [65536]byte
	for i, img := range images {
		end := int(img.Offset) + len(img.Data)
		if end > len(out) {
			return out, fmt.Errorf("memory: image %d of %d bytes at offset 0x%04X overruns 64k", i, len(img.Data), img.Offset)
		}
		copy(out[img.Offset:end], img.Data)
	}
	return out, nil
}

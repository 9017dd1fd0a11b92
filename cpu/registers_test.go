package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPairPacking(t *testing.T) {
	c := &CPU{B: 0x12, C: 0x34, D: 0x56, E: 0x78, H: 0x9A, L: 0xBC}
	assert.Equal(t, uint16(0x1234), c.BC())
	assert.Equal(t, uint16(0x5678), c.DE())
	assert.Equal(t, uint16(0x9ABC), c.HL())
}

func TestSetBCDEHLRoundTrip(t *testing.T) {
	c := &CPU{}
	c.SetBC(0xBEEF)
	c.SetDE(0xCAFE)
	c.SetHL(0xF00D)
	assert.Equal(t, uint16(0xBEEF), c.BC())
	assert.Equal(t, uint16(0xCAFE), c.DE())
	assert.Equal(t, uint16(0xF00D), c.HL())
}

func TestPSWPacksAFWithReservedBits(t *testing.T) {
	c, err := Init(ioportNoneForTest{})
	assert.NoError(t, err)
	c.A = 0x42
	c.setFlags(flagsSZAPC, FlagZ|FlagP)
	psw := c.PSW()
	assert.Equal(t, uint8(0x42), uint8(psw>>8))
	assert.Equal(t, c.F, uint8(psw))
}

package shaderinfo

import (
	"encoding/binary"
	"fmt"
)

const (
	spirvMagic      = 0x07230203
	spirvHeaderSize = 5

	opDecorate      = 71
	decorationIndex = 32
)

// DualSourceSPIRV reports whether a SPIR-V module decorates an output with
// Index 1, the second source of dual-source blending.
func DualSourceSPIRV(spv []byte) (bool, error) {
	if len(spv)%4 != 0 || len(spv) < spirvHeaderSize*4 {
		return false, fmt.Errorf("%w: %d bytes", ErrInvalidSPIRV, len(spv))
	}
	word := func(i int) uint32 { return binary.LittleEndian.Uint32(spv[i*4:]) }
	if word(0) != spirvMagic {
		return false, fmt.Errorf("%w: bad magic %#x", ErrInvalidSPIRV, word(0))
	}

	n := len(spv) / 4
	for i := spirvHeaderSize; i < n; {
		inst := word(i)
		count, op := int(inst>>16), inst&0xffff
		if count == 0 || i+count > n {
			return false, fmt.Errorf("%w: instruction at word %d", ErrInvalidSPIRV, i)
		}
		// OpDecorate target decoration literal
		if op == opDecorate && count >= 4 && word(i+2) == decorationIndex && word(i+3) == 1 {
			return true, nil
		}
		i += count
	}
	return false, nil
}

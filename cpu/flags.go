package cpu

import "gone/mask"

// setFlagBit returns b with the single bit at pos set if on is true, or
// cleared otherwise. It is the bridge between Flags' named booleans and the
// packed NV1BDIZC status byte used by PHP, PLP, BRK and RTI.
func setFlagBit(b byte, pos mask.ByteIndex, on bool) byte {
	if on {
		return mask.Set(b, pos, 1)
	}
	return mask.Unset(b, pos, pos)
}

// isFlagBitSet reports whether the single bit at pos is set in b.
func isFlagBitSet(b byte, pos mask.ByteIndex) bool {
	return mask.IsSet(b, pos)
}

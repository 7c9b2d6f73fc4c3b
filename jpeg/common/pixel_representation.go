package common

// DICOM frames may carry signed samples (PixelRepresentation = 1). Baseline
// JPEG codes unsigned 8-bit samples, so signed frames are moved into the
// unsigned range before encoding and back after decoding.

// ShiftSignedToUnsigned8 returns a copy of pixelData with every signed sample
// moved up by 2^(bitsStored-1), e.g. -128..127 becomes 0..255.
func ShiftSignedToUnsigned8(pixelData []byte, bitsStored int) []byte {
	out := make([]byte, len(pixelData))
	if bitsStored <= 0 || bitsStored > 8 {
		copy(out, pixelData)
		return out
	}

	mask := int32(1)<<bitsStored - 1
	offset := int32(1) << (bitsStored - 1)
	for i, b := range pixelData {
		val := int32(b) & mask
		if val >= offset {
			val -= 1 << bitsStored
		}
		out[i] = byte(val + offset)
	}
	return out
}

// ShiftUnsignedToSigned8 reverses ShiftSignedToUnsigned8. Negative results are
// stored in two's complement with the bits above bitsStored set.
func ShiftUnsignedToSigned8(pixelData []byte, bitsStored int) []byte {
	out := make([]byte, len(pixelData))
	if bitsStored <= 0 || bitsStored > 8 {
		copy(out, pixelData)
		return out
	}

	maxUnsigned := int32(1)<<bitsStored - 1
	offset := int32(1) << (bitsStored - 1)
	for i, b := range pixelData {
		val := int32(b)
		if val > maxUnsigned {
			val = maxUnsigned
		}
		out[i] = byte(int8(val - offset))
	}
	return out
}

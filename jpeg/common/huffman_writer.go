package common

// AppendHuffmanTable appends one DHT table entry to dst: the class/id byte,
// the 16 code-length counts and the symbols.
// class: 0 for DC, 1 for AC
// id: table ID (0 or 1)
func AppendHuffmanTable(dst []byte, class, id byte, spec *HuffmanSpec) []byte {
	dst = append(dst, class<<4|id)
	dst = append(dst, spec.Bits[:]...)
	return append(dst, spec.Values[:spec.Count()]...)
}

// StandardDHT returns the payload of a DHT segment holding the four standard
// tables in the order DC 0, AC 0, DC 1, AC 1.
func StandardDHT() []byte {
	specs := StandardHuffmanSpecs()
	data := make([]byte, 0, 416)
	for _, id := range []byte{0, 1} {
		data = AppendHuffmanTable(data, 0, id, specs[id])
		data = AppendHuffmanTable(data, 1, id, specs[2+id])
	}
	return data
}

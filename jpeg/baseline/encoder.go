package baseline

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
	"github.com/cocosip/go-dicom-jpeg/jpeg/standard"
)

// jfifHeader is the APP0 payload: JFIF 1.1, no units, 1:1 density, no thumbnail.
var jfifHeader = []byte{'J', 'F', 'I', 'F', 0, 1, 1, 0, 0, 1, 0, 1, 0, 0}

// Encoder represents a JPEG Baseline encoder
type Encoder struct {
	width      int
	height     int
	components int
	pixels     []byte

	qtables  [2][64]uint8 // natural order
	fdct     [2]*common.FDCTTable
	dcCodes  [2]*common.HuffmanEncodeTable
	acCodes  [2]*common.HuffmanEncodeTable
	dcPred   [3]int32
	quantOut [64]int32
}

// Encode encodes pixel data to JPEG Baseline format
// components: 1 for grayscale, 3 for RGB, 4 for RGBA (alpha is ignored)
// quality: 1-100, where 100 is best quality; values <= 0 select 90
func Encode(pixelData []byte, width, height, components, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, pixelData, width, height, components, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo encodes pixel data as a 4:4:4 baseline JPEG and writes it to w.
// Output reaches w in chunks of standard.BufferSize bytes.
func EncodeTo(w io.Writer, pixelData []byte, width, height, components, quality int) error {
	if w == nil {
		return fmt.Errorf("%w: nil writer", common.ErrInvalidArgument)
	}
	if components != 1 && components != 3 && components != 4 {
		return fmt.Errorf("%w: %d components", common.ErrInvalidArgument, components)
	}
	if width <= 0 || height <= 0 || width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("%w: dimensions %dx%d", common.ErrInvalidArgument, width, height)
	}
	if len(pixelData) < width*height*components {
		return fmt.Errorf("%w: %d bytes of pixel data, need %d", common.ErrInvalidArgument,
			len(pixelData), width*height*components)
	}

	quality = common.ClampQuality(quality)
	enc := &Encoder{
		width:      width,
		height:     height,
		components: components,
		pixels:     pixelData,
	}

	enc.qtables[0] = common.ScaleQuantTable(&common.DefaultLuminanceQuantTable, quality)
	enc.qtables[1] = common.ScaleQuantTable(&common.DefaultChrominanceQuantTable, quality)
	for i := range enc.qtables {
		enc.fdct[i] = common.NewFDCTTable(&enc.qtables[i])
		enc.dcCodes[i] = common.StandardHuffmanEncodeTable(i)
		enc.acCodes[i] = common.StandardHuffmanEncodeTable(2 + i)
	}

	writer := standard.NewWriter(w)

	// Write SOI and the JFIF APP0 segment
	if err := writer.WriteMarker(common.MarkerSOI); err != nil {
		return err
	}
	if err := writer.WriteSegment(common.MarkerAPP0, jfifHeader); err != nil {
		return err
	}

	if err := enc.writeDQT(writer); err != nil {
		return err
	}
	if err := enc.writeSOF0(writer); err != nil {
		return err
	}
	if err := enc.writeDHT(writer); err != nil {
		return err
	}
	if err := enc.writeSOS(writer); err != nil {
		return err
	}

	if err := writer.WriteMarker(common.MarkerEOI); err != nil {
		return err
	}
	return writer.Flush()
}

// writeDQT writes both quantization tables in one segment
func (enc *Encoder) writeDQT(writer *standard.Writer) error {
	data := make([]byte, 0, 2*65)
	for i := range enc.qtables {
		data = append(data, byte(i)) // Precision=0 (8-bit), Table ID=i
		// Write in zigzag order
		for j := 0; j < 64; j++ {
			data = append(data, enc.qtables[i][common.ZigZag[j]])
		}
	}
	return writer.WriteSegment(common.MarkerDQT, data)
}

// writeSOF0 writes Start of Frame (Baseline DCT). The frame is always
// three components without subsampling.
func (enc *Encoder) writeSOF0(writer *standard.Writer) error {
	data := []byte{
		8, // Precision
		byte(enc.height >> 8), byte(enc.height),
		byte(enc.width >> 8), byte(enc.width),
		3,
		1, 0x11, 0, // Y
		2, 0x11, 1, // Cb
		3, 0x11, 1, // Cr
	}
	return writer.WriteSegment(common.MarkerSOF0, data)
}

// writeDHT writes the four standard tables in one segment
func (enc *Encoder) writeDHT(writer *standard.Writer) error {
	return writer.WriteSegment(common.MarkerDHT, common.StandardDHT())
}

// writeSOS writes Start of Scan followed by the entropy-coded data
func (enc *Encoder) writeSOS(writer *standard.Writer) error {
	data := []byte{
		3,
		1, 0x00, // Y: DC 0, AC 0
		2, 0x11, // Cb: DC 1, AC 1
		3, 0x11, // Cr: DC 1, AC 1
		0, 63, 0, // Ss, Se, Ah/Al
	}
	if err := writer.WriteSegment(common.MarkerSOS, data); err != nil {
		return err
	}

	bw := standard.NewBitWriter(writer)
	var planes [3][64]float32
	for by := 0; by < enc.height; by += 8 {
		for bx := 0; bx < enc.width; bx += 8 {
			enc.loadTile(bx, by, &planes)
			for c := range planes {
				t := 0
				if c > 0 {
					t = 1
				}
				if err := enc.encodeBlock(bw, &planes[c], t, c); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}

// loadTile converts the 8x8 tile at (bx, by) to level-shifted Y, Cb and Cr,
// replicating the last row and column past the image edge.
func (enc *Encoder) loadTile(bx, by int, planes *[3][64]float32) {
	ofsG, ofsB := 1, 2
	if enc.components == 1 {
		ofsG, ofsB = 0, 0
	}

	for y := 0; y < 8; y++ {
		sy := min(by+y, enc.height-1)
		for x := 0; x < 8; x++ {
			sx := min(bx+x, enc.width-1)
			p := (sy*enc.width + sx) * enc.components
			r := float32(enc.pixels[p])
			g := float32(enc.pixels[p+ofsG])
			b := float32(enc.pixels[p+ofsB])

			i := y*8 + x
			planes[0][i] = 0.299*r + 0.587*g + 0.114*b - 128
			planes[1][i] = -0.16874*r - 0.33126*g + 0.5*b
			planes[2][i] = 0.5*r - 0.41869*g - 0.08131*b
		}
	}
}

// encodeBlock transforms, quantizes with table t and entropy codes one
// block of component c.
func (enc *Encoder) encodeBlock(bw *standard.BitWriter, block *[64]float32, t, c int) error {
	common.FDCT(block)
	common.Quantize(block, enc.fdct[t], &enc.quantOut)
	return standard.EncodeBlock(bw, &enc.quantOut, &enc.dcPred[c], enc.dcCodes[t], enc.acCodes[t])
}

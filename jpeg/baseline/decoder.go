package baseline

import (
	"errors"
	"fmt"
	"io"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
	"github.com/cocosip/go-dicom-jpeg/jpeg/standard"
)

// Sampling is the chroma layout of a baseline frame.
type Sampling int

const (
	SamplingGray Sampling = iota // luma only
	Sampling444                  // 1x1 luma per chroma block
	Sampling422                  // 2x1
	Sampling420                  // 2x2
)

func (s Sampling) String() string {
	switch s {
	case SamplingGray:
		return "gray"
	case Sampling444:
		return "4:4:4"
	case Sampling422:
		return "4:2:2"
	case Sampling420:
		return "4:2:0"
	}
	return fmt.Sprintf("Sampling(%d)", int(s))
}

// BlocksPerMCU returns the number of 8x8 blocks in one MCU.
func (s Sampling) BlocksPerMCU() int {
	switch s {
	case Sampling420:
		return 6
	case Sampling422:
		return 4
	case Sampling444:
		return 3
	}
	return 1
}

// mcuSize returns the MCU footprint in pixels.
func (s Sampling) mcuSize() (w, h int) {
	switch s {
	case Sampling420:
		return 16, 16
	case Sampling422:
		return 16, 8
	}
	return 8, 8
}

// Config describes a frame as declared by its headers.
type Config struct {
	Width, Height   int
	Components      int // components declared in the frame header
	Sampling        Sampling
	RestartInterval int  // MCUs between restart markers, 0 when disabled
	CustomHuffman   bool // the stream carried at least one DHT segment
}

// Component represents a color component in the image
type Component struct {
	ID byte // Component identifier
	HV byte // Sampling factors, horizontal in the high nibble
	Tq int  // Quantization table selector
}

// scanComponent is one component of the scan with its entropy state.
type scanComponent struct {
	comp *Component
	dc   *common.HuffmanTable
	ac   *common.HuffmanTable
	dq   *common.DequantTable
	pred int32 // DC predictor
	next int   // blocks left in the MCU when the following component starts
}

// decodeState holds everything one decode call parses from the stream.
// Nothing in it outlives the call.
type decodeState struct {
	r        *standard.Reader
	quant    [4][64]uint8 // natural order
	huffman  [4]*common.HuffmanTable
	custom   bool
	width    int
	height   int
	comps    []Component
	scans    []scanComponent
	dri      int
	sampling Sampling
}

// Decoder decodes baseline JPEG streams to packed YUYV. A Decoder holds
// configuration only and may be used from several goroutines at once.
type Decoder struct {
	// Width and Height, when non-zero, pin the expected frame size.
	Width, Height int
}

// tablesError maps I/O failures inside header segments to ErrBadTables.
func tablesError(err error, what string) error {
	var kind *common.Error
	if errors.As(err, &kind) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", common.ErrBadTables, what, err)
}

func (s *decodeState) readSOI() error {
	b0, err0 := s.r.ReadByte()
	b1, err1 := s.r.ReadByte()
	if err0 != nil || err1 != nil || b0 != 0xFF || uint16(0xFF00)|uint16(b1) != common.MarkerSOI {
		return common.ErrNoSOI
	}
	return nil
}

// readTables consumes segments until the target marker, applying table
// definitions on the way.
func (s *decodeState) readTables(target uint16) error {
	for {
		marker, err := s.r.ReadMarker()
		if err != nil {
			return tablesError(err, "reading marker")
		}
		if marker == target {
			return nil
		}

		switch {
		case marker == common.MarkerDQT:
			err = s.parseDQT()
		case marker == common.MarkerDHT:
			err = s.parseDHT()
		case marker == common.MarkerDRI:
			err = s.parseDRI()
		case common.IsSOF(marker):
			if marker == common.MarkerSOF0 {
				return fmt.Errorf("%w: second frame header", common.ErrBadTables)
			}
			return fmt.Errorf("%w: %s", common.ErrNotSequentialDCT, common.MarkerName(marker))
		case marker == common.MarkerEOI || marker == common.MarkerSOS:
			return fmt.Errorf("%w: unexpected %s", common.ErrBadTables, common.MarkerName(marker))
		case common.HasLength(marker):
			var n int
			if n, err = s.r.ReadLength(); err == nil {
				err = s.r.Skip(n)
			}
		}
		if err != nil {
			return tablesError(err, common.MarkerName(marker))
		}
	}
}

// parseDQT parses Define Quantization Table marker
func (s *decodeState) parseDQT() error {
	data, err := s.r.ReadSegment()
	if err != nil {
		return err
	}

	for offset := 0; offset < len(data); offset += 65 {
		pq := data[offset] >> 4   // Precision (0=8-bit)
		tq := data[offset] & 0x0F // Table ID
		if pq != 0 || tq > 3 {
			return fmt.Errorf("%w: quantization table %d precision %d", common.ErrBadTables, tq, pq)
		}
		if offset+65 > len(data) {
			return fmt.Errorf("%w: short quantization table", common.ErrBadTables)
		}
		// Values arrive in zigzag order
		for i := 0; i < 64; i++ {
			s.quant[tq][common.ZigZag[i]] = data[offset+1+i]
		}
	}
	return nil
}

// parseDHT parses Define Huffman Table marker
func (s *decodeState) parseDHT() error {
	data, err := s.r.ReadSegment()
	if err != nil {
		return err
	}

	offset := 0
	for offset < len(data) {
		tc := data[offset] >> 4   // Table class (0=DC, 1=AC)
		th := data[offset] & 0x0F // Table ID
		if tc > 1 || th > 1 {
			return fmt.Errorf("%w: huffman table class %d id %d", common.ErrBadTables, tc, th)
		}
		offset++

		if offset+16 > len(data) {
			return fmt.Errorf("%w: short huffman table", common.ErrBadTables)
		}
		spec := &common.HuffmanSpec{}
		copy(spec.Bits[:], data[offset:offset+16])
		offset += 16

		n := spec.Count()
		if offset+n > len(data) {
			return fmt.Errorf("%w: huffman table lists %d symbols past segment end", common.ErrBadTables, n)
		}
		spec.Values = data[offset : offset+n]
		offset += n

		table, err := common.NewHuffmanTable(spec)
		if err != nil {
			return err
		}
		s.huffman[int(tc)*2+int(th)] = table
		s.custom = true
	}
	return nil
}

// parseDRI parses Define Restart Interval marker
func (s *decodeState) parseDRI() error {
	data, err := s.r.ReadSegment()
	if err != nil {
		return err
	}
	if len(data) < 2 {
		return fmt.Errorf("%w: short restart interval", common.ErrBadTables)
	}
	s.dri = int(data[0])<<8 | int(data[1])
	return nil
}

// parseSOF parses the baseline frame header and validates it in stream order.
func (s *decodeState) parseSOF(expectW, expectH int) error {
	data, err := s.r.ReadSegment()
	if err != nil {
		return tablesError(err, "frame header")
	}
	if len(data) < 6 {
		return fmt.Errorf("%w: short frame header", common.ErrBadTables)
	}

	if data[0] != 8 {
		return fmt.Errorf("%w: precision %d", common.ErrNot8Bit, data[0])
	}

	s.height = int(data[1])<<8 | int(data[2])
	s.width = int(data[3])<<8 | int(data[4])
	if s.width == 0 || s.height == 0 || s.width&7 != 0 || s.height&7 != 0 {
		return fmt.Errorf("%w: %dx%d", common.ErrBadWidthOrHeight, s.width, s.height)
	}
	if expectH != 0 && expectH != s.height {
		return fmt.Errorf("%w: frame %d, expected %d", common.ErrHeightMismatch, s.height, expectH)
	}
	if expectW != 0 && expectW != s.width {
		return fmt.Errorf("%w: frame %d, expected %d", common.ErrWidthMismatch, s.width, expectW)
	}

	nc := int(data[5])
	if nc > 4 {
		return fmt.Errorf("%w: %d", common.ErrTooManyComponents, nc)
	}
	if len(data) < 6+nc*3 {
		return fmt.Errorf("%w: short frame header", common.ErrBadTables)
	}

	s.comps = make([]Component, nc)
	for i := range s.comps {
		c := &s.comps[i]
		c.ID = data[6+i*3]
		c.HV = data[7+i*3]
		c.Tq = int(data[8+i*3])
		if c.HV>>4 > 3 || c.HV&15 > 3 {
			return fmt.Errorf("%w: component %d has 0x%02X", common.ErrIllegalHV, c.ID, c.HV)
		}
		if c.Tq > 3 {
			return fmt.Errorf("%w: component %d quantization table %d", common.ErrQuantTableSelector, c.ID, c.Tq)
		}
	}
	return nil
}

// parseSOS parses the scan header, binds tables to the scan components and
// detects the chroma layout.
func (s *decodeState) parseSOS() error {
	data, err := s.r.ReadSegment()
	if err != nil {
		return tablesError(err, "scan header")
	}
	if len(data) < 1 {
		return fmt.Errorf("%w: empty scan header", common.ErrBadTables)
	}

	ns := int(data[0])
	if ns != 1 && ns != 3 {
		return fmt.Errorf("%w: %d components in scan", common.ErrNotYCbCr221111, ns)
	}
	if len(data) < 1+ns*2+3 {
		return fmt.Errorf("%w: short scan header", common.ErrBadTables)
	}

	s.scans = make([]scanComponent, ns)
	for i := range s.scans {
		cid := data[1+i*2]
		tdc := int(data[2+i*2] >> 4)
		tac := int(data[2+i*2] & 15)
		if tdc > 1 || tac > 1 {
			return fmt.Errorf("%w: huffman tables %d/%d", common.ErrQuantTableSelector, tdc, tac)
		}

		var comp *Component
		for j := range s.comps {
			if s.comps[j].ID == cid {
				comp = &s.comps[j]
				break
			}
		}
		if comp == nil {
			return fmt.Errorf("%w: %d", common.ErrUnknownCIDInScan, cid)
		}

		s.scans[i] = scanComponent{
			comp: comp,
			dc:   s.table(0, tdc),
			ac:   s.table(1, tac),
			next: 2 - i,
		}
	}

	ss, se, ahal := data[1+ns*2], data[2+ns*2], data[3+ns*2]
	if ss != 0 || se != 63 || ahal != 0 {
		return fmt.Errorf("%w: spectral selection %d..%d, approximation 0x%02X", common.ErrNotSequentialDCT, ss, se, ahal)
	}

	hv := s.scans[0].comp.HV
	if ns == 1 {
		// a single-component scan is not interleaved, its blocks come in raster order
		if hv != 0x11 && hv != 0x21 && hv != 0x22 {
			return fmt.Errorf("%w: luma sampling 0x%02X", common.ErrNotYCbCr221111, hv)
		}
		s.sampling = SamplingGray
	} else {
		switch hv {
		case 0x11:
			s.sampling = Sampling444
		case 0x21:
			s.sampling = Sampling422
		case 0x22:
			s.sampling = Sampling420
		default:
			return fmt.Errorf("%w: luma sampling 0x%02X", common.ErrNotYCbCr221111, hv)
		}
		if s.scans[1].comp.HV != 0x11 || s.scans[2].comp.HV != 0x11 {
			return fmt.Errorf("%w: chroma sampling 0x%02X/0x%02X", common.ErrNotYCbCr221111,
				s.scans[1].comp.HV, s.scans[2].comp.HV)
		}
	}

	for i := range s.scans {
		s.scans[i].dq = common.NewDequantTable(&s.quant[s.scans[i].comp.Tq])
	}
	return nil
}

// table returns the Huffman table of a class and destination. Slots the
// stream never defined get the standard baseline table.
func (s *decodeState) table(class, id int) *common.HuffmanTable {
	slot := class*2 + id
	if s.huffman[slot] == nil {
		s.huffman[slot] = common.StandardHuffmanTable(slot)
	}
	return s.huffman[slot]
}

// readHeaders runs every header step up to the first byte of entropy data.
func (d *Decoder) readHeaders(r *standard.Reader) (*decodeState, error) {
	s := &decodeState{r: r}
	if err := s.readSOI(); err != nil {
		return nil, err
	}
	if err := s.readTables(common.MarkerSOF0); err != nil {
		return nil, err
	}
	if err := s.parseSOF(d.Width, d.Height); err != nil {
		return nil, err
	}
	if err := s.readTables(common.MarkerSOS); err != nil {
		return nil, err
	}
	if err := s.parseSOS(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *decodeState) config() Config {
	return Config{
		Width:           s.width,
		Height:          s.height,
		Components:      len(s.comps),
		Sampling:        s.sampling,
		RestartInterval: s.dri,
		CustomHuffman:   s.custom,
	}
}

// DecodeConfig parses and validates the headers of a baseline stream without
// decoding entropy data.
func DecodeConfig(r io.Reader) (Config, error) {
	var d Decoder
	s, err := d.readHeaders(standard.NewReader(r))
	if err != nil {
		return Config{}, err
	}
	return s.config(), nil
}

// Decode decodes one image from r into img.
//
// img.Pix is reused when its length already matches the frame, otherwise a
// new buffer is allocated. On error the fields of img are left unchanged,
// although a reused Pix may hold a partially decoded frame.
func (d *Decoder) Decode(r io.Reader, img *Image) error {
	return d.decode(standard.NewReader(r), img)
}

// DecodeBytes decodes one in-memory image into img. See Decode.
func (d *Decoder) DecodeBytes(data []byte, img *Image) error {
	return d.decode(standard.NewBytesReader(data), img)
}

func (d *Decoder) decode(r *standard.Reader, img *Image) error {
	if img == nil {
		return common.ErrInvalidArgument
	}

	s, err := d.readHeaders(r)
	if err != nil {
		return err
	}

	size := s.width * s.height * 2
	pix := img.Pix
	if len(pix) != size {
		pix = make([]byte, size)
	}

	if err := s.decodeScan(pix); err != nil {
		return err
	}

	*img = Image{
		Pix:        pix,
		Width:      s.width,
		Height:     s.height,
		Components: len(s.comps),
		Sampling:   s.sampling,
	}
	return nil
}

// DecodeYUYV decodes an in-memory baseline stream to a packed YUYV image.
func DecodeYUYV(data []byte) (*Image, error) {
	var d Decoder
	img := &Image{}
	if err := d.DecodeBytes(data, img); err != nil {
		return nil, err
	}
	return img, nil
}

// Decode decodes JPEG Baseline data to interleaved RGB, or to gray
// samples when the frame has a single component.
func Decode(jpegData []byte) (pixelData []byte, width, height, components int, err error) {
	img, err := DecodeYUYV(jpegData)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	if img.Sampling == SamplingGray {
		return img.Gray(), img.Width, img.Height, 1, nil
	}
	return img.RGB(), img.Width, img.Height, 3, nil
}

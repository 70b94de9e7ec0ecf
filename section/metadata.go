package section

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/navdb/encoding"
	"github.com/arloliu/navdb/endian"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/ir"
)

const (
	defaultPreambleLength = 128
	partNumberLength      = 16
	coverageRegionLength  = 30
	coverageRegionPad     = 25
	copyrightLineLength   = 25
	metadataZeroRunLength = 65
)

var errNonZero = errors.New("non-zero byte")

var defaultPreamble = func() []byte {
	p := make([]byte, defaultPreambleLength)
	for i := range p {
		p[i] = byte(i)
	}

	return p
}()

// MetadataSection is the 512-byte block at the start of the container. It has
// no table of contents entry.
type MetadataSection struct {
	base
	meta ir.Metadata
}

var errPadding = errors.New("padding after the terminator is not spaces")

// readTerminated returns the Latin-1 text before the NUL in b. The bytes after
// the NUL must be the spaces putTerminated writes.
func readTerminated(b []byte) (string, error) {
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return "", errors.New("missing NUL terminator")
	}
	if len(bytes.Trim(b[end+1:], " ")) != 0 {
		return "", errPadding
	}

	return encoding.DecodeLatin1(b[:end]), nil
}

func readDate(r *endian.Reader) (ir.Date, error) {
	month, err := r.Uint8()
	if err != nil {
		return ir.Date{}, err
	}
	day, err := r.Uint8()
	if err != nil {
		return ir.Date{}, err
	}
	year, err := r.Uint16()
	if err != nil {
		return ir.Date{}, err
	}

	return ir.Date{Year: year, Month: month, Day: day}, nil
}

// DecodeMetadata parses the metadata block at the start of file.
//
// Parameters:
//   - file: The container; only the first MetadataSize bytes are read
//
// Returns:
//   - *MetadataSection: The parsed block
//   - error: errs.ErrMalformedContainer when the block is short, a zero run
//     holds data or a text field is not NUL-terminated and space-padded
func DecodeMetadata(file []byte) (*MetadataSection, error) {
	if len(file) < MetadataSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for the metadata block", errs.ErrMalformedContainer, len(file))
	}

	var (
		m   ir.Metadata
		err error
	)
	r := endian.NewReader(file[:MetadataSize])
	fail := func(field string, err error) (*MetadataSection, error) {
		return nil, fmt.Errorf("%w: metadata %s: %v", errs.ErrMalformedContainer, field, err)
	}

	preambleLength, _ := r.Uint8()
	preamble, _ := r.Bytes(int(preambleLength))
	if !bytes.Equal(preamble, defaultPreamble) {
		m.Preamble = append([]byte{}, preamble...)
	}

	if m.CycleNumber, err = r.Int16(); err != nil {
		return fail("cycle number", err)
	}
	for _, d := range []*ir.Date{&m.EffectiveDate, &m.ExpiresDate, &m.SnapshotDate} {
		if *d, err = readDate(r); err != nil {
			return fail("date", err)
		}
	}
	if m.Unknown1, err = r.Uint8(); err != nil {
		return fail("unknown 1", err)
	}
	if m.Unknown2, err = r.Uint16(); err != nil {
		return fail("unknown 2", err)
	}
	if m.Unknown3, err = r.Uint8(); err != nil {
		return fail("unknown 3", err)
	}

	part, err := r.Bytes(encoding.SixBitEncodedSize(partNumberLength))
	if err != nil {
		return fail("part number", err)
	}
	text, err := encoding.SimpleSixBit.Decode(part)
	if err != nil {
		return fail("part number", err)
	}
	m.PartNumber = strings.TrimRight(text, " ")

	for _, f := range []struct {
		name  string
		dst   *string
		width int
	}{
		{"coverage region", &m.CoverageRegion, coverageRegionLength},
		{"copyright line 1", &m.CopyrightLine1, copyrightLineLength},
		{"copyright line 2", &m.CopyrightLine2, copyrightLineLength},
	} {
		b, err := r.Bytes(f.width)
		if err != nil {
			return fail(f.name, err)
		}
		if *f.dst, err = readTerminated(b); err != nil {
			return fail(f.name, err)
		}
	}
	// Serialize pads the coverage region with spaces to coverageRegionPad.
	switch n := encoding.Latin1Len(m.CoverageRegion); {
	case n < coverageRegionPad:
		return fail("coverage region", fmt.Errorf("%d characters, want at least %d", n, coverageRegionPad))
	case n == coverageRegionPad:
		m.CoverageRegion = strings.TrimRight(m.CoverageRegion, " ")
	}

	if m.Unknown4, err = r.Uint8(); err != nil {
		return fail("unknown 4", err)
	}
	zeros, err := r.Bytes(metadataZeroRunLength)
	if err != nil {
		return fail("zero run", err)
	}
	if !allZero(zeros) {
		return fail("zero run", errNonZero)
	}
	if m.Unknown5, err = r.Uint8(); err != nil {
		return fail("unknown 5", err)
	}
	rest, _ := r.Bytes(r.Remaining())
	if !allZero(rest) {
		return fail("trailer", errNonZero)
	}

	return &MetadataSection{base: base{id: Metadata}, meta: m}, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}

	return true
}

func metadataFromIR(doc *ir.NavigationData) *MetadataSection {
	m := doc.Metadata
	m.Preamble = append([]byte(nil), doc.Metadata.Preamble...)

	return &MetadataSection{base: base{id: Metadata}, meta: m}
}

// Metadata returns a copy of the parsed block.
func (s *MetadataSection) Metadata() ir.Metadata {
	return s.meta
}

func (s *MetadataSection) MergeToIR(_ *Catalog, doc *ir.NavigationData) error {
	doc.Metadata = s.meta
	return nil
}

// putTerminated writes text, a NUL and spaces up to width.
func putTerminated(w *endian.Writer, field, text string, width int) error {
	b, err := encoding.EncodeLatin1(text)
	if err != nil {
		return fmt.Errorf("metadata %s: %w", field, err)
	}
	if len(b)+1 > width {
		return fmt.Errorf("%w: metadata %s %q exceeds %d bytes", errs.ErrOutOfRange, field, text, width-1)
	}
	w.Write(b)
	w.PutUint8(0)
	w.Write(bytes.Repeat([]byte{' '}, width-len(b)-1))

	return nil
}

func (s *MetadataSection) Serialize(*Catalog) (Output, error) {
	m := s.meta
	w := endian.NewWriter(MetadataSize)
	defer w.Release()

	preamble := m.Preamble
	if preamble == nil {
		preamble = defaultPreamble
	}
	if len(preamble) > 0xff {
		return Output{}, fmt.Errorf("%w: metadata preamble of %d bytes", errs.ErrOutOfRange, len(preamble))
	}
	w.PutUint8(uint8(len(preamble)))
	w.Write(preamble)

	w.PutUint16(uint16(m.CycleNumber)) //nolint:gosec
	for _, d := range []ir.Date{m.EffectiveDate, m.ExpiresDate, m.SnapshotDate} {
		w.PutUint8(d.Month)
		w.PutUint8(d.Day)
		w.PutUint16(d.Year)
	}
	w.PutUint8(m.Unknown1)
	w.PutUint16(m.Unknown2)
	w.PutUint8(m.Unknown3)

	if len(m.PartNumber) > partNumberLength {
		return Output{}, fmt.Errorf("%w: part number %q exceeds %d characters", errs.ErrOutOfRange, m.PartNumber, partNumberLength)
	}
	part, err := encoding.SimpleSixBit.Encode(m.PartNumber + strings.Repeat(" ", partNumberLength-len(m.PartNumber)))
	if err != nil {
		return Output{}, fmt.Errorf("metadata part number: %w", err)
	}
	w.Write(part)

	coverage := m.CoverageRegion
	if n := encoding.Latin1Len(coverage); n < coverageRegionPad {
		coverage += strings.Repeat(" ", coverageRegionPad-n)
	}
	if err := putTerminated(w, "coverage region", coverage, coverageRegionLength); err != nil {
		return Output{}, err
	}
	if err := putTerminated(w, "copyright line 1", m.CopyrightLine1, copyrightLineLength); err != nil {
		return Output{}, err
	}
	if err := putTerminated(w, "copyright line 2", m.CopyrightLine2, copyrightLineLength); err != nil {
		return Output{}, err
	}

	w.PutUint8(m.Unknown4)
	w.Zero(metadataZeroRunLength)
	w.PutUint8(m.Unknown5)
	if w.Len() > MetadataSize {
		return Output{}, fmt.Errorf("%w: metadata needs %d bytes, block holds %d", errs.ErrOutOfRange, w.Len(), MetadataSize)
	}
	w.Zero(MetadataSize - w.Len())

	return Output{Data: w.Bytes(), ItemLength: 1, ItemQuantity: MetadataSize}, nil
}

func (s *MetadataSection) String() string {
	m := s.meta
	date := func(d ir.Date) string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day) }

	return fmt.Sprintf("cycle %d, effective %s, expires %s, snapshot %s\npart number %s, coverage %s\n%s\n%s",
		m.CycleNumber, date(m.EffectiveDate), date(m.ExpiresDate), date(m.SnapshotDate),
		m.PartNumber, m.CoverageRegion, m.CopyrightLine1, m.CopyrightLine2)
}

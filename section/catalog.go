package section

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/internal/logging"
	"github.com/arloliu/navdb/internal/options"
	"github.com/arloliu/navdb/internal/pool"
	"github.com/arloliu/navdb/ir"
)

type config struct {
	logger       *slog.Logger
	sectionOrder []ID
}

// Option configures DecodeCatalog and BuildCatalog.
type Option = options.Option[*config]

// WithLogger sets the logger that receives per-section progress. The default
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithSectionOrder sets the physical section order used by MarshalBinary in
// place of the order recorded in the IR. Sections missing from order follow in
// the default order.
func WithSectionOrder(order []ID) Option {
	return options.New(func(c *config) error {
		seen := make(map[ID]bool, len(order))
		for _, id := range order {
			if !id.InTOC() {
				return fmt.Errorf("%w: section %d in section order", errs.ErrInvalidIR, int(id))
			}
			if seen[id] {
				return fmt.Errorf("%w: section %d appears twice in section order", errs.ErrInvalidIR, int(id))
			}
			seen[id] = true
		}
		c.sectionOrder = append([]ID(nil), order...)

		return nil
	})
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{logger: logging.Discard()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Catalog is the set of typed sections of one container.
type Catalog struct {
	metadata *MetadataSection
	toc      *TableOfContentsSection
	sections map[ID]Section
	cfg      *config
}

// DecodeCatalog decodes every section of a container.
//
// Sections are decoded in DefaultSectionOrder so that the sections a codec
// consults (data lengths, strings, details) are available when it runs. Each
// section must start where the previous one in the file ended and its codec
// must consume all of its bytes.
//
// Parameters:
//   - file: The complete container
//   - opts: WithLogger
//
// Returns:
//   - *Catalog: The decoded sections
//   - error: errs.ErrMalformedContainer and friends, wrapped in an
//     errs.SectionError naming the failing section
func DecodeCatalog(file []byte, opts ...Option) (*Catalog, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	meta, err := DecodeMetadata(file)
	if err != nil {
		return nil, errs.WrapSection(int(Metadata), "decode", err)
	}
	toc, err := DecodeTableOfContents(file)
	if err != nil {
		return nil, errs.WrapSection(int(TableOfContents), "decode", err)
	}
	c := &Catalog{metadata: meta, toc: toc, sections: make(map[ID]Section), cfg: cfg}

	cursor := ByteOffsetKey(TableOfContentsOffset + toc.NumSections()*TOCEntrySize)
	for _, e := range toc.Entries() {
		if e.FileOffset != cursor {
			return nil, errs.WrapSection(int(e.Section), "decode", fmt.Errorf(
				"%w: starts at %s, previous data ends at %s", errs.ErrMalformedContainer, e.FileOffset, cursor))
		}
		cursor = cursor.Advance(e.ActualLength)

		k, ok := registry[e.Section]
		if !ok {
			return nil, errs.WrapSection(int(e.Section), "decode", fmt.Errorf(
				"%w: no codec for section %d", errs.ErrMalformedContainer, int(e.Section)))
		}
		il, iq, fixed := k.naturalGeometry(e.ActualLength)
		if e.ActualLength != e.DeclaredLength() || (fixed && (il != e.ItemLength || iq != e.ItemQuantity)) {
			toc.setOverride(e)
		}
	}
	if int(cursor) != len(file) {
		return nil, errs.WrapSection(int(TableOfContents), "decode", fmt.Errorf(
			"%w: %d bytes after the table of contents", errs.ErrTrailingData, len(file)-int(cursor)))
	}

	for _, id := range DefaultSectionOrder {
		e, ok := toc.Entry(id)
		if !ok {
			continue
		}
		data := file[int(e.FileOffset) : int(e.FileOffset)+e.ActualLength]
		s, err := registry[id].fromBinary(c, e, data)
		if err != nil {
			return nil, errs.WrapSection(int(id), "decode", err)
		}
		c.sections[id] = s
		cfg.logger.Debug("decoded section", "section", int(id), "name", id.String(),
			"offset", int(e.FileOffset), "length", e.ActualLength)
	}
	if len(c.sections) != len(toc.Entries()) {
		return nil, errs.WrapSection(int(TableOfContents), "decode", fmt.Errorf(
			"%w: %d sections listed, %d decoded", errs.ErrMalformedContainer, len(toc.Entries()), len(c.sections)))
	}
	cfg.logger.Info("decoded container", "bytes", len(file), "sections", len(c.sections))

	return c, nil
}

// BuildCatalog creates the sections described by an IR document.
//
// Every section slot of the table of contents that is not recorded as absent
// gets a section. All sections are created first, then each merges the
// cross-section parts of the document, which populates the string, lookup,
// detail and identifier index sections from the facilities.
//
// Parameters:
//   - doc: The IR document
//   - opts: WithLogger, WithSectionOrder
//
// Returns:
//   - *Catalog: Sections ready for MarshalBinary
//   - error: errs.ErrInvalidIR and friends, wrapped in an errs.SectionError
func BuildCatalog(doc *ir.NavigationData, opts ...Option) (*Catalog, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", errs.ErrInvalidIR)
	}

	toc, err := tableOfContentsFromIR(doc)
	if err != nil {
		return nil, errs.WrapSection(int(TableOfContents), "build", err)
	}
	c := &Catalog{metadata: metadataFromIR(doc), toc: toc, sections: make(map[ID]Section), cfg: cfg}

	for _, id := range DefaultSectionOrder {
		if !toc.Writable(id) || toc.IsAbsent(id) {
			continue
		}
		s, err := registry[id].fromIR(id, doc)
		if err != nil {
			return nil, errs.WrapSection(int(id), "build", err)
		}
		c.sections[id] = s
	}
	for _, id := range DefaultSectionOrder {
		s, ok := c.sections[id]
		if !ok {
			continue
		}
		if err := s.MergeFromIR(c, doc); err != nil {
			return nil, errs.WrapSection(int(id), "merge", err)
		}
	}
	cfg.logger.Debug("built catalog", "sections", len(c.sections), "facilities", len(doc.LandingFacilities))

	return c, nil
}

// ToIR converts the catalog into an IR document.
//
// Returns:
//   - *ir.NavigationData: The document; lookup tables and unparsed sections are
//     sorted by section number
//   - error: errs.ErrUnresolvedKey when a reference points nowhere
func (c *Catalog) ToIR() (*ir.NavigationData, error) {
	doc := &ir.NavigationData{}
	if err := c.metadata.MergeToIR(c, doc); err != nil {
		return nil, errs.WrapSection(int(Metadata), "convert", err)
	}
	if err := c.toc.MergeToIR(c, doc); err != nil {
		return nil, errs.WrapSection(int(TableOfContents), "convert", err)
	}
	for _, id := range DefaultSectionOrder {
		s, ok := c.sections[id]
		if !ok {
			continue
		}
		if err := s.MergeToIR(c, doc); err != nil {
			return nil, errs.WrapSection(int(id), "convert", err)
		}
	}

	sort.Slice(doc.LookupTables, func(i, j int) bool { return doc.LookupTables[i].Section < doc.LookupTables[j].Section })
	sort.Slice(doc.UnparsedSections, func(i, j int) bool {
		return doc.UnparsedSections[i].Section < doc.UnparsedSections[j].Section
	})

	return doc, nil
}

// layout returns the physical order of the sections to write.
func (c *Catalog) layout() []ID {
	order := c.cfg.sectionOrder
	if order == nil {
		order = c.toc.Order()
	}

	out := make([]ID, 0, len(c.sections))
	placed := make(map[ID]bool, len(c.sections))
	for _, id := range order {
		if _, ok := c.sections[id]; ok && !placed[id] {
			out = append(out, id)
			placed[id] = true
		}
	}
	for _, id := range DefaultSectionOrder {
		if _, ok := c.sections[id]; ok && !placed[id] {
			out = append(out, id)
			placed[id] = true
		}
	}

	return out
}

// MarshalBinary serializes the catalog into a container: the metadata block,
// the table of contents, then every section in layout order.
func (c *Catalog) MarshalBinary() ([]byte, error) {
	outputs := make(map[ID]Output, len(c.sections))
	for _, id := range DefaultSectionOrder {
		s, ok := c.sections[id]
		if !ok {
			continue
		}
		out, err := s.Serialize(c)
		if err != nil {
			return nil, errs.WrapSection(int(id), "encode", err)
		}
		outputs[id] = out
	}

	offset := ByteOffsetKey(TableOfContentsOffset + c.toc.NumSections()*TOCEntrySize)
	layout := c.layout()
	c.toc.resetEntries()
	for _, id := range layout {
		out := outputs[id]
		e := c.toc.Insert(id, out.ItemLength, out.ItemQuantity, offset, len(out.Data))
		c.cfg.logger.Debug("placed section", "section", int(id), "name", id.String(),
			"offset", int(e.FileOffset), "length", len(out.Data))
		offset = offset.Advance(len(out.Data))
	}

	meta, err := c.metadata.Serialize(c)
	if err != nil {
		return nil, errs.WrapSection(int(Metadata), "encode", err)
	}
	toc, err := c.toc.Serialize(c)
	if err != nil {
		return nil, errs.WrapSection(int(TableOfContents), "encode", err)
	}

	buf := pool.GetImageBuffer()
	defer pool.PutImageBuffer(buf)

	buf.Grow(int(offset))
	buf.MustWrite(meta.Data)
	buf.MustWrite(toc.Data)
	for _, id := range layout {
		buf.MustWrite(outputs[id].Data)
	}
	image := make([]byte, buf.Len())
	copy(image, buf.Bytes())
	c.cfg.logger.Info("encoded container", "bytes", len(image), "sections", len(layout))

	return image, nil
}

// Metadata returns the metadata block.
func (c *Catalog) Metadata() *MetadataSection {
	return c.metadata
}

// TableOfContents returns the section directory.
func (c *Catalog) TableOfContents() *TableOfContentsSection {
	return c.toc
}

// Section returns the section with the given number.
func (c *Catalog) Section(id ID) (Section, bool) {
	s, ok := c.sections[id]
	return s, ok
}

// String renders every section framed by its number, in file order.
func (c *Catalog) String() string {
	var sb strings.Builder
	frame := func(id ID, body string) {
		fmt.Fprintf(&sb, ">>> section %d %s\n%s\n<<< section %d\n", int(id), id, body, int(id))
	}
	frame(Metadata, c.metadata.String())
	frame(TableOfContents, c.toc.String())
	for _, id := range c.layout() {
		frame(id, c.sections[id].String())
	}

	return sb.String()
}

func section[T Section](c *Catalog, id ID) (T, error) {
	var zero T
	s, ok := c.sections[id]
	if !ok {
		return zero, fmt.Errorf("%w: section %d %s is not present", errs.ErrUnresolvedKey, int(id), id)
	}
	t, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("%w: section %d is a %T", errs.ErrUnresolvedKey, int(id), s)
	}

	return t, nil
}

func (c *Catalog) strings() (*StringSection, error) {
	return section[*StringSection](c, String)
}

func (c *Catalog) details() (*LandingFacilityDetailSection, error) {
	return section[*LandingFacilityDetailSection](c, LandingFacilityDetail)
}

func (c *Catalog) icaoRegions() (*IcaoRegionSection, error) {
	return section[*IcaoRegionSection](c, IcaoRegion)
}

func (c *Catalog) identifierIndex() (*IdentifierIndexSection, error) {
	return section[*IdentifierIndexSection](c, IdentifierIndex)
}

func (c *Catalog) lookupTable(id ID) (*LookupTableSection, error) {
	return section[*LookupTableSection](c, id)
}

func (c *Catalog) dataLengthValue(i int) (int, error) {
	dl, err := section[*DataLengthSection](c, DataLength)
	if err != nil {
		return 0, err
	}

	return dl.Value(i)
}

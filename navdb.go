// Package navdb converts Garmin navigation database containers to a lossless
// JSON intermediate representation (IR) and back.
//
// A container decoded to IR and encoded again is byte-identical to the original,
// including every field whose meaning is unknown, the physical section order and
// table of contents entries that do not describe their section.
//
// # Basic Usage
//
// Decoding a container:
//
//	data, _ := os.ReadFile("navdata.bin")
//	doc, err := navdb.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = ir.WriteFile("navdata.json.zst", doc)
//
// Encoding it again:
//
//	doc, _ := ir.ReadFile("navdata.json.zst")
//	image, err := navdb.Encode(doc)
//	if navdb.MatchesSource(doc, image) {
//	    fmt.Println("identical to the decoded container")
//	}
//
// # Package Structure
//
// This package wraps the section package, which holds the section codecs and
// the catalog that resolves references between sections. The ir package defines
// the document and its file I/O.
package navdb

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/arloliu/navdb/internal/hash"
	"github.com/arloliu/navdb/internal/logging"
	"github.com/arloliu/navdb/internal/options"
	"github.com/arloliu/navdb/ir"
	"github.com/arloliu/navdb/section"
)

type config struct {
	logger       *slog.Logger
	sectionOrder []section.ID
}

// Option configures Decode, Encode, Inspect and Verify.
type Option = options.Option[*config]

// WithLogger sets the logger for per-section progress (debug) and conversion
// totals (info). The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithSectionOrder sets the physical section order Encode lays out, in place of
// the order recorded in the document. Sections not listed follow in the default
// order.
func WithSectionOrder(order ...section.ID) Option {
	return options.NoError(func(c *config) {
		c.sectionOrder = append([]section.ID(nil), order...)
	})
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{logger: logging.Discard()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) sectionOptions() []section.Option {
	opts := []section.Option{section.WithLogger(c.logger)}
	if c.sectionOrder != nil {
		opts = append(opts, section.WithSectionOrder(c.sectionOrder))
	}

	return opts
}

// Decode converts a container into an IR document.
//
// The document's Source records the container size and BLAKE3 digest, so that
// MatchesSource can later tell whether an encode reproduced it.
//
// Parameters:
//   - data: The complete container
//   - opts: WithLogger
//
// Returns:
//   - *ir.NavigationData: The decoded document
//   - error: errs.ErrMalformedContainer and friends, wrapped in an
//     errs.SectionError naming the failing section
func Decode(data []byte, opts ...Option) (*ir.NavigationData, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	c, err := section.DecodeCatalog(data, cfg.sectionOptions()...)
	if err != nil {
		return nil, err
	}
	doc, err := c.ToIR()
	if err != nil {
		return nil, err
	}
	doc.Source = &ir.Source{Size: int64(len(data)), BLAKE3: hash.Source(data)}
	cfg.logger.Info("decoded navigation data",
		"facilities", len(doc.LandingFacilities), "strings", len(doc.Strings), "source", doc.Source.BLAKE3)

	return doc, nil
}

// Encode converts an IR document into a container.
//
// Parameters:
//   - doc: The document, typically from Decode or ir.ReadFile
//   - opts: WithLogger, WithSectionOrder
//
// Returns:
//   - []byte: The container image
//   - error: errs.ErrInvalidIR, errs.ErrOutOfRange and friends, wrapped in an
//     errs.SectionError naming the failing section
func Encode(doc *ir.NavigationData, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	c, err := section.BuildCatalog(doc, cfg.sectionOptions()...)
	if err != nil {
		return nil, err
	}
	image, err := c.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if doc.Source != nil {
		cfg.logger.Info("encoded navigation data", "bytes", len(image), "identical", MatchesSource(doc, image))
	}

	return image, nil
}

// MatchesSource reports whether image is the container doc was decoded from.
// It is false for documents without a Source.
func MatchesSource(doc *ir.NavigationData, image []byte) bool {
	if doc == nil || doc.Source == nil {
		return false
	}

	return doc.Source.Size == int64(len(image)) && doc.Source.BLAKE3 == hash.Source(image)
}

// ReadTableOfContents parses only the metadata block and the section directory.
func ReadTableOfContents(data []byte) (*section.MetadataSection, *section.TableOfContentsSection, error) {
	meta, err := section.DecodeMetadata(data)
	if err != nil {
		return nil, nil, err
	}
	toc, err := section.DecodeTableOfContents(data)
	if err != nil {
		return nil, nil, err
	}

	return meta, toc, nil
}

// Inspect decodes a container and renders every section in file order.
func Inspect(data []byte, opts ...Option) (string, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return "", err
	}

	c, err := section.DecodeCatalog(data, cfg.sectionOptions()...)
	if err != nil {
		return "", err
	}

	return c.String(), nil
}

// SectionDigest fingerprints the bytes of one region of a container.
type SectionDigest struct {
	Section section.ID
	Offset  int
	Length  int
	Digest  uint64
}

// Digests returns the xxHash64 of the metadata block, the table of contents and
// every present section, in file order.
func Digests(data []byte) ([]SectionDigest, error) {
	_, toc, err := ReadTableOfContents(data)
	if err != nil {
		return nil, err
	}

	tocEnd := section.TableOfContentsOffset + toc.NumSections()*section.TOCEntrySize
	out := []SectionDigest{
		{Section: section.Metadata, Offset: 0, Length: section.MetadataSize},
		{Section: section.TableOfContents, Offset: section.TableOfContentsOffset, Length: tocEnd - section.TableOfContentsOffset},
	}
	for _, e := range toc.Entries() {
		out = append(out, SectionDigest{Section: e.Section, Offset: int(e.FileOffset), Length: e.ActualLength})
	}
	for i := range out {
		d := &out[i]
		if d.Offset+d.Length > len(data) {
			return nil, fmt.Errorf("section %d: %d bytes at 0x%x run past the end of the file", int(d.Section), d.Length, d.Offset)
		}
		d.Digest = hash.Section(data[d.Offset : d.Offset+d.Length])
	}

	return out, nil
}

// SectionMismatch is a region whose bytes differ after a round trip. A zero
// Digest side means the section is missing from that container.
type SectionMismatch struct {
	Section   section.ID
	Original  SectionDigest
	Reencoded SectionDigest
}

// VerifyReport is the result of Verify.
type VerifyReport struct {
	OriginalSize  int
	ReencodedSize int
	Sections      int
	Identical     bool
	Mismatches    []SectionMismatch
}

// Verify decodes a container, passes the document through its JSON form,
// encodes it again and compares the two images region by region.
//
// Parameters:
//   - data: The complete container
//   - opts: WithLogger
//
// Returns:
//   - *VerifyReport: Sizes, per-section mismatches and whether the images are
//     byte-identical
//   - error: Any decode, JSON or encode failure
func Verify(data []byte, opts ...Option) (*VerifyReport, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(data, opts...)
	if err != nil {
		return nil, err
	}
	js, err := ir.Marshal(doc)
	if err != nil {
		return nil, err
	}
	doc, err = ir.Unmarshal(js)
	if err != nil {
		return nil, err
	}
	image, err := Encode(doc, opts...)
	if err != nil {
		return nil, err
	}

	before, err := Digests(data)
	if err != nil {
		return nil, err
	}
	after, err := Digests(image)
	if err != nil {
		return nil, fmt.Errorf("re-encoded container: %w", err)
	}

	report := &VerifyReport{
		OriginalSize:  len(data),
		ReencodedSize: len(image),
		Sections:      len(before),
		Identical:     bytes.Equal(data, image),
	}
	reencoded := make(map[section.ID]SectionDigest, len(after))
	for _, d := range after {
		reencoded[d.Section] = d
	}
	for _, d := range before {
		r, ok := reencoded[d.Section]
		delete(reencoded, d.Section)
		if ok && r == d {
			continue
		}
		report.Mismatches = append(report.Mismatches, SectionMismatch{Section: d.Section, Original: d, Reencoded: r})
	}
	for _, d := range after {
		if _, extra := reencoded[d.Section]; extra {
			report.Mismatches = append(report.Mismatches, SectionMismatch{Section: d.Section, Reencoded: d})
		}
	}

	for _, m := range report.Mismatches {
		cfg.logger.Warn("section differs after round trip", "section", int(m.Section), "name", m.Section.String(),
			"original_length", m.Original.Length, "reencoded_length", m.Reencoded.Length)
	}
	cfg.logger.Info("verified navigation data", "bytes", len(data), "identical", report.Identical,
		"mismatches", len(report.Mismatches))

	return report, nil
}

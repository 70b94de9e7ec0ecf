// Package section implements the typed sections of a navigation database
// container and the catalog that ties them together.
//
// # Container Structure
//
// A container is a fixed metadata block, a table of contents, then the
// sections the table points at:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Metadata (512 bytes, fixed)                             │
//	│  - Preamble, cycle number, dates                        │
//	│  - Part number, coverage region, copyright lines        │
//	├─────────────────────────────────────────────────────────┤
//	│ Table of Contents (N × 8 bytes at 0x200)                │
//	│  - Entry 0 describes the table itself                   │
//	│  - Entry i+1 describes section i: offset, item length,  │
//	│    item quantity; offset 0 means absent                 │
//	├─────────────────────────────────────────────────────────┤
//	│ Sections (variable, contiguous, any order)              │
//	│  - Fixed-width tables (lookup tables, ICAO regions)     │
//	│  - Bit-packed string heap                               │
//	│  - 28-byte landing facility records                     │
//	│  - Variable-length facility details                     │
//	│  - Opaque sections kept as raw bytes                    │
//	└─────────────────────────────────────────────────────────┘
//
// # Foreign Keys
//
// Sections refer to each other by index (IndexKey), by byte offset
// (SectionOffsetKey) or by bit position (BitPositionKey). Decoding resolves
// every key to an index into the target section, and serialization assigns
// fresh keys, so a section can move or change size without breaking its
// referrers.
//
// # Usage
//
//	catalog, err := section.DecodeCatalog(data)
//	doc, err := catalog.ToIR()
//
//	catalog, err = section.BuildCatalog(doc)
//	data, err = catalog.MarshalBinary()
package section

// Package encoding implements the bit-level primitives and text codecs of the
// navigation database container.
//
// # Bit I/O
//
// BitReader and BitWriter address data MSB-first. A BitPosition names a single
// bit as (byte, bit) and is the form string keys take inside the string heap.
//
// # Text codecs
//
// Three encodings appear in the container:
//
//   - Six-bit text packs four characters into three bytes, stored back to front.
//     SimpleSixBit covers ASCII space through underscore; ComplexSixBit covers
//     space, A-Z and 0-9 and is used for facility identifiers.
//   - Prefix text is a variable-length prefix-free code (3, 4, 5 or 9 bits per
//     character) terminated by a NUL code. The basic alphabet covers letters,
//     digits and space; the extended alphabet adds eleven punctuation marks.
//     Decoding always accepts the extended alphabet.
//   - Fixed-width ISO 8859-1 text, space padded, used by lookup tables and the
//     metadata block.
package encoding

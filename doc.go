// Package zx0 is an optimal compressor for the ZX0 format.
//
// ZX0 streams are a sequence of literal runs and copies from earlier output,
// packed with interlaced Elias-gamma codes so that a decompressor of a few
// dozen bytes of Z80 or 6502 code can expand them, optionally in place.
// Compression is split into the same stages as any LZ77 compressor:
//   - Something that looks for repeated bytes (ByteChain)
//   - Something that chooses which matches to use (Optimal, or one of the
//     heuristic parsers)
//   - An encoder for the compressed format (StreamEncoder)
//
// The stages communicate through []Match, so they can be mixed. GreedyParser
// and OverlapParser are much faster than Optimal, and they go through the
// same encoder.
//
// # Format
//
// Bits are stored high bit first in "bit bytes" that are inserted into the
// output when the first bit needing them is written; literal bytes and
// offset low bytes are written whole, in stream order, between them.
//
//	literal run          0 gamma(length) byte...
//	last-offset match    0 gamma(length)            (only after a literal run)
//	new-offset match     1 gamma(msb) lsb gamma(length-1)
//	end of stream        1 gamma(256)
//
// The first literal run has no indicator bit, and the last offset starts at 1.
// In the standard format msb = (offset-1)/128+1 and the low byte holds
// (127-(offset-1)%128)<<1, with bit 0 carrying the first bit of the length
// code; offsets go up to 32640. The extended format (.zxx) uses
// msb = (offset-1)/256+1 and a full low byte, reaching offsets up to 65280 at
// the cost of one more bit per new offset.
package zx0

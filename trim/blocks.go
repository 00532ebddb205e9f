// Package trim repairs aligned reads around low-quality and short-match edges,
// keeping sequence, quality, CIGAR, and start position consistent with each other.
package trim

import (
	"log"

	"github.com/vertgenlab/gonomics/cigar"
)

// GoodMask returns one bool per CIGAR block, true when the block is a match
// long enough to anchor trimming.
func GoodMask(cigs []cigar.Cigar, minMatchLen int) []bool {
	mask := make([]bool, len(cigs))
	for i := range cigs {
		mask[i] = cigs[i].Op == 'M' && cigs[i].RunLength >= minMatchLen
	}
	return mask
}

// goodBounds returns the indexes of the first and last good blocks.
// ok is false when the read has no good block at all.
func goodBounds(cigs []cigar.Cigar, minMatchLen int) (first, last int, ok bool) {
	first = -1
	for i := range cigs {
		if cigs[i].Op == 'M' && cigs[i].RunLength >= minMatchLen {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	return first, last, first != -1
}

// TrustedRange locates the span from the first good block to the last one,
// interior noise blocks included, in both read and reference coordinates.
// readStart/readEnd are offsets into the sequence, refStart/refEnd are
// positions in the same system as start. When the span does not reach a
// physical read edge, that side is shrunk by trimLeft or trimRight bases;
// a side that coincides with a genuine read edge is never trimmed. Callers
// must ensure minMatchLen > trimLeft+trimRight or the trims can eat a whole
// block. ok is false when no good block exists and the read should be dropped.
func TrustedRange(cigs []cigar.Cigar, start, minMatchLen, trimLeft, trimRight int) (readStart, readEnd, refStart, refEnd int, ok bool) {
	first, last, ok := goodBounds(cigs, minMatchLen)
	if !ok {
		return 0, 0, 0, 0, false
	}

	refStart = start
	for _, c := range cigs[:first] {
		switch c.Op {
		case 'M':
			readStart += c.RunLength
			refStart += c.RunLength
		case 'I':
			readStart += c.RunLength
		case 'D':
			refStart += c.RunLength
		default:
			log.Panicf("unrecognized cigar op %c", c.Op)
		}
	}

	readEnd = readStart
	refEnd = refStart
	for _, c := range cigs[first : last+1] {
		switch c.Op {
		case 'M':
			readEnd += c.RunLength
			refEnd += c.RunLength
		case 'I':
			readEnd += c.RunLength
		case 'D':
			refEnd += c.RunLength
		default:
			log.Panicf("unrecognized cigar op %c", c.Op)
		}
	}

	// Edges that were chopped off get a few extra bases removed: short random
	// matches near a cut edge can look real but read into the adapters.
	if first != 0 {
		readStart += trimLeft
		refStart += trimLeft
	}
	if last != len(cigs)-1 {
		readEnd -= trimRight
		refEnd -= trimRight
	}
	return readStart, readEnd, refStart, refEnd, true
}

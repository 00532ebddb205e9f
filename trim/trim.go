package trim

import (
	"log"

	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/sam"
)

// Trim removes indel noise and short matches from both edges of the read,
// cutting back to the first match block of at least minMatchLen on each side
// and removing trimPad extra bases beyond the cut. Seq, Qual, Cigar, and Pos
// are rewritten together. Returns false when no match block is long enough to
// anchor an edge, or when an unrecognized CIGAR op is hit; with throwOnFailure
// those cases panic instead. Mate fields are left stale and must be fixed by
// the caller afterwards.
func Trim(r *sam.Sam, minMatchLen, trimPad int, throwOnFailure bool) bool {
	if !trimLeft(r, minMatchLen, trimPad) {
		if throwOnFailure {
			log.Panicf("read %s is too short to be trimmed from the left", r.QName)
		}
		return false
	}
	if !trimRight(r, minMatchLen, trimPad) {
		if throwOnFailure {
			log.Panicf("read %s is too short to be trimmed from the right", r.QName)
		}
		return false
	}
	return true
}

func trimLeft(r *sam.Sam, minMatchLen, trimPad int) bool {
	cigs := r.Cigar
	if len(cigs) == 0 {
		return false
	}
	if cigs[0].Op == 'M' && cigs[0].RunLength >= minMatchLen {
		return true
	}

	refPos := int(r.Pos)
	readPos := 0
	for i := range cigs {
		c := cigs[i]
		switch {
		case c.Op == 'D':
			refPos += c.RunLength
		case c.Op == 'I':
			readPos += c.RunLength
		case c.Op != 'M':
			return false
		case c.RunLength < minMatchLen:
			refPos += c.RunLength
			readPos += c.RunLength
		default:
			// first good match: shorten it by the pad and drop everything before it
			newCigar := make([]cigar.Cigar, 1, len(cigs)-i)
			newCigar[0] = cigar.Cigar{Op: 'M', RunLength: c.RunLength - trimPad}
			newCigar = append(newCigar, cigs[i+1:]...)
			readPos += trimPad
			r.Pos = uint32(refPos + trimPad)
			r.Seq = r.Seq[readPos:]
			r.Qual = r.Qual[readPos:]
			r.Cigar = newCigar
			return true
		}
	}
	return false
}

func trimRight(r *sam.Sam, minMatchLen, trimPad int) bool {
	cigs := r.Cigar
	if len(cigs) == 0 {
		return false
	}
	if cigs[len(cigs)-1].Op == 'M' && cigs[len(cigs)-1].RunLength >= minMatchLen {
		return true
	}

	readPos := len(r.Seq)
	for i := len(cigs) - 1; i >= 0; i-- {
		c := cigs[i]
		switch {
		case c.Op == 'D':
			// consumes no read bases
		case c.Op == 'I':
			readPos -= c.RunLength
		case c.Op != 'M':
			return false
		case c.RunLength < minMatchLen:
			readPos -= c.RunLength
		default:
			newCigar := make([]cigar.Cigar, i+1)
			copy(newCigar, cigs[:i])
			newCigar[i] = cigar.Cigar{Op: 'M', RunLength: c.RunLength - trimPad}
			readPos -= trimPad
			r.Seq = r.Seq[:readPos]
			r.Qual = r.Qual[:readPos]
			r.Cigar = newCigar
			return true
		}
	}
	return false
}

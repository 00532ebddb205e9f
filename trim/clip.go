package trim

import (
	"log"

	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/sam"
)

// ClipRefTail clips the right end of the read so that its reference extent
// stops at limit (a position in the same system as Pos). A block straddling
// the limit is shortened; a clipped read never ends with a deletion. Reads
// already ending at or before the limit are untouched. Returns true when
// bases were removed. Mate fields are left stale.
func ClipRefTail(r *sam.Sam, limit int) bool {
	refPos := int(r.Pos)
	readPos := 0
	var kept []cigar.Cigar
	for _, c := range r.Cigar {
		switch c.Op {
		case 'M':
			if refPos+c.RunLength >= limit {
				if limit > refPos {
					kept = append(kept, cigar.Cigar{Op: 'M', RunLength: limit - refPos})
					readPos += limit - refPos
				}
				return clipTailAt(r, kept, readPos)
			}
			kept = append(kept, c)
			refPos += c.RunLength
			readPos += c.RunLength
		case 'I':
			kept = append(kept, c)
			readPos += c.RunLength
		case 'D':
			if refPos+c.RunLength >= limit {
				// do not end with a deletion
				return clipTailAt(r, kept, readPos)
			}
			kept = append(kept, c)
			refPos += c.RunLength
		default:
			log.Panicf("unrecognized cigar op %c in read %s", c.Op, r.QName)
		}
	}
	return false
}

func clipTailAt(r *sam.Sam, kept []cigar.Cigar, readPos int) bool {
	if readPos == len(r.Seq) {
		return false
	}
	r.Seq = r.Seq[:readPos]
	r.Qual = r.Qual[:readPos]
	r.Cigar = kept
	return true
}

// ClipRefHead clips the left end of the read so that its reference extent
// starts at limit, moving Pos accordingly. The mirror of ClipRefTail: walks
// the CIGAR backwards from the read's reference end, and a clipped read never
// starts with a deletion. Returns true when bases were removed.
func ClipRefHead(r *sam.Sam, limit int) bool {
	refPos := int(r.Pos)
	for _, c := range r.Cigar {
		if c.Op == 'M' || c.Op == 'D' {
			refPos += c.RunLength
		}
	}
	readPos := len(r.Seq)
	var kept []cigar.Cigar
	cigs := r.Cigar
	for i := len(cigs) - 1; i >= 0; i-- {
		c := cigs[i]
		switch c.Op {
		case 'M':
			if refPos-c.RunLength <= limit {
				if refPos > limit {
					kept = append(kept, cigar.Cigar{Op: 'M', RunLength: refPos - limit})
					readPos -= refPos - limit
					refPos = limit
				}
				return clipHeadAt(r, kept, readPos, refPos)
			}
			kept = append(kept, c)
			refPos -= c.RunLength
			readPos -= c.RunLength
		case 'I':
			kept = append(kept, c)
			readPos -= c.RunLength
		case 'D':
			if refPos-c.RunLength <= limit {
				// do not start with a deletion
				return clipHeadAt(r, kept, readPos, refPos)
			}
			kept = append(kept, c)
			refPos -= c.RunLength
		default:
			log.Panicf("unrecognized cigar op %c in read %s", c.Op, r.QName)
		}
	}
	return false
}

func clipHeadAt(r *sam.Sam, kept []cigar.Cigar, readPos, refPos int) bool {
	if readPos == 0 {
		return false
	}
	r.Pos = uint32(refPos)
	r.Seq = r.Seq[readPos:]
	r.Qual = r.Qual[readPos:]
	r.Cigar = reverseCigar(kept)
	return true
}

func reverseCigar(cigs []cigar.Cigar) []cigar.Cigar {
	for i, j := 0, len(cigs)-1; i < j; i, j = i+1, j-1 {
		cigs[i], cigs[j] = cigs[j], cigs[i]
	}
	return cigs
}

package trim

import (
	"log"

	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/sam"
)

const asciiOffset = 33

// Sliding window parameters for edge detection. One low-quality base per
// window is tolerated, which covers most mushy edges.
const (
	qualWinSize  = 10
	qualWinShift = 5
	qualWinMin   = 9
)

// Post-trim sanity threshold: if the retained span is still riddled with
// low-quality bases, the problem was never the edges.
const retainedFracMin = 0.9

// TrimLowQualityEdges slides a quality window inward from each edge and cuts
// the read down to the span between the first qualifying windows. ok is false
// when no qualifying window exists within readLenMin bases of the opposite
// edge, or when the retained span has widespread low quality; the pair should
// then be dropped. modified is false when nothing needed trimming, which is
// common: isolated low-quality bases in the middle of a read do not trigger a
// cut. Mate fields are left stale when modified.
func TrimLowQualityEdges(r *sam.Sam, qualCutoff, readLenMin int) (ok, modified bool) {
	phred := phredScores(r.Qual)
	rl := len(phred)
	if countAbove(phred, 0, rl, qualCutoff) == rl {
		return true, false
	}

	readStart := 0
	for {
		if readStart > rl-readLenMin {
			return false, false
		}
		if countAbove(phred, readStart, readStart+qualWinSize, qualCutoff) >= qualWinMin {
			break
		}
		readStart += qualWinShift
	}

	readEnd := rl
	for {
		if readEnd < readStart+readLenMin {
			return false, false
		}
		if countAbove(phred, readEnd-qualWinSize, readEnd, qualCutoff) >= qualWinMin {
			break
		}
		readEnd -= qualWinShift
	}

	span := readEnd - readStart
	if float64(countAbove(phred, readStart, readEnd, qualCutoff)) < retainedFracMin*float64(span) {
		return false, false
	}
	if readStart == 0 && readEnd == rl {
		return true, false
	}

	sliceReadWindow(r, readStart, readEnd)
	return true, true
}

// KeepLongestQualityBlock keeps only the single longest run of bases at or
// above the cutoff. ok is false when that run is shorter than readLenMin and
// the pair should be dropped. Mate fields are left stale when modified.
func KeepLongestQualityBlock(r *sam.Sam, qualCutoff, readLenMin int) (ok, modified bool) {
	phred := phredScores(r.Qual)
	start, length := longestRunAbove(phred, qualCutoff)
	if length == len(phred) {
		return true, false
	}
	if length < readLenMin {
		return false, false
	}
	sliceReadWindow(r, start, start+length)
	return true, true
}

func phredScores(qual string) []int {
	phred := make([]int, len(qual))
	for i := range qual {
		phred[i] = int(qual[i]) - asciiOffset
	}
	return phred
}

// countAbove counts scores >= cutoff in phred[start:end), clamping the window
// to the slice.
func countAbove(phred []int, start, end, cutoff int) int {
	if start < 0 {
		start = 0
	}
	if end > len(phred) {
		end = len(phred)
	}
	var n int
	for i := start; i < end; i++ {
		if phred[i] >= cutoff {
			n++
		}
	}
	return n
}

// longestRunAbove finds the first longest contiguous run of scores >= cutoff.
func longestRunAbove(phred []int, cutoff int) (start, length int) {
	var runStart, runLen int
	for i := range phred {
		if phred[i] < cutoff {
			runLen = 0
			continue
		}
		if runLen == 0 {
			runStart = i
		}
		runLen++
		if runLen > length {
			start = runStart
			length = runLen
		}
	}
	return start, length
}

// sliceReadWindow cuts the read down to the read-space window
// [readStart, readEnd), rebuilding the CIGAR and advancing Pos past every
// reference base consumed before the window, deletions included. A retained
// span may begin or end with an insertion but never with a deletion. Callers
// guarantee 0 <= readStart < readEnd <= len(Seq).
func sliceReadWindow(r *sam.Sam, readStart, readEnd int) {
	var kept []cigar.Cigar
	refStart := int(r.Pos)
	readPos := 0
	started := false
	for _, c := range r.Cigar {
		switch c.Op {
		case 'M':
			lo, hi := readPos, readPos+c.RunLength
			if hi <= readStart {
				refStart += c.RunLength
			} else if lo < readEnd {
				cutLo, cutHi := max(lo, readStart), min(hi, readEnd)
				if !started {
					refStart += cutLo - lo
					started = true
				}
				kept = append(kept, cigar.Cigar{Op: 'M', RunLength: cutHi - cutLo})
			}
			readPos = hi
		case 'I':
			lo, hi := readPos, readPos+c.RunLength
			if hi > readStart && lo < readEnd {
				started = true
				cutLo, cutHi := max(lo, readStart), min(hi, readEnd)
				kept = append(kept, cigar.Cigar{Op: 'I', RunLength: cutHi - cutLo})
			}
			readPos = hi
		case 'D':
			if !started {
				refStart += c.RunLength
			} else if readPos < readEnd {
				kept = append(kept, c)
			}
		default:
			log.Panicf("unrecognized cigar op %c in read %s", c.Op, r.QName)
		}
	}
	for len(kept) > 0 && kept[len(kept)-1].Op == 'D' {
		kept = kept[:len(kept)-1]
	}
	r.Pos = uint32(refStart)
	r.Seq = r.Seq[readStart:readEnd]
	r.Qual = r.Qual[readStart:readEnd]
	r.Cigar = kept
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package pair

import (
	"fmt"
	"log"
	"strings"

	"github.com/hivevo/hivTools/trim"
	"github.com/vertgenlab/gonomics/sam"
)

// QualityMode selects how read edges are cleaned before counting.
type QualityMode int

const (
	QualityOff       QualityMode = iota
	QualityEdges                 // sliding-window trim of low-quality edges
	QualityMainBlock             // keep only the longest high-quality block
)

// Config collects the knobs for pair processing. Start from DefaultConfig and
// adjust; a zero Config rejects everything.
type Config struct {
	MinMatchLen       int         // shortest match block that can anchor a CIGAR edge trim
	TrimPad           int         // extra bases removed beyond a trimmed edge
	QualCutoff        int         // phred score below which a base counts as low quality
	ReadLenMin        int         // shortest retained read span worth keeping
	CrossOverhangTrim int         // bases to stay short of the mate-implied boundary
	Quality           QualityMode // edge strategy for low-quality bases
	TrimCigarEdges    bool        // cut short-match and indel noise off read edges first
	CrossOverhang     bool        // clip reads that sequence past the insert boundary
	RefLen            int         // drop pairs mapping beyond this length when > 0
	Debug             bool        // panic on integrity violations instead of discarding
}

// DefaultConfig returns the processing defaults.
func DefaultConfig() Config {
	return Config{
		MinMatchLen:       30,
		TrimPad:           3,
		QualCutoff:        20,
		ReadLenMin:        50,
		CrossOverhangTrim: 5,
		Quality:           QualityEdges,
		CrossOverhang:     true,
	}
}

// Validate rejects configurations that cannot work. A match block must be
// long enough to absorb the pad cut on both sides without disappearing.
func (c Config) Validate() error {
	if c.MinMatchLen <= 2*c.TrimPad {
		return fmt.Errorf("minMatchLen (%d) must be greater than twice trimPad (%d)", c.MinMatchLen, c.TrimPad)
	}
	if c.ReadLenMin <= 0 {
		return fmt.Errorf("readLenMin (%d) must be positive", c.ReadLenMin)
	}
	return nil
}

// DiscardReason explains why a pair was dropped. The zero value Kept means
// the pair survived processing: every policy returns either Kept with the
// pair trimmed in place, or the reason it was discarded.
type DiscardReason int

const (
	Kept DiscardReason = iota
	DiscardUnmapped
	DiscardImproper
	DiscardExoticCigar
	DiscardNoAnchor
	DiscardLowQuality
	DiscardCollapsedInsert
	DiscardOffTarget
	DiscardExceedsReference
	DiscardIntegrity
	numDiscardReasons
)

func (d DiscardReason) String() string {
	switch d {
	case Kept:
		return "kept"
	case DiscardUnmapped:
		return "unmapped"
	case DiscardImproper:
		return "improper pair"
	case DiscardExoticCigar:
		return "exotic cigar"
	case DiscardNoAnchor:
		return "no anchor match"
	case DiscardLowQuality:
		return "low quality"
	case DiscardCollapsedInsert:
		return "collapsed insert"
	case DiscardOffTarget:
		return "off target"
	case DiscardExceedsReference:
		return "exceeds reference"
	case DiscardIntegrity:
		return "integrity violation"
	}
	return "unknown"
}

// ScanStats tallies pair outcomes so a run can report processed vs discarded
// counts per reason. Discards are never silent.
type ScanStats struct {
	Pairs    int
	Kept     int
	Discards [numDiscardReasons]int
}

// Record tallies the outcome of one pair.
func (s *ScanStats) Record(reason DiscardReason) {
	s.Pairs++
	if reason == Kept {
		s.Kept++
		return
	}
	s.Discards[reason]++
}

// Discarded is the total number of dropped pairs.
func (s ScanStats) Discarded() int {
	return s.Pairs - s.Kept
}

// Report renders the tallies as tab-separated lines for the run log.
func (s ScanStats) Report() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "Pairs Processed:\t%d\n", s.Pairs)
	fmt.Fprintf(b, "Pairs Kept:\t%d\n", s.Kept)
	for r := Kept + 1; r < numDiscardReasons; r++ {
		if s.Discards[r] > 0 {
			fmt.Fprintf(b, "Discarded (%s):\t%d\n", r, s.Discards[r])
		}
	}
	return b.String()
}

// TrimShortCigarsPair cuts indel noise and short matches off the edges of
// both reads and restores mate consistency. With throwOnFailure a read that
// cannot be anchored panics; otherwise the pair is discarded.
func TrimShortCigarsPair(p *Pair, minMatchLen, trimPad int, throwOnFailure bool) DiscardReason {
	for i := range p.Reads {
		if !trim.Trim(&p.Reads[i], minMatchLen, trimPad, throwOnFailure) {
			return DiscardNoAnchor
		}
	}
	Reconcile(p)
	return Kept
}

// TrimLowQualityPair strips low-quality edges from both reads independently
// and restores mate consistency. Discards the pair when either read has no
// acceptable window, and when trimming collapses the insert to nothing: a
// non-positive insert size means the reads fully overlapped each other, which
// downstream counting cannot use.
func TrimLowQualityPair(p *Pair, qualCutoff, readLenMin int) DiscardReason {
	var modified bool
	for i := range p.Reads {
		ok, mod := trim.TrimLowQualityEdges(&p.Reads[i], qualCutoff, readLenMin)
		if !ok {
			return DiscardLowQuality
		}
		modified = modified || mod
	}
	if modified {
		Reconcile(p)
		if p.Fwd().TLen <= 0 {
			return DiscardCollapsedInsert
		}
	}
	return Kept
}

// KeepMainBlockPair keeps only the longest high-quality block of each read
// and restores mate consistency. Discards the pair when either block is
// shorter than readLenMin.
func KeepMainBlockPair(p *Pair, qualCutoff, readLenMin int) DiscardReason {
	var modified bool
	for i := range p.Reads {
		ok, mod := trim.KeepLongestQualityBlock(&p.Reads[i], qualCutoff, readLenMin)
		if !ok {
			return DiscardLowQuality
		}
		modified = modified || mod
	}
	if modified {
		Reconcile(p)
	}
	return Kept
}

// TrimCrossOverhangPair clips each read's 3' end to stop trimBases short of
// the mate-implied insert boundary on the opposite strand, so that adapter
// read-through never double-counts bases beyond the true insert. Idempotent:
// a second application removes nothing. Call only after quality trimming has
// settled the insert size, or the boundaries are computed from stale values.
func TrimCrossOverhangPair(p *Pair, trimBases int) DiscardReason {
	fwd, rev := p.Fwd(), p.Rev()
	insertEnd := int(rev.Pos) + refSpan(*rev)
	modF := trim.ClipRefTail(fwd, insertEnd-trimBases)
	modR := trim.ClipRefHead(rev, int(fwd.Pos)+trimBases)
	if len(fwd.Seq) == 0 || len(rev.Seq) == 0 {
		return DiscardCollapsedInsert
	}
	if modF || modR {
		Reconcile(p)
	}
	return Kept
}

// Process runs the configured pipeline on one pair: screen unusable input,
// trim, clip overhangs, then verify. The order matters: cross-overhang
// boundaries are only correct once quality trimming has settled starts and
// insert sizes, and the integrity check must see the final state.
func Process(p *Pair, cfg Config) DiscardReason {
	if sam.IsUnmapped(p.Reads[0]) || sam.IsUnmapped(p.Reads[1]) {
		return DiscardUnmapped
	}
	if !properlyPaired(p.Reads[0]) || !properlyPaired(p.Reads[1]) {
		return DiscardImproper
	}
	if sameStrand(p) {
		return DiscardImproper
	}
	if HasExoticCigar(p) {
		return DiscardExoticCigar
	}
	if cfg.Debug && IntegrityViolated(p) {
		log.Panicf("pair %s arrived inconsistent", p.Reads[0].QName)
	}

	if cfg.TrimCigarEdges {
		if reason := TrimShortCigarsPair(p, cfg.MinMatchLen, cfg.TrimPad, cfg.Debug); reason != Kept {
			return reason
		}
		debugAssert(p, cfg, "cigar edge trim")
	}
	switch cfg.Quality {
	case QualityEdges:
		if reason := TrimLowQualityPair(p, cfg.QualCutoff, cfg.ReadLenMin); reason != Kept {
			return reason
		}
		debugAssert(p, cfg, "quality edge trim")
	case QualityMainBlock:
		if reason := KeepMainBlockPair(p, cfg.QualCutoff, cfg.ReadLenMin); reason != Kept {
			return reason
		}
		debugAssert(p, cfg, "main block trim")
	}
	if cfg.CrossOverhang {
		if reason := TrimCrossOverhangPair(p, cfg.CrossOverhangTrim); reason != Kept {
			return reason
		}
		debugAssert(p, cfg, "overhang clipping")
	}

	if cfg.RefLen > 0 && ExceedsReference(p, cfg.RefLen) {
		return DiscardExceedsReference
	}
	if IntegrityViolated(p) {
		if cfg.Debug {
			log.Panicf("pair %s inconsistent after trimming", p.Reads[0].QName)
		}
		return DiscardIntegrity
	}
	return Kept
}

func sameStrand(p *Pair) bool {
	return sam.IsPosStrand(p.Reads[0]) == sam.IsPosStrand(p.Reads[1])
}

// debugAssert panics when a policy left the pair inconsistent. Only active in
// debug runs; production relies on the final integrity filter instead.
func debugAssert(p *Pair, cfg Config, stage string) {
	if cfg.Debug && IntegrityViolated(p) {
		log.Panicf("pair %s inconsistent after %s", p.Reads[0].QName, stage)
	}
}

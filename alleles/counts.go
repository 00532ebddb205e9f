// Package alleles tallies nucleotide evidence per reference position from
// processed read pairs, keeping the four read orientations separate so that
// strand- and mate-specific artifacts stay visible downstream.
package alleles

import (
	"fmt"
	"log"
	"sort"

	"github.com/hivevo/hivTools/pair"
	"github.com/vertgenlab/gonomics/bed"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/interval"
	"github.com/vertgenlab/gonomics/sam"
	"golang.org/x/exp/maps"
)

const qualOffset = 33

// Orientation classifies a read by mate order and strand.
type Orientation int

const (
	FwdRead1 Orientation = iota
	RevRead1
	FwdRead2
	RevRead2
	numOrientations
)

// OrientationOf derives the orientation class from the read flags.
func OrientationOf(r sam.Sam) Orientation {
	var o Orientation
	if !sam.IsForwardRead(r) {
		o += 2
	}
	if !sam.IsPosStrand(r) {
		o++
	}
	return o
}

func (o Orientation) String() string {
	switch o {
	case FwdRead1:
		return "read1-fwd"
	case RevRead1:
		return "read1-rev"
	case FwdRead2:
		return "read2-fwd"
	case RevRead2:
		return "read2-rev"
	}
	return "unknown"
}

// Cell counts observations of each base at one position for one orientation,
// indexed by dna.Base.
type Cell [13]int

// Ins identifies an insertion by the reference position it precedes and the
// inserted sequence.
type Ins struct {
	Pos int
	Seq string
}

// Table is an allele count matrix over a reference: base counts per position
// per orientation, plus insertion counts per orientation. Tables built from
// disjoint read sets can be combined with Merge in any order.
type Table struct {
	Counts  [][numOrientations]Cell
	Inserts [numOrientations]map[Ins]int
}

// NewTable returns an empty table covering refLen positions.
func NewTable(refLen int) *Table {
	t := Table{Counts: make([][numOrientations]Cell, refLen)}
	for o := range t.Inserts {
		t.Inserts[o] = make(map[Ins]int)
	}
	return &t
}

// Accumulate adds one aligned read to the table. Matched bases count toward
// their reference position when the base quality reaches qualMin. Deleted
// positions count as gaps regardless of quality since there is no base to
// score. An insertion counts only when anchored by matches on both sides and
// both anchor bases reach qualMin. Positions outside the table are skipped.
func (t *Table) Accumulate(r sam.Sam, qualMin int) {
	var readPos int
	if sam.IsUnmapped(r) {
		return
	}
	refPos := r.GetChromStart()
	o := OrientationOf(r)
	for i := 0; i < len(r.Cigar); i++ {
		c := r.Cigar[i]
		switch c.Op {
		case 'M':
			for j := 0; j < c.RunLength; j++ {
				pos := refPos + j
				if pos < 0 || pos >= len(t.Counts) {
					continue
				}
				if int(r.Qual[readPos+j])-qualOffset < qualMin {
					continue
				}
				t.Counts[pos][o][r.Seq[readPos+j]]++
			}
			readPos += c.RunLength
			refPos += c.RunLength
		case 'I':
			if i > 0 && i < len(r.Cigar)-1 && r.Cigar[i-1].Op == 'M' && r.Cigar[i+1].Op == 'M' &&
				refPos >= 0 && refPos < len(t.Counts) &&
				int(r.Qual[readPos-1])-qualOffset >= qualMin &&
				int(r.Qual[readPos+c.RunLength])-qualOffset >= qualMin {
				t.Inserts[o][Ins{Pos: refPos, Seq: dna.BasesToString(r.Seq[readPos : readPos+c.RunLength])}]++
			}
			readPos += c.RunLength
		case 'D':
			for j := 0; j < c.RunLength; j++ {
				pos := refPos + j
				if pos < 0 || pos >= len(t.Counts) {
					continue
				}
				t.Counts[pos][o][dna.Gap]++
			}
			refPos += c.RunLength
		default:
			log.Panicf("unexpected cigar op %c in read %s", c.Op, r.QName)
		}
	}
}

// Merge folds other into t. Both tables must cover the same reference length.
func (t *Table) Merge(other *Table) {
	if len(other.Counts) != len(t.Counts) {
		log.Panicf("cannot merge count tables of length %d and %d", len(t.Counts), len(other.Counts))
	}
	for pos := range other.Counts {
		for o := range other.Counts[pos] {
			for b := range other.Counts[pos][o] {
				t.Counts[pos][o][b] += other.Counts[pos][o][b]
			}
		}
	}
	for o := range other.Inserts {
		for ins, n := range other.Inserts[o] {
			t.Inserts[o][ins] += n
		}
	}
}

// countedBases are the alleles reported per position.
var countedBases = []dna.Base{dna.A, dna.C, dna.G, dna.T, dna.Gap, dna.N}

// Coverage is the total allele count at pos across all orientations.
func (t *Table) Coverage(pos int) int {
	var total int
	for o := range t.Counts[pos] {
		for _, b := range countedBases {
			total += t.Counts[pos][o][b]
		}
	}
	return total
}

// Config collects the knobs for counting reads into a table.
type Config struct {
	QualMin  int                               // minimum base quality for a match to count
	MaxPairs int                               // stop after this many pairs when > 0
	Chrom    string                            // count only pairs mapped to this reference when set
	Targets  map[string]*interval.IntervalNode // restrict counting to these regions when set
}

// CountPairs processes pairs from the channel and accumulates the survivors
// into a fresh table. Pairs falling outside the target regions, and pairs
// past the MaxPairs limit, are not counted.
func CountPairs(pairs <-chan pair.Pair, refLen int, pcfg pair.Config, cfg Config) (*Table, pair.ScanStats) {
	var stats pair.ScanStats
	t := NewTable(refLen)
	for p := range pairs {
		if cfg.MaxPairs > 0 && stats.Pairs >= cfg.MaxPairs {
			for range pairs {
			}
			break
		}
		reason := pair.Process(&p, pcfg)
		if reason == pair.Kept && cfg.Chrom != "" && p.Reads[0].RName != cfg.Chrom {
			reason = pair.DiscardOffTarget
		}
		if reason == pair.Kept && cfg.Targets != nil && !onTarget(&p, cfg.Targets) {
			reason = pair.DiscardOffTarget
		}
		stats.Record(reason)
		if reason != pair.Kept {
			continue
		}
		for i := range p.Reads {
			t.Accumulate(p.Reads[i], cfg.QualMin)
		}
	}
	return t, stats
}

func onTarget(p *pair.Pair, targets map[string]*interval.IntervalNode) bool {
	fwd, rev := p.Fwd(), p.Rev()
	span := bed.Bed{Chrom: fwd.RName, ChromStart: fwd.GetChromStart(), ChromEnd: rev.GetChromEnd(), FieldsInitialized: 3}
	return len(interval.Query(targets, span, "any")) > 0
}

// WriteCounts writes the table as one tab-separated row per position and
// orientation.
func (t *Table) WriteCounts(filename string) {
	out := fileio.EasyCreate(filename)
	fmt.Fprintf(out, "pos\torientation\tA\tC\tG\tT\tgap\tN\n")
	for pos := range t.Counts {
		for o := FwdRead1; o < numOrientations; o++ {
			c := t.Counts[pos][o]
			fmt.Fprintf(out, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n", pos, o,
				c[dna.A], c[dna.C], c[dna.G], c[dna.T], c[dna.Gap], c[dna.N])
		}
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// WriteInsertions writes insertion counts as tab-separated rows ordered by
// position then sequence within each orientation.
func (t *Table) WriteInsertions(filename string) {
	out := fileio.EasyCreate(filename)
	fmt.Fprintf(out, "pos\torientation\tseq\tcount\n")
	for o := FwdRead1; o < numOrientations; o++ {
		keys := maps.Keys(t.Inserts[o])
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Pos != keys[j].Pos {
				return keys[i].Pos < keys[j].Pos
			}
			return keys[i].Seq < keys[j].Seq
		})
		for _, ins := range keys {
			fmt.Fprintf(out, "%d\t%s\t%s\t%d\n", ins.Pos, o, ins.Seq, t.Inserts[o][ins])
		}
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

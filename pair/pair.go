// Package pair handles mate pairs of aligned reads: streaming them out of a
// read channel, keeping mate position and insert size consistent through
// trimming, and deciding which pairs are unusable.
package pair

import (
	"github.com/vertgenlab/gonomics/sam"
)

// Pair holds the two reads of a mate pair in file order. Reads are owned
// values: policies mutate them in place and restore consistency with
// Reconcile rather than through back-pointers.
type Pair struct {
	Reads [2]sam.Sam
}

// Fwd returns the forward-strand read. Meaningful only for pairs with one
// read on each strand; callers screen same-strand pairs first.
func (p *Pair) Fwd() *sam.Sam {
	if sam.IsPosStrand(p.Reads[0]) {
		return &p.Reads[0]
	}
	return &p.Reads[1]
}

// Rev returns the reverse-strand read.
func (p *Pair) Rev() *sam.Sam {
	if sam.IsPosStrand(p.Reads[0]) {
		return &p.Reads[1]
	}
	return &p.Reads[0]
}

// GoPairChan converts a read channel into a pair channel, consuming records
// two at a time in file order. Input must be grouped by query name, the order
// aligners emit. A trailing unpaired record is silently dropped; callers must
// not rely on it being processed.
func GoPairChan(reads <-chan sam.Sam) <-chan Pair {
	out := make(chan Pair, 256)
	go func() {
		for first := range reads {
			second, ok := <-reads
			if !ok {
				break
			}
			out <- Pair{Reads: [2]sam.Sam{first, second}}
		}
		close(out)
	}()
	return out
}

// Reconcile recomputes the mate position and insert size fields on both reads
// from their current starts and CIGARs. Must be called after any trim that
// moves a start or changes a reference span. Touches nothing else.
func Reconcile(p *Pair) {
	fwd, rev := p.Fwd(), p.Rev()
	fwd.PNext = rev.Pos
	rev.PNext = fwd.Pos
	isize := int(rev.Pos) - int(fwd.Pos) + refSpan(*rev)
	fwd.TLen = int32(isize)
	rev.TLen = int32(-isize)
}

// refSpan is the read's extent on the reference: the sum of match and
// deletion runs.
func refSpan(r sam.Sam) int {
	var n int
	for _, c := range r.Cigar {
		if c.Op == 'M' || c.Op == 'D' {
			n += c.RunLength
		}
	}
	return n
}

// queryLen is the read extent in read space: the sum of match and insertion
// runs. Equals len(Seq) on any consistent read.
func queryLen(r sam.Sam) int {
	var n int
	for _, c := range r.Cigar {
		if c.Op == 'M' || c.Op == 'I' {
			n += c.RunLength
		}
	}
	return n
}

func properlyPaired(r sam.Sam) bool {
	return r.Flag&2 != 0
}

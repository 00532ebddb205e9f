package pair

import (
	"strings"
	"testing"

	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/sam"
)

func pairedRead(name string, flag uint16, pos uint32, cig string) sam.Sam {
	var s sam.Sam
	s.QName = name
	s.RName = "chr1"
	s.Flag = flag
	s.Pos = pos
	s.Cigar = cigar.FromString(cig)
	s.Seq = make([]dna.Base, queryLen(s))
	s.Qual = strings.Repeat("I", len(s.Seq))
	return s
}

func TestGoPairChan(t *testing.T) {
	reads := make(chan sam.Sam, 5)
	reads <- pairedRead("a", 99, 100, "50M")
	reads <- pairedRead("a", 147, 200, "50M")
	reads <- pairedRead("b", 99, 300, "50M")
	reads <- pairedRead("b", 147, 400, "50M")
	reads <- pairedRead("c", 99, 500, "50M")
	close(reads)

	var pairs []Pair
	for p := range GoPairChan(reads) {
		pairs = append(pairs, p)
	}
	if len(pairs) != 2 {
		t.Fatal("problem with pairing, trailing unpaired read should be dropped", len(pairs))
	}
	if pairs[0].Reads[0].QName != "a" || pairs[0].Reads[1].QName != "a" {
		t.Error("problem with pairing", pairs[0].Reads[0].QName, pairs[0].Reads[1].QName)
	}
	if pairs[1].Reads[0].QName != "b" || pairs[1].Reads[1].QName != "b" {
		t.Error("problem with pairing", pairs[1].Reads[0].QName, pairs[1].Reads[1].QName)
	}
}

func TestFwdRev(t *testing.T) {
	p := Pair{Reads: [2]sam.Sam{pairedRead("p", 99, 100, "50M"), pairedRead("p", 147, 200, "50M")}}
	if p.Fwd().Pos != 100 || p.Rev().Pos != 200 {
		t.Error("problem with strand accessors", p.Fwd().Pos, p.Rev().Pos)
	}

	// read1 on the reverse strand: file order no longer matches strand order
	p = Pair{Reads: [2]sam.Sam{pairedRead("p", 83, 300, "50M"), pairedRead("p", 163, 100, "100M")}}
	if p.Fwd().Pos != 100 || p.Rev().Pos != 300 {
		t.Error("problem with strand accessors on swapped pair", p.Fwd().Pos, p.Rev().Pos)
	}
}

func TestReconcile(t *testing.T) {
	p := Pair{Reads: [2]sam.Sam{pairedRead("p", 99, 100, "100M"), pairedRead("p", 147, 300, "50M")}}
	Reconcile(&p)
	if p.Reads[0].TLen != 250 || p.Reads[1].TLen != -250 {
		t.Error("problem with insert size", p.Reads[0].TLen, p.Reads[1].TLen)
	}
	if p.Reads[0].PNext != 300 || p.Reads[1].PNext != 100 {
		t.Error("problem with mate positions", p.Reads[0].PNext, p.Reads[1].PNext)
	}

	// deletions extend the reverse read's span, insertions do not
	p = Pair{Reads: [2]sam.Sam{pairedRead("p", 99, 100, "100M"), pairedRead("p", 147, 300, "20M5D5I25M")}}
	Reconcile(&p)
	if p.Reads[0].TLen != 250 || p.Reads[1].TLen != -250 {
		t.Error("problem with insert size over indels", p.Reads[0].TLen, p.Reads[1].TLen)
	}

	// swapped file order: signs follow strand, not position in the pair
	p = Pair{Reads: [2]sam.Sam{pairedRead("p", 83, 300, "50M"), pairedRead("p", 163, 100, "100M")}}
	Reconcile(&p)
	if p.Reads[0].TLen != -250 || p.Reads[1].TLen != 250 {
		t.Error("problem with insert size on swapped pair", p.Reads[0].TLen, p.Reads[1].TLen)
	}
}

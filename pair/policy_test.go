package pair

import (
	"strings"
	"testing"

	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/sam"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Error("problem with config validation, defaults should pass", err)
	}

	cfg.MinMatchLen = 6
	cfg.TrimPad = 3
	if err := cfg.Validate(); err == nil {
		t.Error("problem with config validation, pad can eat a whole match block")
	}

	cfg = DefaultConfig()
	cfg.ReadLenMin = 0
	if err := cfg.Validate(); err == nil {
		t.Error("problem with config validation, zero min read length should fail")
	}
}

func TestScanStats(t *testing.T) {
	var s ScanStats
	s.Record(Kept)
	s.Record(DiscardLowQuality)
	s.Record(DiscardLowQuality)
	s.Record(DiscardUnmapped)

	if s.Pairs != 4 || s.Kept != 1 || s.Discarded() != 3 {
		t.Error("problem with scan stats totals", s.Pairs, s.Kept, s.Discarded())
	}
	if s.Discards[DiscardLowQuality] != 2 {
		t.Error("problem with scan stats per-reason count", s.Discards[DiscardLowQuality])
	}
	rep := s.Report()
	if !strings.Contains(rep, "Pairs Processed:\t4") || !strings.Contains(rep, "Discarded (low quality):\t2") {
		t.Error("problem with scan stats report", rep)
	}
}

func TestTrimShortCigarsPair(t *testing.T) {
	p := Pair{Reads: [2]sam.Sam{pairedRead("p", 99, 100, "4M1D2I25M"), pairedRead("p", 147, 300, "25M2I4M")}}
	if reason := TrimShortCigarsPair(&p, 20, 3, false); reason != Kept {
		t.Fatal("problem with pair cigar trim", reason)
	}
	if cigar.ToString(p.Reads[0].Cigar) != "22M" || p.Reads[0].Pos != 108 {
		t.Error("problem with pair cigar trim on forward read", p.Reads[0].Pos, cigar.ToString(p.Reads[0].Cigar))
	}
	if cigar.ToString(p.Reads[1].Cigar) != "22M" || p.Reads[1].Pos != 300 {
		t.Error("problem with pair cigar trim on reverse read", p.Reads[1].Pos, cigar.ToString(p.Reads[1].Cigar))
	}
	if p.Reads[0].TLen != 214 || p.Reads[1].TLen != -214 {
		t.Error("problem with pair cigar trim insert size", p.Reads[0].TLen, p.Reads[1].TLen)
	}

	p = Pair{Reads: [2]sam.Sam{pairedRead("p", 99, 100, "10M3I10M"), pairedRead("p", 147, 300, "50M")}}
	if reason := TrimShortCigarsPair(&p, 20, 3, false); reason != DiscardNoAnchor {
		t.Error("problem with pair cigar trim, unanchorable read should discard", reason)
	}
}

func TestProcessCleanPair(t *testing.T) {
	p := consistentPair()
	cfg := DefaultConfig()
	if reason := Process(&p, cfg); reason != Kept {
		t.Fatal("problem with processing, clean pair discarded", reason)
	}
	if p.Fwd().Pos != 101 || cigar.ToString(p.Fwd().Cigar) != "50M" || len(p.Fwd().Seq) != 50 {
		t.Error("problem with processing, clean pair should be untouched",
			p.Fwd().Pos, cigar.ToString(p.Fwd().Cigar))
	}
}

func TestProcessDiscardReasons(t *testing.T) {
	cfg := DefaultConfig()

	p := consistentPair()
	p.Reads[0].Flag |= 4
	if reason := Process(&p, cfg); reason != DiscardUnmapped {
		t.Error("problem with processing, unmapped read not discarded", reason)
	}

	p = Pair{Reads: [2]sam.Sam{pairedRead("p", 97, 101, "50M"), pairedRead("p", 145, 201, "50M")}}
	Reconcile(&p)
	if reason := Process(&p, cfg); reason != DiscardImproper {
		t.Error("problem with processing, improper pair not discarded", reason)
	}

	p = Pair{Reads: [2]sam.Sam{pairedRead("p", 99, 101, "50M"), pairedRead("p", 163, 201, "50M")}}
	if reason := Process(&p, cfg); reason != DiscardImproper {
		t.Error("problem with processing, same-strand pair not discarded", reason)
	}

	p = consistentPair()
	p.Reads[0].Cigar = cigar.FromString("10S40M")
	if reason := Process(&p, cfg); reason != DiscardExoticCigar {
		t.Error("problem with processing, exotic cigar not discarded", reason)
	}

	p = consistentPair()
	p.Reads[0].Qual = strings.Repeat("+", 50)
	p.Reads[1].Qual = strings.Repeat("+", 50)
	if reason := Process(&p, cfg); reason != DiscardLowQuality {
		t.Error("problem with processing, low quality pair not discarded", reason)
	}

	p = consistentPair()
	p.Fwd().TLen += 10
	p.Rev().TLen -= 10
	if reason := Process(&p, cfg); reason != DiscardIntegrity {
		t.Error("problem with processing, inconsistent pair not discarded", reason)
	}

	p = consistentPair()
	cfg.RefLen = 240
	if reason := Process(&p, cfg); reason != DiscardExceedsReference {
		t.Error("problem with processing, out of bounds pair not discarded", reason)
	}
}

func TestProcessCollapsedInsert(t *testing.T) {
	// reverse read sits mostly before the forward read; quality trimming its
	// right edge shrinks the insert to nothing
	fwd := pairedRead("p", 99, 120, "50M")
	rev := pairedRead("p", 147, 101, "50M")
	rev.Qual = strings.Repeat("?", 15) + strings.Repeat("+", 35)
	p := Pair{Reads: [2]sam.Sam{fwd, rev}}
	Reconcile(&p)

	cfg := DefaultConfig()
	cfg.ReadLenMin = 10
	if reason := Process(&p, cfg); reason != DiscardCollapsedInsert {
		t.Error("problem with processing, collapsed insert not discarded", reason)
	}
}

func TestProcessCrossOverhang(t *testing.T) {
	p := Pair{Reads: [2]sam.Sam{pairedRead("p", 99, 100, "120M"), pairedRead("p", 147, 100, "120M")}}
	Reconcile(&p)
	cfg := DefaultConfig()

	if reason := Process(&p, cfg); reason != Kept {
		t.Fatal("problem with overhang processing", reason)
	}
	if cigar.ToString(p.Fwd().Cigar) != "115M" || p.Fwd().Pos != 100 || len(p.Fwd().Seq) != 115 {
		t.Error("problem with overhang processing on forward read",
			p.Fwd().Pos, cigar.ToString(p.Fwd().Cigar), len(p.Fwd().Seq))
	}
	if cigar.ToString(p.Rev().Cigar) != "115M" || p.Rev().Pos != 105 || len(p.Rev().Seq) != 115 {
		t.Error("problem with overhang processing on reverse read",
			p.Rev().Pos, cigar.ToString(p.Rev().Cigar), len(p.Rev().Seq))
	}
	if p.Fwd().TLen != 120 || p.Rev().TLen != -120 {
		t.Error("problem with overhang processing insert size", p.Fwd().TLen, p.Rev().TLen)
	}

	// clipping is idempotent: processing the same pair again changes nothing
	if reason := Process(&p, cfg); reason != Kept {
		t.Fatal("problem with overhang processing on second pass", reason)
	}
	if p.Fwd().Pos != 100 || p.Rev().Pos != 105 || len(p.Fwd().Seq) != 115 || len(p.Rev().Seq) != 115 {
		t.Error("problem with overhang processing, second pass should be a no-op",
			p.Fwd().Pos, p.Rev().Pos)
	}
}

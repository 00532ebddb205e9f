package trim

import (
	"strings"
	"testing"

	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/sam"
)

func clipRead(pos uint32, cig string, seqLen int) sam.Sam {
	var s sam.Sam
	s.QName = "test"
	s.Pos = pos
	s.Cigar = cigar.FromString(cig)
	s.Seq = make([]dna.Base, seqLen)
	s.Qual = strings.Repeat("I", seqLen)
	return s
}

func TestClipRefTail(t *testing.T) {
	s := clipRead(100, "50M", 50)
	if !ClipRefTail(&s, 130) {
		t.Fatal("problem with tail clip, should have removed bases")
	}
	if cigar.ToString(s.Cigar) != "30M" || s.Pos != 100 || len(s.Seq) != 30 {
		t.Error("problem with tail clip", s.Pos, cigar.ToString(s.Cigar), len(s.Seq))
	}

	// clipping again at the same limit is a no-op
	if ClipRefTail(&s, 130) {
		t.Error("problem with tail clip, second clip should remove nothing")
	}

	// read already ends before the limit
	s = clipRead(100, "50M", 50)
	if ClipRefTail(&s, 200) {
		t.Error("problem with tail clip, limit beyond the read should remove nothing")
	}

	// clip landing inside a deletion must not leave a trailing deletion
	s = clipRead(100, "20M10D20M", 40)
	if !ClipRefTail(&s, 125) {
		t.Fatal("problem with tail clip at deletion, should have removed bases")
	}
	if cigar.ToString(s.Cigar) != "20M" || len(s.Seq) != 20 {
		t.Error("problem with tail clip at deletion", cigar.ToString(s.Cigar), len(s.Seq))
	}
}

func TestClipRefHead(t *testing.T) {
	s := clipRead(100, "50M", 50)
	if !ClipRefHead(&s, 110) {
		t.Fatal("problem with head clip, should have removed bases")
	}
	if cigar.ToString(s.Cigar) != "40M" || s.Pos != 110 || len(s.Seq) != 40 {
		t.Error("problem with head clip", s.Pos, cigar.ToString(s.Cigar), len(s.Seq))
	}

	// clipping again at the same limit is a no-op
	if ClipRefHead(&s, 110) {
		t.Error("problem with head clip, second clip should remove nothing")
	}

	// read already starts after the limit
	s = clipRead(100, "50M", 50)
	if ClipRefHead(&s, 50) {
		t.Error("problem with head clip, limit before the read should remove nothing")
	}

	// clip landing inside a deletion must not leave a leading deletion
	s = clipRead(100, "20M10D20M", 40)
	if !ClipRefHead(&s, 125) {
		t.Fatal("problem with head clip at deletion, should have removed bases")
	}
	if cigar.ToString(s.Cigar) != "20M" || s.Pos != 130 || len(s.Seq) != 20 {
		t.Error("problem with head clip at deletion", s.Pos, cigar.ToString(s.Cigar), len(s.Seq))
	}
}

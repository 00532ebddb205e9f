package pair

// Pure predicates over pairs, true when something is wrong. In debug runs they
// back assertions around every mutating policy; in production they act as
// data-quality filters.

// IntegrityViolated reports whether the pair's coordinate bookkeeping is
// broken: a missing forward start, mate positions that do not point at each
// other, insert sizes with the wrong sign, a forward start plus insert size
// that misses the reverse read's end, or a CIGAR that disagrees with the
// sequence length.
func IntegrityViolated(p *Pair) bool {
	fwd, rev := p.Fwd(), p.Rev()

	if fwd.Pos == 0 {
		return true
	}
	if p.Reads[0].PNext != p.Reads[1].Pos || p.Reads[1].PNext != p.Reads[0].Pos {
		return true
	}
	if fwd.TLen <= 0 || rev.TLen >= 0 {
		return true
	}
	if int(fwd.Pos)+int(fwd.TLen) != int(rev.Pos)+refSpan(*rev) {
		return true
	}
	if queryLen(p.Reads[0]) != len(p.Reads[0].Seq) || queryLen(p.Reads[1]) != len(p.Reads[1].Seq) {
		return true
	}
	return false
}

// HasExoticCigar reports whether either read carries a CIGAR op outside
// match, insertion, and deletion.
func HasExoticCigar(p *Pair) bool {
	for i := range p.Reads {
		for _, c := range p.Reads[i].Cigar {
			switch c.Op {
			case 'M', 'I', 'D':
			default:
				return true
			}
		}
	}
	return false
}

// ExceedsReference reports whether either read maps at or beyond the end of a
// reference of refLen bases.
func ExceedsReference(p *Pair, refLen int) bool {
	for i := range p.Reads {
		start := int(p.Reads[i].Pos) - 1
		end := start + refSpan(p.Reads[i])
		if start >= refLen || end > refLen {
			return true
		}
	}
	return false
}

// IsCrossOverhang reports whether the pair sequenced past its own insert:
// the forward read spans more reference than its insert size, or starts after
// the reverse read. Both signal adapter read-through.
func IsCrossOverhang(p *Pair) bool {
	fwd, rev := p.Fwd(), p.Rev()
	if refSpan(*fwd) > int(fwd.TLen) {
		return true
	}
	return fwd.Pos > rev.Pos
}

// Package filter rewrites paired alignments into a cleaned BAM, applying the
// same trimming pipeline the allele counter uses so downstream tools see
// exactly the bases that would be counted.
package filter

import (
	"log"

	"github.com/hivevo/hivTools/pair"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/sam"
)

// Pairs streams input through the pair pipeline and writes surviving pairs to
// output as BAM. Input must be grouped by read name so mates are adjacent;
// coordinate-sorted files are rejected outright.
func Pairs(input, output string, cfg pair.Config, verbose int) pair.ScanStats {
	var err error
	var stats pair.ScanStats
	reads, header := sam.GoReadToChan(input)
	if len(header.Metadata.SortOrder) > 0 && header.Metadata.SortOrder[0] == sam.Coordinate {
		log.Fatal("ERROR: input must be grouped by read name, not coordinate sorted")
	}
	out := fileio.EasyCreate(output)
	bw := sam.NewBamWriter(out, header)

	for p := range pair.GoPairChan(reads) {
		reason := pair.Process(&p, cfg)
		stats.Record(reason)
		if verbose > 0 && stats.Pairs%100000 == 0 {
			log.Printf("processed %d pairs\n", stats.Pairs)
		}
		if reason != pair.Kept {
			continue
		}
		sam.WriteToBamFileHandle(bw, p.Reads[0], 0)
		sam.WriteToBamFileHandle(bw, p.Reads[1], 0)
	}

	err = bw.Close()
	exception.PanicOnErr(err)
	err = out.Close()
	exception.PanicOnErr(err)
	return stats
}

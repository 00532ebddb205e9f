// Package fai reads fasta index files so reference lengths are available
// without parsing the fasta itself.
package fai

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Index holds the references listed in a fai file in file order.
type Index struct {
	chroms  []chrOffset    // for search by index
	nameMap map[string]int // maps reference name to index in chroms
}

// String method for Index enables easy writing with the fmt package.
func (idx Index) String() string {
	answer := new(strings.Builder)
	for i := range idx.chroms {
		answer.WriteString(idx.chroms[i].String())
		answer.WriteByte('\n')
	}
	return answer.String()
}

// Size returns the length in bases of the named reference. Asking for a
// reference the index does not list is fatal: a length of zero would silently
// disable downstream bounds checks.
func (idx Index) Size(chr string) int {
	i, ok := idx.nameMap[chr]
	if !ok {
		log.Fatalf("ERROR: reference %s not found in index\n", chr)
	}
	return idx.chroms[i].len
}

// Names returns the reference names in file order.
func (idx Index) Names() []string {
	answer := make([]string, len(idx.chroms))
	for i := range idx.chroms {
		answer[i] = idx.chroms[i].name
	}
	return answer
}

// chrOffset has offset information about each reference. Equivalent to one line of a fai file.
type chrOffset struct {
	name         string // Name of this reference sequence
	len          int    // Total length of this reference sequence, in bases
	offset       int    // Offset within the FASTA file of this sequence's first base
	basesPerLine int    // The number of bases on each line
	bytesPerLine int    // The number of bytes in each line, including the newline
}

// String method for chrOffset enables easy writing with the fmt package.
func (c chrOffset) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d", c.name, c.len, c.offset, c.basesPerLine, c.bytesPerLine)
}

// ReadIndex reads a fai index file to an Index struct for reference length lookups.
func ReadIndex(filename string) Index {
	file := fileio.EasyOpen(filename)
	var answer Index
	var curr chrOffset
	var line string
	var col []string
	var done bool
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col = strings.Split(line, "\t")
		if len(col) != 5 {
			log.Fatalf("ERROR: malformed index file: %s\nerror on line:\n%s\n", filename, line)
		}

		curr.name = col[0]
		curr.len, err = strconv.Atoi(col[1])
		exception.PanicOnErr(err)
		curr.offset, err = strconv.Atoi(col[2])
		exception.PanicOnErr(err)
		curr.basesPerLine, err = strconv.Atoi(col[3])
		exception.PanicOnErr(err)
		curr.bytesPerLine, err = strconv.Atoi(col[4])
		exception.PanicOnErr(err)

		answer.chroms = append(answer.chroms, curr)
	}

	err = file.Close()
	exception.PanicOnErr(err)

	answer.nameMap = make(map[string]int)
	for i := range answer.chroms {
		answer.nameMap[answer.chroms[i].name] = i
	}
	return answer
}

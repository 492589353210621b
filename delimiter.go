package coexstats

import (
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in head, assuming a CSV-like file. Tab-delimited output is the norm
// for network and expression tables, so a tab in the header line wins when the
// detector is undecided.
func DetermineDelimiter(head []byte) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(head), '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	firstLine := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		firstLine = head[:i]
	}
	if bytes.IndexByte(firstLine, '\t') >= 0 {
		return '\t'
	}

	return ','
}

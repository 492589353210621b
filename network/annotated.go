package network

import (
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// Missing is written in place of a result that could not be computed.
const Missing = "NA"

// Annotated is a copy of a network with result columns appended. Values is
// indexed by the original edge position, then by column.
type Annotated struct {
	*Network
	Columns []string
	Values  [][]null.Float
}

// NewAnnotated allocates an annotated copy of net with the named columns, all
// initially missing. net itself is not modified.
func NewAnnotated(net *Network, columns []string) *Annotated {
	out := &Annotated{
		Network: net.Clone(),
		Columns: append([]string(nil), columns...),
		Values:  make([][]null.Float, len(net.Edges)),
	}
	for i := range out.Values {
		out.Values[i] = make([]null.Float, len(columns))
	}

	return out
}

// ColumnIndex returns the position of an appended column, or -1.
func (a *Annotated) ColumnIndex(name string) int {
	for i, v := range a.Columns {
		if v == name {
			return i
		}
	}

	return -1
}

// Column returns the values of an appended column in edge order.
func (a *Annotated) Column(name string) ([]null.Float, error) {
	c := a.ColumnIndex(name)
	if c < 0 {
		return nil, fmt.Errorf("Column %s not found. Valid columns include: %v", name, a.Columns)
	}

	out := make([]null.Float, len(a.Values))
	for i, row := range a.Values {
		out[i] = row[c]
	}

	return out, nil
}

// Strip returns the network without its appended columns.
func (a *Annotated) Strip() *Network {
	return a.Network.Clone()
}

// Merge returns a new Annotated holding the columns of a followed by those of
// b. Both must annotate the same number of edges.
func (a *Annotated) Merge(b *Annotated) (*Annotated, error) {
	if len(a.Values) != len(b.Values) {
		return nil, fmt.Errorf("Cannot merge annotations of %d and %d edges", len(a.Values), len(b.Values))
	}

	out := NewAnnotated(a.Network, append(append([]string(nil), a.Columns...), b.Columns...))
	for i := range out.Values {
		copy(out.Values[i], a.Values[i])
		copy(out.Values[i][len(a.Columns):], b.Values[i])
	}

	return out, nil
}

// FormatValue renders a result for output, using Missing for invalid values.
func FormatValue(v null.Float) string {
	if !v.Valid {
		return Missing
	}

	return strconv.FormatFloat(v.Float64, 'g', -1, 64)
}

// Write emits the annotated network as a tab-delimited table.
func (a *Annotated) Write(w io.Writer) error {
	cw := newTSVWriter(w)
	withSamples := a.Network.hasSamples()

	if err := cw.Write(append(a.Network.Header(), a.Columns...)); err != nil {
		return pfx.Err(err)
	}

	for i := range a.Network.Edges {
		row := a.Network.row(i, withSamples)
		if i < len(a.Values) {
			for _, v := range a.Values[i] {
				row = append(row, FormatValue(v))
			}
		}
		if err := cw.Write(row); err != nil {
			return pfx.Err(err)
		}
	}

	cw.Flush()

	return pfx.Err(cw.Error())
}

package coexstats

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// BufferSize is the read buffer used for delimited tables.
const BufferSize = 4096 * 8

// Table is a delimited text file held in memory: a header row and the rows
// that follow it.
type Table struct {
	Header    []string
	Rows      [][]string
	Delimiter rune
}

// Column returns the index of the named header column, or -1.
func (t *Table) Column(name string) int {
	for i, v := range t.Header {
		if v == name {
			return i
		}
	}

	return -1
}

// ReadTable parses a delimited table from r, detecting the delimiter from the
// first bytes of the stream. Lines beginning with # are comments.
func ReadTable(r io.Reader) (*Table, error) {
	br := bufio.NewReaderSize(r, BufferSize)

	head, err := br.Peek(BufferSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, pfx.Err(err)
	}
	if len(head) == 0 {
		return nil, pfx.Err(fmt.Errorf("No entries in the input"))
	}

	delim := DetermineDelimiter(head)

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.Comment = '#'
	cr.LazyQuotes = true
	// Row widths are checked by each table's consumer; expression matrices
	// written with row names have one fewer header cell than data cells.
	cr.FieldsPerRecord = -1

	out := &Table{Delimiter: delim}

	for i := 0; ; i++ {
		line, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		if i == 0 {
			out.Header = line
			continue
		}

		out.Rows = append(out.Rows, line)
	}

	if out.Header == nil {
		return nil, pfx.Err(fmt.Errorf("No header row in the input"))
	}

	return out, nil
}

// ReadTableFromPath opens a local or gs:// path and parses it with ReadTable.
func ReadTableFromPath(ctx context.Context, path string, client *storage.Client) (*Table, error) {
	f, err := Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return t, nil
}

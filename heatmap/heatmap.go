// Package heatmap draws the edge by sample membership matrix as a PNG, with
// rows in dendrogram order, a dendrogram on the left and a strip across the
// top coloring each sample by its primary sort category.
package heatmap

import (
	"fmt"
	"image/color"
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/carbocation/coexstats/annotation"
	"github.com/carbocation/coexstats/edgecluster"
	"github.com/carbocation/pfx"
	"github.com/fogleman/gg"
	"github.com/icza/gox/imagex/colorx"
	"gonum.org/v1/gonum/mat"
)

var (
	MemberColor  = color.RGBA{0, 0, 0, 255}
	AbsentColor  = color.RGBA{255, 255, 255, 255}
	MissingColor = color.RGBA{190, 190, 190, 255}
)

// Options controls layout and coloring. Zero sizes take defaults.
type Options struct {
	// SortBy orders the sample columns: by the first field, then by the
	// second among ties, and so on. The first field colors the strip.
	SortBy []string

	// Palette maps a category of the first SortBy field to a hex color such
	// as "#1f77b4". Other categories get a random color from Rand.
	Palette map[string]string

	// Rand supplies category colors. If nil, a time-seeded source is used,
	// so colors differ between runs.
	Rand *rand.Rand

	CellWidth       float64
	CellHeight      float64
	StripHeight     float64
	DendrogramWidth float64
}

func (o Options) withDefaults() Options {
	if o.CellWidth <= 0 {
		o.CellWidth = 4
	}
	if o.CellHeight <= 0 {
		o.CellHeight = 4
	}
	if o.StripHeight <= 0 {
		o.StripHeight = 12
	}
	if o.DendrogramWidth <= 0 {
		o.DendrogramWidth = 120
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return o
}

// ColumnOrder returns the sample positions sorted by the sortBy fields.
// Missing values sort after present ones; remaining ties keep input order.
func ColumnOrder(ann *annotation.Table, sampleIDs []string, sortBy []string) ([]int, error) {
	keys := make([][]string, 0, len(sortBy))
	for _, field := range sortBy {
		v, err := ann.Aligned(field, sampleIDs)
		if err != nil {
			return nil, err
		}
		keys = append(keys, v)
	}

	out := make([]int, len(sampleIDs))
	for i := range out {
		out[i] = i
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for _, key := range keys {
			x, y := key[a], key[b]
			if x == y {
				continue
			}
			xMissing, yMissing := annotation.IsMissing(x), annotation.IsMissing(y)
			if xMissing != yMissing {
				return yMissing
			}
			if xMissing {
				continue
			}
			return x < y
		}
		return false
	})

	return out, nil
}

// Colors assigns a color to each category, taking it from palette when
// present and otherwise drawing a random opaque RGB color from rnd.
func Colors(categories []string, palette map[string]string, rnd *rand.Rand) (map[string]color.Color, error) {
	out := make(map[string]color.Color, len(categories))
	for _, c := range categories {
		if hex, exists := palette[c]; exists {
			v, err := colorx.ParseHexColor(hex)
			if err != nil {
				return nil, fmt.Errorf("Palette color for %s: %w", c, err)
			}
			out[c] = v
			continue
		}

		out[c] = color.RGBA{uint8(rnd.Intn(256)), uint8(rnd.Intn(256)), uint8(rnd.Intn(256)), 255}
	}

	return out, nil
}

// Render draws m, whose rows are edges and whose columns are the samples
// named by sampleIDs, and writes it to w as a PNG. tree must cluster the rows
// of m; if it is nil the rows are drawn in input order without a dendrogram.
func Render(w io.Writer, m *mat.Dense, tree *edgecluster.Tree, ann *annotation.Table, sampleIDs []string, opts Options) error {
	opts = opts.withDefaults()

	rows, cols := m.Dims()
	if cols != len(sampleIDs) {
		return fmt.Errorf("Matrix has %d columns but %d sample IDs were given", cols, len(sampleIDs))
	}

	rowOrder := make([]int, rows)
	for i := range rowOrder {
		rowOrder[i] = i
	}
	if tree != nil {
		if tree.N != rows {
			return fmt.Errorf("Tree clusters %d items but the matrix has %d rows", tree.N, rows)
		}
		rowOrder = tree.Order
	}

	colOrder, err := ColumnOrder(ann, sampleIDs, opts.SortBy)
	if err != nil {
		return pfx.Err(err)
	}

	var strip []string
	var palette map[string]color.Color
	if len(opts.SortBy) > 0 {
		strip, err = ann.Aligned(opts.SortBy[0], sampleIDs)
		if err != nil {
			return pfx.Err(err)
		}
		categories, err := ann.Levels(opts.SortBy[0])
		if err != nil {
			return pfx.Err(err)
		}
		palette, err = Colors(categories, opts.Palette, opts.Rand)
		if err != nil {
			return pfx.Err(err)
		}
	}

	left := opts.DendrogramWidth
	top := opts.StripHeight
	width := left + float64(cols)*opts.CellWidth
	height := top + float64(rows)*opts.CellHeight

	dc := gg.NewContext(int(width), int(height))
	dc.SetColor(AbsentColor)
	dc.Clear()

	for x, j := range colOrder {
		if strip == nil {
			break
		}
		c, exists := palette[strip[j]]
		if !exists {
			c = MissingColor
		}
		dc.SetColor(c)
		dc.DrawRectangle(left+float64(x)*opts.CellWidth, 0, opts.CellWidth, top)
		dc.Fill()
	}

	dc.SetColor(MemberColor)
	for y, i := range rowOrder {
		for x, j := range colOrder {
			if m.At(i, j) == 0 {
				continue
			}
			dc.DrawRectangle(left+float64(x)*opts.CellWidth, top+float64(y)*opts.CellHeight, opts.CellWidth, opts.CellHeight)
		}
	}
	dc.Fill()

	if tree != nil {
		drawDendrogram(dc, tree, top, opts.CellHeight, left)
	}

	return pfx.Err(dc.EncodePNG(w))
}

// drawDendrogram draws tree in the band [0, width) left of the rows, with the
// root at the left edge and the leaves against the matrix.
func drawDendrogram(dc *gg.Context, tree *edgecluster.Tree, top, rowHeight, width float64) {
	if len(tree.Merges) == 0 {
		return
	}

	maxHeight := 0.0
	for _, m := range tree.Merges {
		if m.Height > maxHeight {
			maxHeight = m.Height
		}
	}
	if maxHeight <= 0 {
		maxHeight = 1
	}

	// Leave a margin so the root line is visible.
	span := width - 4
	xOf := func(h float64) float64 {
		if h < 0 {
			h = 0
		}
		return width - 2 - span*h/maxHeight
	}

	ys := make([]float64, tree.N+len(tree.Merges))
	xs := make([]float64, len(ys))
	for pos, leaf := range tree.Order {
		ys[leaf] = top + (float64(pos)+0.5)*rowHeight
		xs[leaf] = width
	}

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	for k, m := range tree.Merges {
		node := tree.N + k
		x := xOf(m.Height)
		ys[node] = (ys[m.A] + ys[m.B]) / 2
		xs[node] = x

		dc.DrawLine(x, ys[m.A], x, ys[m.B])
		dc.DrawLine(x, ys[m.A], xs[m.A], ys[m.A])
		dc.DrawLine(x, ys[m.B], xs[m.B], ys[m.B])
	}
	dc.Stroke()
}

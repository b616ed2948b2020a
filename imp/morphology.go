package imp

import (
	"container/heap"
	"image"
	"math"
	"slices"
)

// Watershed labels.
const (
	LabelNone       uint8 = 0
	LabelBackground uint8 = 1
	LabelSubject    uint8 = 2
)

// An EdgeMap holds the gradient magnitude of a picture.
type EdgeMap struct {
	W, H int
	Mag  []float32
}

// A LabelGrid assigns a label to every pixel of a picture.
type LabelGrid struct {
	W, H   int
	Labels []uint8
}

// Mask returns the pixels carrying label.
func (g *LabelGrid) Mask(label uint8) *Mask {
	m := NewMask(g.W, g.H)
	for i, l := range g.Labels {
		m.Bits[i] = l == label
	}
	return m
}

// A Mask selects pixels of a picture.
type Mask struct {
	W, H int
	Bits []bool
}

// NewMask returns an empty w*h mask.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Bits: make([]bool, w*h)}
}

// At reports whether (x, y) is selected. Points outside the mask aren't.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Bits[y*m.W+x]
}

// Count returns the number of selected pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Segmenter is the set of image operations the subject isolation relies on.
type Segmenter interface {
	// EdgeMap computes the gradient magnitude of ch.
	EdgeMap(ch *image.Gray) *EdgeMap
	// Watershed floods edges from the non-zero markers until every
	// reachable pixel carries the label of a seed.
	Watershed(edges *EdgeMap, markers *LabelGrid) *LabelGrid
	// Erode shrinks m with a disk of given radius.
	Erode(m *Mask, radius int) *Mask
	// Median replaces every pixel with the median of a disk around it.
	Median(ch *image.Gray, radius int) *image.Gray
}

// Morphology is the pure Go Segmenter.
type Morphology struct{}

var _ Segmenter = Morphology{}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// disk lists the offsets of a disk-shaped structuring element.
func disk(radius int) []image.Point {
	var pts []image.Point
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				pts = append(pts, image.Point{X: dx, Y: dy})
			}
		}
	}
	return pts
}

// EdgeMap applies the Sobel operator. Borders are replicated.
func (Morphology) EdgeMap(ch *image.Gray) *EdgeMap {
	b := ch.Bounds()
	w, h := b.Dx(), b.Dy()
	e := &EdgeMap{W: w, H: h, Mag: make([]float32, w*h)}

	at := func(x, y int) float64 {
		x = clampInt(x, 0, w-1)
		y = clampInt(y, 0, h-1)
		return float64(ch.Pix[y*ch.Stride+x])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			e.Mag[y*w+x] = float32(math.Hypot(gx, gy))
		}
	}
	return e
}

type floodItem struct {
	level float32
	age   uint64
	idx   int
}

// floodQueue pops the lowest level first, oldest first among equals.
type floodQueue []floodItem

func (q floodQueue) Len() int { return len(q) }
func (q floodQueue) Less(i, j int) bool {
	if q[i].level != q[j].level {
		return q[i].level < q[j].level
	}
	return q[i].age < q[j].age
}
func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *floodQueue) Push(x interface{}) {
	*q = append(*q, x.(floodItem))
}
func (q *floodQueue) Pop() interface{} {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

var neighbours4 = [...]image.Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// Watershed runs a priority flood from markers over edges, with
// 4-connectivity. A pixel takes the label of the first basin that reaches it.
func (Morphology) Watershed(edges *EdgeMap, markers *LabelGrid) *LabelGrid {
	w, h := markers.W, markers.H
	out := &LabelGrid{W: w, H: h, Labels: slices.Clone(markers.Labels)}

	q := make(floodQueue, 0, w*h)
	var age uint64
	for i, l := range out.Labels {
		if l != LabelNone {
			q = append(q, floodItem{level: edges.Mag[i], age: age, idx: i})
			age++
		}
	}
	heap.Init(&q)

	for q.Len() > 0 {
		it := heap.Pop(&q).(floodItem)
		x, y := it.idx%w, it.idx/w
		for _, d := range neighbours4 {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			n := ny*w + nx
			if out.Labels[n] != LabelNone {
				continue
			}
			out.Labels[n] = out.Labels[it.idx]
			heap.Push(&q, floodItem{level: edges.Mag[n], age: age, idx: n})
			age++
		}
	}
	return out
}

// Erode keeps the pixels of m whose whole disk neighbourhood is selected.
// Pixels beyond the border count as selected.
func (Morphology) Erode(m *Mask, radius int) *Mask {
	se := disk(radius)
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
	PIXELS:
		for x := 0; x < m.W; x++ {
			if !m.Bits[y*m.W+x] {
				continue
			}
			for _, o := range se {
				nx, ny := x+o.X, y+o.Y
				if nx < 0 || ny < 0 || nx >= m.W || ny >= m.H {
					continue
				}
				if !m.Bits[ny*m.W+nx] {
					continue PIXELS
				}
			}
			out.Bits[y*m.W+x] = true
		}
	}
	return out
}

// Median filters ch over a disk of given radius. Borders are replicated.
func (Morphology) Median(ch *image.Gray, radius int) *image.Gray {
	b := ch.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	if radius < 0 {
		radius = 0
	}
	se := disk(radius)
	window := make([]uint8, len(se))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for k, o := range se {
				nx := clampInt(x+o.X, 0, w-1)
				ny := clampInt(y+o.Y, 0, h-1)
				window[k] = ch.Pix[ny*ch.Stride+nx]
			}
			slices.Sort(window)
			dst.Pix[y*dst.Stride+x] = window[len(window)/2]
		}
	}
	return dst
}

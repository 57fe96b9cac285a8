package stitch

// BoundaryTables files every patch edge under the UV coordinate that is
// constant along it. Each table lists ranges in patch order.
type BoundaryTables struct {
	Top    map[float32][]VertexRange
	Bottom map[float32][]VertexRange
	Left   map[float32][]VertexRange
	Right  map[float32][]VertexRange
}

// BuildBoundaryTables indexes the four edges of every patch.
// Patches that are not axis-aligned produce meaningless entries; they are
// not rejected here (see Validate).
func BuildBoundaryTables(patches []Patch) *BoundaryTables {
	t := &BoundaryTables{
		Top:    make(map[float32][]VertexRange),
		Bottom: make(map[float32][]VertexRange),
		Left:   make(map[float32][]VertexRange),
		Right:  make(map[float32][]VertexRange),
	}

	for i := range patches {
		r := patches[i].indexExtents()

		t.Left[r.Left] = append(t.Left[r.Left], VertexRange{
			Start: r.Lower, End: r.Upper, StartCorner: 0, EndCorner: 1, Patch: i,
		})
		t.Top[r.Upper] = append(t.Top[r.Upper], VertexRange{
			Start: r.Left, End: r.Right, StartCorner: 1, EndCorner: 2, Patch: i,
		})
		t.Right[r.Right] = append(t.Right[r.Right], VertexRange{
			Start: r.Lower, End: r.Upper, StartCorner: 3, EndCorner: 2, Patch: i,
		})
		t.Bottom[r.Lower] = append(t.Bottom[r.Lower], VertexRange{
			Start: r.Left, End: r.Right, StartCorner: 0, EndCorner: 3, Patch: i,
		})
	}

	return t
}

// Table returns the table for edge e.
func (t *BoundaryTables) Table(e Edge) map[float32][]VertexRange {
	switch e {
	case EdgeTop:
		return t.Top
	case EdgeBottom:
		return t.Bottom
	case EdgeLeft:
		return t.Left
	case EdgeRight:
		return t.Right
	}
	return nil
}

// Lookup returns the ranges filed under key in the table for edge e.
func (t *BoundaryTables) Lookup(e Edge, key float32) []VertexRange {
	return t.Table(e)[key]
}

// Len returns the total number of ranges across all tables.
func (t *BoundaryTables) Len() int {
	n := 0
	for _, m := range []map[float32][]VertexRange{t.Top, t.Bottom, t.Left, t.Right} {
		for _, rs := range m {
			n += len(rs)
		}
	}
	return n
}

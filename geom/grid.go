package geom

// Grid provides an interface for reasoning over a 1D slice as if it were a
// 3D grid with x-major ordering.
type Grid struct {
	Width                [3]int
	Length, Area, Volume int
}

// NewGrid returns a new Grid instance.
func NewGrid(width [3]int) *Grid {
	g := &Grid{}
	g.Init(width)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(width [3]int) {
	g.Width = width

	g.Length = width[0]
	g.Area = width[0] * width[1]
	g.Volume = width[0] * width[1] * width[2]
}

// Coords returns the x, y, z coordinates of a point from its grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx % g.Length
	y = (idx % g.Area) / g.Length
	z = idx / g.Area
	return x, y, z
}

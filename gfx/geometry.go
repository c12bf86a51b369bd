package gfx

import "math"

// Sphere builds a UV sphere. U runs around the Y axis starting at -X, V from
// the south pole (0) to the north pole (1).
func Sphere(radius Scalar, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	g := &Geometry{}
	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			n := V3(
				Scalar(-math.Cos(u*2*math.Pi)*math.Sin(v*math.Pi)),
				Scalar(math.Cos(v*math.Pi)),
				Scalar(math.Sin(u*2*math.Pi)*math.Sin(v*math.Pi)),
			)
			row[ix] = uint32(len(g.Vertices))
			g.Vertices = append(g.Vertices, Vertex{
				Pos:    n.Mul(radius),
				Normal: Normalize(n),
				UV:     V2(Scalar(u), Scalar(1-v)),
			})
		}
		grid[iy] = row
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// Plane builds a w x h quad in the XY plane facing +Z.
func Plane(w, h Scalar) *Geometry {
	hw, hh := w/2, h/2
	n := V3(0, 0, 1)
	return &Geometry{
		Vertices: []Vertex{
			{Pos: V3(-hw, hh, 0), Normal: n, UV: V2(0, 1)},
			{Pos: V3(hw, hh, 0), Normal: n, UV: V2(1, 1)},
			{Pos: V3(-hw, -hh, 0), Normal: n, UV: V2(0, 0)},
			{Pos: V3(hw, -hh, 0), Normal: n, UV: V2(1, 0)},
		},
		Indices: []uint32{0, 2, 1, 2, 3, 1},
	}
}

// Apply transforms every vertex by m in place.
func (g *Geometry) Apply(m Mat4) *Geometry {
	nm := Mat4Inverse(m)
	for i := range g.Vertices {
		v := &g.Vertices[i]
		v.Pos = m.TransformPoint(v.Pos)
		// Normal matrix is the inverse transpose.
		n := v.Normal
		v.Normal = Normalize(V3(
			nm[0]*n.X+nm[1]*n.Y+nm[2]*n.Z,
			nm[4]*n.X+nm[5]*n.Y+nm[6]*n.Z,
			nm[8]*n.X+nm[9]*n.Y+nm[10]*n.Z,
		))
	}
	return g
}

func (g *Geometry) RotateX(rad Scalar) *Geometry { return g.Apply(Mat4RotateX(rad)) }
func (g *Geometry) Translate(v Vec3) *Geometry  { return g.Apply(Mat4Translate(v)) }

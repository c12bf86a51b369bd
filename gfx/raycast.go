package gfx

import "sort"

// Ray is a half-line in world space.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t Scalar) Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// Intersection is one ray hit.
type Intersection struct {
	Distance Scalar
	Point    Vec3
	UV       Vec2
	Object   *Node
}

// Raycaster picks scene nodes under a screen position.
type Raycaster struct {
	Ray  Ray
	Near Scalar
	Far  Scalar

	view Mat4
}

// SetFromCamera aims the ray from the camera through ndc (x, y in [-1, 1]).
func (rc *Raycaster) SetFromCamera(ndc Vec2, cam *PerspectiveCamera) {
	origin := cam.Position
	p := cam.Unproject(V3(ndc.X, ndc.Y, 0.5))
	rc.Ray = Ray{Origin: origin, Dir: Normalize(p.Sub(origin))}
	rc.view = cam.View()
	if rc.Far == 0 {
		rc.Far = cam.Far
	}
}

// IntersectObject tests n (and its subtree when recursive) and returns hits
// sorted nearest first. Invisible subtrees are skipped.
func (rc *Raycaster) IntersectObject(n *Node, recursive bool) []Intersection {
	var hits []Intersection
	rc.intersect(n, n.World(), recursive, &hits)
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func (rc *Raycaster) intersect(n *Node, world Mat4, recursive bool, hits *[]Intersection) {
	if n == nil || !n.Visible {
		return
	}
	switch {
	case n.Mesh != nil:
		rc.intersectMesh(n, world, hits)
	case n.Sprite != nil:
		rc.intersectSprite(n, world, hits)
	}
	if !recursive {
		return
	}
	for _, c := range n.children {
		rc.intersect(c, Mat4Mul(world, c.Local()), true, hits)
	}
}

func (rc *Raycaster) intersectMesh(n *Node, world Mat4, hits *[]Intersection) {
	g := n.Mesh.Geometry
	if g == nil {
		return
	}
	side := SideFront
	if n.Mesh.Material != nil {
		side = n.Mesh.Material.Side
	}
	best := Intersection{Distance: -1}
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		if int(a) >= len(g.Vertices) || int(b) >= len(g.Vertices) || int(c) >= len(g.Vertices) {
			continue
		}
		va, vb, vc := g.Vertices[a], g.Vertices[b], g.Vertices[c]
		d, u, v, ok := rc.triangle(world.TransformPoint(va.Pos), world.TransformPoint(vb.Pos), world.TransformPoint(vc.Pos), side)
		if !ok {
			continue
		}
		if best.Distance >= 0 && d >= best.Distance {
			continue
		}
		w := 1 - u - v
		best = Intersection{
			Distance: d,
			Point:    rc.Ray.At(d),
			UV: V2(
				w*va.UV.X+u*vb.UV.X+v*vc.UV.X,
				w*va.UV.Y+u*vb.UV.Y+v*vc.UV.Y,
			),
			Object: n,
		}
	}
	if best.Distance >= 0 {
		*hits = append(*hits, best)
	}
}

func (rc *Raycaster) intersectSprite(n *Node, world Mat4, hits *[]Intersection) {
	quad := SpriteQuad(world, rc.view)
	invView := Mat4Inverse(rc.view)
	var wp [4]Vec3
	for i, q := range quad {
		wp[i] = invView.TransformPoint(q.View())
	}
	for _, tri := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
		a, b, c := tri[0], tri[1], tri[2]
		d, u, v, ok := rc.triangle(wp[a], wp[b], wp[c], SideDouble)
		if !ok {
			continue
		}
		w := 1 - u - v
		ua, ub, uc := quad[a].UV(), quad[b].UV(), quad[c].UV()
		*hits = append(*hits, Intersection{
			Distance: d,
			Point:    rc.Ray.At(d),
			UV:       V2(w*ua.X+u*ub.X+v*uc.X, w*ua.Y+u*ub.Y+v*uc.Y),
			Object:   n,
		})
		return
	}
}

// triangle is the Möller-Trumbore test. It returns the hit distance and the
// barycentric weights of b and c.
func (rc *Raycaster) triangle(a, b, c Vec3, side Side) (dist, u, v Scalar, ok bool) {
	const eps = 1e-7
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := Cross(rc.Ray.Dir, e2)
	det := Dot(e1, p)
	switch side {
	case SideFront:
		if det < eps {
			return 0, 0, 0, false
		}
	case SideBack:
		if det > -eps {
			return 0, 0, 0, false
		}
	default:
		if det > -eps && det < eps {
			return 0, 0, 0, false
		}
	}
	inv := 1 / det
	s := rc.Ray.Origin.Sub(a)
	u = Dot(s, p) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := Cross(s, e1)
	v = Dot(rc.Ray.Dir, q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	dist = Dot(e2, q) * inv
	if dist < rc.Near || (rc.Far > 0 && dist > rc.Far) {
		return 0, 0, 0, false
	}
	return dist, u, v, true
}

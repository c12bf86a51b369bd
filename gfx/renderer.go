package gfx

import (
	"math"
	"sort"
)

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	ClearColor Color

	depthBuf []float32
	items    []drawItem
	uniforms Uniforms
	frag     Fragment
	ambient  Scalar
}

type drawItem struct {
	node  *Node
	world Mat4
	depth Scalar
}

// clipVert is a vertex in clip space carrying the attributes shaders need.
type clipVert struct {
	clip   Vec4
	world  Vec3
	normal Vec3
	uv     Vec2
}

// NewRenderer creates a renderer with a black clear color.
func NewRenderer() *Renderer {
	return &Renderer{ClearColor: RGB(0, 0, 0)}
}

func (r *Renderer) resizeDepth(w, h int) {
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
	for i := range r.depthBuf {
		r.depthBuf[i] = 1
	}
}

// Render draws every visible node of s as seen from cam.
func (r *Renderer) Render(t Target, s *Scene, cam *PerspectiveCamera) {
	if r == nil || t == nil || s == nil || cam == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)
	r.resizeDepth(w, h)

	view := cam.View()
	proj := cam.Projection()
	viewProj := Mat4Mul(proj, view)

	r.ambient = s.Ambient
	r.uniforms = Uniforms{CameraPosition: cam.Position}
	r.items = r.items[:0]
	lit := false
	r.collect(s.Root, Mat4Identity(), view, &lit)

	opaque := r.items[:0:0]
	var transparent []drawItem
	for _, it := range r.items {
		if m := it.node.Material(); m != nil && m.Transparent {
			transparent = append(transparent, it)
			continue
		}
		opaque = append(opaque, it)
	}
	sort.SliceStable(transparent, func(i, j int) bool {
		return transparent[i].depth > transparent[j].depth
	})

	for _, it := range opaque {
		r.drawItem(t, w, h, it, view, proj, viewProj)
	}
	for _, it := range transparent {
		r.drawItem(t, w, h, it, view, proj, viewProj)
	}
}

func (r *Renderer) collect(n *Node, parent Mat4, view Mat4, lit *bool) {
	if n == nil || !n.Visible {
		return
	}
	world := Mat4Mul(parent, n.Local())
	if n.Light != nil && !*lit {
		*lit = true
		r.uniforms.LightPosition = world.Translation()
		r.uniforms.LightIntensity = n.Light.Intensity
	}
	if n.Mesh != nil || n.Sprite != nil {
		vz := view.TransformPoint(world.Translation()).Z
		r.items = append(r.items, drawItem{node: n, world: world, depth: -vz})
	}
	for _, c := range n.children {
		r.collect(c, world, view, lit)
	}
}

func (r *Renderer) drawItem(t Target, w, h int, it drawItem, view, proj, viewProj Mat4) {
	switch {
	case it.node.Mesh != nil:
		r.drawMesh(t, w, h, it, viewProj)
	case it.node.Sprite != nil:
		r.drawSprite(t, w, h, it, view, proj)
	}
}

func (r *Renderer) drawMesh(t Target, w, h int, it drawItem, viewProj Mat4) {
	m := it.node.Mesh
	if m.Geometry == nil || m.Material == nil {
		return
	}
	verts := m.Geometry.Vertices
	idx := m.Geometry.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		i0, i1, i2 := int(idx[i]), int(idx[i+1]), int(idx[i+2])
		if i0 >= len(verts) || i1 >= len(verts) || i2 >= len(verts) {
			continue
		}
		var tri [3]clipVert
		for k, vi := range [3]int{i0, i1, i2} {
			v := verts[vi]
			wp := it.world.TransformPoint(v.Pos)
			tri[k] = clipVert{
				clip:   Mat4MulV4(viewProj, Vec4{X: wp.X, Y: wp.Y, Z: wp.Z, W: 1}),
				world:  wp,
				normal: Normalize(it.world.TransformDir(v.Normal)),
				uv:     v.UV,
			}
		}
		r.drawClipTriangle(t, w, h, tri, m.Material)
	}
}

// drawSprite expands the sprite into a camera-facing quad in view space.
func (r *Renderer) drawSprite(t Target, w, h int, it drawItem, view, proj Mat4) {
	mat := it.node.Sprite.Material
	if mat == nil {
		return
	}
	quad := SpriteQuad(it.world, view)
	invView := Mat4Inverse(view)
	facing := Normalize(invView.TransformDir(V3(0, 0, 1)))
	var cv [4]clipVert
	for k, q := range quad {
		cv[k] = clipVert{
			clip:   Mat4MulV4(proj, Vec4{X: q.view.X, Y: q.view.Y, Z: q.view.Z, W: 1}),
			world:  invView.TransformPoint(q.view),
			normal: facing,
			uv:     q.uv,
		}
	}
	r.drawClipTriangle(t, w, h, [3]clipVert{cv[0], cv[1], cv[2]}, mat)
	r.drawClipTriangle(t, w, h, [3]clipVert{cv[0], cv[2], cv[3]}, mat)
}

// SpriteCorner is one corner of a sprite quad in view space.
type SpriteCorner struct {
	view Vec3
	uv   Vec2
}

// View returns the corner position in view space.
func (c SpriteCorner) View() Vec3 { return c.view }

// UV returns the corner texture coordinate.
func (c SpriteCorner) UV() Vec2 { return c.uv }

// SpriteQuad returns the counter-clockwise view-space corners of a sprite
// whose node has world transform world.
func SpriteQuad(world, view Mat4) [4]SpriteCorner {
	center := view.TransformPoint(world.Translation())
	sc := world.ScaleFactors()
	hx, hy := sc.X/2, sc.Y/2
	return [4]SpriteCorner{
		{view: center.Add(V3(-hx, -hy, 0)), uv: V2(0, 0)},
		{view: center.Add(V3(hx, -hy, 0)), uv: V2(1, 0)},
		{view: center.Add(V3(hx, hy, 0)), uv: V2(1, 1)},
		{view: center.Add(V3(-hx, hy, 0)), uv: V2(0, 1)},
	}
}

// drawClipTriangle clips against the near plane and rasterizes the result.
func (r *Renderer) drawClipTriangle(t Target, w, h int, tri [3]clipVert, mat *Material) {
	in := tri[:]
	inside := func(v clipVert) bool { return v.clip.Z >= -v.clip.W }
	all := inside(tri[0]) && inside(tri[1]) && inside(tri[2])
	if !all {
		var poly []clipVert
		for i := range in {
			a := in[i]
			b := in[(i+1)%len(in)]
			ia, ib := inside(a), inside(b)
			if ia {
				poly = append(poly, a)
			}
			if ia != ib {
				da := a.clip.Z + a.clip.W
				db := b.clip.Z + b.clip.W
				poly = append(poly, lerpClip(a, b, da/(da-db)))
			}
		}
		if len(poly) < 3 {
			return
		}
		for i := 1; i+1 < len(poly); i++ {
			r.rasterize(t, w, h, [3]clipVert{poly[0], poly[i], poly[i+1]}, mat)
		}
		return
	}
	r.rasterize(t, w, h, tri, mat)
}

func lerpClip(a, b clipVert, s Scalar) clipVert {
	return clipVert{
		clip: Vec4{
			X: a.clip.X + (b.clip.X-a.clip.X)*s,
			Y: a.clip.Y + (b.clip.Y-a.clip.Y)*s,
			Z: a.clip.Z + (b.clip.Z-a.clip.Z)*s,
			W: a.clip.W + (b.clip.W-a.clip.W)*s,
		},
		world:  Lerp(a.world, b.world, s),
		normal: Normalize(Lerp(a.normal, b.normal, s)),
		uv:     V2(a.uv.X+(b.uv.X-a.uv.X)*s, a.uv.Y+(b.uv.Y-a.uv.Y)*s),
	}
}

type screenVert struct {
	x, y, z float32
	invW    float32
}

func (r *Renderer) rasterize(t Target, w, h int, tri [3]clipVert, mat *Material) {
	var sv [3]screenVert
	for k := range tri {
		cw := tri[k].clip.W
		if cw <= 0 {
			return
		}
		inv := 1 / cw
		nx, ny, nz := tri[k].clip.X*inv, tri[k].clip.Y*inv, tri[k].clip.Z*inv
		sv[k] = screenVert{
			x:    (nx*0.5 + 0.5) * float32(w),
			y:    (1 - (ny*0.5 + 0.5)) * float32(h),
			z:    nz*0.5 + 0.5,
			invW: inv,
		}
	}

	// edgeFn is mirrored by the flipped screen Y, so counter-clockwise (front)
	// faces come out positive.
	area := edgeFn(sv[0].x, sv[0].y, sv[1].x, sv[1].y, sv[2].x, sv[2].y)
	if area == 0 {
		return
	}
	front := area > 0
	switch mat.Side {
	case SideFront:
		if !front {
			return
		}
	case SideBack:
		if front {
			return
		}
	}

	minX := int(math.Floor(float64(min3f(sv[0].x, sv[1].x, sv[2].x))))
	maxX := int(math.Ceil(float64(max3f(sv[0].x, sv[1].x, sv[2].x))))
	minY := int(math.Floor(float64(min3f(sv[0].y, sv[1].y, sv[2].y))))
	maxY := int(math.Ceil(float64(max3f(sv[0].y, sv[1].y, sv[2].y))))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	invArea := 1 / area
	f := &r.frag
	f.Uniforms = &r.uniforms
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edgeFn(sv[1].x, sv[1].y, sv[2].x, sv[2].y, px, py) * invArea
			w1 := edgeFn(sv[2].x, sv[2].y, sv[0].x, sv[0].y, px, py) * invArea
			w2 := edgeFn(sv[0].x, sv[0].y, sv[1].x, sv[1].y, px, py) * invArea
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*sv[0].z + w1*sv[1].z + w2*sv[2].z
			idx := y*w + x
			if z < 0 || z > 1 || z >= r.depthBuf[idx] {
				continue
			}

			// Perspective-correct barycentrics.
			p0, p1, p2 := w0*sv[0].invW, w1*sv[1].invW, w2*sv[2].invW
			norm := 1 / (p0 + p1 + p2)
			p0, p1, p2 = p0*norm, p1*norm, p2*norm

			f.UV = V2(
				p0*tri[0].uv.X+p1*tri[1].uv.X+p2*tri[2].uv.X,
				p0*tri[0].uv.Y+p1*tri[1].uv.Y+p2*tri[2].uv.Y,
			)
			f.Position = tri[0].world.Mul(p0).Add(tri[1].world.Mul(p1)).Add(tri[2].world.Mul(p2))
			f.Normal = Normalize(tri[0].normal.Mul(p0).Add(tri[1].normal.Mul(p1)).Add(tri[2].normal.Mul(p2)))

			c := r.shade(mat, f)
			if mat.Transparent {
				c.A = uint8(Scalar(c.A) * Clamp01(mat.Opacity))
				if c.A == 0 {
					continue
				}
				t.SetPixel(x, y, blend(t.Pixel(x, y), c, mat.Blending))
			} else {
				c.A = 0xFF
				t.SetPixel(x, y, c)
			}
			if !mat.NoDepthWrite {
				r.depthBuf[idx] = z
			}
		}
	}
}

func (r *Renderer) shade(m *Material, f *Fragment) Color {
	if m.Shader != nil {
		return m.Shader(f)
	}
	c := m.Color
	if c == (Color{}) {
		c = RGB(0xFF, 0xFF, 0xFF)
	}
	if m.Map != nil {
		c = c.Modulate(m.Map.Sample(f.UV))
	}
	if m.AlphaMap != nil {
		c.A = uint8((uint16(c.A) * uint16(m.AlphaMap.Sample(f.UV).G)) / 255)
	}
	if !m.Lit {
		return c
	}
	u := f.Uniforms
	l := Normalize(u.LightPosition.Sub(f.Position))
	diff := Dot(f.Normal, l)
	if diff < 0 {
		diff = 0
	}
	if m.BumpMap != nil {
		diff *= 0.85 + 0.15*m.BumpMap.Sample(f.UV).Luma()
	}
	k := r.ambient + diff*Clamp01(u.LightIntensity/5)
	out := c.MulScalar(Clamp01(k))
	if m.RoughnessMap != nil && diff > 0 {
		rough := m.RoughnessMap.Sample(f.UV).Luma()
		v := Normalize(u.CameraPosition.Sub(f.Position))
		hv := Normalize(l.Add(v))
		spec := Scalar(math.Pow(float64(Clamp01(Dot(f.Normal, hv))), 32)) * (1 - rough) * 0.35
		out = addLight(out, spec)
	}
	return out
}

func addLight(c Color, s Scalar) Color {
	add := func(ch uint8) uint8 {
		v := Scalar(ch) + s*255
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return Color{R: add(c.R), G: add(c.G), B: add(c.B), A: c.A}
}

func edgeFn(x0, y0, x1, y1, x, y float32) float32 {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func min3f(a, b, c float32) float32 {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3f(a, b, c float32) float32 {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}

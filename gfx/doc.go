// Package gfx is a small, predictable software 3D engine.
//
// It provides a scene graph of nodes (meshes, sprites, point lights), a
// perspective camera with orbit controls, a ray caster for picking, and a
// renderer that draws into a caller-provided Target.
//
// Pipeline (fixed):
//
//	Scene → Transform → Projection → Near clipping → Rasterization → Blending.
//
// Opaque nodes are drawn in graph order, transparent nodes back to front.
// Materials either use the standard shading (texture, alpha map, diffuse and
// specular from the first point light) or a custom Shader reading per-frame
// Uniforms such as the light position.
//
// All methods must be called from a single goroutine.
package gfx

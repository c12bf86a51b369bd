// Package bodies builds the renderable bodies of the globe scene.
//
// Each body owns a node subtree built synchronously from an already loaded
// texture set. Init finishes any asynchronous construction before the body
// is attached to a scene. After attach, only the frame loop touches the
// subtree.
package bodies

import (
	"context"

	"terra/gfx"
)

// Body is a renderable scene element.
type Body interface {
	Root() *gfx.Node
	Init(ctx context.Context) error
}

// Scene constants.
const (
	PlanetRadius = 70
	PlanetTilt   = 0.4

	SatelliteRadius = 6
	SunRadius       = 10
	SunIntensity    = 5
	StarsRadius     = 1500
	StarsTilt       = 1.1

	MarkerScaleDesktop = 12
	MarkerScaleMobile  = 24
)

// Node names looked up by the orchestrator.
const (
	EarthGroup  = "EarthGroup"
	AtmGroup    = "AtmGroup"
	MarkerGroup = "MarkerGroup"

	// KindMarker tags pickable marker labels.
	KindMarker = "Marker"
)

var (
	SunPosition       = gfx.V3(1200, 0, 0)
	SatellitePosition = gfx.V3(300, 100, 0)
)

var (
	_ Body = (*Planet)(nil)
	_ Body = (*Satellite)(nil)
	_ Body = (*LightSource)(nil)
	_ Body = (*Starfield)(nil)
)

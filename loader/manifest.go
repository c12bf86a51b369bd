package loader

// Asset is one texture of the manifest: a logical name and a path relative
// to the tier prefix.
type Asset struct {
	Name string
	Path string
}

// Manifest lists the textures every tier provides.
type Manifest []Asset

// Texture names used by the bodies.
const (
	Glow          = "glow"
	LightColumn   = "light_column"
	MoonTexture   = "moonTexture"
	MoonElevation = "moonElevation"
	DayTexture    = "dayTexture"
	NightTexture  = "nightTexture"
	Elevation     = "elevation"
	CloudsDay     = "clouds_day"
	Reflectivity  = "reflectivity"
	Stars         = "stars"
)

// DefaultManifest returns the asset list of the globe.
func DefaultManifest() Manifest {
	return Manifest{
		{Glow, "earth/glow.png"},
		{LightColumn, "earth/light_column.png"},
		{MoonTexture, "moon/lroc_color_poles_1k.jpg"},
		{MoonElevation, "moon/ldem_3_8bit.jpg"},
		{DayTexture, "earth/texture_day.jpg"},
		{NightTexture, "earth/texture_night.jpg"},
		{Elevation, "earth/elevation.jpg"},
		{CloudsDay, "earth/clouds_day.jpg"},
		{Reflectivity, "earth/reflectivity.png"},
		{Stars, "stars/stars.jpg"},
	}
}

// Names returns the logical names in manifest order.
func (m Manifest) Names() []string {
	names := make([]string, len(m))
	for i, a := range m {
		names[i] = a.Name
	}
	return names
}

// Package astro computes where the sun and moon stand over the globe.
//
// Every function is pure: the same instant always yields the same result.
package astro

import (
	"math"
	"time"

	"terra/gfx"
)

const (
	// J2000 is the Julian date of 2000-01-01 12:00 TT.
	J2000 = 2451545.0

	unixEpochJD = 2440587.5
	msPerDay    = 86400000.0
)

// Position is a point on the globe in decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// ToCartesian converts a spherical position to scene coordinates.
//
// Y points to the north pole and longitude 0 lies on +X. Longitude is negated
// so that east maps to -Z, matching the sphere texture layout.
func ToCartesian(radius, lonDeg, latDeg float64) gfx.Vec3 {
	lon := degToRad(lonDeg)
	lat := degToRad(latDeg)
	return gfx.V3(
		gfx.Scalar(radius*math.Cos(lat)*math.Cos(-lon)),
		gfx.Scalar(radius*math.Sin(lat)),
		gfx.Scalar(radius*math.Cos(lat)*math.Sin(-lon)),
	)
}

// FromCartesian is the inverse of ToCartesian for the direction of v.
func FromCartesian(v gfx.Vec3) (lonDeg, latDeg float64) {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return 0, 0
	}
	latDeg = radToDeg(math.Asin(y / r))
	lonDeg = radToDeg(math.Atan2(-z, x))
	return lonDeg, latDeg
}

// JulianDate converts t to a Julian date with millisecond resolution.
func JulianDate(t time.Time) float64 {
	return float64(t.UnixMilli())/msPerDay + unixEpochJD
}

// SubsolarPoint returns the position where the sun is at the zenith at t.
func SubsolarPoint(t time.Time) Position {
	d := JulianDate(t) - J2000

	meanLon := normalizeDegrees(280.460 + 0.9856474*d)
	meanAnomaly := degToRad(normalizeDegrees(357.528 + 0.9856003*d))
	eclLon := degToRad(meanLon + 1.915*math.Sin(meanAnomaly) + 0.020*math.Sin(2*meanAnomaly))
	obliquity := degToRad(23.439 - 0.0000004*d)

	ra := math.Atan2(math.Cos(obliquity)*math.Sin(eclLon), math.Cos(eclLon))
	dec := math.Asin(math.Sin(obliquity) * math.Sin(eclLon))
	return subPoint(ra, dec, d)
}

// SubmoonPoint returns the position where the moon is at the zenith at t.
func SubmoonPoint(t time.Time) Position {
	d := JulianDate(t) - J2000

	meanLon := degToRad(218.316 + 13.176396*d)
	meanAnomaly := degToRad(134.963 + 13.064993*d)
	meanDist := degToRad(93.272 + 13.229350*d)

	eclLon := meanLon + degToRad(6.289)*math.Sin(meanAnomaly)
	eclLat := degToRad(5.128) * math.Sin(meanDist)
	obliquity := degToRad(23.4397)

	ra := math.Atan2(
		math.Sin(eclLon)*math.Cos(obliquity)-math.Tan(eclLat)*math.Sin(obliquity),
		math.Cos(eclLon),
	)
	dec := math.Asin(math.Sin(eclLat)*math.Cos(obliquity) + math.Cos(eclLat)*math.Sin(obliquity)*math.Sin(eclLon))
	return subPoint(ra, dec, d)
}

// subPoint turns equatorial coordinates into a ground position using
// Greenwich mean sidereal time.
func subPoint(ra, dec, d float64) Position {
	gmst := normalizeDegrees(280.46061837 + 360.98564736629*d)
	lon := normalizeLongitude(radToDeg(ra) - gmst)
	return Position{
		Latitude:  round3(radToDeg(dec)),
		Longitude: round3(lon),
	}
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// Normalize angle to [0, 360) degrees
func normalizeDegrees(angle float64) float64 {
	angle = math.Mod(angle, 360.0)
	if angle < 0 {
		angle += 360.0
	}
	return angle
}

// normalizeLongitude maps any angle to [-180, 180].
func normalizeLongitude(angle float64) float64 {
	angle = normalizeDegrees(angle + 180)
	return angle - 180
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

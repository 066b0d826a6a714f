// Package vmath holds the small set of mgl32 helpers shared by the engine,
// the physics backend and the instance buffer
package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the length below which a vector is treated as zero
const Epsilon = 1e-6

// Falloff returns the linear attenuation factor for a point at distance d
// from a blast of the given radius: 1 at the center, 0 at and beyond the radius
func Falloff(d, radius float32) float32 {
	if radius <= 0 || d >= radius {
		return 0
	}
	if d <= 0 {
		return 1
	}
	return 1 - d/radius
}

// HorizontalDistance is the XZ-plane distance between a and b
func HorizontalDistance(a, b mgl32.Vec3) float32 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return float32(math.Sqrt(float64(dx*dx + dz*dz)))
}

// SafeNormalize returns v scaled to unit length, or the zero vector for degenerate input
// mgl32's Normalize divides by zero on a zero vector
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// Clamp01 clamps f into [0, 1]
func Clamp01(f float32) float32 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// InstanceMatrix composes translate * rotate * uniform scale
func InstanceMatrix(pos mgl32.Vec3, rot mgl32.Quat, scale float32) mgl32.Mat4 {
	t := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())
	r := rot.Normalize().Mat4()
	s := mgl32.Scale3D(scale, scale, scale)
	return t.Mul4(r).Mul4(s)
}

// HiddenMatrix is the zero-scale transform used for removed instances
func HiddenMatrix() mgl32.Mat4 {
	return mgl32.Scale3D(0, 0, 0)
}

// IsHidden reports whether m collapses every vertex to a point
func IsHidden(m mgl32.Mat4) bool {
	for col := 0; col < 3; col++ {
		c := m.Col(col)
		if c.X() != 0 || c.Y() != 0 || c.Z() != 0 {
			return false
		}
	}
	return true
}

// MatrixPosition extracts the translation column of m
func MatrixPosition(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

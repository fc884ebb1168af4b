// Package optmath provides the scalar and vector primitives shared by the
// optical engine: a 3-vector type, scalar helpers such as Clamp, and the
// quadratic solver used by conic-surface intersection.
package optmath

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec3 is a point or direction in the system's global coordinate frame,
// with +z along the optical axis.
type Vec3 struct {
	X, Y, Z float64
}

func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v Vec3) MulScalar(scalar float64) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

func (v Vec3) DivScalar(scalar float64) Vec3 {
	return Vec3{X: v.X / scalar, Y: v.Y / scalar, Z: v.Z / scalar}
}

func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// RadialSquared returns x²+y², the squared distance from the optical axis —
// the quantity every aperture and sag check is phrased in terms of.
func (v Vec3) RadialSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return v.DivScalar(length)
}

// Reflect returns the direction of v reflected about unit normal n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.MulScalar(2 * v.Dot(n)))
}

func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return v.Add(other.Sub(v).MulScalar(t))
}

func (v Vec3) NearZero() bool {
	const s = 1e-8
	return math.Abs(v.X) < s && math.Abs(v.Y) < s && math.Abs(v.Z) < s
}

func (v *Vec3) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 3 {
			return fmt.Errorf("expected 3 elements for Vec3, got %d", len(arr))
		}
		v.X, v.Y, v.Z = arr[0], arr[1], arr[2]
		return nil
	}
	var obj struct{ X, Y, Z float64 }
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	v.X, v.Y, v.Z = obj.X, obj.Y, obj.Z
	return nil
}

func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{v.X, v.Y, v.Z})
}

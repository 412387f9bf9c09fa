package linalg

import "math"

// Mat3 is a 3x3 matrix stored row-major: Mat3[row][col].
type Mat3 [3][3]float64

// Identity3 is the 3x3 identity matrix.
var Identity3 = Mat3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// MulVec returns M*v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Mul returns the matrix product m*other.
func (m Mat3) Mul(other Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += m[i][k] * other[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

// Transpose returns the transpose of m.
func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// FromRows builds a Mat3 whose rows are the given vectors.
func FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		{r0[0], r0[1], r0[2]},
		{r1[0], r1[1], r1[2]},
		{r2[0], r2[1], r2[2]},
	}
}

// RotationAxis1 returns the elementary rotation matrix about the X axis
// (GMAT/propcov "axis 1") by angle (radians).
func RotationAxis1(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}
}

// RotationAxis2 returns the elementary rotation matrix about the Y axis
// ("axis 2") by angle (radians).
func RotationAxis2(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{c, 0, -s},
		{0, 1, 0},
		{s, 0, c},
	}
}

// RotationAxis3 returns the elementary rotation matrix about the Z axis
// ("axis 3") by angle (radians).
func RotationAxis3(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}
}

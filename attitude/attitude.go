// Package attitude computes the spacecraft nadir-pointing attitude chain:
// the rotation from the local nadir frame to the spacecraft body frame, and
// the composite Euler offset that lets a mission re-point away from pure
// nadir (e.g. a fixed yaw for descending-node passes).
package attitude

import (
	"github.com/covanalysis/propcov-go/internal/linalg"
)

// EulerOffset is a three-angle, three-axis-sequence rotation applied on top
// of the pure nadir-to-body rotation. A zero value (all axes 0) composes to
// identity, as the sequence field defaults to the zero Axes value; callers
// wanting an explicit identity offset should use IdentityOffset.
type EulerOffset struct {
	Axes   [3]int     // axis sequence, values in {1,2,3}; 0 entries are skipped
	Angles [3]float64 // radians
}

// IdentityOffset is the no-op Euler offset.
var IdentityOffset = EulerOffset{Axes: [3]int{1, 2, 3}, Angles: [3]float64{0, 0, 0}}

// Matrix returns the rotation matrix for this offset. A zero-valued Axes
// entry is skipped (treated as an absent rotation in the sequence), so the
// Go zero value of EulerOffset also composes to identity.
func (e EulerOffset) Matrix() linalg.Mat3 {
	m := linalg.Identity3
	for i := 0; i < 3; i++ {
		axis := e.Axes[i]
		if axis == 0 {
			continue
		}
		var r linalg.Mat3
		switch axis {
		case 1:
			r = linalg.RotationAxis1(e.Angles[i])
		case 2:
			r = linalg.RotationAxis2(e.Angles[i])
		default:
			r = linalg.RotationAxis3(e.Angles[i])
		}
		m = r.Mul(m)
	}
	return m
}

// NadirFrame builds the rotation from the local nadir frame to the
// Earth-fixed frame, given the spacecraft's body-fixed position and
// velocity. Columns (and the transpose's rows) of the returned matrix
// are the nadir frame's x, y, z unit vectors expressed in Earth-fixed
// coordinates.
//
//	z_n = -r_hat                    (toward Earth center)
//	y_n = -(r_hat x v_hat)           (cross-track, right-hand rule)
//	x_n = y_n x z_n                  (completes the right-handed triad)
func NadirFrame(rBodyFixed, vBodyFixed linalg.Vec3) linalg.Mat3 {
	rHat := rBodyFixed.Unit()
	vHat := vBodyFixed.Unit()

	zN := rHat.Neg()
	yN := rHat.Cross(vHat).Neg()
	xN := yN.Cross(zN)

	// FromRows builds a matrix whose rows are xN, yN, zN: this is the
	// fixed-to-nadir rotation (maps an Earth-fixed vector to its nadir-frame
	// components). Its transpose is nadir-to-fixed.
	fixedToNadir := linalg.FromRows(xN, yN, zN)
	return fixedToNadir.Transpose()
}

// FixedToNadir returns the rotation from the Earth-fixed frame to the
// nadir frame: the transpose of NadirFrame.
func FixedToNadir(rBodyFixed, vBodyFixed linalg.Vec3) linalg.Mat3 {
	return NadirFrame(rBodyFixed, vBodyFixed).Transpose()
}

// NadirToBody composes the pure nadir-frame rotation with a body-to-nadir
// Euler offset, yielding the rotation from the nadir frame to the
// spacecraft body frame. The offset's matrix is the body-to-nadir
// rotation; its transpose, nadir-to-body, is applied on top of identity
// (nadir frame axes *are* the body frame axes absent an offset).
func NadirToBody(offset EulerOffset) linalg.Mat3 {
	return offset.Matrix().Transpose()
}

// BodyToNadir is the inverse of NadirToBody.
func BodyToNadir(offset EulerOffset) linalg.Mat3 {
	return offset.Matrix()
}

package model

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/urdf"
)

// A Pose is a rigid transform: a rotation followed by a translation,
// locating a child frame within a parent frame. The rotation is kept as a
// unit quaternion.
type Pose struct {
	Translation r3.Vector
	Rotation    quat.Number
}

// IdentityPose returns the pose of a frame coincident with its parent.
func IdentityPose() Pose {
	return Pose{Rotation: quat.Number{Real: 1}}
}

// FromOrigin converts the xyz/rpy pair of an <origin> tag into a Pose. Roll,
// pitch and yaw rotate about the fixed x, y and z axes, applied in that
// order.
func FromOrigin(origin urdf.Origin) Pose {
	return Pose{Translation: origin.XYZ, Rotation: rpyToQuaternion(origin.RPY)}
}

func rpyToQuaternion(rpy r3.Vector) quat.Number {
	cr, sr := math.Cos(rpy.X/2), math.Sin(rpy.X/2)
	cp, sp := math.Cos(rpy.Y/2), math.Sin(rpy.Y/2)
	cy, sy := math.Cos(rpy.Z/2), math.Sin(rpy.Z/2)
	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}

// Rotations with |sin(pitch)| within poleEpsilon of one are gimbal locked;
// past that point the off-pole formulas divide noise by noise.
const poleEpsilon = 1e-13

// RPY recovers the fixed-axis roll, pitch and yaw angles of the pose's
// rotation. At the pitch poles the roll angle is folded into yaw.
func (p Pose) RPY() r3.Vector {
	q := p.Rotation
	sinPitch := 2 * (q.Real*q.Jmag - q.Kmag*q.Imag)
	if math.Abs(sinPitch) >= 1-poleEpsilon {
		return r3.Vector{
			X: 0,
			Y: math.Copysign(math.Pi/2, sinPitch),
			Z: 2 * math.Atan2(q.Kmag, q.Real),
		}
	}
	return r3.Vector{
		X: math.Atan2(2*(q.Real*q.Imag+q.Jmag*q.Kmag), 1-2*(q.Imag*q.Imag+q.Jmag*q.Jmag)),
		Y: math.Asin(sinPitch),
		Z: math.Atan2(2*(q.Real*q.Kmag+q.Imag*q.Jmag), 1-2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag)),
	}
}

// TransformPoint maps a point from the pose's frame into its parent frame.
func (p Pose) TransformPoint(v r3.Vector) r3.Vector {
	qv := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(p.Rotation, qv), quat.Conj(p.Rotation))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}.Add(p.Translation)
}

// Compose returns the pose of a child offset c expressed in p's parent
// frame.
func (p Pose) Compose(c Pose) Pose {
	return Pose{
		Translation: p.TransformPoint(c.Translation),
		Rotation:    quat.Mul(p.Rotation, c.Rotation),
	}
}

// AlmostEqual reports whether two poses agree within tol, treating a
// quaternion and its negation as the same rotation.
func (p Pose) AlmostEqual(other Pose, tol float64) bool {
	if p.Translation.Sub(other.Translation).Norm() > tol {
		return false
	}
	dot := p.Rotation.Real*other.Rotation.Real +
		p.Rotation.Imag*other.Rotation.Imag +
		p.Rotation.Jmag*other.Rotation.Jmag +
		p.Rotation.Kmag*other.Rotation.Kmag
	return math.Abs(dot) >= 1-tol
}

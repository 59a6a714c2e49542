package urdf

import (
	"github.com/golang/geo/r3"
)

// An Origin is the fixed pose offset read from an <origin> tag: a translation
// in meters and a roll/pitch/yaw rotation in radians. The zero value is the
// identity pose.
type Origin struct {
	XYZ r3.Vector
	RPY r3.Vector
}

// An InertialSpec carries the mass properties of a link. Every field of an
// absent or partially specified <inertial> tag defaults to zero.
type InertialSpec struct {
	Mass   float64
	Origin Origin

	// Moments and products of inertia about the inertial frame origin.
	Ixx, Iyy, Izz float64
	Ixy, Ixz, Iyz float64
}

// GeometryKind enumerates the shapes a <geometry> tag can declare.
type GeometryKind int

const (
	// GeometryBox is an axis-aligned box sized by its full extents.
	GeometryBox GeometryKind = iota + 1
	// GeometrySphere is a sphere described by its radius.
	GeometrySphere
	// GeometryCylinder is a cylinder described by radius and length.
	GeometryCylinder
	// GeometryMesh is a mesh file reference, possibly scaled.
	GeometryMesh
)

func (k GeometryKind) String() string {
	switch k {
	case GeometryBox:
		return "box"
	case GeometrySphere:
		return "sphere"
	case GeometryCylinder:
		return "cylinder"
	case GeometryMesh:
		return "mesh"
	}
	return "unknown"
}

// A MaterialSpec is a resolved visual material: a color and, optionally, a
// texture file path. Named materials are shared through a per-parse registry.
type MaterialSpec struct {
	Name    string
	RGBA    [4]float64
	Texture string
}

// A GeometrySpec is one parsed <visual> or <collision> stanza. Only the
// fields for its Kind are meaningful: Size for boxes, Radius for spheres and
// cylinders, Length for cylinders, and the mesh fields for meshes. Material
// is set on visual geometry only.
type GeometrySpec struct {
	Name   string
	Kind   GeometryKind
	Origin Origin

	Size   r3.Vector
	Radius float64
	Length float64

	// MeshURI is the reference as written in the document; MeshPath is its
	// resolved filesystem location.
	MeshURI  string
	MeshPath string
	Scale    r3.Vector

	Material *MaterialSpec
}

// A LinkSpec is one validated <link> element.
type LinkSpec struct {
	Name       string
	Inertial   InertialSpec
	Visuals    []GeometrySpec
	Collisions []GeometrySpec
}

// JointType is the closed set of joint type keywords this parser recognizes.
type JointType string

// The standard joint types, declared under a plain <joint> tag.
const (
	JointRevolute   JointType = "revolute"
	JointContinuous JointType = "continuous"
	JointPrismatic  JointType = "prismatic"
	JointFixed      JointType = "fixed"
	JointFloating   JointType = "floating"
)

// The custom joint types, declared under a <viam:joint> tag.
const (
	JointBall      JointType = "ball"
	JointPlanar    JointType = "planar"
	JointUniversal JointType = "universal"
)

// JointLimits are the position, velocity, acceleration and effort bounds of a
// joint. Each bound defaults independently: positions to ±Inf, velocity and
// acceleration magnitudes to +Inf, effort to +Inf. Velocity and acceleration
// bounds are symmetric about zero.
type JointLimits struct {
	Lower        float64
	Upper        float64
	Velocity     float64
	Acceleration float64
	Effort       float64
}

// A JointSpec is one validated joint element. Parent and Child carry the link
// names as declared; ParentLink and ChildLink are the handles they resolved
// to at the point the joint was parsed.
type JointSpec struct {
	Name string
	Type JointType

	Parent     string
	Child      string
	ParentLink LinkHandle
	ChildLink  LinkHandle

	Origin Origin

	// Axis is normalized before commit. It is meaningful for revolute,
	// continuous and prismatic joints (motion axis) and planar joints
	// (plane normal).
	Axis r3.Vector

	// Damping applies to every degree of freedom the joint grants. Planar
	// joints replicate the scalar into DampingVector.
	Damping       float64
	DampingVector r3.Vector

	Limits JointLimits
}

// A FrameSpec is a named frame fixed to a link at a pose offset. Committed
// links implicitly declare a frame of their own name at the identity offset.
type FrameSpec struct {
	Name   string
	Link   LinkHandle
	Origin Origin
}

// An ActuatorSpec is the actuator of a transmission, with its reflected
// inertia parameters. RotorInertia defaults to 0 and GearRatio to 1.
type ActuatorSpec struct {
	Name         string
	RotorInertia float64
	GearRatio    float64
}

// A TransmissionSpec couples one actuator to one joint. EffortLimit is the
// effort bound the named joint declared, carried along for the builder.
type TransmissionSpec struct {
	Type        string
	Actuator    ActuatorSpec
	Joint       string
	JointRef    JointHandle
	EffortLimit float64
}

// A BushingSpec is a force element between two frames, described by four
// 3-vectors of constants in declared order: torque stiffness, torque
// damping, force stiffness, force damping.
type BushingSpec struct {
	FrameA FrameHandle
	FrameC FrameHandle

	TorqueStiffness r3.Vector
	TorqueDamping   r3.Vector
	ForceStiffness  r3.Vector
	ForceDamping    r3.Vector
}

// A CollisionFilterGroupSpec is one declared collision filter group: the
// links it contains and the names of the groups it ignores. A group also
// ignores itself, filtering collisions among its own members, unless the
// document exempted it with allow_self_collision="true".
type CollisionFilterGroupSpec struct {
	Name       string
	Members    []string
	Ignores    []string
	SelfIgnore bool

	members []LinkHandle
}

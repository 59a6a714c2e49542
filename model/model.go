// Package model holds an in-memory implementation of the urdf.ModelBuilder
// interface: a flat store of links, joints, frames, transmissions, bushings
// and filtered collision pairs, grouped by model instance. It backs this
// module's tests and suits callers that want a parsed document as plain data
// rather than as a live physics structure.
package model

import (
	"github.com/pkg/errors"

	"go.viam.com/urdf"
)

// Every builder starts with two instances: the world instance owning the
// world link, and a default instance. Parsed models are numbered from there.
const (
	WorldInstance   urdf.ModelInstance = 0
	DefaultInstance urdf.ModelInstance = 1
)

// worldLinkName is the reserved name documents use to reference the world
// body.
const worldLinkName = "world"

// A Link is one committed rigid body.
type Link struct {
	Instance urdf.ModelInstance
	urdf.LinkSpec
}

// A Joint is one committed joint. Pose locates the joint frame in the parent
// link frame.
type Joint struct {
	Instance urdf.ModelInstance
	urdf.JointSpec
	Pose Pose
}

// A Frame is one committed frame. Pose locates it in its owning link frame.
type Frame struct {
	Instance urdf.ModelInstance
	urdf.FrameSpec
	Pose Pose
}

// A Transmission is one committed actuator/joint coupling.
type Transmission struct {
	Instance urdf.ModelInstance
	urdf.TransmissionSpec
}

// A Bushing is one committed force element.
type Bushing struct {
	Instance urdf.ModelInstance
	urdf.BushingSpec
}

// A Builder accumulates every spec committed by one or more parses. Handles
// index into flat slices shared by all instances, so specs from different
// instances never collide. The zero value is unusable; construct with
// NewBuilder.
type Builder struct {
	instances []string

	links         []Link
	joints        []Joint
	frames        []Frame
	transmissions []Transmission
	bushings      []Bushing

	worldVisual    []urdf.GeometrySpec
	worldCollision []urdf.GeometrySpec

	filtered map[urdf.LinkPair]bool
}

// NewBuilder returns a builder holding only the world link and its frame.
func NewBuilder() *Builder {
	b := &Builder{
		instances: []string{"WorldModelInstance", "DefaultModelInstance"},
		filtered:  map[urdf.LinkPair]bool{},
	}
	b.links = append(b.links, Link{
		Instance: WorldInstance,
		LinkSpec: urdf.LinkSpec{Name: worldLinkName},
	})
	b.frames = append(b.frames, Frame{
		Instance:  WorldInstance,
		FrameSpec: urdf.FrameSpec{Name: worldLinkName, Link: b.WorldLink()},
		Pose:      IdentityPose(),
	})
	return b
}

// WorldLink returns the handle of the world body.
func (b *Builder) WorldLink() urdf.LinkHandle {
	return 0
}

// AddModelInstance creates a new instance. Instance names are unique across
// the builder.
func (b *Builder) AddModelInstance(name string) (urdf.ModelInstance, error) {
	if _, ok := b.InstanceByName(name); ok {
		return urdf.InvalidModelInstance, errors.Errorf("model instance named '%s' already exists", name)
	}
	b.instances = append(b.instances, name)
	return urdf.ModelInstance(len(b.instances) - 1), nil
}

// AddLink commits one link. Its mass properties must describe a physical
// body and its name must be free within the instance.
func (b *Builder) AddLink(instance urdf.ModelInstance, link urdf.LinkSpec) (urdf.LinkHandle, error) {
	if err := b.checkInstance(instance); err != nil {
		return 0, err
	}
	if _, ok := b.LinkByName(instance, link.Name); ok {
		return 0, errors.Errorf("link '%s' already exists in model instance '%s'",
			link.Name, b.instances[instance])
	}
	if err := validateInertial(link.Name, link.Inertial); err != nil {
		return 0, err
	}
	b.links = append(b.links, Link{Instance: instance, LinkSpec: link})
	return urdf.LinkHandle(len(b.links) - 1), nil
}

// AttachWorldGeometry anchors geometry to the world body.
func (b *Builder) AttachWorldGeometry(instance urdf.ModelInstance, visual, collision []urdf.GeometrySpec) error {
	if err := b.checkInstance(instance); err != nil {
		return err
	}
	b.worldVisual = append(b.worldVisual, visual...)
	b.worldCollision = append(b.worldCollision, collision...)
	return nil
}

// AddJoint commits one joint between two existing links.
func (b *Builder) AddJoint(instance urdf.ModelInstance, joint urdf.JointSpec) (urdf.JointHandle, error) {
	if err := b.checkInstance(instance); err != nil {
		return 0, err
	}
	if _, ok := b.JointByName(instance, joint.Name); ok {
		return 0, errors.Errorf("joint '%s' already exists in model instance '%s'",
			joint.Name, b.instances[instance])
	}
	if err := b.checkLink(joint.ParentLink); err != nil {
		return 0, err
	}
	if err := b.checkLink(joint.ChildLink); err != nil {
		return 0, err
	}
	b.joints = append(b.joints, Joint{
		Instance:  instance,
		JointSpec: joint,
		Pose:      FromOrigin(joint.Origin),
	})
	return urdf.JointHandle(len(b.joints) - 1), nil
}

// AddFrame commits one frame fixed to an existing link.
func (b *Builder) AddFrame(instance urdf.ModelInstance, frame urdf.FrameSpec) (urdf.FrameHandle, error) {
	if err := b.checkInstance(instance); err != nil {
		return 0, err
	}
	if err := b.checkLink(frame.Link); err != nil {
		return 0, err
	}
	b.frames = append(b.frames, Frame{
		Instance:  instance,
		FrameSpec: frame,
		Pose:      FromOrigin(frame.Origin),
	})
	return urdf.FrameHandle(len(b.frames) - 1), nil
}

// AddTransmission commits one transmission. Actuator names are unique within
// an instance.
func (b *Builder) AddTransmission(instance urdf.ModelInstance, transmission urdf.TransmissionSpec) error {
	if err := b.checkInstance(instance); err != nil {
		return err
	}
	if err := b.checkJoint(transmission.JointRef); err != nil {
		return err
	}
	if _, ok := b.ActuatorByName(instance, transmission.Actuator.Name); ok {
		return errors.Errorf("actuator '%s' already exists in model instance '%s'",
			transmission.Actuator.Name, b.instances[instance])
	}
	b.transmissions = append(b.transmissions, Transmission{
		Instance:         instance,
		TransmissionSpec: transmission,
	})
	return nil
}

// AddLinearBushing commits one force element between two existing frames.
func (b *Builder) AddLinearBushing(instance urdf.ModelInstance, bushing urdf.BushingSpec) error {
	if err := b.checkInstance(instance); err != nil {
		return err
	}
	if err := b.checkFrame(bushing.FrameA); err != nil {
		return err
	}
	if err := b.checkFrame(bushing.FrameC); err != nil {
		return err
	}
	b.bushings = append(b.bushings, Bushing{Instance: instance, BushingSpec: bushing})
	return nil
}

// FilterCollisionPairs marks the given link pairs as excluded from mutual
// collision checks.
func (b *Builder) FilterCollisionPairs(instance urdf.ModelInstance, pairs []urdf.LinkPair) error {
	if err := b.checkInstance(instance); err != nil {
		return err
	}
	for _, pair := range pairs {
		if err := b.checkLink(pair.A); err != nil {
			return err
		}
		if err := b.checkLink(pair.B); err != nil {
			return err
		}
		if pair.B < pair.A {
			pair.A, pair.B = pair.B, pair.A
		}
		b.filtered[pair] = true
	}
	return nil
}

func (b *Builder) checkInstance(instance urdf.ModelInstance) error {
	if int(instance) < 0 || int(instance) >= len(b.instances) {
		return errors.Errorf("model instance %d does not exist", int(instance))
	}
	return nil
}

func (b *Builder) checkLink(handle urdf.LinkHandle) error {
	if int(handle) < 0 || int(handle) >= len(b.links) {
		return errors.Errorf("link handle %d does not exist", int(handle))
	}
	return nil
}

func (b *Builder) checkJoint(handle urdf.JointHandle) error {
	if int(handle) < 0 || int(handle) >= len(b.joints) {
		return errors.Errorf("joint handle %d does not exist", int(handle))
	}
	return nil
}

func (b *Builder) checkFrame(handle urdf.FrameHandle) error {
	if int(handle) < 0 || int(handle) >= len(b.frames) {
		return errors.Errorf("frame handle %d does not exist", int(handle))
	}
	return nil
}

// NumInstances returns the number of instances, including the two the
// builder starts with.
func (b *Builder) NumInstances() int {
	return len(b.instances)
}

// InstanceName returns the name of an instance.
func (b *Builder) InstanceName(instance urdf.ModelInstance) string {
	return b.instances[instance]
}

// InstanceByName finds an instance by name.
func (b *Builder) InstanceByName(name string) (urdf.ModelInstance, bool) {
	for i, existing := range b.instances {
		if existing == name {
			return urdf.ModelInstance(i), true
		}
	}
	return urdf.InvalidModelInstance, false
}

// Link returns a committed link by handle.
func (b *Builder) Link(handle urdf.LinkHandle) Link {
	return b.links[handle]
}

// LinkByName finds a link within one instance.
func (b *Builder) LinkByName(instance urdf.ModelInstance, name string) (urdf.LinkHandle, bool) {
	for i, link := range b.links {
		if link.Instance == instance && link.Name == name {
			return urdf.LinkHandle(i), true
		}
	}
	return 0, false
}

// Links returns the links of one instance in commit order.
func (b *Builder) Links(instance urdf.ModelInstance) []Link {
	var out []Link
	for _, link := range b.links {
		if link.Instance == instance {
			out = append(out, link)
		}
	}
	return out
}

// Joint returns a committed joint by handle.
func (b *Builder) Joint(handle urdf.JointHandle) Joint {
	return b.joints[handle]
}

// JointByName finds a joint within one instance.
func (b *Builder) JointByName(instance urdf.ModelInstance, name string) (urdf.JointHandle, bool) {
	for i, joint := range b.joints {
		if joint.Instance == instance && joint.Name == name {
			return urdf.JointHandle(i), true
		}
	}
	return 0, false
}

// Joints returns the joints of one instance in commit order.
func (b *Builder) Joints(instance urdf.ModelInstance) []Joint {
	var out []Joint
	for _, joint := range b.joints {
		if joint.Instance == instance {
			out = append(out, joint)
		}
	}
	return out
}

// Frame returns a committed frame by handle.
func (b *Builder) Frame(handle urdf.FrameHandle) Frame {
	return b.frames[handle]
}

// FrameByName finds a frame within one instance.
func (b *Builder) FrameByName(instance urdf.ModelInstance, name string) (urdf.FrameHandle, bool) {
	for i, frame := range b.frames {
		if frame.Instance == instance && frame.Name == name {
			return urdf.FrameHandle(i), true
		}
	}
	return 0, false
}

// Frames returns the frames of one instance in commit order.
func (b *Builder) Frames(instance urdf.ModelInstance) []Frame {
	var out []Frame
	for _, frame := range b.frames {
		if frame.Instance == instance {
			out = append(out, frame)
		}
	}
	return out
}

// ActuatorByName finds a transmission by its actuator name within one
// instance.
func (b *Builder) ActuatorByName(instance urdf.ModelInstance, name string) (Transmission, bool) {
	for _, transmission := range b.transmissions {
		if transmission.Instance == instance && transmission.Actuator.Name == name {
			return transmission, true
		}
	}
	return Transmission{}, false
}

// Transmissions returns the transmissions of one instance in commit order.
func (b *Builder) Transmissions(instance urdf.ModelInstance) []Transmission {
	var out []Transmission
	for _, transmission := range b.transmissions {
		if transmission.Instance == instance {
			out = append(out, transmission)
		}
	}
	return out
}

// Bushings returns the force elements of one instance in commit order.
func (b *Builder) Bushings(instance urdf.ModelInstance) []Bushing {
	var out []Bushing
	for _, bushing := range b.bushings {
		if bushing.Instance == instance {
			out = append(out, bushing)
		}
	}
	return out
}

// WorldGeometry returns every geometry anchored to the world body.
func (b *Builder) WorldGeometry() (visual, collision []urdf.GeometrySpec) {
	return b.worldVisual, b.worldCollision
}

// CollisionFiltered reports whether the pair of links was excluded from
// mutual collision checks.
func (b *Builder) CollisionFiltered(a, c urdf.LinkHandle) bool {
	if c < a {
		a, c = c, a
	}
	return b.filtered[urdf.LinkPair{A: a, B: c}]
}

// NumFilteredPairs returns the number of distinct filtered pairs.
func (b *Builder) NumFilteredPairs() int {
	return len(b.filtered)
}

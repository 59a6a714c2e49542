package urdf

// ModelInstance identifies one model added to a ModelBuilder. A single
// builder can hold several instances, including several parses of the same
// document under different names.
type ModelInstance int

// InvalidModelInstance is returned when a fatal diagnostic aborts a parse
// before a model instance could be created.
const InvalidModelInstance ModelInstance = -1

// LinkHandle identifies a committed link within a ModelBuilder.
type LinkHandle int

// JointHandle identifies a committed joint within a ModelBuilder.
type JointHandle int

// FrameHandle identifies a committed frame within a ModelBuilder.
type FrameHandle int

// A LinkPair is an unordered pair of distinct links whose collisions are
// filtered. A is always the smaller handle.
type LinkPair struct {
	A, B LinkHandle
}

func newLinkPair(a, b LinkHandle) LinkPair {
	if b < a {
		a, b = b, a
	}
	return LinkPair{a, b}
}

// A ModelBuilder receives the validated specs a parse produces. It is the
// external structure that ultimately stores bodies and joints; this package
// only reads WorldLink and writes through the Add and Filter methods, in
// document order, never revisiting a spec once committed.
//
// An error from any method abandons the element being committed: the walk
// records an element-scoped diagnostic and continues, except for
// AddModelInstance whose failure is fatal to the parse.
type ModelBuilder interface {
	// WorldLink returns the handle of the world body, which every instance
	// may reference as a parent without declaring it.
	WorldLink() LinkHandle

	// AddModelInstance creates a new named instance for the specs of one
	// parse to attach to.
	AddModelInstance(name string) (ModelInstance, error)

	AddLink(instance ModelInstance, link LinkSpec) (LinkHandle, error)

	// AttachWorldGeometry anchors the geometry of a declared "world" link to
	// the world body rather than creating a new link.
	AttachWorldGeometry(instance ModelInstance, visual, collision []GeometrySpec) error

	AddJoint(instance ModelInstance, joint JointSpec) (JointHandle, error)

	AddFrame(instance ModelInstance, frame FrameSpec) (FrameHandle, error)

	AddTransmission(instance ModelInstance, transmission TransmissionSpec) error

	AddLinearBushing(instance ModelInstance, bushing BushingSpec) error

	// FilterCollisionPairs declares that the given link pairs are excluded
	// from mutual collision checks. Pairs arrive sorted and deduplicated,
	// once per parse, before any adjacency-based filtering the builder may
	// apply itself at finalize time.
	FilterCollisionPairs(instance ModelInstance, pairs []LinkPair) error
}

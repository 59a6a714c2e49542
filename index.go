package urdf

// nameIndex is the incrementally built mapping from declared names to the
// handles the model builder returned for them. Handlers consult it at the
// point of reference, so every cross-referenced name must have been committed
// earlier in document order; nothing is fixed up after the fact. One index
// lives for exactly one parse call.
type nameIndex struct {
	links  map[string]LinkHandle
	joints map[string]JointHandle
	frames map[string]FrameHandle

	// efforts records the effort limit of each committed joint whose type
	// admits an actuator. The transmission resolver consults it.
	efforts map[string]float64
}

func newNameIndex(world LinkHandle) *nameIndex {
	idx := &nameIndex{
		links:   map[string]LinkHandle{},
		joints:  map[string]JointHandle{},
		frames:  map[string]FrameHandle{},
		efforts: map[string]float64{},
	}
	// The world link is referenceable without being declared.
	idx.links[worldName] = world
	return idx
}

func (idx *nameIndex) link(name string) (LinkHandle, bool) {
	h, ok := idx.links[name]
	return h, ok
}

func (idx *nameIndex) addLink(name string, h LinkHandle) {
	idx.links[name] = h
}

func (idx *nameIndex) hasLink(name string) bool {
	_, ok := idx.links[name]
	return ok
}

func (idx *nameIndex) joint(name string) (JointHandle, bool) {
	h, ok := idx.joints[name]
	return h, ok
}

func (idx *nameIndex) addJoint(name string, h JointHandle) {
	idx.joints[name] = h
}

func (idx *nameIndex) hasJoint(name string) bool {
	_, ok := idx.joints[name]
	return ok
}

func (idx *nameIndex) frame(name string) (FrameHandle, bool) {
	h, ok := idx.frames[name]
	return h, ok
}

func (idx *nameIndex) addFrame(name string, h FrameHandle) {
	idx.frames[name] = h
}

func (idx *nameIndex) hasFrame(name string) bool {
	_, ok := idx.frames[name]
	return ok
}

func (idx *nameIndex) setEffort(joint string, limit float64) {
	idx.efforts[joint] = limit
}

func (idx *nameIndex) effort(joint string) (float64, bool) {
	limit, ok := idx.efforts[joint]
	return limit, ok
}

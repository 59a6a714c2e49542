package urdf

import (
	"go.viam.com/urdf/xmltree"
)

// parseFrame handles one <frame name link [xyz] [rpy]> element: a named
// frame fixed to a previously declared link at a pose offset.
func (w *workspace) parseFrame(el *xmltree.Element) error {
	var name string
	if !parseStringAttribute(el, "name", &name) {
		return w.errorf(el, "Failed parsing frame name.")
	}
	if w.index.hasFrame(name) {
		return w.errorf(el, "frame '%s' is defined more than once", name)
	}

	var linkName string
	if !parseStringAttribute(el, "link", &linkName) {
		return w.errorf(el, "missing link name for frame %s.", name)
	}
	link, err := w.linkByName(el, linkName, "frame")
	if err != nil {
		return err
	}

	spec := FrameSpec{Name: name, Link: link}
	if _, err := parseVectorAttribute(el, "xyz", &spec.Origin.XYZ); err != nil {
		return w.errorf(el, "%s", err)
	}
	if _, err := parseVectorAttribute(el, "rpy", &spec.Origin.RPY); err != nil {
		return w.errorf(el, "%s", err)
	}

	handle, err := w.builder.AddFrame(w.instance, spec)
	if err != nil {
		return w.errorf(el, "%s", err)
	}
	w.index.addFrame(name, handle)
	return nil
}

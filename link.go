package urdf

import (
	"go.viam.com/urdf/xmltree"
)

// parseLink handles one <link> element: its name, optional <inertial>
// properties, and its <visual>/<collision> stanzas. Committing a link also
// registers a frame of the same name fixed to it, which is what bushings and
// <frame> declarations reference.
func (w *workspace) parseLink(el *xmltree.Element) error {
	if boolAttribute(el, ignoreAttr) {
		return nil
	}

	var name string
	if !parseStringAttribute(el, "name", &name) {
		return w.errorf(el, "link tag is missing name attribute.")
	}

	// Declaring the "world" link is allowed for the purpose of anchoring
	// geometry to it; no body is added.
	if name == worldName {
		return w.parseWorldLink(el)
	}

	if w.index.hasLink(name) {
		return w.errorf(el, "link '%s' is defined more than once", name)
	}
	if w.index.hasFrame(name) {
		return w.errorf(el, "link '%s' collides with an existing frame of the same name", name)
	}

	spec := LinkSpec{Name: name}
	var err error
	if spec.Inertial, err = w.parseInertial(el); err != nil {
		return err
	}
	if spec.Visuals, spec.Collisions, err = w.parseLinkGeometry(el); err != nil {
		return err
	}

	handle, err := w.builder.AddLink(w.instance, spec)
	if err != nil {
		return w.errorf(el, "%s", err)
	}
	w.index.addLink(name, handle)

	frame, err := w.builder.AddFrame(w.instance, FrameSpec{Name: name, Link: handle})
	if err != nil {
		return w.errorf(el, "%s", err)
	}
	w.index.addFrame(name, frame)
	return nil
}

// parseWorldLink anchors the element's geometry to the builder's world link.
func (w *workspace) parseWorldLink(el *xmltree.Element) error {
	if el.FirstChild("inertial") != nil {
		w.warnf(el, "A document declared the 'world' link with mass properties;"+
			" its <inertial> tag is being ignored.")
	}
	visual, collision, err := w.parseLinkGeometry(el)
	if err != nil {
		return err
	}
	if len(visual) == 0 && len(collision) == 0 {
		return nil
	}
	if err := w.builder.AttachWorldGeometry(w.instance, visual, collision); err != nil {
		return w.errorf(el, "%s", err)
	}
	return nil
}

// parseInertial reads the <inertial> child of a link, if any. Mass, origin
// and every inertia component default to zero, independently.
func (w *workspace) parseInertial(el *xmltree.Element) (InertialSpec, error) {
	var spec InertialSpec
	node := el.FirstChild("inertial")
	if node == nil {
		return spec, nil
	}

	origin, err := parseOrigin(node)
	if err != nil {
		return spec, w.errorf(node, "%s", err)
	}
	spec.Origin = origin

	if mass := node.FirstChild("mass"); mass != nil {
		if _, err := parseScalarAttribute(mass, "value", &spec.Mass); err != nil {
			return spec, w.errorf(mass, "%s", err)
		}
	}

	inertia := node.FirstChild("inertia")
	if inertia == nil {
		return spec, nil
	}
	components := []struct {
		attr string
		dest *float64
	}{
		{"ixx", &spec.Ixx},
		{"ixy", &spec.Ixy},
		{"ixz", &spec.Ixz},
		{"iyy", &spec.Iyy},
		{"iyz", &spec.Iyz},
		{"izz", &spec.Izz},
	}
	for _, c := range components {
		if _, err := parseScalarAttribute(inertia, c.attr, c.dest); err != nil {
			return spec, w.errorf(inertia, "%s", err)
		}
	}
	return spec, nil
}

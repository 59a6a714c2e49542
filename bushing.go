package urdf

import (
	"github.com/golang/geo/r3"

	"go.viam.com/urdf/xmltree"
)

// The children of a <viam:linear_bushing_rpy> element.
const (
	bushingFrameATag          = "viam:bushing_frameA"
	bushingFrameCTag          = "viam:bushing_frameC"
	bushingTorqueStiffnessTag = "viam:bushing_torque_stiffness"
	bushingTorqueDampingTag   = "viam:bushing_torque_damping"
	bushingForceStiffnessTag  = "viam:bushing_force_stiffness"
	bushingForceDampingTag    = "viam:bushing_force_damping"
)

// parseBushing handles one <viam:linear_bushing_rpy> element: a force
// element connecting two previously declared frames, with four 3-vectors of
// stiffness and damping constants.
func (w *workspace) parseBushing(el *xmltree.Element) error {
	var spec BushingSpec
	var err error
	if spec.FrameA, err = w.bushingFrame(el, bushingFrameATag); err != nil {
		return err
	}
	if spec.FrameC, err = w.bushingFrame(el, bushingFrameCTag); err != nil {
		return err
	}

	constants := []struct {
		tag  string
		dest *r3.Vector
	}{
		{bushingTorqueStiffnessTag, &spec.TorqueStiffness},
		{bushingTorqueDampingTag, &spec.TorqueDamping},
		{bushingForceStiffnessTag, &spec.ForceStiffness},
		{bushingForceDampingTag, &spec.ForceDamping},
	}
	for _, c := range constants {
		if err := w.bushingVector(el, c.tag, c.dest); err != nil {
			return err
		}
	}

	if err := w.builder.AddLinearBushing(w.instance, spec); err != nil {
		return w.errorf(el, "%s", err)
	}
	return nil
}

// bushingFrame resolves one frame reference child of the bushing element.
func (w *workspace) bushingFrame(el *xmltree.Element, tag string) (FrameHandle, error) {
	node := el.FirstChild(tag)
	if node == nil {
		return 0, w.errorf(el, "Unable to find the <%s> tag", tag)
	}
	var name string
	if !parseStringAttribute(node, "name", &name) {
		return 0, w.errorf(node, "Unable to read the 'name' attribute for the <%s> tag", tag)
	}
	frame, ok := w.index.frame(name)
	if !ok {
		return 0, w.errorf(node, "Frame: %s specified for <%s> does not exist in the model.", name, tag)
	}
	return frame, nil
}

// bushingVector reads one three-valued constants child of the bushing
// element.
func (w *workspace) bushingVector(el *xmltree.Element, tag string, dest *r3.Vector) error {
	node := el.FirstChild(tag)
	if node == nil {
		return w.errorf(el, "Unable to find the <%s> tag", tag)
	}
	ok, err := parseVectorAttribute(node, "value", dest)
	if err != nil {
		return w.errorf(node, "%s", err)
	}
	if !ok {
		return w.errorf(node, "Unable to read the 'value' attribute for the <%s> tag", tag)
	}
	return nil
}

package urdf

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/urdf/xmltree"
)

// jointParser completes the type-specific portion of a joint spec. It
// reports whether the joint should be committed; a floating joint parses
// cleanly but commits nothing.
type jointParser func(w *workspace, el *xmltree.Element, spec *JointSpec) (bool, error)

// jointRegistry maps each recognized joint type to its parser. The type set
// is closed: standard types are declared under <joint>, custom types under
// <viam:joint>, and anything else is an error.
var jointRegistry = map[JointType]jointParser{
	JointRevolute:   parseSingleDOFJoint,
	JointContinuous: parseContinuousJoint,
	JointPrismatic:  parseSingleDOFJoint,
	JointFixed:      parseFixedJoint,
	JointFloating:   parseFloatingJoint,
	JointBall:       parseDampedJoint,
	JointPlanar:     parsePlanarJoint,
	JointUniversal:  parseDampedJoint,
}

func isStandardJointType(t JointType) bool {
	switch t {
	case JointRevolute, JointContinuous, JointPrismatic, JointFixed, JointFloating:
		return true
	case JointBall, JointPlanar, JointUniversal:
		return false
	}
	return false
}

func defaultJointLimits() JointLimits {
	return JointLimits{
		Lower:        math.Inf(-1),
		Upper:        math.Inf(1),
		Velocity:     math.Inf(1),
		Acceleration: math.Inf(1),
		Effort:       math.Inf(1),
	}
}

// parseJoint handles one <joint> or <viam:joint> element. The common
// sequence is fixed: name, type, registry lookup, parent, child, link
// resolution, origin, then the type-specific parser, then commit.
func (w *workspace) parseJoint(el *xmltree.Element, custom bool) error {
	if boolAttribute(el, ignoreAttr) {
		return nil
	}

	var name string
	if !parseStringAttribute(el, "name", &name) {
		return w.errorf(el, "joint tag is missing name attribute")
	}
	if w.index.hasJoint(name) {
		return w.errorf(el, "joint '%s' is defined more than once", name)
	}

	var typeName string
	if !parseStringAttribute(el, "type", &typeName) {
		return w.errorf(el, "joint '%s' is missing type attribute", name)
	}
	jointType := JointType(typeName)
	parser, ok := jointRegistry[jointType]
	if !ok {
		return w.errorf(el, "Joint '%s' has unrecognized type: '%s'", name, typeName)
	}
	if standard := isStandardJointType(jointType); standard == custom {
		if standard {
			return w.errorf(el, "Joint %s of type %s is a standard joint type, and should be a <joint>",
				name, typeName)
		}
		return w.errorf(el, "Joint %s of type %s is a custom joint type, and should be a <%s>",
			name, typeName, vendorJointTag)
	}

	spec := JointSpec{
		Name:   name,
		Type:   jointType,
		Axis:   r3.Vector{X: 1},
		Limits: defaultJointLimits(),
	}

	parent := el.FirstChild("parent")
	if parent == nil {
		return w.errorf(el, "joint '%s' doesn't have a parent node!", name)
	}
	if !parseStringAttribute(parent, "link", &spec.Parent) {
		return w.errorf(el, "joint %s's parent does not have a link attribute!", name)
	}
	child := el.FirstChild("child")
	if child == nil {
		return w.errorf(el, "joint '%s' doesn't have a child node!", name)
	}
	if !parseStringAttribute(child, "link", &spec.Child) {
		return w.errorf(el, "joint %s's child does not have a link attribute!", name)
	}

	var err error
	if spec.ParentLink, err = w.linkByName(el, spec.Parent, "joint"); err != nil {
		return err
	}
	if spec.ChildLink, err = w.linkByName(el, spec.Child, "joint"); err != nil {
		return err
	}

	origin, err := parseOrigin(el)
	if err != nil {
		return w.errorf(el, "%s", err)
	}
	spec.Origin = origin

	commit, err := parser(w, el, &spec)
	if err != nil {
		return err
	}
	if !commit {
		return nil
	}

	handle, err := w.builder.AddJoint(w.instance, spec)
	if err != nil {
		return w.errorf(el, "%s", err)
	}
	w.index.addJoint(name, handle)

	// Only single degree of freedom joints admit actuators; the transmission
	// resolver consults these limits later in the walk.
	switch jointType {
	case JointRevolute, JointContinuous, JointPrismatic:
		w.index.setEffort(name, spec.Limits.Effort)
	}
	return nil
}

// parseMotionAxis reads the optional <axis xyz> child. The axis defaults to
// the x unit vector, must not be zero, and is normalized before commit.
func parseMotionAxis(w *workspace, el *xmltree.Element, spec *JointSpec) error {
	if axis := el.FirstChild("axis"); axis != nil {
		if _, err := parseVectorAttribute(axis, "xyz", &spec.Axis); err != nil {
			return w.errorf(axis, "%s", err)
		}
	}
	if spec.Axis.Norm() == 0 {
		return w.errorf(el, "Joint '%s' axis is zero.  Don't do that.", spec.Name)
	}
	spec.Axis = spec.Axis.Normalize()
	return nil
}

// parseJointDynamics reads the optional <dynamics> child. Only damping is
// modeled; friction and the long-deprecated coulomb_window are ignored with
// a warning.
func parseJointDynamics(w *workspace, el *xmltree.Element, spec *JointSpec) error {
	dynamics := el.FirstChild("dynamics")
	if dynamics == nil {
		return nil
	}
	if _, err := parseScalarAttribute(dynamics, "damping", &spec.Damping); err != nil {
		return w.errorf(dynamics, "%s", err)
	}
	if dynamics.HasAttr("friction") {
		w.warnf(dynamics, "A joint has specified joint friction, which is not modeled; the value will be ignored.")
	}
	if dynamics.HasAttr("coulomb_window") {
		w.warnf(dynamics, "A joint has specified a 'coulomb_window' attribute, which is deprecated;"+
			" the value will be ignored.")
	}
	return nil
}

// parseJointLimits reads the optional <limit> child. Each bound defaults
// independently, so a partial tag leaves the rest unbounded.
func parseJointLimits(w *workspace, el *xmltree.Element, spec *JointSpec) error {
	limit := el.FirstChild("limit")
	if limit == nil {
		return nil
	}
	attrs := []struct {
		name string
		dest *float64
	}{
		{"lower", &spec.Limits.Lower},
		{"upper", &spec.Limits.Upper},
		{"velocity", &spec.Limits.Velocity},
		{accelerationAttr, &spec.Limits.Acceleration},
		{"effort", &spec.Limits.Effort},
	}
	for _, a := range attrs {
		if _, err := parseScalarAttribute(limit, a.name, a.dest); err != nil {
			return w.errorf(limit, "%s", err)
		}
	}
	return nil
}

// parseSingleDOFJoint handles revolute and prismatic joints: a motion axis,
// damping, and the full limit set.
func parseSingleDOFJoint(w *workspace, el *xmltree.Element, spec *JointSpec) (bool, error) {
	if err := parseMotionAxis(w, el, spec); err != nil {
		return false, err
	}
	if err := parseJointDynamics(w, el, spec); err != nil {
		return false, err
	}
	if err := parseJointLimits(w, el, spec); err != nil {
		return false, err
	}
	return true, nil
}

// parseContinuousJoint is a revolute joint whose positions are unbounded no
// matter what the document says; the other limits still apply.
func parseContinuousJoint(w *workspace, el *xmltree.Element, spec *JointSpec) (bool, error) {
	commit, err := parseSingleDOFJoint(w, el, spec)
	if err != nil || !commit {
		return commit, err
	}
	spec.Limits.Lower = math.Inf(-1)
	spec.Limits.Upper = math.Inf(1)
	return true, nil
}

func parseFixedJoint(*workspace, *xmltree.Element, *JointSpec) (bool, error) {
	return true, nil
}

// parseFloatingJoint builds nothing: the child link simply remains free.
func parseFloatingJoint(w *workspace, el *xmltree.Element, spec *JointSpec) (bool, error) {
	w.warnf(el, "Joint '%s' specified as type floating which is not supported.  Leaving '%s' as a free body.",
		spec.Name, spec.Child)
	return false, nil
}

// parseDampedJoint handles ball and universal joints, which take only a
// damping value.
func parseDampedJoint(w *workspace, el *xmltree.Element, spec *JointSpec) (bool, error) {
	if err := parseJointDynamics(w, el, spec); err != nil {
		return false, err
	}
	return true, nil
}

// parsePlanarJoint replicates the scalar damping across its three degrees of
// freedom.
func parsePlanarJoint(w *workspace, el *xmltree.Element, spec *JointSpec) (bool, error) {
	if err := parseJointDynamics(w, el, spec); err != nil {
		return false, err
	}
	spec.DampingVector = r3.Vector{X: spec.Damping, Y: spec.Damping, Z: spec.Damping}
	return true, nil
}

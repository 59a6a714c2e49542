package urdf

import (
	"fmt"

	"go.viam.com/urdf/logging"
	"go.viam.com/urdf/xmltree"
)

// worldName is the reserved link name that refers to the builder's world
// link rather than to a link of the model being parsed.
const worldName = "world"

// Tags and attributes in the vendor namespace. The xmltree package reports
// namespaced names with their document prefix, so these match the spellings
// authors actually write.
const (
	vendorJointTag   = "viam:joint"
	bushingTag       = "viam:linear_bushing_rpy"
	filterGroupTag   = "viam:collision_filter_group"
	memberTag        = "viam:member"
	ignoredGroupTag  = "viam:ignored_collision_filter_group"
	rotorInertiaTag  = "viam:rotor_inertia"
	gearRatioTag     = "viam:gear_ratio"
	accelerationAttr = "viam:acceleration"
	ignoreAttr       = "viam_ignore"
)

// A workspace is the ambient context of one parse call: the source being
// read, the policy receiving diagnostics, the builder receiving committed
// specs, and the name indices built up along the walk. Nothing in it
// outlives the call that created it.
type workspace struct {
	source   DataSource
	policy   Policy
	logger   logging.Logger
	packages *PackageMap
	builder  ModelBuilder

	instance  ModelInstance
	modelName string

	index     *nameIndex
	materials map[string]MaterialSpec
	groups    []*CollisionFilterGroupSpec
}

// errorAt records an Error diagnostic at the given line and returns it.
func (w *workspace) errorAt(line int, format string, args ...interface{}) error {
	d := Diagnostic{
		Severity: SeverityError,
		Source:   w.source.Location(),
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	}
	w.policy.Report(d)
	return d
}

// errorf records an Error diagnostic located at el and returns it. Handlers
// return the diagnostic to abandon their element; the walk continues with
// the next sibling either way.
func (w *workspace) errorf(el *xmltree.Element, format string, args ...interface{}) error {
	return w.errorAt(el.Line, format, args...)
}

// warnf records a Warning diagnostic located at el. Warnings never abandon
// an element.
func (w *workspace) warnf(el *xmltree.Element, format string, args ...interface{}) {
	w.policy.Report(Diagnostic{
		Severity: SeverityWarning,
		Source:   w.source.Location(),
		Line:     el.Line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// linkByName resolves a link reference against the walk's index. The world
// link is always resolvable; model links only once their <link> element has
// been walked.
func (w *workspace) linkByName(el *xmltree.Element, name, element string) (LinkHandle, error) {
	if h, ok := w.index.link(name); ok {
		return h, nil
	}
	return 0, w.errorf(el, "Could not find link named '%s' with model instance ID %d for element '%s'.",
		name, int(w.instance), element)
}

// addModel parses one <robot> document rooted at root and commits its specs.
// Only an absent robot tag or an unnamable model is fatal; everything else
// is an element-scoped diagnostic and the walk keeps going.
func (w *workspace) addModel(root *xmltree.Element, modelName string) (ModelInstance, error) {
	if root.Tag != robotTag {
		return InvalidModelInstance, w.errorAt(root.Line, "URDF does not contain a robot tag.")
	}

	name := modelName
	if name == "" {
		parseStringAttribute(root, "name", &name)
	}
	if name == "" {
		return InvalidModelInstance, w.errorAt(root.Line,
			"Your robot must have a name attribute or a model name must be specified.")
	}

	instance, err := w.builder.AddModelInstance(name)
	if err != nil {
		return InvalidModelInstance, w.errorAt(root.Line, "%s", err)
	}
	w.instance = instance
	w.modelName = name
	w.index = newNameIndex(w.builder.WorldLink())
	w.materials = map[string]MaterialSpec{}

	w.walk(root)
	w.logger.Debugw("model added", "name", w.modelName, "instance", int(instance))
	return instance, nil
}

// walk dispatches the document's top-level elements in order. Each handler
// reports its own diagnostics and returns the first Error it recorded; the
// walk notes the failure and unconditionally proceeds to the next sibling.
func (w *workspace) walk(root *xmltree.Element) {
	for _, el := range root.Children {
		var err error
		switch el.Tag {
		case "material":
			err = w.parseRobotMaterial(el)
		case "link":
			err = w.parseLink(el)
		case "joint":
			err = w.parseJoint(el, false)
		case vendorJointTag:
			err = w.parseJoint(el, true)
		case "transmission":
			err = w.parseTransmission(el)
		case "frame":
			err = w.parseFrame(el)
		case "loop_joint":
			err = w.errorf(el, "loop joints are not supported")
		case bushingTag:
			err = w.parseBushing(el)
		case filterGroupTag:
			err = w.parseCollisionFilterGroup(el)
		default:
			w.logger.Debugw("ignoring unrecognized element", "tag", el.Tag, "line", el.Line)
		}
		if err != nil {
			w.logger.Debugw("element abandoned", "tag", el.Tag, "line", el.Line)
		}
	}
	w.resolveCollisionFilterGroups(root)
}

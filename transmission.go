package urdf

import (
	"strings"

	"go.viam.com/urdf/xmltree"
)

// parseTransmission handles one <transmission> element, which couples an
// actuator to a previously declared joint. The joint must be one whose type
// admits an actuator and whose effort limit is positive.
func (w *workspace) parseTransmission(el *xmltree.Element) error {
	var transmissionType string
	if !parseStringAttribute(el, "type", &transmissionType) {
		typeNode := el.FirstChild("type")
		if typeNode == nil || typeNode.Text == "" {
			return w.errorf(el, "Transmission element is missing a type.")
		}
		transmissionType = typeNode.Text
	}
	if !strings.Contains(transmissionType, "SimpleTransmission") {
		w.warnf(el, "A <transmission> has a type that isn't 'SimpleTransmission'."+
			" Only 'SimpleTransmission' is supported; all other transmission types will be ignored.")
		return nil
	}

	actuator := el.FirstChild("actuator")
	if actuator == nil {
		return w.errorf(el, "Transmission is missing an actuator element.")
	}
	spec := TransmissionSpec{Type: transmissionType, Actuator: ActuatorSpec{GearRatio: 1}}
	if !parseStringAttribute(actuator, "name", &spec.Actuator.Name) {
		return w.errorf(el, "Transmission is missing an actuator name.")
	}
	if err := w.parseReflectedInertia(actuator, &spec.Actuator); err != nil {
		return err
	}

	jointNode := el.FirstChild("joint")
	if jointNode == nil {
		return w.errorf(el, "Transmission is missing a joint element.")
	}
	if !parseStringAttribute(jointNode, "name", &spec.Joint) {
		return w.errorf(el, "Transmission is missing a joint name.")
	}

	effort, ok := w.index.effort(spec.Joint)
	if !ok {
		return w.errorf(el, "Transmission specifies joint '%s' which does not exist.", spec.Joint)
	}
	if effort == 0 {
		w.warnf(el, "Skipping transmission since it's attached to joint \"%s\""+
			" which has a zero effort limit %v.", spec.Joint, effort)
		return nil
	}
	if effort < 0 {
		return w.errorf(el, "Transmission specifies joint '%s' which has a negative effort limit.", spec.Joint)
	}
	spec.EffortLimit = effort
	spec.JointRef, _ = w.index.joint(spec.Joint)

	if err := w.builder.AddTransmission(w.instance, spec); err != nil {
		return w.errorf(el, "%s", err)
	}
	return nil
}

// parseReflectedInertia reads the optional rotor inertia and gear ratio tags
// of an actuator. Either tag, when present, must carry a value.
func (w *workspace) parseReflectedInertia(actuator *xmltree.Element, spec *ActuatorSpec) error {
	tags := []struct {
		tag  string
		dest *float64
	}{
		{rotorInertiaTag, &spec.RotorInertia},
		{gearRatioTag, &spec.GearRatio},
	}
	for _, t := range tags {
		node := actuator.FirstChild(t.tag)
		if node == nil {
			continue
		}
		ok, err := parseScalarAttribute(node, "value", t.dest)
		if err != nil {
			return w.errorf(node, "%s", err)
		}
		if !ok {
			return w.errorf(node, "joint actuator %s's %s does not have a \"value\" attribute!",
				spec.Name, t.tag)
		}
	}
	return nil
}

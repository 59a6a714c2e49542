package urdf_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/urdf"
	"go.viam.com/urdf/model"
)

// jointDoc wraps a joint stanza in a document that already declares the two
// links most joints attach to.
func jointDoc(joint string) string {
	return `<robot name="a">
  <link name="parent"/>
  <link name="child"/>
  ` + joint + `
</robot>`
}

func jointByName(t *testing.T, res testParse, name string) model.Joint {
	t.Helper()
	h, ok := res.builder.JointByName(res.instance, name)
	test.That(t, ok, test.ShouldBeTrue)
	return res.builder.Joint(h)
}

func TestRevoluteJoint(t *testing.T) {
	res := mustParse(t, jointDoc(`<joint name="elbow" type="revolute">
    <parent link="parent"/>
    <child link="child"/>
    <origin xyz="0 0 0.1"/>
    <axis xyz="0 0 2"/>
    <dynamics damping="0.1"/>
    <limit lower="-1.5" upper="1.5" velocity="2" effort="30"/>
  </joint>`))
	j := jointByName(t, res, "elbow")
	test.That(t, j.Type, test.ShouldEqual, urdf.JointRevolute)
	test.That(t, j.Parent, test.ShouldEqual, "parent")
	test.That(t, j.Child, test.ShouldEqual, "child")
	test.That(t, j.ParentLink, test.ShouldEqual, linkHandle(t, res, "parent"))
	test.That(t, j.ChildLink, test.ShouldEqual, linkHandle(t, res, "child"))
	test.That(t, j.Origin.XYZ, test.ShouldResemble, r3.Vector{Z: 0.1})
	test.That(t, j.Axis, test.ShouldResemble, r3.Vector{Z: 1})
	test.That(t, j.Damping, test.ShouldEqual, 0.1)
	test.That(t, j.Limits.Lower, test.ShouldEqual, -1.5)
	test.That(t, j.Limits.Upper, test.ShouldEqual, 1.5)
	test.That(t, j.Limits.Velocity, test.ShouldEqual, 2.0)
	test.That(t, j.Limits.Effort, test.ShouldEqual, 30.0)
	test.That(t, math.IsInf(j.Limits.Acceleration, 1), test.ShouldBeTrue)
}

func TestJointDefaults(t *testing.T) {
	res := mustParse(t, jointDoc(`<joint name="slide" type="prismatic">
    <parent link="parent"/><child link="child"/>
  </joint>`))
	j := jointByName(t, res, "slide")
	test.That(t, j.Type, test.ShouldEqual, urdf.JointPrismatic)
	test.That(t, j.Axis, test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, j.Damping, test.ShouldEqual, 0.0)
	test.That(t, math.IsInf(j.Limits.Lower, -1), test.ShouldBeTrue)
	test.That(t, math.IsInf(j.Limits.Upper, 1), test.ShouldBeTrue)
	test.That(t, math.IsInf(j.Limits.Velocity, 1), test.ShouldBeTrue)
	test.That(t, math.IsInf(j.Limits.Effort, 1), test.ShouldBeTrue)
}

func TestJointPartialLimits(t *testing.T) {
	res := mustParse(t, jointDoc(`<joint name="j" type="revolute">
    <parent link="parent"/><child link="child"/>
    <limit lower="-2"/>
  </joint>`))
	j := jointByName(t, res, "j")
	test.That(t, j.Limits.Lower, test.ShouldEqual, -2.0)
	test.That(t, math.IsInf(j.Limits.Upper, 1), test.ShouldBeTrue)
	test.That(t, math.IsInf(j.Limits.Effort, 1), test.ShouldBeTrue)
}

func TestContinuousJointUnboundedPositions(t *testing.T) {
	res := mustParse(t, jointDoc(`<joint name="spin" type="continuous">
    <parent link="parent"/><child link="child"/>
    <limit lower="-1" upper="1" velocity="5" effort="10"/>
  </joint>`))
	j := jointByName(t, res, "spin")
	test.That(t, math.IsInf(j.Limits.Lower, -1), test.ShouldBeTrue)
	test.That(t, math.IsInf(j.Limits.Upper, 1), test.ShouldBeTrue)
	test.That(t, j.Limits.Velocity, test.ShouldEqual, 5.0)
	test.That(t, j.Limits.Effort, test.ShouldEqual, 10.0)
}

func TestFixedJoint(t *testing.T) {
	res := mustParse(t, jointDoc(`<joint name="weld" type="fixed">
    <parent link="parent"/><child link="child"/>
  </joint>`))
	test.That(t, jointByName(t, res, "weld").Type, test.ShouldEqual, urdf.JointFixed)
}

func TestFloatingJointWarning(t *testing.T) {
	res := parseString(t, jointDoc(`<joint name="free" type="floating">
    <parent link="parent"/><child link="child"/>
  </joint>`))
	test.That(t, res.err, test.ShouldBeNil)
	test.That(t, res.rec.Errors(), test.ShouldBeEmpty)

	warnings := res.rec.Warnings()
	test.That(t, warnings, test.ShouldHaveLength, 1)
	test.That(t, warnings[0].Message, test.ShouldEqual,
		"Joint 'free' specified as type floating which is not supported.  Leaving 'child' as a free body.")
	test.That(t, res.builder.Joints(res.instance), test.ShouldBeEmpty)
}

func TestJointZeroAxis(t *testing.T) {
	res := parseString(t, jointDoc(`<joint name="j" type="revolute">
    <parent link="parent"/><child link="child"/>
    <axis xyz="0 0 0"/>
  </joint>`))
	d := singleError(t, res)
	test.That(t, d.Message, test.ShouldEqual, "Joint 'j' axis is zero.  Don't do that.")
	test.That(t, res.builder.Joints(res.instance), test.ShouldBeEmpty)
}

func TestJointAxisNormalized(t *testing.T) {
	res := mustParse(t, jointDoc(`<joint name="j" type="revolute">
    <parent link="parent"/><child link="child"/>
    <axis xyz="1 1 0"/>
  </joint>`))
	j := jointByName(t, res, "j")
	test.That(t, j.Axis.X, test.ShouldAlmostEqual, math.Sqrt2/2, 1e-12)
	test.That(t, j.Axis.Y, test.ShouldAlmostEqual, math.Sqrt2/2, 1e-12)
	test.That(t, j.Axis.Norm(), test.ShouldAlmostEqual, 1.0, 1e-12)
}

func TestCustomJointTypes(t *testing.T) {
	res := mustParse(t, `<robot name="hand">
  <link name="parent"/>
  <link name="child"/>
  <link name="palm"/>
  <link name="finger"/>
  <viam:joint name="wrist" type="ball">
    <parent link="parent"/><child link="child"/>
    <dynamics damping="0.2"/>
  </viam:joint>
  <viam:joint name="glide" type="planar">
    <parent link="child"/><child link="palm"/>
    <dynamics damping="0.5"/>
  </viam:joint>
  <viam:joint name="knuckle" type="universal">
    <parent link="palm"/><child link="finger"/>
  </viam:joint>
</robot>`)

	ball := jointByName(t, res, "wrist")
	test.That(t, ball.Type, test.ShouldEqual, urdf.JointBall)
	test.That(t, ball.Damping, test.ShouldEqual, 0.2)

	planar := jointByName(t, res, "glide")
	test.That(t, planar.Type, test.ShouldEqual, urdf.JointPlanar)
	test.That(t, planar.DampingVector, test.ShouldResemble, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})

	universal := jointByName(t, res, "knuckle")
	test.That(t, universal.Type, test.ShouldEqual, urdf.JointUniversal)
	test.That(t, universal.Damping, test.ShouldEqual, 0.0)
}

func TestJointTagTypeMismatch(t *testing.T) {
	res := parseString(t, jointDoc(`<joint name="b" type="ball">
    <parent link="parent"/><child link="child"/>
  </joint>`))
	d := singleError(t, res)
	test.That(t, d.Message, test.ShouldEqual,
		"Joint b of type ball is a custom joint type, and should be a <viam:joint>")

	res = parseString(t, jointDoc(`<viam:joint name="r" type="revolute">
    <parent link="parent"/><child link="child"/>
  </viam:joint>`))
	d = singleError(t, res)
	test.That(t, d.Message, test.ShouldEqual,
		"Joint r of type revolute is a standard joint type, and should be a <joint>")
}

func TestJointStructureErrors(t *testing.T) {
	for _, tc := range []struct{ name, joint, want string }{
		{
			"missing name",
			`<joint type="revolute"><parent link="parent"/><child link="child"/></joint>`,
			"joint tag is missing name attribute",
		},
		{
			"missing type",
			`<joint name="j"><parent link="parent"/><child link="child"/></joint>`,
			"joint 'j' is missing type attribute",
		},
		{
			"unrecognized type",
			`<joint name="j" type="bouncy"><parent link="parent"/><child link="child"/></joint>`,
			"Joint 'j' has unrecognized type: 'bouncy'",
		},
		{
			"missing parent",
			`<joint name="j" type="revolute"><child link="child"/></joint>`,
			"joint 'j' doesn't have a parent node!",
		},
		{
			"parent without link",
			`<joint name="j" type="revolute"><parent/><child link="child"/></joint>`,
			"joint j's parent does not have a link attribute!",
		},
		{
			"missing child",
			`<joint name="j" type="revolute"><parent link="parent"/></joint>`,
			"joint 'j' doesn't have a child node!",
		},
		{
			"child without link",
			`<joint name="j" type="revolute"><parent link="parent"/><child/></joint>`,
			"joint j's child does not have a link attribute!",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res := parseString(t, jointDoc(tc.joint))
			d := singleError(t, res)
			test.That(t, d.Message, test.ShouldEqual, tc.want)
			test.That(t, res.builder.Joints(res.instance), test.ShouldBeEmpty)
		})
	}
}

func TestJointUnknownLink(t *testing.T) {
	res := parseString(t, jointDoc(`<joint name="j" type="fixed">
    <parent link="phantom"/><child link="child"/>
  </joint>`))
	d := singleError(t, res)
	test.That(t, d.Message, test.ShouldEqual,
		"Could not find link named 'phantom' with model instance ID 2 for element 'joint'.")
}

func TestJointForwardReference(t *testing.T) {
	// Joints resolve links in document order: a link declared later in the
	// document is not visible yet.
	res := parseString(t, `<robot name="a">
  <link name="parent"/>
  <joint name="j" type="fixed">
    <parent link="parent"/><child link="late"/>
  </joint>
  <link name="late"/>
</robot>`)
	d := singleError(t, res)
	test.That(t, d.Message, test.ShouldEqual,
		"Could not find link named 'late' with model instance ID 2 for element 'joint'.")
	test.That(t, res.builder.Links(res.instance), test.ShouldHaveLength, 2)
	test.That(t, res.builder.Joints(res.instance), test.ShouldBeEmpty)
}

func TestJointWorldParent(t *testing.T) {
	res := mustParse(t, `<robot name="a">
  <link name="base"/>
  <joint name="anchor" type="fixed">
    <parent link="world"/><child link="base"/>
  </joint>
</robot>`)
	j := jointByName(t, res, "anchor")
	test.That(t, j.ParentLink, test.ShouldEqual, res.builder.WorldLink())
}

func TestJointDuplicate(t *testing.T) {
	res := parseString(t, jointDoc(`<joint name="j" type="fixed">
    <parent link="parent"/><child link="child"/>
  </joint>
  <joint name="j" type="fixed">
    <parent link="parent"/><child link="child"/>
  </joint>`))
	d := singleError(t, res)
	test.That(t, d.Message, test.ShouldEqual, "joint 'j' is defined more than once")
	test.That(t, res.builder.Joints(res.instance), test.ShouldHaveLength, 1)
}

func TestJointIgnoreMarker(t *testing.T) {
	res := mustParse(t, jointDoc(`<joint viam_ignore="true"/>`))
	test.That(t, res.builder.Joints(res.instance), test.ShouldBeEmpty)
}

func TestJointDeprecatedDynamicsWarnings(t *testing.T) {
	res := parseString(t, jointDoc(`<joint name="j" type="revolute">
    <parent link="parent"/><child link="child"/>
    <dynamics damping="0.5" friction="2" coulomb_window="0.01"/>
  </joint>`))
	test.That(t, res.err, test.ShouldBeNil)
	test.That(t, res.rec.Errors(), test.ShouldBeEmpty)

	warnings := res.rec.Warnings()
	test.That(t, warnings, test.ShouldHaveLength, 2)
	test.That(t, warnings[0].Message, test.ShouldEqual,
		"A joint has specified joint friction, which is not modeled; the value will be ignored.")
	test.That(t, warnings[1].Message, test.ShouldEqual,
		"A joint has specified a 'coulomb_window' attribute, which is deprecated; the value will be ignored.")

	test.That(t, jointByName(t, res, "j").Damping, test.ShouldEqual, 0.5)
}

func TestJointAccelerationLimit(t *testing.T) {
	res := mustParse(t, jointDoc(`<joint name="j" type="revolute">
    <parent link="parent"/><child link="child"/>
    <limit viam:acceleration="3.5"/>
  </joint>`))
	test.That(t, jointByName(t, res, "j").Limits.Acceleration, test.ShouldEqual, 3.5)
}

func TestJointBadLimitValue(t *testing.T) {
	res := parseString(t, jointDoc(`<joint name="j" type="revolute">
    <parent link="parent"/><child link="child"/>
    <limit lower="wide"/>
  </joint>`))
	d := singleError(t, res)
	test.That(t, d.Message, test.ShouldContainSubstring, "parsing the 'lower' attribute of <limit>")
}

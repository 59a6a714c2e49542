package urdf_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/urdf"
	"go.viam.com/urdf/logging"
	"go.viam.com/urdf/model"
)

// testParse is the result of running one document through a parser backed by
// a recording policy.
type testParse struct {
	builder  *model.Builder
	instance urdf.ModelInstance
	rec      *urdf.Recorder
	err      error
}

// parseInto parses a document into an existing builder, letting tests add
// several models to one builder.
func parseInto(t *testing.T, builder *model.Builder, doc, modelName string, opts ...urdf.Option) testParse {
	t.Helper()
	rec := &urdf.Recorder{}
	opts = append([]urdf.Option{
		urdf.WithPolicy(rec),
		urdf.WithLogger(logging.NewTestLogger(t)),
	}, opts...)
	parser := urdf.NewParser(builder, opts...)
	instance, err := parser.AddModelFromString(doc, modelName)
	return testParse{builder, instance, rec, err}
}

// parseString parses an in-memory document into a fresh builder with no
// caller-supplied name.
func parseString(t *testing.T, doc string, opts ...urdf.Option) testParse {
	t.Helper()
	return parseInto(t, model.NewBuilder(), doc, "", opts...)
}

// mustParse parses a document and asserts the parse was clean: a valid
// handle and no diagnostics of either severity.
func mustParse(t *testing.T, doc string, opts ...urdf.Option) testParse {
	t.Helper()
	res := parseString(t, doc, opts...)
	test.That(t, res.err, test.ShouldBeNil)
	test.That(t, res.rec.Diagnostics, test.ShouldBeEmpty)
	return res
}

// singleError asserts the parse survived with exactly one Error recorded and
// returns it.
func singleError(t *testing.T, res testParse) urdf.Diagnostic {
	t.Helper()
	test.That(t, res.err, test.ShouldBeNil)
	errs := res.rec.Errors()
	test.That(t, errs, test.ShouldHaveLength, 1)
	return errs[0]
}

// linkHandle resolves a committed link by name.
func linkHandle(t *testing.T, res testParse, name string) urdf.LinkHandle {
	t.Helper()
	h, ok := res.builder.LinkByName(res.instance, name)
	test.That(t, ok, test.ShouldBeTrue)
	return h
}

func TestAddModelFromString(t *testing.T) {
	res := mustParse(t, `<robot name="acrobot"><link name="base"/></robot>`)
	test.That(t, int(res.instance), test.ShouldEqual, 2)
	test.That(t, res.builder.InstanceName(res.instance), test.ShouldEqual, "acrobot")

	_, ok := res.builder.LinkByName(res.instance, "base")
	test.That(t, ok, test.ShouldBeTrue)
}

func TestModelNamePrecedence(t *testing.T) {
	builder := model.NewBuilder()

	res := parseInto(t, builder, `<robot name="attr_name"/>`, "caller_name")
	test.That(t, res.err, test.ShouldBeNil)
	test.That(t, builder.InstanceName(res.instance), test.ShouldEqual, "caller_name")

	res = parseInto(t, builder, `<robot name="attr_name"/>`, "")
	test.That(t, res.err, test.ShouldBeNil)
	test.That(t, builder.InstanceName(res.instance), test.ShouldEqual, "attr_name")
}

func TestMissingModelName(t *testing.T) {
	res := parseString(t, `<robot/>`)
	test.That(t, res.err, test.ShouldNotBeNil)
	test.That(t, res.instance, test.ShouldEqual, urdf.InvalidModelInstance)

	d, ok := res.err.(urdf.Diagnostic)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, d.Severity, test.ShouldEqual, urdf.SeverityError)
	test.That(t, d.Source, test.ShouldEqual, "<literal-string>.urdf")
	test.That(t, d.Line, test.ShouldEqual, 1)
	test.That(t, d.Message, test.ShouldEqual,
		"Your robot must have a name attribute or a model name must be specified.")

	// Fatal diagnostics reach the policy too.
	test.That(t, res.rec.Errors(), test.ShouldHaveLength, 1)
	test.That(t, res.rec.Errors()[0], test.ShouldResemble, d)
}

func TestNoRobotTag(t *testing.T) {
	res := parseString(t, `<not_robot name="x"/>`)
	test.That(t, res.err, test.ShouldNotBeNil)
	test.That(t, res.err.Error(), test.ShouldContainSubstring, "URDF does not contain a robot tag.")
	test.That(t, res.instance, test.ShouldEqual, urdf.InvalidModelInstance)
}

func TestMalformedXML(t *testing.T) {
	res := parseString(t, "<robot name='a'>\n  <link name='b'>\n</robot>")
	test.That(t, res.err, test.ShouldNotBeNil)
	test.That(t, res.instance, test.ShouldEqual, urdf.InvalidModelInstance)

	d, ok := res.err.(urdf.Diagnostic)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, d.Message, test.ShouldContainSubstring, "Failed to parse XML string:")
	test.That(t, d.Line, test.ShouldEqual, 3)
}

func TestEmptyDocument(t *testing.T) {
	res := parseString(t, "")
	test.That(t, res.err, test.ShouldNotBeNil)

	d, ok := res.err.(urdf.Diagnostic)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, d.Line, test.ShouldEqual, 1)
	test.That(t, d.Message, test.ShouldContainSubstring, "Failed to parse XML string:")
}

func TestAddModelFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robot.urdf")
	doc := `<robot name="filed"><link name="base"/></robot>`
	test.That(t, os.WriteFile(path, []byte(doc), 0o600), test.ShouldBeNil)

	builder := model.NewBuilder()
	rec := &urdf.Recorder{}
	parser := urdf.NewParser(builder, urdf.WithPolicy(rec), urdf.WithLogger(logging.NewTestLogger(t)))

	instance, err := parser.AddModelFromFile(path, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rec.Diagnostics, test.ShouldBeEmpty)
	test.That(t, builder.InstanceName(instance), test.ShouldEqual, "filed")
}

func TestUnreadableFile(t *testing.T) {
	builder := model.NewBuilder()
	rec := &urdf.Recorder{}
	parser := urdf.NewParser(builder, urdf.WithPolicy(rec), urdf.WithLogger(logging.NewTestLogger(t)))

	path := filepath.Join(t.TempDir(), "missing.urdf")
	instance, err := parser.AddModelFromFile(path, "x")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, instance, test.ShouldEqual, urdf.InvalidModelInstance)

	d, ok := err.(urdf.Diagnostic)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, d.Source, test.ShouldEqual, path)
	test.That(t, d.Line, test.ShouldEqual, 0)
	test.That(t, d.Message, test.ShouldContainSubstring, "Failed to parse XML file:")

	// Nothing was committed.
	test.That(t, builder.NumInstances(), test.ShouldEqual, 2)
}

func TestDuplicateModelInstanceName(t *testing.T) {
	builder := model.NewBuilder()
	doc := `<robot name="twin"/>`

	res := parseInto(t, builder, doc, "")
	test.That(t, res.err, test.ShouldBeNil)

	res = parseInto(t, builder, doc, "")
	test.That(t, res.err, test.ShouldNotBeNil)
	test.That(t, res.err.Error(), test.ShouldContainSubstring, "already exists")
	test.That(t, res.instance, test.ShouldEqual, urdf.InvalidModelInstance)

	res = parseInto(t, builder, doc, "twin_2")
	test.That(t, res.err, test.ShouldBeNil)
	test.That(t, int(res.instance), test.ShouldEqual, 3)
}

func TestUnknownElementsSkipped(t *testing.T) {
	res := mustParse(t, `<robot name="a">
  <gazebo reference="base"><material>Gazebo/Black</material></gazebo>
  <link name="base"/>
</robot>`)
	test.That(t, res.builder.Links(res.instance), test.ShouldHaveLength, 1)
}

func TestWalkContinuesPastBrokenElements(t *testing.T) {
	res := parseString(t, `<robot name="a">
  <link/>
  <link name="good"/>
  <joint name="j" type="revolute">
    <parent link="nope"/>
    <child link="good"/>
  </joint>
  <loop_joint name="l"/>
  <link name="tail"/>
</robot>`)
	test.That(t, res.err, test.ShouldBeNil)

	errs := res.rec.Errors()
	test.That(t, errs, test.ShouldHaveLength, 3)
	test.That(t, errs[0].Message, test.ShouldEqual, "link tag is missing name attribute.")
	test.That(t, errs[0].Line, test.ShouldEqual, 2)
	test.That(t, errs[1].Message, test.ShouldEqual,
		"Could not find link named 'nope' with model instance ID 2 for element 'joint'.")
	test.That(t, errs[1].Line, test.ShouldEqual, 4)
	test.That(t, errs[2].Message, test.ShouldEqual, "loop joints are not supported")
	test.That(t, errs[2].Line, test.ShouldEqual, 8)

	// The broken elements were skipped; the rest committed.
	test.That(t, res.builder.Links(res.instance), test.ShouldHaveLength, 2)
	test.That(t, res.builder.Joints(res.instance), test.ShouldBeEmpty)
}

func TestDefaultPolicyLogsDiagnostics(t *testing.T) {
	logger, observed := logging.NewObservedTestLogger(t)
	builder := model.NewBuilder()
	parser := urdf.NewParser(builder, urdf.WithLogger(logger))

	_, err := parser.AddModelFromString(`<robot name="a">
  <link/>
  <joint name="j" type="floating">
    <parent link="world"/>
    <child link="world"/>
  </joint>
</robot>`, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, observed.FilterMessage("link tag is missing name attribute.").Len(), test.ShouldEqual, 1)
	test.That(t, observed.FilterMessageSnippet("type floating which is not supported").Len(), test.ShouldEqual, 1)
}

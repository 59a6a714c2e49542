// Package urdf parses robot description documents into validated models.
//
// A document is one <robot> element holding links, joints, materials,
// frames, transmissions, force elements and collision filter rules. Parsing
// walks the document once, in order, forwarding each validated element to a
// ModelBuilder and reporting every anomaly as a severity-tagged, located
// diagnostic. A malformed element is skipped and the walk continues with its
// siblings, so a single pass over an imperfect file yields maximal feedback.
// Only an unreadable source, malformed XML, a missing <robot> element or an
// unnamable model abort a parse.
package urdf

import (
	"encoding/xml"

	"github.com/pkg/errors"

	"go.viam.com/urdf/logging"
	"go.viam.com/urdf/xmltree"
)

const (
	// Extension is the file extension of robot description documents.
	Extension = "urdf"

	// robotTag is the required root element.
	robotTag = "robot"
)

// A Parser converts robot description documents into model instances held by
// a ModelBuilder. A single parser may add any number of models, including
// the same document repeatedly under distinct instance names; nothing is
// shared between calls except the builder itself.
type Parser struct {
	builder  ModelBuilder
	packages *PackageMap
	policy   Policy
	logger   logging.Logger
}

// An Option configures a Parser.
type Option func(*Parser)

// WithPackageMap supplies the resolver for package:// resource references.
// Without one, only file paths resolve.
func WithPackageMap(packages *PackageMap) Option {
	return func(p *Parser) {
		p.packages = packages
	}
}

// WithPolicy supplies the policy that receives each diagnostic as it is
// produced. The default policy routes diagnostics to the parser's logger.
func WithPolicy(policy Policy) Option {
	return func(p *Parser) {
		p.policy = policy
	}
}

// WithLogger supplies the logger used for debug output and, absent a policy,
// for diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser returns a parser committing models to builder.
func NewParser(builder ModelBuilder, opts ...Option) *Parser {
	p := &Parser{builder: builder, logger: logging.NewLogger("urdf")}
	for _, opt := range opts {
		opt(p)
	}
	if p.packages == nil {
		p.packages = NewPackageMap()
	}
	if p.policy == nil {
		p.policy = loggerPolicy{p.logger}
	}
	return p
}

// AddModelFromFile parses the document in the named file. See AddModel.
func (p *Parser) AddModelFromFile(filename, modelName string) (ModelInstance, error) {
	return p.AddModel(NewFileSource(filename), modelName)
}

// AddModelFromString parses a document held in memory. See AddModel.
func (p *Parser) AddModelFromString(contents, modelName string) (ModelInstance, error) {
	return p.AddModel(NewStringSource(contents), modelName)
}

// AddModel parses one robot description document and commits its validated
// elements to the builder. The model is named modelName, falling back to the
// root element's name attribute when modelName is empty.
//
// Every diagnostic is delivered to the policy during the walk, in document
// order. The returned error is non-nil only for a fatal diagnostic, in which
// case no instance was created; element-scoped errors leave the returned
// handle valid and are observable only through the policy.
func (p *Parser) AddModel(source DataSource, modelName string) (ModelInstance, error) {
	w := &workspace{
		source:   source,
		policy:   p.policy,
		logger:   p.logger,
		packages: p.packages,
		builder:  p.builder,
		instance: InvalidModelInstance,
	}
	p.logger.Debugw("adding model", "source", source.Location(), "name", modelName)

	data, err := source.Read()
	if err != nil {
		return InvalidModelInstance, w.errorAt(0, "Failed to parse XML %s: %s", source.kind(), err)
	}
	root, err := xmltree.Parse(data)
	if err != nil {
		return InvalidModelInstance, w.errorAt(xmlErrorLine(err), "Failed to parse XML %s: %s", source.kind(), err)
	}
	return w.addModel(root, modelName)
}

// xmlErrorLine places a scanner failure in the document. Failures without a
// position, such as an empty document, report line 1.
func xmlErrorLine(err error) int {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Line
	}
	return 1
}

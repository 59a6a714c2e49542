package urdf

import (
	"fmt"

	"go.viam.com/urdf/logging"
)

// Severity classifies a Diagnostic. Errors abandon construction of the
// element that produced them; warnings document a fallback and processing
// continues.
type Severity int

const (
	// SeverityWarning marks an advisory diagnostic.
	SeverityWarning Severity = iota
	// SeverityError marks a diagnostic that prevented an element, or the
	// whole parse, from being committed.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// A Diagnostic is one severity-tagged, located message describing a parsing
// anomaly. Diagnostics implement error; a fatal one is what a parse call
// returns.
type Diagnostic struct {
	Severity Severity
	Source   string
	Line     int
	Message  string
}

// Error renders the diagnostic as "<source>:<line>: <severity>: <text>".
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", d.Source, d.Line, d.Severity, d.Message)
}

// A Policy receives each diagnostic as it is produced, in document order.
// Implementations must not retain the ability to fail; the walk never stops
// for a policy.
type Policy interface {
	Report(d Diagnostic)
}

// A Recorder is a Policy that retains every diagnostic in encounter order.
// Tools that want maximal feedback from a single pass hand one to the parser
// and inspect it afterwards.
type Recorder struct {
	Diagnostics []Diagnostic
}

// Report appends the diagnostic.
func (r *Recorder) Report(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Errors returns the recorded diagnostics with Error severity, in order.
func (r *Recorder) Errors() []Diagnostic {
	return r.filter(SeverityError)
}

// Warnings returns the recorded diagnostics with Warning severity, in order.
func (r *Recorder) Warnings() []Diagnostic {
	return r.filter(SeverityWarning)
}

func (r *Recorder) filter(severity Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == severity {
			out = append(out, d)
		}
	}
	return out
}

// loggerPolicy routes diagnostics to a Logger. It is the policy used when
// the caller supplies none.
type loggerPolicy struct {
	logger logging.Logger
}

func (p loggerPolicy) Report(d Diagnostic) {
	switch d.Severity {
	case SeverityError:
		p.logger.Errorw(d.Message, "source", d.Source, "line", d.Line)
	case SeverityWarning:
		p.logger.Warnw(d.Message, "source", d.Source, "line", d.Line)
	}
}

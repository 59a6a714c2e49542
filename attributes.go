package urdf

import (
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/urdf/xmltree"
)

// parseFloats parses whitespace separated floating point text. A
// non-negative want requires exactly that many values.
func parseFloats(text string, want int) ([]float64, error) {
	fields := strings.Fields(text)
	if want >= 0 && len(fields) != want {
		return nil, errors.Errorf("expected %d values but found %d in %q", want, len(fields), text)
	}
	vals := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Errorf("invalid floating point value %q", field)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// parseStringAttribute reads the named attribute into dest, reporting
// whether it was present. dest is untouched when absent.
func parseStringAttribute(el *xmltree.Element, name string, dest *string) bool {
	value, ok := el.Attr(name)
	if !ok {
		return false
	}
	*dest = value
	return true
}

// parseScalarAttribute reads a floating point attribute into dest. An absent
// attribute leaves dest unchanged and is not an error; this is how numeric
// defaulting works throughout the parser.
func parseScalarAttribute(el *xmltree.Element, name string, dest *float64) (bool, error) {
	value, ok := el.Attr(name)
	if !ok {
		return false, nil
	}
	vals, err := parseFloats(value, 1)
	if err != nil {
		return true, errors.Wrapf(err, "parsing the '%s' attribute of <%s>", name, el.Tag)
	}
	*dest = vals[0]
	return true, nil
}

// parseVectorAttribute reads a three component attribute such as
// xyz="0 0 1" into dest, with the same absence semantics as
// parseScalarAttribute.
func parseVectorAttribute(el *xmltree.Element, name string, dest *r3.Vector) (bool, error) {
	value, ok := el.Attr(name)
	if !ok {
		return false, nil
	}
	vals, err := parseFloats(value, 3)
	if err != nil {
		return true, errors.Wrapf(err, "parsing the '%s' attribute of <%s>", name, el.Tag)
	}
	*dest = r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}
	return true, nil
}

// boolAttribute reports whether the named attribute is present and set to a
// true value ("true" or "1").
func boolAttribute(el *xmltree.Element, name string) bool {
	value, ok := el.Attr(name)
	if !ok {
		return false
	}
	return value == "true" || value == "1"
}

// parseOrigin reads the <origin> child of el, if any. An absent tag or
// absent attribute contributes the identity pose.
func parseOrigin(el *xmltree.Element) (Origin, error) {
	var origin Origin
	node := el.FirstChild("origin")
	if node == nil {
		return origin, nil
	}
	if _, err := parseVectorAttribute(node, "xyz", &origin.XYZ); err != nil {
		return origin, err
	}
	if _, err := parseVectorAttribute(node, "rpy", &origin.RPY); err != nil {
		return origin, err
	}
	return origin, nil
}

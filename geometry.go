package urdf

import (
	"github.com/golang/geo/r3"

	"go.viam.com/urdf/xmltree"
)

// defaultMaterialColor is applied when a visual declares no color at all.
var defaultMaterialColor = [4]float64{0.9, 0.9, 0.9, 1.0}

// parseLinkGeometry reads every <visual> and <collision> child of a link
// element. A failed stanza abandons the whole link, keeping link commits
// atomic.
func (w *workspace) parseLinkGeometry(el *xmltree.Element) ([]GeometrySpec, []GeometrySpec, error) {
	var visuals, collisions []GeometrySpec
	for _, child := range el.Children {
		switch child.Tag {
		case "visual":
			spec, err := w.parseGeometryStanza(child, true)
			if err != nil {
				return nil, nil, err
			}
			visuals = append(visuals, spec)
		case "collision":
			spec, err := w.parseGeometryStanza(child, false)
			if err != nil {
				return nil, nil, err
			}
			collisions = append(collisions, spec)
		}
	}
	return visuals, collisions, nil
}

// parseGeometryStanza reads one <visual> or <collision> element. Materials
// are only meaningful on visuals.
func (w *workspace) parseGeometryStanza(node *xmltree.Element, visual bool) (GeometrySpec, error) {
	var spec GeometrySpec
	parseStringAttribute(node, "name", &spec.Name)

	origin, err := parseOrigin(node)
	if err != nil {
		return spec, w.errorf(node, "%s", err)
	}
	spec.Origin = origin

	geom := node.FirstChild("geometry")
	if geom == nil {
		return spec, w.errorf(node, "Unable to find a <geometry> child for the <%s> tag", node.Tag)
	}
	if err := w.parseShape(geom, &spec); err != nil {
		return spec, err
	}

	if visual {
		if mat := node.FirstChild("material"); mat != nil {
			material, err := w.parseMaterialElement(mat, false)
			if err != nil {
				return spec, err
			}
			spec.Material = &material
		}
	}
	return spec, nil
}

// parseShape reads the single shape child of a <geometry> tag into spec.
func (w *workspace) parseShape(geom *xmltree.Element, spec *GeometrySpec) error {
	var shape *xmltree.Element
	for _, child := range geom.Children {
		switch child.Tag {
		case "box", "sphere", "cylinder", "mesh":
			if shape != nil {
				return w.errorf(geom,
					"a <geometry> tag must declare exactly one of <box>, <sphere>, <cylinder>, or <mesh>")
			}
			shape = child
		}
	}
	if shape == nil {
		return w.errorf(geom,
			"a <geometry> tag must declare exactly one of <box>, <sphere>, <cylinder>, or <mesh>")
	}

	switch shape.Tag {
	case "box":
		spec.Kind = GeometryBox
		ok, err := parseVectorAttribute(shape, "size", &spec.Size)
		if err != nil {
			return w.errorf(shape, "%s", err)
		}
		if !ok {
			return w.errorf(shape, "Unable to read the 'size' attribute for the <box> tag")
		}
	case "sphere":
		spec.Kind = GeometrySphere
		if err := w.requiredScalar(shape, "radius", &spec.Radius); err != nil {
			return err
		}
	case "cylinder":
		spec.Kind = GeometryCylinder
		if err := w.requiredScalar(shape, "radius", &spec.Radius); err != nil {
			return err
		}
		if err := w.requiredScalar(shape, "length", &spec.Length); err != nil {
			return err
		}
	case "mesh":
		spec.Kind = GeometryMesh
		if !parseStringAttribute(shape, "filename", &spec.MeshURI) {
			return w.errorf(shape, "Unable to read the 'filename' attribute for the <mesh> tag")
		}
		path, err := w.packages.ResolveURI(spec.MeshURI, w.source.RootDir())
		if err != nil {
			return w.errorf(shape, "%s", err)
		}
		spec.MeshPath = path
		if err := w.parseMeshScale(shape, spec); err != nil {
			return err
		}
	}
	return nil
}

// parseMeshScale reads the optional 'scale' attribute, which accepts one
// uniform value or three per-axis values and defaults to 1 1 1.
func (w *workspace) parseMeshScale(shape *xmltree.Element, spec *GeometrySpec) error {
	spec.Scale = r3.Vector{X: 1, Y: 1, Z: 1}
	text, ok := shape.Attr("scale")
	if !ok {
		return nil
	}
	vals, err := parseFloats(text, -1)
	if err != nil {
		return w.errorf(shape, "parsing the 'scale' attribute of <mesh>: %s", err)
	}
	switch len(vals) {
	case 1:
		spec.Scale = r3.Vector{X: vals[0], Y: vals[0], Z: vals[0]}
	case 3:
		spec.Scale = r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}
	default:
		return w.errorf(shape, "the 'scale' attribute of <mesh> must have one or three values")
	}
	return nil
}

// requiredScalar reads an attribute that the shape cannot do without.
func (w *workspace) requiredScalar(el *xmltree.Element, name string, dest *float64) error {
	ok, err := parseScalarAttribute(el, name, dest)
	if err != nil {
		return w.errorf(el, "%s", err)
	}
	if !ok {
		return w.errorf(el, "Unable to read the '%s' attribute for the <%s> tag", name, el.Tag)
	}
	return nil
}

// parseRobotMaterial handles a document-level <material> element, which
// registers a named color for visuals to reference.
func (w *workspace) parseRobotMaterial(el *xmltree.Element) error {
	_, err := w.parseMaterialElement(el, true)
	return err
}

// parseMaterialElement reads one <material> element and resolves it against
// the per-parse registry. Document-level materials must be named. A material
// carrying its own color or texture registers under its name, if any; a bare
// named reference resolves to the registered definition.
func (w *workspace) parseMaterialElement(el *xmltree.Element, topLevel bool) (MaterialSpec, error) {
	var spec MaterialSpec
	parseStringAttribute(el, "name", &spec.Name)
	if topLevel && spec.Name == "" {
		return spec, w.errorf(el, "material tag is missing a name attribute")
	}

	var defined bool
	if color := el.FirstChild("color"); color != nil {
		text, ok := color.Attr("rgba")
		if !ok {
			return spec, w.errorf(color, "Unable to read the 'rgba' attribute for the <color> tag")
		}
		vals, err := parseFloats(text, 4)
		if err != nil {
			return spec, w.errorf(color, "parsing the 'rgba' attribute of <color>: %s", err)
		}
		copy(spec.RGBA[:], vals)
		defined = true
	}

	if texture := el.FirstChild("texture"); texture != nil {
		uri, ok := texture.Attr("filename")
		if !ok {
			return spec, w.errorf(texture, "Unable to read the 'filename' attribute for the <texture> tag")
		}
		path, err := w.packages.ResolveURI(uri, w.source.RootDir())
		if err != nil {
			return spec, w.errorf(texture, "%s", err)
		}
		spec.Texture = path
		defined = true
	}

	if !defined {
		if spec.Name == "" {
			spec.RGBA = defaultMaterialColor
			return spec, nil
		}
		known, ok := w.materials[spec.Name]
		if !ok {
			return spec, w.errorf(el,
				"material '%s' is not defined in the document and specifies no color or texture", spec.Name)
		}
		return known, nil
	}

	if spec.Name != "" {
		if err := w.registerMaterial(el, spec); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

// registerMaterial adds a named material to the registry. Re-registering an
// identical definition is allowed; a conflicting one is an error.
func (w *workspace) registerMaterial(el *xmltree.Element, spec MaterialSpec) error {
	if existing, ok := w.materials[spec.Name]; ok && existing != spec {
		return w.errorf(el, "material '%s' is redefined with a different color", spec.Name)
	}
	w.materials[spec.Name] = spec
	return nil
}

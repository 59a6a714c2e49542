package urdf

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/urdf/xmltree"
)

// A PackageMap resolves ROS-style package names to filesystem directories.
// Documents reference meshes and textures as "package://<name>/<path>"; the
// map supplies the directory that <name> stands for. Lookups are read-only;
// a parse never mutates its package map.
type PackageMap struct {
	packages map[string]string
}

// NewPackageMap returns an empty package map.
func NewPackageMap() *PackageMap {
	return &PackageMap{packages: map[string]string{}}
}

// Add maps a package name to a directory, which must exist. Re-adding an
// identical mapping is a no-op; a conflicting one is an error.
func (pm *PackageMap) Add(name, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "package '%s'", name)
	}
	if !info.IsDir() {
		return errors.Errorf("package '%s' must map to a directory, but '%s' is not one", name, dir)
	}
	cleaned := filepath.Clean(dir)
	if existing, ok := pm.packages[name]; ok {
		if existing == cleaned {
			return nil
		}
		return errors.Errorf("package '%s' is already mapped to '%s'", name, existing)
	}
	pm.packages[name] = cleaned
	return nil
}

// AddPackageXML registers the package described by a ROS package.xml
// manifest: its <name> element names the package and its containing
// directory is the mapped path.
func (pm *PackageMap) AddPackageXML(path string) error {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	root, err := xmltree.Parse(data)
	if err != nil {
		return errors.Wrapf(err, "parsing '%s'", path)
	}
	if root.Tag != "package" {
		return errors.Errorf("'%s' does not contain a package tag", path)
	}
	nameNode := root.FirstChild("name")
	if nameNode == nil || nameNode.Text == "" {
		return errors.Errorf("'%s' does not specify a package name", path)
	}
	return pm.Add(nameNode.Text, filepath.Dir(path))
}

// PopulateFromFolder walks a directory tree and registers every package.xml
// manifest found. Failures are aggregated rather than aborting the walk, so
// one bad manifest does not hide the rest.
func (pm *PackageMap) PopulateFromFolder(root string) error {
	var errs error
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = multierr.Combine(errs, err)
			return nil
		}
		if d.IsDir() || d.Name() != "package.xml" {
			return nil
		}
		errs = multierr.Combine(errs, pm.AddPackageXML(path))
		return nil
	})
	return multierr.Combine(errs, walkErr)
}

// Contains reports whether the named package is mapped.
func (pm *PackageMap) Contains(name string) bool {
	_, ok := pm.packages[name]
	return ok
}

// Resolve returns the directory the named package maps to.
func (pm *PackageMap) Resolve(name string) (string, bool) {
	dir, ok := pm.packages[name]
	return dir, ok
}

// Size returns the number of mapped packages.
func (pm *PackageMap) Size() int {
	return len(pm.packages)
}

// ResolveURI turns a resource reference from a document into a filesystem
// path and confirms the file exists. Supported forms are
// "package://<name>/<path>" (and its "model://" alias), "file://<path>",
// absolute paths, and paths relative to rootDir.
func (pm *PackageMap) ResolveURI(uri, rootDir string) (string, error) {
	var path string
	switch {
	case strings.HasPrefix(uri, "package://"), strings.HasPrefix(uri, "model://"):
		remainder := uri[strings.Index(uri, "://")+3:]
		name, rel, found := strings.Cut(remainder, "/")
		if !found || rel == "" {
			return "", errors.Errorf("the URI '%s' has no path after its package name", uri)
		}
		dir, ok := pm.Resolve(name)
		if !ok {
			return "", errors.Errorf("the URI '%s' names the unknown package '%s'", uri, name)
		}
		path = filepath.Join(dir, filepath.FromSlash(rel))
	case strings.HasPrefix(uri, "file://"):
		path = strings.TrimPrefix(uri, "file://")
	case strings.Contains(uri, "://"):
		return "", errors.Errorf("the URI '%s' uses an unsupported scheme", uri)
	case filepath.IsAbs(uri):
		path = uri
	default:
		path = filepath.Join(rootDir, filepath.FromSlash(uri))
	}

	if _, err := os.Stat(path); err != nil {
		return "", errors.Errorf("the resource '%s' resolved to '%s' which does not exist", uri, path)
	}
	return path, nil
}

package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/urdf"
)

// validateInertial rejects mass properties no physical body could have:
// negative mass, rotational inertia on a massless link, a negative principal
// moment, or principal moments violating the triangle inequality. The
// all-zero spec of an omitted <inertial> tag is valid and describes a
// massless link.
func validateInertial(link string, spec urdf.InertialSpec) error {
	if spec.Mass < 0 {
		return errors.Errorf("link '%s' has negative mass %v", link, spec.Mass)
	}
	zero := spec.Ixx == 0 && spec.Iyy == 0 && spec.Izz == 0 &&
		spec.Ixy == 0 && spec.Ixz == 0 && spec.Iyz == 0
	if zero {
		return nil
	}
	if spec.Mass == 0 {
		return errors.Errorf("link '%s' has zero mass but nonzero rotational inertia", link)
	}

	inertia := mat.NewSymDense(3, []float64{
		spec.Ixx, spec.Ixy, spec.Ixz,
		spec.Ixy, spec.Iyy, spec.Iyz,
		spec.Ixz, spec.Iyz, spec.Izz,
	})
	var eig mat.EigenSym
	if !eig.Factorize(inertia, false) {
		return errors.Errorf("link '%s' inertia matrix could not be factorized", link)
	}
	// Values are ascending, so the checks read off the extremes.
	moments := eig.Values(nil)

	tol := 1e-10 * math.Max(1, moments[2])
	if moments[0] < -tol {
		return errors.Errorf("link '%s' rotational inertia has a negative principal moment %v",
			link, moments[0])
	}
	if moments[0]+moments[1] < moments[2]-tol {
		return errors.Errorf("link '%s' rotational inertia violates the principal moment"+
			" triangle inequality", link)
	}
	return nil
}

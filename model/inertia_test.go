package model

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/urdf"
)

func TestValidateInertial(t *testing.T) {
	for _, tc := range []struct {
		name string
		spec urdf.InertialSpec
		ok   bool
	}{
		{"massless", urdf.InertialSpec{}, true},
		{"point mass", urdf.InertialSpec{Mass: 1}, true},
		{"solid sphere", urdf.InertialSpec{Mass: 1, Ixx: 0.4, Iyy: 0.4, Izz: 0.4}, true},
		{"off diagonal products", urdf.InertialSpec{Mass: 2, Ixx: 1, Iyy: 1, Izz: 1, Ixy: 0.1}, true},
		{"negative mass", urdf.InertialSpec{Mass: -1}, false},
		{"zero mass nonzero inertia", urdf.InertialSpec{Ixx: 1, Iyy: 1, Izz: 1}, false},
		{"negative moment", urdf.InertialSpec{Mass: 1, Ixx: -1, Iyy: 1, Izz: 1}, false},
		{"triangle inequality", urdf.InertialSpec{Mass: 1, Ixx: 1, Iyy: 1, Izz: 3}, false},
		{"products break positivity", urdf.InertialSpec{Mass: 1, Ixx: 1, Iyy: 1, Izz: 1, Ixy: 2}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := validateInertial("test_link", tc.spec)
			if tc.ok {
				test.That(t, err, test.ShouldBeNil)
			} else {
				test.That(t, err, test.ShouldNotBeNil)
				test.That(t, err.Error(), test.ShouldContainSubstring, "test_link")
			}
		})
	}
}

package dispersion

import (
	"errors"
	"testing"
)

func TestParseMethodValid(t *testing.T) {
	for _, tc := range []struct {
		in     string
		family Family
		degree int
		roles  string
	}{
		{"p0", FamilyPolynomial, 0, ""},
		{"p3", FamilyPolynomial, 3, ""},
		{"p12", FamilyPolynomial, 12, ""},
		{"c0", FamilyChebyshev, 0, ""},
		{"c4", FamilyChebyshev, 4, ""},
		{"v", FamilyVelocity, 0, ""},
		{"x", FamilyVelocityPixel, 0, ""},
		{"lw3", FamilyLegendre, 3, "w"},
		{"lp6", FamilyLegendre, 6, "p"},
		{"lv5", FamilyLegendre, 5, "v"},
		{"lpw4", FamilyLegendre, 4, "pw"},
		{"lwp4", FamilyLegendre, 4, "wp"},
		{"lpvw6", FamilyLegendre, 6, "pvw"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			m, err := ParseMethod(tc.in)
			if err != nil {
				t.Fatalf("ParseMethod(%q): %v", tc.in, err)
			}
			if m.Family != tc.family || m.Degree != tc.degree {
				t.Fatalf("got family %v degree %d, want %v %d", m.Family, m.Degree, tc.family, tc.degree)
			}
			if got := string(rolesToBytes(m.Roles)); got != tc.roles {
				t.Fatalf("roles = %q, want %q", got, tc.roles)
			}
		})
	}
}

func rolesToBytes(roles []Role) []byte {
	out := make([]byte, len(roles))
	for i, r := range roles {
		out[i] = byte(r)
	}
	return out
}

func TestParseMethodInvalid(t *testing.T) {
	for _, in := range []string{
		"", "q3", "p", "c", "px", "p-1", "p3x", "v2", "x1",
		"l3", "lq3", "l", "lw", "lpp3", "lvv2", "lw3p", "lpvwx4",
	} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseMethod(in); !errors.Is(err, ErrUnsupportedMethod) {
				t.Fatalf("ParseMethod(%q) = %v, want ErrUnsupportedMethod", in, err)
			}
		})
	}
}

func TestParamCount(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int
	}{
		{"p0", 2},
		{"p1", 3},
		{"p3", 5},
		{"c0", 2},
		{"c2", 4},
		{"v", 2},
		{"x", 3},
		{"lw3", 2},
		{"lpv5", 3},
		{"lpvw6", 4},
	} {
		m, err := ParseMethod(tc.in)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", tc.in, err)
		}
		if got := m.ParamCount(); got != tc.want {
			t.Fatalf("ParamCount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestHasRole(t *testing.T) {
	m, err := ParseMethod("lpw4")
	if err != nil {
		t.Fatalf("ParseMethod: %v", err)
	}
	if !m.HasRole(RolePixel) || !m.HasRole(RoleWavelength) || m.HasRole(RoleVelocity) {
		t.Fatalf("HasRole mismatch for roles %v", m.Roles)
	}
}

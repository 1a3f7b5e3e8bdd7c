package dispersion

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedMethod indicates a method string that does not match the
// selector grammar.
var ErrUnsupportedMethod = errors.New("dispersion: unsupported method")

// Family identifies a distortion model family.
type Family int

const (
	// FamilyPolynomial models the coordinate drift as a plain polynomial.
	FamilyPolynomial Family = iota
	// FamilyChebyshev models the coordinate drift in the Chebyshev basis.
	FamilyChebyshev
	// FamilyVelocity models a relativistic velocity shift (1 + v/c).
	FamilyVelocity
	// FamilyVelocityPixel combines a velocity shift with a pixel shift.
	FamilyVelocityPixel
	// FamilyLegendre transforms the Legendre coefficients of the
	// wavelength solution directly.
	FamilyLegendre
)

// String returns the family's selector letter.
func (f Family) String() string {
	switch f {
	case FamilyPolynomial:
		return "p"
	case FamilyChebyshev:
		return "c"
	case FamilyVelocity:
		return "v"
	case FamilyVelocityPixel:
		return "x"
	case FamilyLegendre:
		return "l"
	}
	return "?"
}

// Role names a fitted shift parameter of the Legendre family.
type Role byte

const (
	// RolePixel is a pixel shift along the detector axis.
	RolePixel Role = 'p'
	// RoleVelocity is a fractional velocity scaling of the solution.
	RoleVelocity Role = 'v'
	// RoleWavelength is a constant wavelength offset.
	RoleWavelength Role = 'w'
)

// Method is a parsed method selector. Roles is populated for the Legendre
// family only and preserves selector order, which is also the order of
// the corresponding entries in the fitted parameter vector.
type Method struct {
	Family Family
	Degree int
	Roles  []Role
}

// ParamCount returns the optimizer dimension for the method: the flux
// scale parameter plus the family's shift/shape coefficients.
func (m Method) ParamCount() int {
	switch m.Family {
	case FamilyPolynomial, FamilyChebyshev:
		if m.Degree == 0 {
			return 2 // scale + offset; the unit slope is fixed
		}
		return m.Degree + 2
	case FamilyVelocity:
		return 2
	case FamilyVelocityPixel:
		return 3
	case FamilyLegendre:
		return 1 + len(m.Roles)
	}
	return 0
}

// HasRole reports whether the Legendre role r is being fitted.
func (m Method) HasRole(r Role) bool {
	for _, have := range m.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// ParseMethod parses a method selector string. Grammar:
//
//	p<N> | c<N> | v | x | l<roles><N>
//
// where <N> is a non-negative decimal degree and <roles> is a non-empty
// combination of the letters p, v, w, each at most once, in any order.
// Anything else fails with ErrUnsupportedMethod. Parsing happens once per
// fit, before any numeric work.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return Method{}, fmt.Errorf("%w: empty method string", ErrUnsupportedMethod)
	}

	switch s[0] {
	case 'p', 'c':
		deg, err := parseDegree(s[1:])
		if err != nil {
			return Method{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
		}
		fam := FamilyPolynomial
		if s[0] == 'c' {
			fam = FamilyChebyshev
		}
		return Method{Family: fam, Degree: deg}, nil

	case 'v':
		if s != "v" {
			return Method{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
		}
		return Method{Family: FamilyVelocity}, nil

	case 'x':
		if s != "x" {
			return Method{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
		}
		return Method{Family: FamilyVelocityPixel}, nil

	case 'l':
		roles, rest, err := parseRoles(s[1:])
		if err != nil {
			return Method{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
		}
		deg, err := parseDegree(rest)
		if err != nil {
			return Method{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
		}
		return Method{Family: FamilyLegendre, Degree: deg, Roles: roles}, nil
	}

	return Method{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

func parseDegree(s string) (int, error) {
	if s == "" {
		return 0, errors.New("missing degree")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errors.New("non-digit in degree")
		}
	}
	return strconv.Atoi(s)
}

func parseRoles(s string) ([]Role, string, error) {
	var roles []Role
	i := 0
	for ; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			break
		}
		r := Role(ch)
		if r != RolePixel && r != RoleVelocity && r != RoleWavelength {
			return nil, "", fmt.Errorf("unknown role letter %q", ch)
		}
		for _, have := range roles {
			if have == r {
				return nil, "", fmt.Errorf("duplicate role letter %q", ch)
			}
		}
		roles = append(roles, r)
	}
	if len(roles) == 0 {
		return nil, "", errors.New("no role letters")
	}
	return roles, s[i:], nil
}

// Package requirement installs external Python packages declared by
// components, once and under a process-wide lock per installer.
package requirement

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/kart-io/hestia/pkg/errors"
)

var (
	// name, optional [extras], optional version specifiers, optional ; marker
	specPattern = regexp.MustCompile(`^\s*([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(?:\[[^\]]*\])?\s*(\(?\s*[<>=!~][^;]*?\)?)?\s*(?:;.*)?$`)
	nameRunes   = regexp.MustCompile(`[-_.]+`)
)

// Requirement is a parsed specifier.
type Requirement struct {
	// Name is the normalized distribution name.
	Name string
	// Constraint is nil when any version satisfies.
	Constraint *semver.Constraints
	// Raw is the text the requirement was parsed from.
	Raw string
}

// String returns the raw specifier.
func (r *Requirement) String() string { return r.Raw }

// NormalizeName lower-cases a distribution name and folds runs of -_. to "-".
func NormalizeName(name string) string {
	return nameRunes.ReplaceAllString(strings.ToLower(name), "-")
}

// Parse parses "name", "name==1.0", "name[extra]>=1.2,<2". Specifiers that
// are not of that shape are treated as locators and their URL fragment
// ("...zip#name==1.0" or "...#egg=name") is parsed instead.
func Parse(spec string) (*Requirement, error) {
	if req, err := parsePlain(spec); err == nil {
		return req, nil
	}

	u, err := url.Parse(strings.TrimSpace(spec))
	if err != nil || u.Fragment == "" {
		return nil, errors.ErrInvalidSpecifier.WithMessagef("invalid requirement %q", spec)
	}
	fragment := strings.TrimPrefix(u.Fragment, "egg=")
	req, err := parsePlain(fragment)
	if err != nil {
		return nil, err
	}
	req.Raw = spec
	return req, nil
}

func parsePlain(spec string) (*Requirement, error) {
	m := specPattern.FindStringSubmatch(spec)
	if m == nil {
		return nil, errors.ErrInvalidSpecifier.WithMessagef("invalid requirement %q", spec)
	}

	req := &Requirement{Name: NormalizeName(m[1]), Raw: spec}
	versions := strings.Trim(strings.TrimSpace(m[2]), "()")
	if versions == "" {
		return req, nil
	}

	constraint, err := toSemverConstraint(versions)
	if err != nil {
		return nil, errors.ErrInvalidSpecifier.WithMessagef("invalid version constraint in %q", spec).WithCause(err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, errors.ErrInvalidSpecifier.WithMessagef("invalid version constraint in %q", spec).WithCause(err)
	}
	req.Constraint = c
	return req, nil
}

// SatisfiedBy reports whether dist meets the requirement.
func (r *Requirement) SatisfiedBy(dist Distribution) bool {
	if NormalizeName(dist.Name) != r.Name {
		return false
	}
	if r.Constraint == nil {
		return true
	}
	pv, err := parsePEP440(dist.Version)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(pv.semver())
	if err != nil {
		return false
	}
	return r.Constraint.Check(v)
}

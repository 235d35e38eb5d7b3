package requirement

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PEP 440 versions are folded into plain major.minor.patch semver so
// Masterminds constraints can order them. major carries the epoch and the
// first release segment, minor the second. patch packs the third and fourth
// release segments above a phase slot that orders dev < aN < bN < rcN <
// final < postN, each with an optional .devN below it. Local labels are
// dropped. Segments after the fourth and counters above segBase-1 saturate.
const (
	segBase    = 1000
	phaseSpan  = 6 * segBase * segBase
	epochShift = 1_000_000
)

const (
	phaseDev = iota
	phaseAlpha
	phaseBeta
	phaseRC
	phaseFinal
	phasePost
)

var pep440Pattern = regexp.MustCompile(`(?i)^v?(?:(\d+)!)?(\d+(?:\.\d+)*)` +
	`(?:[-_.]?(a|alpha|b|beta|c|rc|pre|preview)[-_.]?(\d*))?` +
	`(?:-(\d+)|[-_.]?(post|rev|r)[-_.]?(\d*))?` +
	`(?:[-_.]?(dev)[-_.]?(\d*))?` +
	`(?:\+[a-z0-9]+(?:[-_.][a-z0-9]+)*)?$`)

type pepVersion struct {
	epoch   uint64
	release []uint64
	phase   uint64
	n, d    uint64
}

func parsePEP440(s string) (pepVersion, error) {
	var v pepVersion
	m := pep440Pattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return v, fmt.Errorf("invalid version %q", s)
	}

	num := func(s string) uint64 {
		if s == "" {
			return 0
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return segBase - 1
		}
		return n
	}
	capped := func(n uint64) uint64 { return min(n, segBase-1) }

	v.epoch = num(m[1])
	for _, seg := range strings.Split(m[2], ".") {
		v.release = append(v.release, num(seg))
	}

	hasDev := m[8] != ""
	devSlot := func() uint64 {
		if hasDev {
			return capped(num(m[9]))
		}
		return segBase - 1
	}

	switch {
	case m[3] != "":
		switch strings.ToLower(m[3]) {
		case "a", "alpha":
			v.phase = phaseAlpha
		case "b", "beta":
			v.phase = phaseBeta
		default:
			v.phase = phaseRC
		}
		v.n, v.d = capped(num(m[4])), devSlot()
	case m[5] != "" || m[6] != "":
		post := m[5]
		if post == "" {
			post = m[7]
		}
		v.phase, v.n, v.d = phasePost, capped(num(post)), devSlot()
	case hasDev:
		v.phase, v.d = phaseDev, capped(num(m[9]))
	default:
		v.phase = phaseFinal
	}
	return v, nil
}

// semver renders v in the packed form described above.
func (v pepVersion) semver() string {
	return encodeRelease(v.epoch, v.release, v.phase*segBase*segBase+v.n*segBase+v.d)
}

// floor is the lowest packed version of v's release, below all its dev
// and pre-releases.
func (v pepVersion) floor() string {
	return encodeRelease(v.epoch, v.release, 0)
}

func encodeRelease(epoch uint64, release []uint64, slot uint64) string {
	r := make([]uint64, 4)
	copy(r, release)
	major := epoch*epochShift + r[0]
	patch := (r[2]*segBase+min(r[3], segBase-1))*phaseSpan + slot
	return fmt.Sprintf("%d.%d.%d", major, r[1], patch)
}

// bumped returns v's release with its last segment incremented.
func (v pepVersion) bumped() pepVersion {
	out := pepVersion{epoch: v.epoch, release: append([]uint64(nil), v.release...)}
	out.release[len(out.release)-1]++
	return out
}

var clausePattern = regexp.MustCompile(`^(~=|===|==|!=|<=|>=|<|>)\s*(\S+)$`)

// toSemverConstraint rewrites PEP 440 version clauses into Masterminds
// syntax over packed versions. "~=1.2" becomes ">=1.2, <2" and "==1.2.*"
// ">=1.2, <1.3", both bounds taken below any pre-release.
func toSemverConstraint(versions string) (string, error) {
	clauses := strings.Split(versions, ",")
	out := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		m := clausePattern.FindStringSubmatch(strings.TrimSpace(clause))
		if m == nil {
			return "", fmt.Errorf("invalid version clause %q", clause)
		}
		op, raw := m[1], m[2]

		if prefix, ok := strings.CutSuffix(raw, ".*"); ok && (op == "==" || op == "!=") {
			v, err := parsePEP440(prefix)
			if err != nil || v.phase != phaseFinal {
				return "", fmt.Errorf("invalid wildcard version %q", raw)
			}
			if op == "==" {
				out = append(out, ">="+v.floor()+", <"+v.bumped().floor())
				continue
			}
			if len(v.release) > 2 {
				return "", fmt.Errorf("unsupported wildcard exclusion %q", raw)
			}
			out = append(out, "!="+strings.Join(strings.Split(v.floor(), ".")[:len(v.release)], ".")+".*")
			continue
		}

		v, err := parsePEP440(raw)
		if err != nil {
			return "", err
		}
		switch op {
		case "~=":
			if len(v.release) < 2 {
				return "", fmt.Errorf("compatible release %q needs two segments", raw)
			}
			upper := pepVersion{epoch: v.epoch, release: v.release[:len(v.release)-1]}.bumped()
			out = append(out, ">="+v.semver()+", <"+upper.floor())
		case "==", "===":
			out = append(out, "="+v.semver())
		default:
			out = append(out, op+v.semver())
		}
	}
	return strings.Join(out, ", "), nil
}

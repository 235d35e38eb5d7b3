package requirement

import (
	"os"
	"strings"
)

// Distribution is an installed package found on disk.
type Distribution struct {
	Name    string
	Version string
	Path    string
}

var metadataSuffixes = []string{".dist-info", ".egg-info"}

// FindDistributions lists the distributions whose metadata lives directly
// under dir: "<name>-<version>.dist-info" and "<name>-<version>[-pyX.Y].egg-info".
// A missing or unreadable dir yields nothing.
func FindDistributions(dir string) []Distribution {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var dists []Distribution
	for _, e := range entries {
		if d, ok := parseMetadataName(e.Name()); ok {
			d.Path = dir
			dists = append(dists, d)
		}
	}
	return dists
}

func parseMetadataName(name string) (Distribution, bool) {
	for _, suffix := range metadataSuffixes {
		base, ok := strings.CutSuffix(name, suffix)
		if !ok {
			continue
		}
		pkg, rest, ok := strings.Cut(base, "-")
		if !ok || pkg == "" || rest == "" {
			return Distribution{}, false
		}
		version, _, _ := strings.Cut(rest, "-")
		return Distribution{Name: pkg, Version: version}, true
	}
	return Distribution{}, false
}

// findIn reports the first distribution under any of dirs satisfying req.
func findIn(req *Requirement, dirs ...string) (Distribution, bool) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, d := range FindDistributions(dir) {
			if req.SatisfiedBy(d) {
				return d, true
			}
		}
	}
	return Distribution{}, false
}

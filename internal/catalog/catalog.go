// Package catalog holds the static table of per-region base images used to
// drive uploads. The catalog is parsed once from configuration text and is
// read-only afterwards.
package catalog

import "strings"

// RegionProfile describes one (region, architecture) entry of the catalog:
// the region code, the architecture the entry serves, the id of the base
// utility image in that region, and an optional kernel image (AKI) id used
// for paravirtual registrations.
type RegionProfile struct {
	Region string
	Arch   string
	AMI    string
	AKI    string
}

// Catalog is an ordered list of region profiles. Order is the declaration
// order of the source text; the first utility entry is the origin region for
// a whole run, so order must be reproducible.
type Catalog struct {
	profiles []RegionProfile
}

// Parse reads pipe-delimited catalog text, one entry per line.
//
// Two line formats are accepted:
//
//	region|arch|ami|aki                     (current, 4 fields)
//	region|os|version|arch|ami|aki          (legacy, 6 fields)
//
// Lines with any other field count are silently dropped. This mirrors the
// long-standing behavior of the catalog source and is relied upon by configs
// that carry comment-ish or blank lines.
func Parse(text string) Catalog {
	var c Catalog

	for _, line := range strings.Split(text, "\n") {
		attrs := strings.Split(strings.TrimSpace(line), "|")

		switch len(attrs) {
		case 4:
			c.profiles = append(c.profiles, RegionProfile{
				Region: attrs[0],
				Arch:   attrs[1],
				AMI:    attrs[2],
				AKI:    attrs[3],
			})
		case 6:
			c.profiles = append(c.profiles, RegionProfile{
				Region: attrs[0],
				Arch:   attrs[3],
				AMI:    attrs[4],
				AKI:    attrs[5],
			})
		}
	}

	return c
}

// All returns every profile in declaration order.
func (c Catalog) All() []RegionProfile {
	return c.profiles
}

// Utility returns the profiles usable for the EBS-backed utility instance.
// No EBS-capable instance type offers a 32-bit architecture, so the utility
// view is always the x86_64 entries.
func (c Catalog) Utility() []RegionProfile {
	return c.filter("x86_64")
}

// Test returns the profiles matching the architecture of the artifact being
// published; these are the regions the image is registered and replicated in.
func (c Catalog) Test(arch string) []RegionProfile {
	return c.filter(arch)
}

func (c Catalog) filter(arch string) []RegionProfile {
	var out []RegionProfile
	for _, p := range c.profiles {
		if p.Arch == arch {
			out = append(out, p)
		}
	}
	return out
}

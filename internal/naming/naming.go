// Package naming provides the collision-avoiding name scheme for published
// machine images.
//
// Candidate names follow the pattern {build}-{region}-{PV|HVM}-{vol}-{n}
// where n is the run's duplicate counter. The counter is shared across the
// origin registration and every replica copy, and only ever increases, so a
// collision anywhere in a run advances the candidate everywhere.
package naming

import "fmt"

// VirtLabel maps a virtualization type to its name segment.
// Anything other than "paravirtual" is treated as HVM.
func VirtLabel(virtType string) string {
	if virtType == "paravirtual" {
		return "PV"
	}
	return "HVM"
}

// Candidate returns the image name to attempt for the given duplicate count.
// For a fixed set of inputs the result is deterministic: the same inputs and
// counter always produce the same name.
func Candidate(buildName, region, virtType, volType string, dup int) string {
	return fmt.Sprintf("%s-%s-%s-%s-%d", buildName, region, VirtLabel(virtType), volType, dup)
}

package pipeline

// PublicationRequest selects the virtualization and volume type for a run.
// The virtualization type fixes the root device, the kernel requirement and
// the instance size used for the boot test.
type PublicationRequest struct {
	VirtType string // "paravirtual" or "hvm"
	VolType  string // EBS volume type, e.g. "standard"
}

// RootDeviceName returns the root device the image registers with.
func (r PublicationRequest) RootDeviceName() string {
	if r.VirtType == "paravirtual" {
		return "/dev/sda"
	}
	return "/dev/sda1"
}

// TestInstanceType returns the instance size used to boot-test the image.
func (r PublicationRequest) TestInstanceType() string {
	if r.VirtType == "paravirtual" {
		return "m1.xlarge"
	}
	return "m3.2xlarge"
}

// NeedsKernel reports whether registration and test boots must name a
// kernel image. HVM images may not carry one.
func (r PublicationRequest) NeedsKernel() bool {
	return r.VirtType == "paravirtual"
}

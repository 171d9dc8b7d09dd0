// Package ec2 wraps the AWS EC2 API for image publication.
//
// The package exposes one small interface per concern (volumes, snapshots,
// images, nodes, zones) so callers depend only on what they use and tests
// can swap in MockClient. RealClient binds a client to a single region;
// cross-region work uses one client per region.
//
// API failures that drive control flow upstream (duplicate image names,
// images that are not yet visible after a copy) are classified into typed
// sentinel errors so callers can branch with errors.Is instead of matching
// error strings.
package ec2

// Package pipeline drives the publication of a raw disk image as a public
// AMI: download, volume import, snapshot, registration, a live boot test in
// the origin region, public release, and sequential replication to every
// other region in the catalog.
//
// A Pipeline holds the state of exactly one run. Nothing is persisted; a
// failed run is re-submitted from scratch after its resources have been
// cleaned up.
package pipeline

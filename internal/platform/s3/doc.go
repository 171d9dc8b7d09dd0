// Package s3 manages the per-region buckets that back volume imports.
//
// The conversion tooling stages image manifests in a bucket named after the
// target region. The bucket must exist before an import starts; creating it
// is idempotent so repeated runs against the same region are safe.
package s3

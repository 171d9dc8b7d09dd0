package ec2

import (
	"context"
)

// Volume describes an EBS volume.
type Volume struct {
	ID               string
	State            string
	AvailabilityZone string
}

// Snapshot describes an EBS snapshot.
type Snapshot struct {
	ID       string
	State    string
	Progress string
}

// Node describes a compute instance.
type Node struct {
	ID       string
	State    string
	PublicIP string
}

// RegisterOpts holds all parameters for registering an image from a snapshot.
type RegisterOpts struct {
	Name           string
	Description    string
	Architecture   string
	VirtType       string
	RootDeviceName string
	SnapshotID     string
	VolumeSize     int32
	VolumeType     string
	// KernelID is required for paravirtual images and must be empty for HVM.
	KernelID string
}

// DeployOpts holds all parameters for launching an instance.
type DeployOpts struct {
	Name             string
	ImageID          string
	InstanceType     string
	KeyName          string
	SecurityGroups   []string
	AvailabilityZone string
	UserData         string
	// KernelID overrides the image kernel for paravirtual instances.
	KernelID string
	Tags     map[string]string
}

// VolumeManager defines the interface for managing EBS volumes.
type VolumeManager interface {
	// DescribeVolume returns the volume with the given id.
	DescribeVolume(ctx context.Context, volumeID string) (*Volume, error)
	// DeleteVolume deletes a volume. Deleting an already-deleted volume
	// is not an error.
	DeleteVolume(ctx context.Context, volumeID string) error
}

// SnapshotManager defines the interface for managing EBS snapshots.
type SnapshotManager interface {
	CreateSnapshot(ctx context.Context, volumeID, description string) (string, error)
	DescribeSnapshot(ctx context.Context, snapshotID string) (*Snapshot, error)
	// DeleteSnapshot deletes a snapshot. Deleting an already-deleted
	// snapshot is not an error.
	DeleteSnapshot(ctx context.Context, snapshotID string) error
}

// ImageRegistrar defines the interface for registering and publishing images.
type ImageRegistrar interface {
	// RegisterImage registers an image from a snapshot and returns its id.
	// Returns an error matching ErrDuplicateName when the name is taken.
	RegisterImage(ctx context.Context, opts RegisterOpts) (string, error)
	// CopyImage copies an image from another region into this client's
	// region. Returns ErrDuplicateName or ErrImageUnavailable as classified
	// errors where applicable.
	CopyImage(ctx context.Context, srcRegion, srcImageID, name, description string) (string, error)
	// MakePublic grants launch permission to everyone. Returns an error
	// matching ErrImageUnavailable while the image is still materializing.
	MakePublic(ctx context.Context, imageID string) error
	// DeregisterImage removes an image. Deregistering an already-removed
	// image is not an error.
	DeregisterImage(ctx context.Context, imageID string) error
}

// NodeManager defines the interface for managing transient instances.
type NodeManager interface {
	// DeployNode launches a single instance and returns its id.
	DeployNode(ctx context.Context, opts DeployOpts) (string, error)
	DescribeNode(ctx context.Context, nodeID string) (*Node, error)
	// DestroyNode terminates an instance. Terminating an already-gone
	// instance is not an error.
	DestroyNode(ctx context.Context, nodeID string) error
}

// ZoneLocator defines the interface for availability zone selection.
type ZoneLocator interface {
	// FirstAvailableZone returns the name of the first zone in the region
	// that is in the "available" state.
	FirstAvailableZone(ctx context.Context) (string, error)
}

// Manager combines all region-bound EC2 interfaces.
type Manager interface {
	VolumeManager
	SnapshotManager
	ImageRegistrar
	NodeManager
	ZoneLocator
	// Region returns the region this client is bound to.
	Region() string
}

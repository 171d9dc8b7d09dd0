package ec2

import (
	"context"
)

// MockClient is a mock implementation of Manager.
type MockClient struct {
	MockRegion string

	DescribeVolumeFunc func(ctx context.Context, volumeID string) (*Volume, error)
	DeleteVolumeFunc   func(ctx context.Context, volumeID string) error

	CreateSnapshotFunc   func(ctx context.Context, volumeID, description string) (string, error)
	DescribeSnapshotFunc func(ctx context.Context, snapshotID string) (*Snapshot, error)
	DeleteSnapshotFunc   func(ctx context.Context, snapshotID string) error

	RegisterImageFunc   func(ctx context.Context, opts RegisterOpts) (string, error)
	CopyImageFunc       func(ctx context.Context, srcRegion, srcImageID, name, description string) (string, error)
	MakePublicFunc      func(ctx context.Context, imageID string) error
	DeregisterImageFunc func(ctx context.Context, imageID string) error

	DeployNodeFunc   func(ctx context.Context, opts DeployOpts) (string, error)
	DescribeNodeFunc func(ctx context.Context, nodeID string) (*Node, error)
	DestroyNodeFunc  func(ctx context.Context, nodeID string) error

	FirstAvailableZoneFunc func(ctx context.Context) (string, error)
}

// Ensure interface compliance
var _ Manager = (*MockClient)(nil)

// Region mocks the bound region.
func (m *MockClient) Region() string {
	if m.MockRegion != "" {
		return m.MockRegion
	}
	return "us-east-1"
}

// DescribeVolume mocks volume lookup.
func (m *MockClient) DescribeVolume(ctx context.Context, volumeID string) (*Volume, error) {
	if m.DescribeVolumeFunc != nil {
		return m.DescribeVolumeFunc(ctx, volumeID)
	}
	return &Volume{ID: volumeID, State: "available", AvailabilityZone: "us-east-1a"}, nil
}

// DeleteVolume mocks volume deletion.
func (m *MockClient) DeleteVolume(ctx context.Context, volumeID string) error {
	if m.DeleteVolumeFunc != nil {
		return m.DeleteVolumeFunc(ctx, volumeID)
	}
	return nil
}

// CreateSnapshot mocks snapshot creation.
func (m *MockClient) CreateSnapshot(ctx context.Context, volumeID, description string) (string, error) {
	if m.CreateSnapshotFunc != nil {
		return m.CreateSnapshotFunc(ctx, volumeID, description)
	}
	return "snap-0mock0000", nil
}

// DescribeSnapshot mocks snapshot lookup.
func (m *MockClient) DescribeSnapshot(ctx context.Context, snapshotID string) (*Snapshot, error) {
	if m.DescribeSnapshotFunc != nil {
		return m.DescribeSnapshotFunc(ctx, snapshotID)
	}
	return &Snapshot{ID: snapshotID, State: "completed", Progress: "100%"}, nil
}

// DeleteSnapshot mocks snapshot deletion.
func (m *MockClient) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	if m.DeleteSnapshotFunc != nil {
		return m.DeleteSnapshotFunc(ctx, snapshotID)
	}
	return nil
}

// RegisterImage mocks image registration.
func (m *MockClient) RegisterImage(ctx context.Context, opts RegisterOpts) (string, error) {
	if m.RegisterImageFunc != nil {
		return m.RegisterImageFunc(ctx, opts)
	}
	return "ami-0mock0000", nil
}

// CopyImage mocks cross-region image copy.
func (m *MockClient) CopyImage(ctx context.Context, srcRegion, srcImageID, name, description string) (string, error) {
	if m.CopyImageFunc != nil {
		return m.CopyImageFunc(ctx, srcRegion, srcImageID, name, description)
	}
	return "ami-0mockcopy", nil
}

// MakePublic mocks granting public launch permission.
func (m *MockClient) MakePublic(ctx context.Context, imageID string) error {
	if m.MakePublicFunc != nil {
		return m.MakePublicFunc(ctx, imageID)
	}
	return nil
}

// DeregisterImage mocks image removal.
func (m *MockClient) DeregisterImage(ctx context.Context, imageID string) error {
	if m.DeregisterImageFunc != nil {
		return m.DeregisterImageFunc(ctx, imageID)
	}
	return nil
}

// DeployNode mocks instance launch.
func (m *MockClient) DeployNode(ctx context.Context, opts DeployOpts) (string, error) {
	if m.DeployNodeFunc != nil {
		return m.DeployNodeFunc(ctx, opts)
	}
	return "i-0mock0000", nil
}

// DescribeNode mocks instance lookup.
func (m *MockClient) DescribeNode(ctx context.Context, nodeID string) (*Node, error) {
	if m.DescribeNodeFunc != nil {
		return m.DescribeNodeFunc(ctx, nodeID)
	}
	return &Node{ID: nodeID, State: "running", PublicIP: "203.0.113.10"}, nil
}

// DestroyNode mocks instance termination.
func (m *MockClient) DestroyNode(ctx context.Context, nodeID string) error {
	if m.DestroyNodeFunc != nil {
		return m.DestroyNodeFunc(ctx, nodeID)
	}
	return nil
}

// FirstAvailableZone mocks zone selection.
func (m *MockClient) FirstAvailableZone(ctx context.Context) (string, error) {
	if m.FirstAvailableZoneFunc != nil {
		return m.FirstAvailableZoneFunc(ctx)
	}
	return "us-east-1a", nil
}

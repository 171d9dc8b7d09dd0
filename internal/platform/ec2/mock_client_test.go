package ec2

import (
	"context"
	"errors"
	"testing"
)

// TestMockClient_InterfaceCompliance verifies MockClient implements Manager.
func TestMockClient_InterfaceCompliance(_ *testing.T) {
	var _ Manager = (*MockClient)(nil)
}

func TestMockClient_Defaults(t *testing.T) {
	m := &MockClient{}
	ctx := context.Background()

	if got := m.Region(); got != "us-east-1" {
		t.Errorf("expected default region 'us-east-1', got %q", got)
	}

	vol, err := m.DescribeVolume(ctx, "vol-1234")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if vol.ID != "vol-1234" || vol.State != "available" {
		t.Errorf("unexpected default volume: %+v", vol)
	}

	snap, err := m.DescribeSnapshot(ctx, "snap-1234")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if snap.State != "completed" {
		t.Errorf("expected default snapshot state 'completed', got %q", snap.State)
	}

	imageID, err := m.RegisterImage(ctx, RegisterOpts{Name: "x"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if imageID == "" {
		t.Error("expected a default image id")
	}

	node, err := m.DescribeNode(ctx, "i-1234")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if node.State != "running" || node.PublicIP == "" {
		t.Errorf("unexpected default node: %+v", node)
	}

	zone, err := m.FirstAvailableZone(ctx)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if zone != "us-east-1a" {
		t.Errorf("expected default zone 'us-east-1a', got %q", zone)
	}
}

func TestMockClient_CustomFuncs(t *testing.T) {
	expectedErr := errors.New("custom error")
	m := &MockClient{
		MockRegion: "eu-west-1",
		RegisterImageFunc: func(_ context.Context, opts RegisterOpts) (string, error) {
			if opts.Name != "fedora-cloud-31-1-eu-west-1-HVM-standard-0" {
				t.Errorf("unexpected name %q", opts.Name)
			}
			return "", expectedErr
		},
	}
	ctx := context.Background()

	if got := m.Region(); got != "eu-west-1" {
		t.Errorf("expected region 'eu-west-1', got %q", got)
	}

	_, err := m.RegisterImage(ctx, RegisterOpts{Name: "fedora-cloud-31-1-eu-west-1-HVM-standard-0"})
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

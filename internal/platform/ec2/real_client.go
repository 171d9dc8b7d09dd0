package ec2

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// RealClient implements Manager against the EC2 API for a single region.
type RealClient struct {
	client *awsec2.Client
	region string
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithEC2Client sets a custom EC2 client (useful for testing).
func WithEC2Client(c *awsec2.Client) ClientOption {
	return func(rc *RealClient) {
		rc.client = c
	}
}

// NewRealClient creates a region-bound client from static credentials.
func NewRealClient(ctx context.Context, region, accessKey, secretKey string, opts ...ClientOption) (*RealClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	c := &RealClient{
		client: awsec2.NewFromConfig(cfg),
		region: region,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Region returns the region this client is bound to.
func (c *RealClient) Region() string {
	return c.region
}

// FirstAvailableZone returns the first availability zone in the region that
// reports the "available" state.
func (c *RealClient) FirstAvailableZone(ctx context.Context) (string, error) {
	result, err := c.client.DescribeAvailabilityZones(ctx, &awsec2.DescribeAvailabilityZonesInput{
		Filters: []types.Filter{
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe availability zones in %s: %w", c.region, err)
	}

	for _, zone := range result.AvailabilityZones {
		if zone.ZoneName != nil {
			return *zone.ZoneName, nil
		}
	}
	return "", fmt.Errorf("no available zone in region %s", c.region)
}

// DescribeVolume returns the volume with the given id.
func (c *RealClient) DescribeVolume(ctx context.Context, volumeID string) (*Volume, error) {
	result, err := c.client.DescribeVolumes(ctx, &awsec2.DescribeVolumesInput{
		VolumeIds: []string{volumeID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe volume %s: %w", volumeID, err)
	}

	for _, v := range result.Volumes {
		if v.VolumeId != nil && *v.VolumeId == volumeID {
			return &Volume{
				ID:               volumeID,
				State:            string(v.State),
				AvailabilityZone: aws.ToString(v.AvailabilityZone),
			}, nil
		}
	}
	return nil, fmt.Errorf("volume %s not found in %s", volumeID, c.region)
}

// DeleteVolume deletes a volume. A volume that is already gone is not an error.
func (c *RealClient) DeleteVolume(ctx context.Context, volumeID string) error {
	_, err := c.client.DeleteVolume(ctx, &awsec2.DeleteVolumeInput{
		VolumeId: aws.String(volumeID),
	})
	if err != nil {
		if isAPIErrorCode(err, codeVolumeNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete volume %s: %w", volumeID, err)
	}
	return nil
}

// CreateSnapshot starts snapshotting a volume and returns the snapshot id.
// The snapshot is not ready until DescribeSnapshot reports "completed".
func (c *RealClient) CreateSnapshot(ctx context.Context, volumeID, description string) (string, error) {
	result, err := c.client.CreateSnapshot(ctx, &awsec2.CreateSnapshotInput{
		VolumeId:    aws.String(volumeID),
		Description: aws.String(description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot of volume %s: %w", volumeID, err)
	}
	if result.SnapshotId == nil {
		return "", fmt.Errorf("snapshot of volume %s has no id", volumeID)
	}
	return *result.SnapshotId, nil
}

// DescribeSnapshot returns the snapshot with the given id.
func (c *RealClient) DescribeSnapshot(ctx context.Context, snapshotID string) (*Snapshot, error) {
	result, err := c.client.DescribeSnapshots(ctx, &awsec2.DescribeSnapshotsInput{
		SnapshotIds: []string{snapshotID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe snapshot %s: %w", snapshotID, err)
	}

	for _, s := range result.Snapshots {
		if s.SnapshotId != nil && *s.SnapshotId == snapshotID {
			return &Snapshot{
				ID:       snapshotID,
				State:    string(s.State),
				Progress: aws.ToString(s.Progress),
			}, nil
		}
	}
	return nil, fmt.Errorf("snapshot %s not found in %s", snapshotID, c.region)
}

// DeleteSnapshot deletes a snapshot. A snapshot that is already gone is not
// an error.
func (c *RealClient) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	_, err := c.client.DeleteSnapshot(ctx, &awsec2.DeleteSnapshotInput{
		SnapshotId: aws.String(snapshotID),
	})
	if err != nil {
		if isAPIErrorCode(err, codeSnapshotNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete snapshot %s: %w", snapshotID, err)
	}
	return nil
}

// RegisterImage registers an EBS-backed image from a snapshot.
func (c *RealClient) RegisterImage(ctx context.Context, opts RegisterOpts) (string, error) {
	input := &awsec2.RegisterImageInput{
		Name:               aws.String(opts.Name),
		Description:        aws.String(opts.Description),
		Architecture:       types.ArchitectureValues(opts.Architecture),
		VirtualizationType: aws.String(opts.VirtType),
		RootDeviceName:     aws.String(opts.RootDeviceName),
		BlockDeviceMappings: []types.BlockDeviceMapping{
			{
				DeviceName: aws.String(opts.RootDeviceName),
				Ebs: &types.EbsBlockDevice{
					SnapshotId:          aws.String(opts.SnapshotID),
					VolumeSize:          aws.Int32(opts.VolumeSize),
					VolumeType:          types.VolumeType(opts.VolumeType),
					DeleteOnTermination: aws.Bool(true),
				},
			},
		},
	}
	if opts.KernelID != "" {
		input.KernelId = aws.String(opts.KernelID)
	}

	result, err := c.client.RegisterImage(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to register image %s: %w", opts.Name, classify(err))
	}
	if result.ImageId == nil {
		return "", fmt.Errorf("registered image %s has no id", opts.Name)
	}
	return *result.ImageId, nil
}

// CopyImage copies an image from another region into this client's region.
func (c *RealClient) CopyImage(ctx context.Context, srcRegion, srcImageID, name, description string) (string, error) {
	result, err := c.client.CopyImage(ctx, &awsec2.CopyImageInput{
		SourceRegion:  aws.String(srcRegion),
		SourceImageId: aws.String(srcImageID),
		Name:          aws.String(name),
		Description:   aws.String(description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to copy image %s from %s: %w", srcImageID, srcRegion, classify(err))
	}
	if result.ImageId == nil {
		return "", fmt.Errorf("copied image %s has no id", name)
	}
	return *result.ImageId, nil
}

// MakePublic grants launch permission on an image to everyone.
func (c *RealClient) MakePublic(ctx context.Context, imageID string) error {
	_, err := c.client.ModifyImageAttribute(ctx, &awsec2.ModifyImageAttributeInput{
		ImageId: aws.String(imageID),
		LaunchPermission: &types.LaunchPermissionModifications{
			Add: []types.LaunchPermission{
				{Group: types.PermissionGroupAll},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to make image %s public: %w", imageID, classify(err))
	}
	return nil
}

// DeregisterImage removes an image. An image that is already gone is not an
// error.
func (c *RealClient) DeregisterImage(ctx context.Context, imageID string) error {
	_, err := c.client.DeregisterImage(ctx, &awsec2.DeregisterImageInput{
		ImageId: aws.String(imageID),
	})
	if err != nil {
		if isAPIErrorCode(err, codeImageNotFound, codeImageUnavailable) {
			return nil
		}
		return fmt.Errorf("failed to deregister image %s: %w", imageID, err)
	}
	return nil
}

// DeployNode launches a single instance and returns its id.
func (c *RealClient) DeployNode(ctx context.Context, opts DeployOpts) (string, error) {
	input := &awsec2.RunInstancesInput{
		ImageId:        aws.String(opts.ImageID),
		InstanceType:   types.InstanceType(opts.InstanceType),
		MinCount:       aws.Int32(1),
		MaxCount:       aws.Int32(1),
		KeyName:        aws.String(opts.KeyName),
		SecurityGroups: opts.SecurityGroups,
	}
	if opts.AvailabilityZone != "" {
		input.Placement = &types.Placement{
			AvailabilityZone: aws.String(opts.AvailabilityZone),
		}
	}
	if opts.UserData != "" {
		input.UserData = aws.String(base64.StdEncoding.EncodeToString([]byte(opts.UserData)))
	}
	if opts.KernelID != "" {
		input.KernelId = aws.String(opts.KernelID)
	}

	tags := []types.Tag{
		{Key: aws.String("Name"), Value: aws.String(opts.Name)},
	}
	for k, v := range opts.Tags {
		tags = append(tags, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	input.TagSpecifications = []types.TagSpecification{
		{ResourceType: types.ResourceTypeInstance, Tags: tags},
	}

	result, err := c.client.RunInstances(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to launch node %s: %w", opts.Name, err)
	}
	if len(result.Instances) == 0 || result.Instances[0].InstanceId == nil {
		return "", fmt.Errorf("launched node %s has no id", opts.Name)
	}
	return *result.Instances[0].InstanceId, nil
}

// DescribeNode returns the instance with the given id. PublicIP is empty
// until the instance has been assigned an address.
func (c *RealClient) DescribeNode(ctx context.Context, nodeID string) (*Node, error) {
	result, err := c.client.DescribeInstances(ctx, &awsec2.DescribeInstancesInput{
		InstanceIds: []string{nodeID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe node %s: %w", nodeID, err)
	}

	for _, reservation := range result.Reservations {
		for _, instance := range reservation.Instances {
			if instance.InstanceId != nil && *instance.InstanceId == nodeID {
				node := &Node{
					ID:       nodeID,
					PublicIP: aws.ToString(instance.PublicIpAddress),
				}
				if instance.State != nil {
					node.State = string(instance.State.Name)
				}
				return node, nil
			}
		}
	}
	return nil, fmt.Errorf("node %s not found in %s", nodeID, c.region)
}

// DestroyNode terminates an instance. An instance that is already gone is
// not an error.
func (c *RealClient) DestroyNode(ctx context.Context, nodeID string) error {
	_, err := c.client.TerminateInstances(ctx, &awsec2.TerminateInstancesInput{
		InstanceIds: []string{nodeID},
	})
	if err != nil {
		if isAPIErrorCode(err, codeInstanceNotFound) {
			return nil
		}
		return fmt.Errorf("failed to destroy node %s: %w", nodeID, err)
	}
	return nil
}

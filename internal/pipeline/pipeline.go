package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/yahzaa/fedimg/internal/catalog"
	"github.com/yahzaa/fedimg/internal/config"
	"github.com/yahzaa/fedimg/internal/convert"
	"github.com/yahzaa/fedimg/internal/metrics"
	"github.com/yahzaa/fedimg/internal/naming"
	"github.com/yahzaa/fedimg/internal/notify"
	"github.com/yahzaa/fedimg/internal/platform/ec2"
	"github.com/yahzaa/fedimg/internal/platform/exec"
	"github.com/yahzaa/fedimg/internal/platform/s3"
	"github.com/yahzaa/fedimg/internal/platform/ssh"
	"github.com/yahzaa/fedimg/internal/util/retry"
)

// PublishedImage records one image produced by the run.
type PublishedImage struct {
	ID       string
	Region   string
	VirtType string
	VolType  string
}

// importClient is the slice of convert.Importer the pipeline uses.
type importClient interface {
	Download(ctx context.Context, url, dir string) error
	StartImport(ctx context.Context, opts convert.ImportOptions) (string, error)
	WaitForVolume(ctx context.Context, taskID, region string) (string, error)
}

// bucketEnsurer is the slice of the S3 client the pipeline uses.
type bucketEnsurer interface {
	EnsureBucket(ctx context.Context, name string) error
}

// sshChannel is the slice of the SSH client the pipeline uses.
type sshChannel interface {
	Reachable() bool
	RunWithPTY(command string) (int, string, error)
}

// runState accumulates the resources a run has created so far. The
// duplicate-name counter is shared between registration and replication and
// never decreases within a run.
type runState struct {
	utilVolumeID string
	utilNodeID   string
	utilNodeIP   string
	snapshotID   string
	testNodeID   string
	images       []PublishedImage
	dupCount     int
	testSuccess  bool
}

// Pipeline publishes one build artifact. Construct with New, run once with
// Run; a Pipeline must not be reused.
type Pipeline struct {
	cfg      *config.Config
	timeouts *config.Timeouts
	catalog  catalog.Catalog
	artifact *BuildArtifact
	request  PublicationRequest

	importer importClient
	notifier notify.Notifier
	recorder *metrics.Recorder

	// Factories, swappable in tests.
	newEC2    func(ctx context.Context, region string) (ec2.Manager, error)
	newBucket func(ctx context.Context, region string) (bucketEnsurer, error)
	newSSH    func(host, user string) (sshChannel, error)

	state runState
}

// New wires a Pipeline against the real platform clients.
func New(cfg *config.Config, timeouts *config.Timeouts, cat catalog.Catalog, artifact *BuildArtifact) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		timeouts: timeouts,
		catalog:  cat,
		artifact: artifact,
		request: PublicationRequest{
			VirtType: cfg.VirtType,
			VolType:  cfg.VolType,
		},
		importer: convert.NewImporter(exec.NewLocalRunner(), timeouts),
		notifier: notify.New(cfg.Notify.WebhookURL),
		recorder: metrics.New(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job),
	}

	p.newEC2 = func(ctx context.Context, region string) (ec2.Manager, error) {
		return ec2.NewRealClient(ctx, region, cfg.AWS.AccessKey, cfg.AWS.SecretKey)
	}
	p.newBucket = func(ctx context.Context, region string) (bucketEnsurer, error) {
		return s3.NewClient(ctx, region, cfg.AWS.AccessKey, cfg.AWS.SecretKey)
	}
	p.newSSH = func(host, user string) (sshChannel, error) {
		return ssh.NewClient(&ssh.Config{
			Host:           host,
			User:           user,
			PrivateKeyPath: cfg.AWS.PrivateKeyPath,
		})
	}

	return p
}

// Images returns the images the run has produced so far.
func (p *Pipeline) Images() []PublishedImage {
	return p.state.images
}

// Run executes the full publication: origin region first, then replication.
// A failure before replication tears down run resources according to the
// cleanup flags and is returned; per-region replication failures are logged
// and notified but never fail the run.
func (p *Pipeline) Run(ctx context.Context) error {
	utility := p.catalog.Utility()
	if len(utility) == 0 {
		return fmt.Errorf("catalog has no x86_64 utility region")
	}
	origin := utility[0]
	destination := regionDestination(origin.Region)

	log.Printf("EC2 upload process started for %s", p.artifact.BuildName)
	p.publish(ctx, "image.upload", destination, "started", nil)

	client, err := p.newEC2(ctx, origin.Region)
	if err != nil {
		p.publish(ctx, "image.upload", destination, "failed", nil)
		return fmt.Errorf("failed to connect to %s: %w", origin.Region, err)
	}

	if err := p.publishOrigin(ctx, client, origin, destination); err != nil {
		log.Printf("upload to %s failed: %v", origin.Region, err)
		p.publish(ctx, "image.upload", destination, "failed", nil)
		if p.cfg.CleanUpOnFailure {
			p.cleanUp(ctx, client, p.cfg.DeleteImagesOnFailure)
		}
		if pushErr := p.recorder.Push(); pushErr != nil {
			log.Printf("metrics push failed: %v", pushErr)
		}
		return err
	}

	// Release whatever utility resources are still around. Images and the
	// snapshot backing them are kept.
	p.cleanUp(ctx, client, false)

	p.replicate(ctx, origin)

	if err := p.recorder.Push(); err != nil {
		log.Printf("metrics push failed: %v", err)
	}
	return nil
}

// publishOrigin walks the artifact through download, import, snapshot,
// registration, boot test and public release in the origin region.
func (p *Pipeline) publishOrigin(ctx context.Context, client ec2.Manager, origin catalog.RegionProfile, destination string) error {
	if err := p.phase("download", func() error { return p.download(ctx) }); err != nil {
		return &UtilityError{Err: err}
	}

	volumeID, err := p.importVolume(ctx, client, origin)
	if err != nil {
		return &UtilityError{Err: err}
	}
	p.state.utilVolumeID = volumeID

	snapshotID, err := p.snapshotVolume(ctx, client, volumeID)
	if err != nil {
		return &UtilityError{Err: err}
	}
	p.state.snapshotID = snapshotID

	// The snapshot carries the data now; the write volume is dead weight.
	if err := client.DeleteVolume(ctx, volumeID); err != nil {
		return &UtilityError{Err: err}
	}
	p.state.utilVolumeID = ""
	log.Printf("destroyed utility volume %s", volumeID)

	image, err := p.registerImage(ctx, client, origin, snapshotID)
	if err != nil {
		return &UtilityError{Err: err}
	}

	for _, img := range p.state.images {
		p.publish(ctx, "image.upload", destination, "completed", p.imageExtra(img.ID, nil))
	}

	if err := p.testImage(ctx, client, origin, image, destination); err != nil {
		return err
	}

	return p.phase("publish", func() error {
		for _, img := range p.state.images {
			if err := client.MakePublic(ctx, img.ID); err != nil {
				return err
			}
			log.Printf("made %s public (%s, %s, %s)", img.ID, p.artifact.BuildName, img.VirtType, img.VolType)
		}
		return nil
	})
}

// download fetches the raw artifact into the work directory. No retry: a
// broken source URL will not get better.
func (p *Pipeline) download(ctx context.Context) error {
	log.Printf("downloading %s", p.artifact.URL)
	return p.importer.Download(ctx, p.artifact.URL, p.cfg.WorkDir)
}

// importVolume stages the image into the region's import bucket, starts the
// conversion task and waits for the resulting volume.
func (p *Pipeline) importVolume(ctx context.Context, client ec2.Manager, origin catalog.RegionProfile) (string, error) {
	var volumeID string
	err := p.phase("import", func() error {
		bucketName := fmt.Sprintf("%s-%s", p.cfg.AWS.BucketPrefix, origin.Region)
		bucket, err := p.newBucket(ctx, origin.Region)
		if err != nil {
			return fmt.Errorf("failed to connect to object storage in %s: %w", origin.Region, err)
		}
		// Bucket creation right after a region switch can fail with
		// transient storage errors; back off and retry those.
		err = retry.WithExponentialBackoff(ctx, func() error {
			return bucket.EnsureBucket(ctx, bucketName)
		}, retry.WithInitialDelay(p.timeouts.ResourcePollInterval))
		if err != nil {
			return fmt.Errorf("failed to prepare bucket %s: %w", bucketName, err)
		}

		zone, err := client.FirstAvailableZone(ctx)
		if err != nil {
			return err
		}

		taskID, err := p.importer.StartImport(ctx, convert.ImportOptions{
			ImagePath:        filepath.Join(p.cfg.WorkDir, p.artifact.FileName),
			Format:           "raw",
			Region:           origin.Region,
			Bucket:           bucketName,
			AvailabilityZone: zone,
		})
		if err != nil {
			return err
		}
		log.Printf("conversion task %s started in %s", taskID, origin.Region)

		volumeID, err = p.importer.WaitForVolume(ctx, taskID, origin.Region)
		return err
	})
	if err != nil {
		return "", err
	}
	log.Printf("conversion task produced volume %s", volumeID)
	return volumeID, nil
}

// snapshotVolume resolves the imported volume from the live listing, then
// snapshots it and waits until the snapshot has fully materialized.
func (p *Pipeline) snapshotVolume(ctx context.Context, client ec2.Manager, volumeID string) (string, error) {
	var snapshotID string
	err := p.phase("snapshot", func() error {
		// The conversion task reports the volume id before the API
		// necessarily lists it; a lookup miss means not-yet, not gone.
		err := retry.PollUntil(ctx, p.timeouts.ResourcePollInterval, p.timeouts.ResourceMaxAttempts, func() (bool, error) {
			volume, err := client.DescribeVolume(ctx, volumeID)
			if err != nil {
				return false, err
			}
			return volume.State == "available", nil
		})
		if err != nil {
			return fmt.Errorf("volume %s never became available: %w", volumeID, err)
		}

		log.Printf("taking a snapshot of volume %s", volumeID)
		id, err := client.CreateSnapshot(ctx, volumeID, fmt.Sprintf("fedimg-snap-%s", p.artifact.BuildName))
		if err != nil {
			return err
		}
		snapshotID = id

		return retry.PollUntil(ctx, p.timeouts.ResourcePollInterval, p.timeouts.ResourceMaxAttempts, func() (bool, error) {
			snapshot, err := client.DescribeSnapshot(ctx, snapshotID)
			if err != nil {
				return false, err
			}
			return snapshot.State == "completed", nil
		})
	})
	if err != nil {
		return snapshotID, err
	}
	log.Printf("snapshot %s taken", snapshotID)
	return snapshotID, nil
}

// registerImage registers the snapshot as an AMI, bumping the duplicate-name
// counter until a free name is found.
func (p *Pipeline) registerImage(ctx context.Context, client ec2.Manager, origin catalog.RegionProfile, snapshotID string) (PublishedImage, error) {
	var image PublishedImage
	err := p.phase("register", func() error {
		log.Printf("registering image as an AMI")

		kernelID := ""
		if p.request.NeedsKernel() {
			id, err := p.kernelFor(origin.Region)
			if err != nil {
				return err
			}
			kernelID = id
		}

		for {
			name := naming.Candidate(p.artifact.BuildName, origin.Region, p.request.VirtType, p.request.VolType, p.state.dupCount)
			id, err := client.RegisterImage(ctx, ec2.RegisterOpts{
				Name:           name,
				Description:    p.artifact.Description,
				Architecture:   p.artifact.Arch,
				VirtType:       p.request.VirtType,
				RootDeviceName: p.request.RootDeviceName(),
				KernelID:       kernelID,
				SnapshotID:     snapshotID,
				VolumeSize:     int32(p.cfg.AWS.TestVolumeSize),
				VolumeType:     p.request.VolType,
			})
			if err != nil {
				if ec2.IsDuplicateName(err) {
					p.state.dupCount++
					continue
				}
				return err
			}

			image = PublishedImage{
				ID:       id,
				Region:   origin.Region,
				VirtType: p.request.VirtType,
				VolType:  p.request.VolType,
			}
			p.state.images = append(p.state.images, image)
			p.recorder.ImagePublished(origin.Region)
			log.Printf("registered %s as %s", name, id)
			return nil
		}
	})
	return image, err
}

// kernelFor returns the AKI registered for the region in the test view.
func (p *Pipeline) kernelFor(region string) (string, error) {
	for _, profile := range p.catalog.Test(p.artifact.Arch) {
		if profile.Region == region {
			if profile.AKI == "" {
				break
			}
			return profile.AKI, nil
		}
	}
	return "", fmt.Errorf("no kernel image for %s %s in catalog", p.artifact.Arch, region)
}

// phase runs fn and records its outcome and duration.
func (p *Pipeline) phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	result := "success"
	if err != nil {
		result = "failure"
	}
	p.recorder.ObservePhase(name, result, time.Since(start))
	return err
}

// publish emits one lifecycle event through the notifier.
func (p *Pipeline) publish(ctx context.Context, topic, destination, status string, extra map[string]string) {
	if prefix := p.cfg.Notify.TopicPrefix; prefix != "" {
		topic = prefix + "." + topic
	}
	p.notifier.Publish(ctx, topic, p.artifact.BuildName, destination, status, extra)
}

// imageExtra builds the event payload shared by upload and test events.
func (p *Pipeline) imageExtra(imageID string, more map[string]string) map[string]string {
	extra := map[string]string{
		"id":        imageID,
		"virt_type": p.request.VirtType,
		"vol_type":  p.request.VolType,
	}
	for k, v := range more {
		extra[k] = v
	}
	return extra
}

func regionDestination(region string) string {
	return fmt.Sprintf("EC2 (%s)", region)
}

package pipeline

import (
	"context"
	"log"

	"github.com/yahzaa/fedimg/internal/catalog"
	"github.com/yahzaa/fedimg/internal/naming"
	"github.com/yahzaa/fedimg/internal/platform/ec2"
	"github.com/yahzaa/fedimg/internal/util/retry"
)

// replicate copies every origin image to each non-origin test region, in
// catalog order, and makes the copies public. A failure in one region is
// logged and notified but never stops the remaining regions.
//
// Each region is driven to completion before the next one starts: the copy
// is initiated and made public in place, instead of fanning out all copies
// first and polling them afterwards. Copies in different regions are
// independent, so only the event ordering differs; per-region outcomes and
// isolation do not.
func (p *Pipeline) replicate(ctx context.Context, origin catalog.RegionProfile) {
	if !p.state.testSuccess {
		return
	}

	for _, profile := range p.catalog.Test(p.artifact.Arch) {
		if profile.Region == origin.Region {
			continue
		}
		p.replicateTo(ctx, origin, profile)
	}
}

func (p *Pipeline) replicateTo(ctx context.Context, origin, target catalog.RegionProfile) {
	destination := regionDestination(target.Region)
	p.publish(ctx, "image.upload", destination, "started", nil)

	client, err := p.newEC2(ctx, target.Region)
	if err != nil {
		log.Printf("image copy to %s failed: %v", target.Region, err)
		p.publish(ctx, "image.upload", destination, "failed", nil)
		return
	}

	log.Printf("AMI copy to %s started", target.Region)

	for _, image := range p.state.images {
		err := p.phase("replicate", func() error {
			copyID, err := p.copyImage(ctx, client, origin.Region, target.Region, image)
			if err != nil {
				return err
			}
			log.Printf("AMI %s copied to %s as %s", image.ID, target.Region, copyID)

			if err := p.makeCopyPublic(ctx, client, copyID); err != nil {
				return err
			}
			log.Printf("made %s public (%s, %s, %s)", copyID, p.artifact.BuildName, image.VirtType, image.VolType)

			p.recorder.ImagePublished(target.Region)
			p.publish(ctx, "image.upload", destination, "completed", p.imageExtra(copyID, nil))
			return nil
		})
		if err != nil {
			log.Printf("image copy to %s failed: %v", target.Region, err)
			p.publish(ctx, "image.upload", destination, "failed", nil)
		}
	}
}

// copyImage copies one image into the target region, bumping the shared
// duplicate-name counter until a free name is found. Duplicate names are
// rare on copies but the guard is kept anyway.
func (p *Pipeline) copyImage(ctx context.Context, client ec2.Manager, originRegion, targetRegion string, image PublishedImage) (string, error) {
	for {
		name := naming.Candidate(p.artifact.BuildName, targetRegion, image.VirtType, image.VolType, p.state.dupCount)
		copyID, err := client.CopyImage(ctx, originRegion, image.ID, name, p.artifact.Description)
		if err != nil {
			if ec2.IsDuplicateName(err) {
				p.state.dupCount++
				continue
			}
			return "", err
		}
		return copyID, nil
	}
}

// makeCopyPublic polls MakePublic until the copy has materialized. Errors
// other than the copy still being unavailable end the poll immediately.
func (p *Pipeline) makeCopyPublic(ctx context.Context, client ec2.Manager, imageID string) error {
	return retry.PollUntil(ctx, p.timeouts.PublicPollInterval, p.timeouts.PublicMaxAttempts, func() (bool, error) {
		err := client.MakePublic(ctx, imageID)
		if err == nil {
			return true, nil
		}
		if ec2.IsImageUnavailable(err) {
			return false, err
		}
		return false, retry.Fatal(err)
	})
}

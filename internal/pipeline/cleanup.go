package pipeline

import (
	"context"
	"log"

	"github.com/yahzaa/fedimg/internal/platform/ec2"
	"github.com/yahzaa/fedimg/internal/util/retry"
)

// cleanUp releases the run's resources in the origin region. Images are
// deregistered only when deleteImages is set; the snapshot is destroyed only
// while no image depends on it. Every step is best-effort: a failed delete
// is logged and the remaining steps still run.
func (p *Pipeline) cleanUp(ctx context.Context, client ec2.Manager, deleteImages bool) {
	log.Printf("cleaning up resources in %s", client.Region())

	if deleteImages && len(p.state.images) > 0 {
		for _, image := range p.state.images {
			if err := client.DeregisterImage(ctx, image.ID); err != nil {
				log.Printf("failed to deregister %s: %v", image.ID, err)
			}
		}
	}

	if p.state.snapshotID != "" && len(p.state.images) == 0 {
		if err := client.DeleteSnapshot(ctx, p.state.snapshotID); err != nil {
			log.Printf("failed to delete snapshot %s: %v", p.state.snapshotID, err)
		}
		p.state.snapshotID = ""
	}

	if p.state.utilNodeID != "" {
		if err := client.DestroyNode(ctx, p.state.utilNodeID); err != nil {
			log.Printf("failed to destroy utility node %s: %v", p.state.utilNodeID, err)
		}
		p.waitForSSHDead(ctx, p.state.utilNodeIP)
		p.state.utilNodeID = ""
	}

	if p.state.utilVolumeID != "" {
		if err := client.DeleteVolume(ctx, p.state.utilVolumeID); err != nil {
			log.Printf("failed to delete volume %s: %v", p.state.utilVolumeID, err)
		}
		p.state.utilVolumeID = ""
	}

	if p.state.testNodeID != "" {
		if err := client.DestroyNode(ctx, p.state.testNodeID); err != nil {
			log.Printf("failed to destroy test node %s: %v", p.state.testNodeID, err)
		}
		p.state.testNodeID = ""
	}
}

// waitForSSHDead blocks until the utility node stops answering on its SSH
// port, confirming termination actually took.
func (p *Pipeline) waitForSSHDead(ctx context.Context, address string) {
	if address == "" {
		return
	}
	channel, err := p.newSSH(address, p.cfg.AWS.UtilUser)
	if err != nil {
		log.Printf("failed to probe utility node %s: %v", address, err)
		return
	}
	err = retry.PollUntil(ctx, p.timeouts.SSHPollInterval, p.timeouts.SSHMaxAttempts, func() (bool, error) {
		return !channel.Reachable(), nil
	})
	if err != nil {
		log.Printf("utility node %s still answering after termination: %v", address, err)
	}
}

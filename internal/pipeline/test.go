package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/yahzaa/fedimg/internal/catalog"
	"github.com/yahzaa/fedimg/internal/platform/ec2"
	"github.com/yahzaa/fedimg/internal/util/retry"
)

// deployScript runs on first boot of the test node.
const deployScript = "#!/bin/sh\ntouch test\n"

// bootTestCommand is the whole test: if the image boots far enough to run
// it, the image works.
const bootTestCommand = "/bin/true"

// testImage boots a node from the freshly registered image and runs the
// boot test over SSH. The node is destroyed whatever the verdict; the
// verdict decides whether the run may go public.
func (p *Pipeline) testImage(ctx context.Context, client ec2.Manager, origin catalog.RegionProfile, image PublishedImage, destination string) error {
	return p.phase("test", func() error {
		p.publish(ctx, "image.test", destination, "started", p.imageExtra(image.ID, nil))

		kernelID := ""
		if p.request.NeedsKernel() {
			id, err := p.kernelFor(origin.Region)
			if err != nil {
				p.publish(ctx, "image.test", destination, "failed", p.imageExtra(image.ID, nil))
				return &DeploymentError{Err: err}
			}
			kernelID = id
		}

		log.Printf("deploying test node for %s", image.ID)
		nodeID, err := client.DeployNode(ctx, ec2.DeployOpts{
			Name:           "Fedimg AMI tester",
			ImageID:        image.ID,
			InstanceType:   p.request.TestInstanceType(),
			KeyName:        p.cfg.AWS.KeyName,
			SecurityGroups: []string{"ssh"},
			KernelID:       kernelID,
			UserData:       deployScript,
			Tags:           map[string]string{"build": p.artifact.BuildName},
		})
		if err != nil {
			p.publish(ctx, "image.test", destination, "failed", p.imageExtra(image.ID, nil))
			return &DeploymentError{Err: fmt.Errorf("failed to boot test node: %w", err)}
		}
		p.state.testNodeID = nodeID

		address, err := p.waitForAddress(ctx, client, nodeID)
		if err != nil {
			p.publish(ctx, "image.test", destination, "failed", p.imageExtra(image.ID, nil))
			return &TestError{Err: err}
		}

		channel, err := p.newSSH(address, p.cfg.AWS.TestUser)
		if err != nil {
			p.publish(ctx, "image.test", destination, "failed", p.imageExtra(image.ID, nil))
			return &TestError{Err: err}
		}

		if err := p.waitForSSH(ctx, channel); err != nil {
			p.publish(ctx, "image.test", destination, "failed", p.imageExtra(image.ID, nil))
			return &TestError{Err: err}
		}

		log.Printf("running AMI test on %s", address)
		exitCode, output, err := channel.RunWithPTY(bootTestCommand)
		if err != nil {
			p.publish(ctx, "image.test", destination, "failed", p.imageExtra(image.ID, nil))
			return &TestError{Err: err}
		}
		if exitCode != 0 {
			log.Printf("problem testing new AMI %s", image.ID)
			data := output
			if data == "" {
				data = "(no data)"
			}
			p.publish(ctx, "image.test", destination, "failed", p.imageExtra(image.ID, map[string]string{"data": data}))
			return &TestError{Err: fmt.Errorf("test command exited %d: %s", exitCode, data)}
		}

		log.Printf("AMI test completed")
		p.publish(ctx, "image.test", destination, "completed", p.imageExtra(image.ID, nil))
		p.state.testSuccess = true

		log.Printf("destroying test node %s", nodeID)
		if err := client.DestroyNode(ctx, nodeID); err != nil {
			return &TestError{Err: err}
		}
		p.state.testNodeID = ""
		return nil
	})
}

// waitForAddress polls until the node is running with a public address.
func (p *Pipeline) waitForAddress(ctx context.Context, client ec2.Manager, nodeID string) (string, error) {
	var address string
	err := retry.PollUntil(ctx, p.timeouts.ResourcePollInterval, p.timeouts.ResourceMaxAttempts, func() (bool, error) {
		node, err := client.DescribeNode(ctx, nodeID)
		if err != nil {
			return false, err
		}
		if node.State != "running" || node.PublicIP == "" {
			return false, nil
		}
		address = node.PublicIP
		return true, nil
	})
	if err != nil {
		return "", fmt.Errorf("test node %s never became reachable: %w", nodeID, err)
	}
	return address, nil
}

// waitForSSH polls until the node answers on its SSH port.
func (p *Pipeline) waitForSSH(ctx context.Context, channel sshChannel) error {
	err := retry.PollUntil(ctx, p.timeouts.SSHPollInterval, p.timeouts.SSHMaxAttempts, func() (bool, error) {
		return channel.Reachable(), nil
	})
	if err != nil {
		return fmt.Errorf("SSH never came up on test node: %w", err)
	}
	return nil
}

package ssh

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host           string
	Port           int
	User           string
	PrivateKeyPath string

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// HostKeyCallback handles host key verification. If nil,
	// ssh.InsecureIgnoreHostKey() is used, which is the only workable
	// choice for instances that did not exist a minute ago.
	HostKeyCallback ssh.HostKeyCallback
}

// Client executes commands on a remote host. The private key is read and
// parsed once at construction; connections are made per call.
type Client struct {
	config *Config
	signer ssh.Signer
}

// NewClient creates a Client and validates the private key.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if cfg.PrivateKeyPath == "" {
		return nil, fmt.Errorf("config private key path cannot be empty")
	}

	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Throwaway test instances
	}

	// #nosec G304
	key, err := os.ReadFile(configCopy.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		config: &configCopy,
		signer: signer,
	}, nil
}

// Reachable reports whether an SSH session can currently be established.
// It makes a single attempt; callers poll it to wait for an instance to
// boot (or to stop answering after teardown).
func (c *Client) Reachable() bool {
	client, err := c.dial()
	if err != nil {
		return false
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return false
	}
	_ = session.Close()
	return true
}

// RunWithPTY executes a command inside a pseudo-terminal session and returns
// its exit status together with the combined output.
//
// A non-zero exit status is reported through the status value, not err; err
// is reserved for channel failures (dial, session, PTY allocation).
func (c *Client) RunWithPTY(command string) (int, string, error) {
	client, err := c.dial()
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return 0, "", fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty("xterm", 80, 40, modes); err != nil {
		return 0, "", fmt.Errorf("failed to allocate pty on %s: %w", c.config.Host, err)
	}

	output, err := session.CombinedOutput(command)
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitStatus(), string(output), nil
		}
		return 0, string(output), fmt.Errorf("command failed on %s: %w", c.config.Host, err)
	}

	return 0, string(output), nil
}

func (c *Client) dial() (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User: c.config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(c.signer),
		},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return client, nil
}

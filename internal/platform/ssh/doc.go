// Package ssh provides the secure-shell channel used to smoke-test freshly
// registered machine images.
//
// The boot test runs on throwaway instances whose host keys cannot be known
// ahead of time, so host key verification is disabled by default. Commands
// are run with a pseudo-terminal because the test images ship a sudoers
// requiretty policy that refuses plain non-interactive sessions.
package ssh

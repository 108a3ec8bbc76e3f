// Package remote deploys over SSH. It dials the configured host with
// the configured private key (falling back to a running ssh-agent),
// verifies host keys against the known_hosts file, uploads unit files
// through SFTP, and runs the supervisor commands remotely, with sudo
// when the login user is not root.
package remote

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	opserrors "github.com/jheysaaz/snippy-backend-sub001/internal/errors"
)

// dialTimeout bounds the SSH handshake.
const dialTimeout = 10 * time.Second

// Client is an SSH connection prepared for deploy operations.
type Client struct {
	ssh     *ssh.Client
	sftp    *sftp.Client
	user    string
	useSudo bool
}

// Dial connects to the configured remote host. The configured private
// key is tried first; on an authentication failure a running ssh-agent
// is tried as fallback.
func Dial(cfg config.RemoteConfig) (*Client, error) {
	if cfg.Host == "" {
		return nil, opserrors.Validation("remote host not configured")
	}
	if cfg.User == "" {
		return nil, opserrors.Validation("remote user not configured")
	}

	hostKeyCallback, err := hostKeyVerifier(cfg.KnownHosts)
	if err != nil {
		return nil, err
	}

	addr := Address(cfg)

	var keyErr error
	signer, err := loadKey(cfg.KeyFile)
	if err != nil {
		return nil, err
	}
	if signer != nil {
		clientConfig := &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: hostKeyCallback,
			Timeout:         dialTimeout,
		}

		client, dialErr := ssh.Dial("tcp", addr, clientConfig)
		if dialErr == nil {
			return newClient(client, cfg)
		}
		if !strings.Contains(dialErr.Error(), "unable to authenticate") {
			return nil, opserrors.WrapSubject(opserrors.ErrCodeRemote, addr, dialErr)
		}
		keyErr = dialErr
	}

	agentClient := sshAgent()
	if agentClient == nil {
		if keyErr != nil {
			return nil, fmt.Errorf("key authentication failed and no ssh agent is available: %w", keyErr)
		}
		return nil, fmt.Errorf("no authentication method available (no key at %s and no ssh agent)", cfg.KeyFile)
	}

	clientConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeysCallback(agentClient.Signers)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         dialTimeout,
	}

	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, opserrors.WrapSubject(opserrors.ErrCodeRemote, addr, err)
	}
	return newClient(client, cfg)
}

func newClient(sshClient *ssh.Client, cfg config.RemoteConfig) (*Client, error) {
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, fmt.Errorf("failed to create sftp client: %w", err)
	}
	return &Client{
		ssh:     sshClient,
		sftp:    sftpClient,
		user:    cfg.User,
		useSudo: cfg.UseSudo,
	}, nil
}

// Close closes the underlying SFTP and SSH clients.
func (c *Client) Close() {
	if c.sftp != nil {
		_ = c.sftp.Close()
	}
	if c.ssh != nil {
		_ = c.ssh.Close()
	}
}

// Run executes a command on the remote host and returns its combined
// output. Failures embed the trimmed output.
func (c *Client) Run(command string) ([]byte, error) {
	session, err := c.ssh.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open ssh session: %w", err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return output, fmt.Errorf("remote command %q failed: %s", command, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// RunPrivileged runs the command with sudo -n when the login user needs
// it for system paths.
func (c *Client) RunPrivileged(command string) ([]byte, error) {
	return c.Run(privilegedCommand(c.user, c.useSudo, command))
}

// privilegedCommand prefixes sudo -n for non-root users when sudo use
// is enabled. -n keeps the deploy from hanging on a password prompt.
func privilegedCommand(user string, useSudo bool, command string) string {
	if useSudo && user != "root" {
		return "sudo -n " + command
	}
	return command
}

// UploadFile writes content to target on the remote host with the given
// mode. Writable targets get an atomic temp+rename next to the target;
// privileged targets are staged in /tmp and moved with sudo.
func (c *Client) UploadFile(content []byte, target string, mode os.FileMode) error {
	if c.useSudo && c.user != "root" {
		return c.uploadViaSudo(content, target, mode)
	}
	return c.uploadDirect(content, target, mode)
}

func (c *Client) uploadDirect(content []byte, target string, mode os.FileMode) error {
	tmpPath := fmt.Sprintf("%s.snippyctl.%d", target, time.Now().UnixNano())
	if err := c.writeRemote(tmpPath, content, mode); err != nil {
		return err
	}
	if err := c.sftp.Rename(tmpPath, target); err != nil {
		_ = c.sftp.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s into place: %w", target, err)
	}
	return nil
}

func (c *Client) uploadViaSudo(content []byte, target string, mode os.FileMode) error {
	tmpPath := path.Join("/tmp", fmt.Sprintf("snippyctl-upload-%d", time.Now().UnixNano()))
	if err := c.writeRemote(tmpPath, content, mode); err != nil {
		return err
	}
	if _, err := c.RunPrivileged(fmt.Sprintf("mv %q %q", tmpPath, target)); err != nil {
		_ = c.sftp.Remove(tmpPath)
		return err
	}
	if _, err := c.RunPrivileged(fmt.Sprintf("chmod %o %q", mode, target)); err != nil {
		return err
	}
	return nil
}

func (c *Client) writeRemote(remotePath string, content []byte, mode os.FileMode) error {
	f, err := c.sftp.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create %s on remote: %w", remotePath, err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = c.sftp.Remove(remotePath)
		return fmt.Errorf("failed to write %s on remote: %w", remotePath, err)
	}
	if err := f.Close(); err != nil {
		_ = c.sftp.Remove(remotePath)
		return fmt.Errorf("failed to close %s on remote: %w", remotePath, err)
	}
	if err := c.sftp.Chmod(remotePath, mode); err != nil {
		_ = c.sftp.Remove(remotePath)
		return fmt.Errorf("failed to chmod %s on remote: %w", remotePath, err)
	}
	return nil
}

// loadKey reads and parses the configured private key. A missing key
// file is not an error; the agent fallback covers that case. Encrypted
// keys prompt for a passphrase when stdin is a terminal.
func loadKey(keyFile string) (ssh.Signer, error) {
	if keyFile == "" {
		return nil, nil
	}
	expanded, err := config.ExpandPath(keyFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", expanded, err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err == nil {
		return signer, nil
	}

	var passErr *ssh.PassphraseMissingError
	if errors.As(err, &passErr) {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("private key %s is encrypted and no terminal is available for the passphrase", expanded)
		}
		fmt.Fprintf(os.Stderr, "Enter passphrase for %s: ", expanded)
		passphrase, readErr := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read passphrase: %w", readErr)
		}
		signer, err = ssh.ParsePrivateKeyWithPassphrase(data, passphrase)
		if err != nil {
			return nil, fmt.Errorf("unable to decrypt private key %s: %w", expanded, err)
		}
		return signer, nil
	}

	return nil, fmt.Errorf("unable to parse private key %s: %w", expanded, err)
}

// hostKeyVerifier builds the host key check from the known_hosts file.
func hostKeyVerifier(knownHostsFile string) (ssh.HostKeyCallback, error) {
	expanded, err := config.ExpandPath(knownHostsFile)
	if err != nil {
		return nil, err
	}

	callback, err := knownhosts.New(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to load known_hosts %s (connect once with ssh to record the host key): %w", expanded, err)
	}
	return callback, nil
}

// sshAgent connects to a running ssh-agent through SSH_AUTH_SOCK.
func sshAgent() agent.Agent {
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			return agent.NewClient(conn)
		}
	}
	return nil
}

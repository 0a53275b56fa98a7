package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/appconfig"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

var tunnelCmd = &cobra.Command{
	Use:   "tunnel",
	Short: "Forward a local port to a private database host over SSH",
	Long: `Opens an SSH connection to the bastion in the tunnel config section and forwards
localhost:<localPort> to <remoteHost>:<remotePort>, so migrations and the server can be
run against a database that is not publicly reachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		if err := loadConfig(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return StartSSHTunnel(ctx, appCfg.Tunnel)
	},
}

func init() {
	rootCmd.AddCommand(tunnelCmd)
}

// SSHClient creates a new SSH client. The host key is checked against the known
// hosts file.
func SSHClient(config appconfig.TunnelConfig) (*ssh.Client, error) {
	key, err := os.ReadFile(config.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	if config.KnownHostsPath == "" {
		return nil, errors.New("tunnel.knownHostsPath is required")
	}
	hostKeyCallback, err := knownhosts.New(config.KnownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read known hosts: %w", err)
	}

	// Define the SSH client configuration
	sshConfig := &ssh.ClientConfig{
		User: config.SSHUser,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: hostKeyCallback,
		Timeout:         5 * time.Second,
	}

	// Connect to the SSH server
	client, err := ssh.Dial("tcp", net.JoinHostPort(config.SSHHost, config.SSHPort), sshConfig)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// ForwardTraffic forwards traffic from local to remote host until the listener is closed
func ForwardTraffic(localListener net.Listener, client *ssh.Client, config appconfig.TunnelConfig) {
	pause := backoff.NewExponentialBackOff()
	pause.InitialInterval = 50 * time.Millisecond
	pause.MaxInterval = 5 * time.Second
	pause.MaxElapsedTime = 0

	forwardTraffic(localListener, func(addr string) (net.Conn, error) { return client.Dial("tcp", addr) },
		net.JoinHostPort(config.RemoteHost, config.RemotePort), pause)
}

func forwardTraffic(localListener net.Listener, dial func(addr string) (net.Conn, error), remoteAddr string, pause backoff.BackOff) {
	pause.Reset()
	for {
		localConn, err := localListener.Accept() // Accept local connection
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			wait := pause.NextBackOff()
			if wait == backoff.Stop {
				log.Error().Err(err).Msg("Giving up accepting local connections")
				return
			}
			log.Warn().Err(err).Dur("retry_in", wait).Msg("Failed to accept local connection")
			time.Sleep(wait)
			continue
		}
		pause.Reset()

		// Open a connection to the remote host
		remoteConn, err := dial(remoteAddr)
		if err != nil {
			log.Error().Err(err).Str("remote", remoteAddr).Msg("Failed to connect to remote host")
			localConn.Close()
			continue
		}

		// Forward data between local and remote connections
		go func() {
			defer localConn.Close()
			defer remoteConn.Close()

			// Forward local to remote
			go io.Copy(remoteConn, localConn)
			// Forward remote to local
			io.Copy(localConn, remoteConn)
		}()
	}
}

// StartSSHTunnel initializes the SSH tunnel and forwards traffic until ctx is done
func StartSSHTunnel(ctx context.Context, config appconfig.TunnelConfig) error {
	// Create an SSH client
	client, err := SSHClient(config)
	if err != nil {
		return err
	}
	defer client.Close()

	// Listen on the local port
	localListener, err := net.Listen("tcp", net.JoinHostPort("localhost", config.LocalPort))
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		localListener.Close()
	}()

	log.Info().Msgf("SSH tunnel started on localhost:%s forwarding to %s:%s", config.LocalPort, config.RemoteHost, config.RemotePort)

	// Forward the traffic between local and remote
	ForwardTraffic(localListener, client, config)

	return nil
}

package ssh

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	"project/internal/nettool"

	"project/module/auxiliary/finder"
)

// Options contains ssh client options for login attempts. Fields with
// zero value use the library defaults.
type Options struct {
	Ciphers           []string
	MACs              []string
	KexAlgorithms     []string
	HostKeyAlgorithms []string
}

// ParseOptions is used to parse a raw option string to Options. The
// format follows the OpenSSH "-o Key=a,b" style, the "-o" tokens are
// optional. Unknown keys are an error.
//
// "Ciphers=aes128-ctr,aes256-ctr KexAlgorithms=curve25519-sha256"
func ParseOptions(raw string) (*Options, error) {
	opts := Options{}
	for _, field := range strings.Fields(raw) {
		if field == "-o" {
			continue
		}
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return nil, errors.Errorf("invalid ssh option: \"%s\"", field)
		}
		values := strings.Split(kv[1], ",")
		switch strings.ToLower(kv[0]) {
		case "ciphers":
			opts.Ciphers = values
		case "macs":
			opts.MACs = values
		case "kexalgorithms":
			opts.KexAlgorithms = values
		case "hostkeyalgorithms":
			opts.HostKeyAlgorithms = values
		default:
			return nil, errors.Errorf("unknown ssh option: \"%s\"", kv[0])
		}
	}
	return &opts, nil
}

// NewLogin is used to create a login callback to the finder module,
// it attempts password authentication with a native ssh client.
func NewLogin(opts *Options) finder.Login {
	if opts == nil {
		opts = new(Options)
	}
	return func(ctx context.Context, address, username, password string) (bool, error) {
		return login(ctx, address, username, password, opts)
	}
}

func login(ctx context.Context, address, username, password string, opts *Options) (bool, error) {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return false, errors.WithMessage(err, "failed to connect target")
	}
	defer func() { _ = conn.Close() }()
	// the handshake must finish before the context deadline
	deadline := time.Minute
	if d, ok := ctx.Deadline(); ok {
		deadline = time.Until(d)
	}
	config := ssh.ClientConfig{
		Config: ssh.Config{
			Ciphers:      opts.Ciphers,
			MACs:         opts.MACs,
			KeyExchanges: opts.KexAlgorithms,
		},
		User:              username,
		Auth:              []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback:   ssh.InsecureIgnoreHostKey(),
		HostKeyAlgorithms: opts.HostKeyAlgorithms,
		Timeout:           deadline,
	}
	client, channels, requests, err := ssh.NewClientConn(
		nettool.DeadlineConn(conn, deadline), address, &config)
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") {
			return false, errors.WithMessage(finder.ErrInvalidCred, err.Error())
		}
		return false, errors.WithMessage(err, "failed to handshake")
	}
	// authenticated, release the connection resources
	go ssh.DiscardRequests(requests)
	go func() {
		for channel := range channels {
			_ = channel.Reject(ssh.Prohibited, "no channel allowed")
		}
	}()
	_ = client.Close()
	return true, nil
}

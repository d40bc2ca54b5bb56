package server

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
)

// ErrRemotePlaintext is returned when a plaintext listener would accept remote connections.
var ErrRemotePlaintext = errors.New("plaintext listener must bind a loopback address")

// TLSListener serves the intent API over TLS.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

// NewTLSListener creates a new TLSListener reading the key pair from the given files.
func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the key pair and opens a TLS 1.2+ listener on addr.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	return tls.Listen(protocol, addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
}

// PlainListener serves the intent API without TLS. Session secrets travel over this
// connection, so it binds loopback addresses only unless remote access is allowed.
type PlainListener struct {
	allowRemote bool
}

func NewPlainListener(allowRemote bool) *PlainListener {
	return &PlainListener{allowRemote: allowRemote}
}

func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	if !l.allowRemote {
		if err := requireLoopback(addr); err != nil {
			return nil, err
		}
	}
	return net.Listen(protocol, addr)
}

func requireLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrRemotePlaintext, addr)
}

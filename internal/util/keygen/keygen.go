// Package keygen generates the key pairs that form the trusted channel
// between machines: the public half is appended to each machine's
// authorized-trust list, the private half lets workers fetch the join
// artifact from the coordinator.
package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds an SSH key pair in ready-to-stage formats.
type KeyPair struct {
	// PrivateKey is the private key in PEM-encoded OpenSSH format.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format.
	PublicKey []byte
}

// GenerateKeyPair generates a new ed25519 key pair.
func GenerateKeyPair(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	privBlock, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &KeyPair{
		PrivateKey: pem.EncodeToMemory(privBlock),
		PublicKey:  ssh.MarshalAuthorizedKey(sshPub),
	}, nil
}

// LoadKeyPair reads an existing private key from path and derives the public
// half, so a run can reuse pre-staged trust material.
func LoadKeyPair(path string) (*KeyPair, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &KeyPair{
		PrivateKey: data,
		PublicKey:  ssh.MarshalAuthorizedKey(signer.PublicKey()),
	}, nil
}

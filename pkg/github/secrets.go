package github

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// EncryptSecret seals a plaintext secret value against a repository or
// environment public key using an anonymous sealed box, the construction the
// secrets API requires. The plaintext never appears in the returned value.
func EncryptSecret(key *PublicKey, plaintext string) (EncryptedValue, error) {
	decoded, err := base64.StdEncoding.DecodeString(key.Key)
	if err != nil {
		return EncryptedValue{}, fmt.Errorf("failed to decode public key: %w", err)
	}
	if len(decoded) != 32 {
		return EncryptedValue{}, fmt.Errorf("public key must be 32 bytes, got %d", len(decoded))
	}

	var recipient [32]byte
	copy(recipient[:], decoded)

	sealed, err := box.SealAnonymous(nil, []byte(plaintext), &recipient, rand.Reader)
	if err != nil {
		return EncryptedValue{}, fmt.Errorf("failed to encrypt secret: %w", err)
	}

	return EncryptedValue{
		KeyID: key.KeyID,
		Data:  base64.StdEncoding.EncodeToString(sealed),
	}, nil
}

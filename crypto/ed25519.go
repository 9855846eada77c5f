package crypto

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Address returns the identity controlled by this key.
func (p PublicKey) Address() treasury.Address {
	return treasury.NewAddress(p)
}

// Validate returns an error if the key has an invalid length.
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.ErrInvalidInput.Newf("public key length %d", len(p))
	}
	return nil
}

// PrivateKey is an ed25519 private key.
type PrivateKey []byte

// Sign returns a matching signature for this private key
func (k PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(k), message)
}

// PublicKey returns the corresponding PublicKey
func (k PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(k).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// Address is a shortcut for PublicKey().Address()
func (k PrivateKey) Address() treasury.Address {
	return k.PublicKey().Address()
}

// GenPrivateKey returns a random new private key
func GenPrivateKey() PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivateKey(priv)
}

// PrivateKeyFromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivateKeyFromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.ErrInvalidInput.Newf("seed length %d", len(seed))
	}
	return PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

// DeriveKey derives a private key from a master seed following the given
// SLIP-0010 path, for example "m/44'/234'/0'".
func DeriveKey(masterSeed []byte, path string) (PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, masterSeed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "derive %q: %s", path, err)
	}
	return PrivateKeyFromSeed(k.Key)
}

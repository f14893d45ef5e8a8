// Package keystore generates the ephemeral signing keys that bind a session
// average to the session that produced it, and records their public halves.
package keystore

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/go-bip39"
)

// DefaultHDPath is used when no derivation path is given.
// Standard Cosmos: m/44'/118'/0'/0/0
const DefaultHDPath = "m/44'/118'/0'/0/0"

// entropyBits selects a 24 word mnemonic.
const entropyBits = 256

// KeyPair is a secp256k1 key pair. The private key never leaves the pair.
type KeyPair struct {
	priv *secp256k1.PrivKey
	pub  cryptotypes.PubKey
}

// Generate creates a fresh key pair from new BIP39 entropy.
func Generate(hdPath string) (*KeyPair, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to read entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to create mnemonic: %w", err)
	}

	return FromMnemonic(mnemonic, hdPath)
}

// FromMnemonic derives a key pair from a BIP39 mnemonic using the HD derivation
// path, in format m/44'/cointype'/account'/change/index.
func FromMnemonic(mnemonic, hdPath string) (*KeyPair, error) {
	if hdPath == "" {
		hdPath = DefaultHDPath
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}

	master, ch := hd.ComputeMastersFromSeed(seed)
	derived, err := hd.DerivePrivateKeyForPath(master, ch, hdPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrKeyDerivation, hdPath, err)
	}

	priv := &secp256k1.PrivKey{Key: derived}
	return &KeyPair{priv: priv, pub: priv.PubKey()}, nil
}

// PubKey returns the public half of the pair.
func (k *KeyPair) PubKey() cryptotypes.PubKey {
	return k.pub
}

// Address returns the bech32 account address of the public key.
func (k *KeyPair) Address() string {
	return sdk.AccAddress(k.pub.Address()).String()
}

// Sign signs msg. secp256k1 signatures are deterministic (RFC6979), so the
// same key and message always produce the same signature.
func (k *KeyPair) Sign(msg []byte) ([]byte, error) {
	return k.priv.Sign(msg)
}

// Verify reports whether sig is a valid signature of msg under pub.
// A nil key or malformed signature yields false.
func Verify(pub cryptotypes.PubKey, msg, sig []byte) (valid bool) {
	if pub == nil || len(sig) == 0 {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			valid = false
		}
	}()
	return pub.VerifySignature(msg, sig)
}

package keystore

import "errors"

var (
	// ErrInvalidMnemonic indicates a mnemonic that fails the BIP39 checksum.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	// ErrKeyDerivation indicates that a private key could not be derived for the HD path.
	ErrKeyDerivation = errors.New("key derivation failed")
)

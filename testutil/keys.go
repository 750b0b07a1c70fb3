package testutil

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"
)

// IdentityKeyPair is a secp256k1 identity key used for signing link
// messages in tests.
type IdentityKeyPair struct {
	priv *btcec.PrivateKey
}

func NewIdentityKeyPair() (*IdentityKeyPair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &IdentityKeyPair{priv: priv}, nil
}

// PubKeyHex returns the compressed public key in hex.
func (k *IdentityKeyPair) PubKeyHex() string {
	return hex.EncodeToString(k.priv.PubKey().SerializeCompressed())
}

// Sign produces a compact recoverable signature over sha256(message).
func (k *IdentityKeyPair) Sign(message string) string {
	digest := sha256.Sum256([]byte(message))
	sig := btcecdsa.SignCompact(k.priv, digest[:], true)
	return hex.EncodeToString(sig)
}

// EVMKeyPair is an EVM account key used for personal_sign signatures in
// tests.
type EVMKeyPair struct {
	priv *ecdsa.PrivateKey
}

func NewEVMKeyPair() (*EVMKeyPair, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &EVMKeyPair{priv: priv}, nil
}

func (k *EVMKeyPair) Address() string {
	return crypto.PubkeyToAddress(k.priv.PublicKey).Hex()
}

// PersonalSign produces an EIP-191 personal_sign signature with the V byte
// offset by 27, which is what wallets emit.
func (k *EVMKeyPair) PersonalSign(message string) (string, error) {
	digest := crypto.Keccak256(
		[]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)),
	)
	sig, err := crypto.Sign(digest, k.priv)
	if err != nil {
		return "", err
	}
	sig[len(sig)-1] += 27
	return hex.EncodeToString(sig), nil
}

package verifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog/log"

	"github.com/tao-colosseum/colosseum-validator/internal/db"
	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
	"github.com/tao-colosseum/colosseum-validator/internal/types"
)

const signatureLength = 65

// Request is a wallet-mapping registration: a message plus two independent
// signatures over it, one from the off-chain identity key and one from the
// on-chain address.
type Request struct {
	UID         uint64 `json:"uid"`
	IdentityKey string `json:"identity_key"`
	Address     string `json:"address"`
	Message     string `json:"message"`
	IdentitySig string `json:"identity_sig"`
	AddressSig  string `json:"address_sig"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// Verifier validates dual-signature wallet-mapping requests and is the
// sole writer to the mapping store. Registrations are serialized so two
// concurrent claims on one address cannot both succeed.
type Verifier struct {
	db              db.DbInterface
	freshnessWindow time.Duration

	mu  sync.Mutex
	now func() time.Time
}

func New(database db.DbInterface, freshnessWindow time.Duration) *Verifier {
	return &Verifier{
		db:              database,
		freshnessWindow: freshnessWindow,
		now:             time.Now,
	}
}

// Register verifies the request and upserts the mapping. On success the
// stored document is returned; a later verified mapping for the same uid
// supersedes the earlier one, while an address already verified for a
// different uid is rejected with AddressAlreadyBound.
func (v *Verifier) Register(ctx context.Context, req *Request) (*model.WalletMappingDocument, error) {
	if err := v.validate(req); err != nil {
		return nil, err
	}

	if err := v.checkFreshness(req.TimestampMs); err != nil {
		return nil, err
	}

	if err := verifyIdentitySignature(req.Message, req.IdentitySig, req.IdentityKey); err != nil {
		return nil, err
	}
	if err := verifyAddressSignature(req.Message, req.AddressSig, req.Address); err != nil {
		return nil, err
	}

	address := strings.ToLower(req.Address)

	v.mu.Lock()
	defer v.mu.Unlock()

	existing, err := v.db.GetWalletMappingByAddress(ctx, address)
	if err != nil && !db.IsNotFoundError(err) {
		return nil, types.NewInternalServiceError(
			fmt.Errorf("failed to look up address binding: %w", err),
		)
	}
	if existing != nil && existing.UID != req.UID {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict,
			types.AddressAlreadyBound,
			fmt.Sprintf("address %s is already bound to uid %d", address, existing.UID),
		)
	}

	doc := &model.WalletMappingDocument{
		UID:         req.UID,
		IdentityKey: strings.ToLower(req.IdentityKey),
		Address:     address,
		Message:     req.Message,
		IdentitySig: strings.ToLower(req.IdentitySig),
		AddressSig:  strings.ToLower(req.AddressSig),
		TimestampMs: req.TimestampMs,
		VerifiedAt:  v.now().Unix(),
	}
	if err := v.db.UpsertWalletMapping(ctx, doc); err != nil {
		// unique index on address catches a racing claim
		if db.IsDuplicateKeyError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusConflict,
				types.AddressAlreadyBound,
				fmt.Sprintf("address %s is already bound to another uid", address),
			)
		}
		return nil, types.NewInternalServiceError(
			fmt.Errorf("failed to store wallet mapping: %w", err),
		)
	}

	log.Info().
		Uint64("uid", req.UID).
		Str("address", address).
		Msg("wallet mapping registered")

	return doc, nil
}

func (v *Verifier) validate(req *Request) error {
	if !common.IsHexAddress(req.Address) {
		return malformed(fmt.Sprintf("invalid EVM address %q", req.Address))
	}
	if _, err := parsePubKey(req.IdentityKey); err != nil {
		return malformed(fmt.Sprintf("invalid identity key: %v", err))
	}

	parsed, err := parseLinkMessage(req.Message)
	if err != nil {
		return err
	}
	if parsed.UID != req.UID ||
		!strings.EqualFold(parsed.IdentityKey, req.IdentityKey) ||
		!strings.EqualFold(parsed.Address, req.Address) ||
		parsed.TimestampMs != req.TimestampMs {
		return malformed("message fields do not match the claimed identity/address pair")
	}

	return nil
}

func (v *Verifier) checkFreshness(timestampMs int64) error {
	ts := time.UnixMilli(timestampMs)
	skew := v.now().Sub(ts)
	if skew < 0 {
		skew = -skew
	}
	if skew > v.freshnessWindow {
		return types.NewErrorWithMsg(
			http.StatusBadRequest,
			types.StaleTimestamp,
			fmt.Sprintf("message timestamp outside the %s freshness window", v.freshnessWindow),
		)
	}
	return nil
}

// verifyIdentitySignature recovers the secp256k1 public key from a compact
// recoverable signature over the sha256 of the message and compares it to
// the claimed identity key.
func verifyIdentitySignature(message, sigHex, identityKey string) error {
	sig, err := decodeSignature(sigHex)
	if err != nil {
		return err
	}

	digest := sha256.Sum256([]byte(message))
	recovered, _, err := btcecdsa.RecoverCompact(sig, digest[:])
	if err != nil {
		return invalidSignature("identity signature recovery failed")
	}

	claimed, err := parsePubKey(identityKey)
	if err != nil {
		return malformed(fmt.Sprintf("invalid identity key: %v", err))
	}
	if !recovered.IsEqual(claimed) {
		return invalidSignature("identity signature does not match the identity key")
	}

	return nil
}

// verifyAddressSignature recovers the EVM address from an EIP-191
// personal_sign signature and compares it to the claimed address.
func verifyAddressSignature(message, sigHex, address string) error {
	sig, err := decodeSignature(sigHex)
	if err != nil {
		return err
	}

	// wallets emit V as 27/28, go-ethereum expects 0/1
	if sig[signatureLength-1] >= 27 {
		sig[signatureLength-1] -= 27
	}

	digest := crypto.Keccak256(
		[]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)),
	)
	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return invalidSignature("address signature recovery failed")
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if recovered != common.HexToAddress(address) {
		return invalidSignature("address signature does not match the claimed address")
	}

	return nil
}

func decodeSignature(sigHex string) ([]byte, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil {
		return nil, invalidSignature("signature is not valid hex")
	}
	if len(sig) != signatureLength {
		return nil, invalidSignature(fmt.Sprintf("signature must be %d bytes, got %d", signatureLength, len(sig)))
	}
	return sig, nil
}

func parsePubKey(keyHex string) (*btcec.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("not valid hex: %w", err)
	}
	return btcec.ParsePubKey(raw)
}

func invalidSignature(msg string) *types.Error {
	return types.NewErrorWithMsg(http.StatusBadRequest, types.InvalidSignature, msg)
}

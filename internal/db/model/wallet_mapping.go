package model

const WalletMappingCollection = "wallet_mappings"

// WalletMappingDocument binds one off-chain identity to exactly one EVM
// address. The _id is the identity uid, so an upsert by uid implements
// last-writer-wins supersession; a unique index on address enforces that
// one address cannot be claimed by two identities.
type WalletMappingDocument struct {
	UID         uint64 `bson:"_id" json:"uid"`
	IdentityKey string `bson:"identity_key" json:"identity_key"`
	Address     string `bson:"address" json:"address"`
	Message     string `bson:"message" json:"message"`
	IdentitySig string `bson:"identity_sig" json:"-"`
	AddressSig  string `bson:"address_sig" json:"-"`
	TimestampMs int64  `bson:"timestamp_ms" json:"timestamp_ms"`
	VerifiedAt  int64  `bson:"verified_at" json:"verified_at"`
}

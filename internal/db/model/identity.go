package model

const IdentityCollection = "identities"

// IdentityDocument is the current materialized state of one identity,
// refreshed on every ingestion tick. It survives restarts so the read API
// can serve per-identity detail before the first tick completes.
type IdentityDocument struct {
	UID            uint64     `bson:"_id" json:"uid"`
	IdentityKey    string     `bson:"identity_key" json:"identity_key"`
	Address        string     `bson:"address" json:"address"`
	DailyVolumes   [7]float64 `bson:"daily_volumes" json:"daily_volumes"`
	WeightedVolume float64    `bson:"weighted_volume" json:"weighted_volume"`
	Score          float64    `bson:"score" json:"score"`
	LastSeenEpoch  uint64     `bson:"last_seen_epoch" json:"last_seen_epoch"`
	Active         bool       `bson:"active" json:"active"`
	LastUpdated    int64      `bson:"last_updated" json:"last_updated"`
}

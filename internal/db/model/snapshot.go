package model

const SnapshotCollection = "snapshots"

// SnapshotEntry is one identity's row inside a snapshot.
type SnapshotEntry struct {
	UID            uint64  `bson:"uid" json:"uid"`
	WeightedVolume float64 `bson:"weighted_volume" json:"weighted_volume"`
	Score          float64 `bson:"score" json:"score"`
	Rank           int     `bson:"rank" json:"rank"`
}

// SnapshotDocument is an immutable record of the full score distribution
// at one publication event. The _id is the ledger block the weights were
// committed at, which makes the append at-most-once per publication.
type SnapshotDocument struct {
	Block               uint64          `bson:"_id" json:"block"`
	Timestamp           int64           `bson:"timestamp" json:"timestamp"`
	TotalWeightedVolume float64         `bson:"total_weighted_volume" json:"total_weighted_volume"`
	ActiveIdentities    int             `bson:"active_identities" json:"active_identities"`
	Entries             []SnapshotEntry `bson:"entries" json:"entries"`
}

// SnapshotSummary is the list-endpoint projection of a snapshot.
type SnapshotSummary struct {
	Block               uint64  `bson:"_id" json:"block"`
	Timestamp           int64   `bson:"timestamp" json:"timestamp"`
	TotalWeightedVolume float64 `bson:"total_weighted_volume" json:"total_weighted_volume"`
	ActiveIdentities    int     `bson:"active_identities" json:"active_identities"`
}

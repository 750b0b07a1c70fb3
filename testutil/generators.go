package testutil

import "github.com/brianvoe/gofakeit/v7"

// RandomUID returns a non-zero identity uid.
func RandomUID() uint64 {
	return gofakeit.Uint64()%1_000_000 + 1
}

// RandomBlock returns a plausible ledger block height.
func RandomBlock() uint64 {
	return gofakeit.Uint64()%10_000_000 + 1
}

// RandomSuffix returns a short lowercase suffix for container or database
// names that must not collide across test runs.
func RandomSuffix() string {
	return gofakeit.LetterN(6)
}

// Package genrecords generates synthetic leaked-credential fixtures for
// local testing and demos: OPRF-keyed hashes of username:password
// pairs, base64-encoded to the database's fixed element size.
package genrecords

import (
	"encoding/base64"
	"fmt"
	"log"

	"github.com/leakcheck/creds-pir/internal/oprf"
)

var sampleDomains = []string{"example.com", "mailinator.com", "corp.example.org", "test.invalid"}

// GenerateCredentials synthesizes n deterministic-looking username:password
// strings for seeding a demo database. i is folded into both fields so
// distinct indices never collide.
func GenerateCredentials(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		domain := sampleDomains[i%len(sampleDomains)]
		out[i] = fmt.Sprintf("user%d@%s:pw-%08x", i, domain, hashIndex(i))
	}
	return out
}

func hashIndex(i int) uint32 {
	// Simple avalanche so sequential indices don't produce visually
	// similar passwords; not cryptographic, purely cosmetic for fixtures.
	x := uint32(i)
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

// GenerateRecords builds n OPRF-keyed leak-hash records under key, the
// database rows a server publishes over PIR.
func GenerateRecords(key *oprf.PrivateKey, n int) ([]string, []string, error) {
	log.Printf("[INFO] generating %d leak-hash records", n)
	credentials := GenerateCredentials(n)
	records := make([]string, n)

	for i, cred := range credentials {
		state, alpha, err := oprf.Blind([]byte(cred))
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		beta, err := oprf.Evaluate(key, alpha)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		unblinded, err := oprf.Unblind(state, beta)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		hash := oprf.Finalize([]byte(cred), unblinded)
		records[i] = base64.StdEncoding.EncodeToString(hash)
	}

	log.Printf("[INFO] generated %d records, %d bytes each", n, oprf.OutputSize)
	return credentials, records, nil
}

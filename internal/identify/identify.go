// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identify derives stable identifiers for bibliographic records.
// A record's identity comes from its first external identifier (doi, pmid,
// eid, wos_uid, in that order) or, failing that, from a hash of its
// normalized title. Identical content always resolves to the same ID, so
// repeated ingestion of the same logical record is collision-stable.
package identify

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// titleHashLen is the number of hex characters kept from the SHA-1 digest.
const titleHashLen = 16

// NormalizeText trims, lowercases, and collapses internal whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// ResolveID returns the stable identifier for a record: "<field>:<value>"
// for the first non-empty external identifier, otherwise
// "titlehash:" plus the first 16 hex characters of SHA-1 over the
// normalized title.
//
// A record with neither external IDs nor a title hashes a timestamp plus a
// truncated serialization of the record. That guarantees a unique ID but not
// a reproducible one; callers should treat such records as unidentifiable.
func ResolveID(rec types.Record) string {
	if field, value := rec.FirstExternalID(); field != "" {
		return field + ":" + value
	}

	input := NormalizeText(rec.Title)
	if input == "" {
		raw, _ := json.Marshal(rec)
		if len(raw) > 64 {
			raw = raw[:64]
		}
		input = time.Now().UTC().Format(time.RFC3339) + string(raw)
	}

	sum := sha1.Sum([]byte(input))
	return "titlehash:" + hex.EncodeToString(sum[:])[:titleHashLen]
}

// AssignIDs fills RecordID for every record that does not have one yet.
// Already-resolved IDs are left untouched.
func AssignIDs(records []types.Record) {
	for i := range records {
		if records[i].RecordID == "" {
			records[i].RecordID = ResolveID(records[i])
		}
	}
}

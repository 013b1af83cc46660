package ledger

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/karvelis/attestor/internal/model"
)

// GenesisHash is the previous-hash sentinel of the first entry: all zeros,
// the same length as a SHA-512 hex digest.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000" +
	"0000000000000000000000000000000000000000000000000000000000000000"

// clockNow is the ledger clock (injectable for tests). Timestamps are
// truncated to whole seconds because the canonical payload carries epoch
// seconds; sub-second precision would not survive an export round-trip.
var clockNow = time.Now

// Ledger is the tamper-evident custody chain for one case. Entries are
// append-only and never edited or removed; the head hash is read-modify-
// written under a single exclusive lock so appends linearize. Reads take a
// snapshot copy and never block appenders indefinitely. Lifecycle: one
// ledger per case, reset only by starting a new case.
type Ledger struct {
	mu      sync.Mutex
	caseID  string
	entries []model.CustodyLogEntry
	head    string
}

// New creates an empty ledger for a case.
func New(caseID string) *Ledger {
	if caseID == "" {
		caseID = uuid.NewString()
	}
	return &Ledger{caseID: caseID, head: GenesisHash}
}

// CaseID returns the case this ledger belongs to.
func (l *Ledger) CaseID() string { return l.caseID }

// Append records one custody action. The whole operation is a single atomic
// critical section: the integrity status of the existing chain is assessed
// by re-walking it, the canonical payload is hashed with SHA-512, and the
// head advances to the new entry hash.
func (l *Ledger) Append(action model.CustodyAction, targetHash, userID, deviceID, details string) model.CustodyLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	status, _ := verifyEntries(l.entries)

	id := uuid.NewString()
	ts := clockNow().UTC().Truncate(time.Second)
	prev := l.head

	payload := canonicalPayload(id, ts, action, targetHash, userID, deviceID, details, prev)
	sum := sha512.Sum512([]byte(payload))
	entryHash := hex.EncodeToString(sum[:])

	entry := model.CustodyLogEntry{
		ID:           id,
		Timestamp:    ts,
		Action:       action,
		TargetHash:   targetHash,
		UserID:       userID,
		DeviceID:     deviceID,
		Details:      details,
		PreviousHash: prev,
		EntryHash:    entryHash,
		Integrity:    status,
	}

	l.entries = append(l.entries, entry)
	l.head = entryHash
	return entry
}

// Verify walks the chain in append order, recomputing every entry hash from
// its recorded fields. A previous-hash pointer that does not equal the
// running expected hash yields CHAIN_BROKEN; a recomputed hash that does not
// equal the recorded entry hash yields ENTRY_TAMPERED. Both are result
// values, never errors, and the ledger is never auto-healed. The returned
// index is the offending entry, -1 when the chain verifies.
func (l *Ledger) Verify() (model.IntegrityStatus, int) {
	return verifyEntries(l.Entries())
}

// Entries returns a snapshot copy of the chain.
func (l *Ledger) Entries() []model.CustodyLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make([]model.CustodyLogEntry, len(l.entries))
	copy(snapshot, l.entries)
	return snapshot
}

// Head returns the current head hash.
func (l *Ledger) Head() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Reset discards the chain. Only starting a new case resets custody state.
func (l *Ledger) Reset(caseID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if caseID != "" {
		l.caseID = caseID
	}
	l.entries = nil
	l.head = GenesisHash
}

func verifyEntries(entries []model.CustodyLogEntry) (model.IntegrityStatus, int) {
	expected := GenesisHash
	for i, e := range entries {
		if e.PreviousHash != expected {
			return model.IntegrityChainBroken, i
		}
		payload := canonicalPayload(e.ID, e.Timestamp, e.Action, e.TargetHash, e.UserID, e.DeviceID, e.Details, e.PreviousHash)
		sum := sha512.Sum512([]byte(payload))
		if hex.EncodeToString(sum[:]) != e.EntryHash {
			return model.IntegrityEntryTampered, i
		}
		expected = e.EntryHash
	}
	return model.IntegrityVerified, -1
}

// canonicalPayload builds the exact string that is hashed. The layout is a
// wire contract: changing it breaks verification of existing ledgers.
func canonicalPayload(id string, ts time.Time, action model.CustodyAction, targetHash, userID, deviceID, details, prev string) string {
	return strings.Join([]string{
		id,
		strconv.FormatInt(ts.Unix(), 10),
		string(action),
		targetHash,
		userID,
		deviceID,
		details,
		prev,
	}, "|")
}

// ContentHash returns the lowercase hex SHA-256 of evidence content, used as
// the target hash in custody entries.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

package model

import "time"

// CustodyAction identifies what was done to a piece of evidence
type CustodyAction string

const (
	ActionUpload            CustodyAction = "upload"
	ActionProcessing        CustodyAction = "processing"
	ActionAnalysis          CustodyAction = "analysis"
	ActionSeal              CustodyAction = "seal"
	ActionVerification      CustodyAction = "verification"
	ActionExport            CustodyAction = "export"
	ActionTamperingDetected CustodyAction = "tampering_detected"
)

// IntegrityStatus is the state of a ledger entry or of the whole chain
type IntegrityStatus string

const (
	IntegrityPending       IntegrityStatus = "PENDING"
	IntegrityVerified      IntegrityStatus = "VERIFIED"
	IntegrityChainBroken   IntegrityStatus = "CHAIN_BROKEN"   // Previous-hash pointer mismatch
	IntegrityEntryTampered IntegrityStatus = "ENTRY_TAMPERED" // Recomputed entry hash mismatch
)

// CustodyLogEntry is one append-only record in the tamper-evident custody
// ledger. Field names and lowercase hex hash encoding are part of the wire
// contract: re-parsing an exported ledger must reproduce identical hashes.
type CustodyLogEntry struct {
	ID           string          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Action       CustodyAction   `json:"action"`
	TargetHash   string          `json:"target_hash"` // Content hash of the evidence acted on
	UserID       string          `json:"user_id"`
	DeviceID     string          `json:"device_id"`
	Details      string          `json:"details,omitempty"`
	PreviousHash string          `json:"previous_hash"` // Head hash at append time; genesis is all zeros
	EntryHash    string          `json:"entry_hash"`    // SHA-512 hex of the canonical payload
	Integrity    IntegrityStatus `json:"integrity"`     // Chain status observed at append time
}

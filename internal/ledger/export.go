package ledger

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/karvelis/attestor/internal/model"
)

// exportDocument is the persisted ledger layout: one flat JSON object per
// entry with the exact field names of model.CustodyLogEntry. Hashes are
// lowercase hex; consumers must preserve both for hash stability.
type exportDocument struct {
	CaseID  string                  `json:"case_id"`
	Head    string                  `json:"head"`
	Entries []model.CustodyLogEntry `json:"entries"`
}

// Export writes the ledger snapshot as JSON.
func (l *Ledger) Export(w io.Writer) error {
	doc := exportDocument{
		CaseID:  l.CaseID(),
		Head:    l.Head(),
		Entries: l.Entries(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	return nil
}

// Import reads an exported ledger back. The reconstructed chain carries the
// recorded hashes untouched; Verify reports whether they still hold.
func Import(r io.Reader) (*Ledger, error) {
	var doc exportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}

	l := New(doc.CaseID)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = doc.Entries
	if n := len(doc.Entries); n > 0 {
		l.head = doc.Entries[n-1].EntryHash
	}
	return l, nil
}

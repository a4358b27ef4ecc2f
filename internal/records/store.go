// Package records is the durable store for issued-policy records: an
// append-only JSONL collection, one document per download action,
// keyed implicitly by policy number. No uniqueness is enforced here.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"uic-travel-backend/internal/model"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Record is the document persisted when a policy is first downloaded.
// The raw API response rides along for audit purposes.
type Record struct {
	UID             string             `json:"uid"`
	PolicyNumber    string             `json:"policy_number"`
	TravelerName    string             `json:"traveler_name"`
	UserEmail       string             `json:"user_email"`
	PlanName        string             `json:"plan_name,omitempty"`
	CoverageArea    string             `json:"coverage_area,omitempty"`
	Amount          string             `json:"amount"`
	PurchaseDate    string             `json:"purchase_date"` // RFC3339Nano
	TravelStartDate string             `json:"travel_start_date,omitempty"`
	TravelDuration  int                `json:"travel_duration,omitempty"`
	Status          string             `json:"status"`
	PDFLink         string             `json:"pdf_link,omitempty"`
	APIResponseDump model.IssuedPolicy `json:"api_response_dump"`
}

// Store appends policy records to date-stamped JSONL files under the
// data directory.
type Store struct {
	dir string
}

// NewStore creates a record store rooted at RECORDS_DIR.
func NewStore() *Store {
	return NewStoreAt(getenv("RECORDS_DIR", "./data/policies"))
}

// NewStoreAt creates a record store rooted at an explicit directory.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Save appends one record. The write is best-effort from the wizard's
// point of view: a failure here must not block the policy download.
func (s *Store) Save(_ context.Context, rec Record) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	fpath := filepath.Join(s.dir, fmt.Sprintf("policies_%s.jsonl", time.Now().UTC().Format("2006-01-02")))
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	_, err = f.Write(append(data, '\n'))
	return err
}

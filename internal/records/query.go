package records

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// List returns persisted policy records, newest file first, optionally
// filtered by owner. Pagination is offset-based over the matching
// records.
func (s *Store) List(_ context.Context, uid string, limit, offset int) ([]Record, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "policies_*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to list record files: %w", err)
	}
	if len(files) == 0 {
		return []Record{}, nil
	}

	// File names are date-stamped, so lexical order is date order.
	for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
		files[i], files[j] = files[j], files[i]
	}

	out := []Record{}
	skipped := 0
	for _, file := range files {
		recs, err := readFile(file)
		if err != nil {
			continue
		}
		for _, rec := range recs {
			if uid != "" && rec.UID != uid {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			if len(out) >= limit {
				return out, nil
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindByPolicyNo returns the most recently persisted record for a
// policy number. The store enforces no uniqueness, so later records
// shadow earlier ones here.
func (s *Store) FindByPolicyNo(ctx context.Context, policyNo string) (*Record, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "policies_*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to list record files: %w", err)
	}

	var found *Record
	for _, file := range files {
		recs, err := readFile(file)
		if err != nil {
			continue
		}
		for i := range recs {
			if recs[i].PolicyNumber == policyNo {
				rec := recs[i]
				found = &rec
			}
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no record for policy %s", policyNo)
	}
	return found, nil
}

func readFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var recs []Record
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

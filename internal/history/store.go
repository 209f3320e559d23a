// Package history keeps a local log of conversion runs so the CLI can
// show what was processed before. Best-effort: a history failure never
// fails a conversion.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const runsBucketName = "runs"

// RunRecord summarizes one completed batch run.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	InputDir   string    `json:"input_dir"`
	OutputPath string    `json:"output_path"`
	Documents  int       `json:"documents"`
	Succeeded  int       `json:"succeeded"`
	Partial    int       `json:"partial"`
	Failed     int       `json:"failed"`
	LineItems  int       `json:"line_items"`
}

// Store is a bbolt-backed run log.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends one run record. Keys sort chronologically.
func (s *Store) Record(rec RunRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runsBucketName))
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling run record: %w", err)
		}
		key := rec.StartedAt.UTC().Format(time.RFC3339Nano) + "/" + rec.RunID
		return bucket.Put([]byte(key), data)
	})
}

// ListRuns returns all recorded runs in chronological order.
func (s *Store) ListRuns() ([]RunRecord, error) {
	var runs []RunRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runsBucketName))
		return bucket.ForEach(func(_, v []byte) error {
			var rec RunRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshaling run record: %w", err)
			}
			runs = append(runs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/chartsync/chartsync/pkg/types"
)

var (
	// Bucket names
	bucketRuns = []byte("runs")
)

// Record is one reconciliation run as persisted
type Record struct {
	ID            string        `json:"id"`
	Release       string        `json:"release"`
	Namespace     string        `json:"namespace"`
	Action        types.Action  `json:"action"`
	Changed       bool          `json:"changed"`
	AlreadyAbsent bool          `json:"already_absent,omitempty"`
	Error         string        `json:"error,omitempty"`
	HelmVersion   string        `json:"helm_version,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
}

// Journal is a bbolt-backed log of reconciliation outcomes. It is
// observational only: the engine never reads it back to make
// decisions, since state is always re-queried from the tool.
type Journal struct {
	db *bolt.DB
}

// Open opens (or creates) the journal database under dataDir
func Open(dataDir string) (*Journal, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "chartsync.db")

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketRuns, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db}, nil
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append stores a record, assigning an ID if the caller did not
func (j *Journal) Append(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(rec.ID), data)
	})
}

// Get retrieves a record by ID
func (j *Journal) Get(id string) (*Record, error) {
	var rec Record
	err := j.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("record not found: %s", id)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns the most recent records, newest first, up to limit.
// A limit of zero or below means no limit.
func (j *Journal) List(limit int) ([]*Record, error) {
	records, err := j.scan(func(*Record) bool { return true })
	if err != nil {
		return nil, err
	}
	return truncate(records, limit), nil
}

// ByRelease returns records for one release, newest first, up to limit
func (j *Journal) ByRelease(name string, limit int) ([]*Record, error) {
	records, err := j.scan(func(r *Record) bool { return r.Release == name })
	if err != nil {
		return nil, err
	}
	return truncate(records, limit), nil
}

func (j *Journal) scan(keep func(*Record) bool) ([]*Record, error) {
	var records []*Record
	err := j.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		return b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if keep(&rec) {
				records = append(records, &rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, k int) bool {
		return records[i].StartedAt.After(records[k].StartedAt)
	})
	return records, nil
}

func truncate(records []*Record, limit int) []*Record {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}

// FromOutcome builds a journal record from a successful run
func FromOutcome(outcome *types.Outcome, helmVersion string) *Record {
	return &Record{
		Release:       outcome.Release,
		Namespace:     outcome.Namespace,
		Action:        outcome.Action,
		Changed:       outcome.Changed,
		AlreadyAbsent: outcome.AlreadyAbsent,
		HelmVersion:   helmVersion,
		StartedAt:     outcome.StartedAt,
		Duration:      outcome.Duration,
	}
}

// FromError builds a journal record from a failed run
func FromError(release, namespace string, startedAt time.Time, err error) *Record {
	return &Record{
		Release:   release,
		Namespace: namespace,
		Action:    types.ActionNone,
		Error:     err.Error(),
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
	}
}

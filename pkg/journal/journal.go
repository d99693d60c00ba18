package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/types"
	"go.etcd.io/bbolt"
)

var (
	// runsBucket holds Run values keyed by time-ordered keys
	runsBucket = []byte("runs")
	// idsBucket maps run ids to their key in runsBucket
	idsBucket = []byte("ids")
)

// Run is one reconciliation that left backups on disk
type Run struct {
	ID         string                `json:"id" yaml:"id"`
	StartedAt  time.Time             `json:"startedAt" yaml:"startedAt"`
	SourceRoot string                `json:"sourceRoot" yaml:"sourceRoot"`
	DestRoot   string                `json:"destRoot" yaml:"destRoot"`
	BackupRoot string                `json:"backupRoot" yaml:"backupRoot"`
	Records    map[string]string     `json:"records" yaml:"records"`
	Counts     types.ReconcileCounts `json:"counts" yaml:"counts"`
	Restored   bool                  `json:"restored" yaml:"restored"`
	RestoredAt *time.Time            `json:"restoredAt,omitempty" yaml:"restoredAt,omitempty"`
}

// FromReport builds the Run stored for a reconciliation report
func FromReport(report *types.ReconcileReport) Run {
	records := make(map[string]string, len(report.Backups))
	for name, path := range report.Backups {
		records[name] = path
	}
	return Run{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		SourceRoot: report.SourceRoot,
		DestRoot:   report.DestRoot,
		BackupRoot: report.BackupRoot,
		Records:    records,
		Counts:     report.Counts,
	}
}

// Journal is a bbolt backed store of runs
type Journal struct {
	db *bbolt.DB
}

// Open opens or creates the journal at path
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrJournal, "cannot create journal directory for %s", path)
	}

	// Timeout keeps a second dotrig process from blocking forever on the lock
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrJournal, "cannot open journal %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{runsBucket, idsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrJournal, "cannot initialize journal buckets")
	}

	return &Journal{db: db}, nil
}

// Close releases the database
func (j *Journal) Close() error {
	return j.db.Close()
}

// runKey sorts runs by start time; the id breaks ties
func runKey(run Run) []byte {
	return []byte(fmt.Sprintf("%020d-%s", run.StartedAt.UnixNano(), run.ID))
}

// Record stores run. Recording the same id twice is an error.
func (j *Journal) Record(run Run) error {
	if run.ID == "" {
		return errors.New(errors.ErrInvalidInput, "run id cannot be empty")
	}
	data, err := json.Marshal(run)
	if err != nil {
		return errors.Wrap(err, errors.ErrJournal, "cannot encode run")
	}

	err = j.db.Update(func(tx *bbolt.Tx) error {
		ids := tx.Bucket(idsBucket)
		if ids.Get([]byte(run.ID)) != nil {
			return errors.Newf(errors.ErrJournal, "run %s already recorded", run.ID)
		}
		key := runKey(run)
		if err := tx.Bucket(runsBucket).Put(key, data); err != nil {
			return err
		}
		return ids.Put([]byte(run.ID), key)
	})
	if err != nil {
		return wrap(err, "cannot record run")
	}
	return nil
}

// Get returns the run with id
func (j *Journal) Get(id string) (*Run, error) {
	var run *Run
	err := j.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(idsBucket).Get([]byte(id))
		if key == nil {
			return errors.Newf(errors.ErrNotFound, "no run with id %s", id)
		}
		var err error
		run, err = decode(key, tx.Bucket(runsBucket).Get(key))
		return err
	})
	if err != nil {
		return nil, wrap(err, "cannot read run")
	}
	return run, nil
}

// List returns every run, newest first
func (j *Journal) List() ([]Run, error) {
	var runs []Run
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			run, err := decode(k, v)
			if err != nil {
				return err
			}
			runs = append(runs, *run)
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err, "cannot list runs")
	}
	return runs, nil
}

// Latest returns the newest run whose backups have not been restored
func (j *Journal) Latest() (*Run, error) {
	var latest *Run
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			run, err := decode(k, v)
			if err != nil {
				return err
			}
			if !run.Restored && len(run.Records) > 0 {
				latest = run
				return nil
			}
		}
		return errors.New(errors.ErrNotFound, "no unrestored backup recorded")
	})
	if err != nil {
		return nil, wrap(err, "cannot find latest run")
	}
	return latest, nil
}

// MarkRestored flags the run with id as restored at the given time
func (j *Journal) MarkRestored(id string, at time.Time) error {
	err := j.db.Update(func(tx *bbolt.Tx) error {
		key := tx.Bucket(idsBucket).Get([]byte(id))
		if key == nil {
			return errors.Newf(errors.ErrNotFound, "no run with id %s", id)
		}
		runs := tx.Bucket(runsBucket)
		run, err := decode(key, runs.Get(key))
		if err != nil {
			return err
		}
		run.Restored = true
		run.RestoredAt = &at

		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return runs.Put(key, data)
	})
	if err != nil {
		return wrap(err, "cannot mark run restored")
	}
	return nil
}

// FindByBackupRoot returns the newest run that wrote to backupRoot
func (j *Journal) FindByBackupRoot(backupRoot string) (*Run, error) {
	runs, err := j.List()
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if runs[i].BackupRoot == backupRoot {
			return &runs[i], nil
		}
	}
	return nil, errors.Newf(errors.ErrNotFound, "no run recorded for %s", backupRoot)
}

func decode(key, value []byte) (*Run, error) {
	var run Run
	if err := json.Unmarshal(value, &run); err != nil {
		return nil, errors.Wrapf(err, errors.ErrJournal, "corrupt journal entry %s", key)
	}
	return &run, nil
}

// wrap keeps coded errors intact and tags the rest as journal errors
func wrap(err error, message string) error {
	if errors.GetErrorCode(err) != errors.ErrUnknown {
		return err
	}
	return errors.Wrap(err, errors.ErrJournal, message)
}

// Package buildstore persists per-build records: the build's branch
// property and its named text logs. The regression check reads the
// baseline build's log from here and writes the current build's
// artifacts back, so the next build can use them as its baseline.
package buildstore

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

const filePermission os.FileMode = 0o600

var (
	bucketBuilds = []byte("builds")
	bucketLogs   = []byte("logs")
	keyBranch    = []byte("branch")
)

// Build is one recorded build. An empty Branch means the default branch.
type Build struct {
	Number int
	Branch string
}

// History is what the baseline locator needs from a build store. Hosts
// with their own build database can implement it directly.
type History interface {
	Build(num int) (*Build, error)
	Log(num int, name string) (string, error)
}

// Store is a bbolt-backed History.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the store at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
			return nil, fmt.Errorf("create the store directory: %w", err)
		}
	}
	db, err := bolt.Open(path, filePermission, nil)
	if err != nil {
		return nil, fmt.Errorf("open the build store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close() //nolint:wrapcheck
}

// PutBuild records a build and its branch property.
func (s *Store) PutBuild(num int, branch string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		builds, err := tx.CreateBucketIfNotExists(bucketBuilds)
		if err != nil {
			return fmt.Errorf("create the builds bucket: %w", err)
		}
		build, err := builds.CreateBucketIfNotExists(itob(num))
		if err != nil {
			return fmt.Errorf("create the build bucket: %w", err)
		}
		if err := build.Put(keyBranch, []byte(branch)); err != nil {
			return fmt.Errorf("put the branch property: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record build %d: %w", num, err)
	}
	return nil
}

// AddLog persists a named text artifact against a recorded build.
func (s *Store) AddLog(num int, name, text string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		build := buildBucket(tx, num)
		if build == nil {
			return fmt.Errorf("build %d is not recorded", num)
		}
		logs, err := build.CreateBucketIfNotExists(bucketLogs)
		if err != nil {
			return fmt.Errorf("create the logs bucket: %w", err)
		}
		if err := logs.Put([]byte(name), []byte(text)); err != nil {
			return fmt.Errorf("put the log: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("add log %q to build %d: %w", name, num, err)
	}
	return nil
}

// Build returns the recorded build, or nil if the slot is empty.
func (s *Store) Build(num int) (*Build, error) {
	var build *Build
	err := s.db.View(func(tx *bolt.Tx) error {
		b := buildBucket(tx, num)
		if b == nil {
			return nil
		}
		build = &Build{
			Number: num,
			Branch: string(b.Get(keyBranch)),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read build %d: %w", num, err)
	}
	return build, nil
}

// Log returns the named log of a build, or the empty string if the
// build or the log doesn't exist.
func (s *Store) Log(num int, name string) (string, error) {
	var text string
	err := s.db.View(func(tx *bolt.Tx) error {
		build := buildBucket(tx, num)
		if build == nil {
			return nil
		}
		logs := build.Bucket(bucketLogs)
		if logs == nil {
			return nil
		}
		text = string(logs.Get([]byte(name)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("read log %q of build %d: %w", name, num, err)
	}
	return text, nil
}

// LogNames returns the names of a build's logs in key order.
func (s *Store) LogNames(num int) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		build := buildBucket(tx, num)
		if build == nil {
			return nil
		}
		logs := build.Bucket(bucketLogs)
		if logs == nil {
			return nil
		}
		return logs.ForEach(func(k, _ []byte) error { //nolint:wrapcheck
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list logs of build %d: %w", num, err)
	}
	return names, nil
}

// NextNumber returns the number the next build should use: one past the
// highest recorded build, or 0 for an empty store.
func (s *Store) NextNumber() (int, error) {
	next := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		builds := tx.Bucket(bucketBuilds)
		if builds == nil {
			return nil
		}
		k, _ := builds.Cursor().Last()
		if k != nil {
			next = btoi(k) + 1
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("find the next build number: %w", err)
	}
	return next, nil
}

func buildBucket(tx *bolt.Tx, num int) *bolt.Bucket {
	builds := tx.Bucket(bucketBuilds)
	if builds == nil {
		return nil
	}
	return builds.Bucket(itob(num))
}

// itob encodes a build number big endian so bucket keys sort numerically.
func itob(v int) []byte {
	b := make([]byte, 8) //nolint:mnd
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func btoi(b []byte) int {
	return int(binary.BigEndian.Uint64(b))
}

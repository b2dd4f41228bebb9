// Package store persists finished download tasks so the downloader screen
// can show history across restarts.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ytget/bulk-downloader/internal/model"
)

var bucketTasks = []byte("tasks")

// TaskStore keeps DownloadTask records in a bbolt bucket keyed by task id.
// Without a path it keeps them in memory only.
type TaskStore struct {
	db *bolt.DB

	mu  sync.RWMutex
	mem map[string][]byte // memory-only mode
}

// Open opens or creates the database at path. An empty path gives a
// memory-only store.
func Open(path string) (*TaskStore, error) {
	if path == "" {
		return &TaskStore{mem: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTasks)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &TaskStore{db: db}, nil
}

// Close releases the database file
func (s *TaskStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put inserts or replaces a task
func (s *TaskStore) Put(task *model.DownloadTask) error {
	if task == nil || task.ID == "" {
		return fmt.Errorf("task without id")
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task %s: %w", task.ID, err)
	}

	if s.db == nil {
		s.mu.Lock()
		s.mem[task.ID] = data
		s.mu.Unlock()
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).Put([]byte(task.ID), data)
	})
}

// Delete removes a task. Deleting an unknown id is not an error.
func (s *TaskStore) Delete(id string) error {
	if s.db == nil {
		s.mu.Lock()
		delete(s.mem, id)
		s.mu.Unlock()
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).Delete([]byte(id))
	})
}

// List returns all stored tasks ordered by creation time
func (s *TaskStore) List() ([]*model.DownloadTask, error) {
	var raw [][]byte

	if s.db == nil {
		s.mu.RLock()
		for _, v := range s.mem {
			raw = append(raw, v)
		}
		s.mu.RUnlock()
	} else {
		err := s.db.View(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketTasks).ForEach(func(_, v []byte) error {
				data := make([]byte, len(v))
				copy(data, v)
				raw = append(raw, data)
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
	}

	tasks := make([]*model.DownloadTask, 0, len(raw))
	for _, data := range raw {
		var task model.DownloadTask
		if err := json.Unmarshal(data, &task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

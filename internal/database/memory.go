package database

import (
	"context"
	"errors"
	"sync"

	"hdss-monitor/internal/survey"
)

var errNotConnected = errors.New("memory driver is not connected")

// MemoryDriver keeps a snapshot in process. Fail makes every Load return that
// error, which lets callers exercise an unavailable source.
type MemoryDriver struct {
	Fail error

	mu        sync.Mutex
	connected bool
	snap      survey.Snapshot
}

// NewMemoryDriver returns a connected driver holding snap.
func NewMemoryDriver(snap *survey.Snapshot) *MemoryDriver {
	md := &MemoryDriver{connected: true}
	if snap != nil {
		md.snap = copySnapshot(snap)
	}
	return md
}

func (md *MemoryDriver) Connect(dsn string) error {
	md.mu.Lock()
	defer md.mu.Unlock()
	md.connected = true
	return nil
}

func (md *MemoryDriver) Close() error {
	md.mu.Lock()
	defer md.mu.Unlock()
	md.connected = false
	return nil
}

func (md *MemoryDriver) Setup(ctx context.Context) error {
	return md.check()
}

func (md *MemoryDriver) Reset(ctx context.Context) error {
	md.mu.Lock()
	defer md.mu.Unlock()
	md.snap = survey.Snapshot{}
	return nil
}

// Load returns a copy, so callers never share slices with the store.
func (md *MemoryDriver) Load(ctx context.Context) (*survey.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := md.check(); err != nil {
		return nil, err
	}
	md.mu.Lock()
	defer md.mu.Unlock()
	snap := copySnapshot(&md.snap)
	return &snap, nil
}

func (md *MemoryDriver) Seed(ctx context.Context, snap *survey.Snapshot) error {
	if err := md.check(); err != nil {
		return err
	}
	md.mu.Lock()
	defer md.mu.Unlock()
	md.snap.Households = append(md.snap.Households, snap.Households...)
	md.snap.Individuals = append(md.snap.Individuals, snap.Individuals...)
	return nil
}

func (md *MemoryDriver) check() error {
	md.mu.Lock()
	defer md.mu.Unlock()
	if md.Fail != nil {
		return md.Fail
	}
	if !md.connected {
		return errNotConnected
	}
	return nil
}

func copySnapshot(snap *survey.Snapshot) survey.Snapshot {
	return survey.Snapshot{
		Households:  append([]survey.Household(nil), snap.Households...),
		Individuals: append([]survey.Individual(nil), snap.Individuals...),
	}
}

package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/ZaK3939/minesol-go/core"
)

// ErrReaderDown is the error the fake reader returns for scripted failures.
var ErrReaderDown = errors.New("testutil: reader down")

// FakeReader is a scriptable core.RemoteReader for tests.
// Example:
//
//	r := NewFakeReader().WithRecord(addr, raw).FailBatches(1)
//
// Chain only the parts you need. Every call is recorded so tests can assert
// exact call counts and chunk sizes. Safe for concurrent use.
type FakeReader struct {
	mu      sync.Mutex
	records map[core.Address][]byte

	failBatches int
	failCalls   int
	failSingles map[core.Address]bool
	failAll     bool

	batchCalls  [][]core.Address
	singleCalls []core.Address
}

// NewFakeReader creates an empty fake reader.
func NewFakeReader() *FakeReader {
	return &FakeReader{
		records:     make(map[core.Address][]byte),
		failSingles: make(map[core.Address]bool),
	}
}

// WithRecord seeds raw bytes under an address (chainable).
func (f *FakeReader) WithRecord(addr core.Address, raw []byte) *FakeReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[addr] = append([]byte(nil), raw...)
	return f
}

// FailBatches makes the next n BatchGet calls fail (chainable).
func (f *FakeReader) FailBatches(n int) *FakeReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failBatches = n
	return f
}

// FailCalls makes the next n calls of either kind fail (chainable).
func (f *FakeReader) FailCalls(n int) *FakeReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCalls = n
	return f
}

// FailSingle makes every SingleGet for addr fail (chainable).
func (f *FakeReader) FailSingle(addr core.Address) *FakeReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSingles[addr] = true
	return f
}

// FailAll makes every call fail until SetFailAll(false), simulating total
// remote unreachability (chainable).
func (f *FakeReader) FailAll() *FakeReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = true
	return f
}

// SetFailAll toggles total-failure mode at runtime.
func (f *FakeReader) SetFailAll(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = v
}

// BatchGet implements core.RemoteReader. Results are returned in reverse
// request order on purpose: callers must re-associate by address, and a fake
// that preserves order would hide zip-by-position bugs.
func (f *FakeReader) BatchGet(_ context.Context, addrs []core.Address) ([]core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	called := append([]core.Address(nil), addrs...)
	f.batchCalls = append(f.batchCalls, called)

	if f.failAll {
		return nil, ErrReaderDown
	}
	if f.failCalls > 0 {
		f.failCalls--
		return nil, ErrReaderDown
	}
	if f.failBatches > 0 {
		f.failBatches--
		return nil, ErrReaderDown
	}

	out := make([]core.Record, 0, len(addrs))
	for i := len(addrs) - 1; i >= 0; i-- {
		out = append(out, f.recordLocked(addrs[i]))
	}
	return out, nil
}

// SingleGet implements core.RemoteReader.
func (f *FakeReader) SingleGet(_ context.Context, addr core.Address) (core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.singleCalls = append(f.singleCalls, addr)

	if f.failAll || f.failSingles[addr] {
		return core.Record{}, ErrReaderDown
	}
	if f.failCalls > 0 {
		f.failCalls--
		return core.Record{}, ErrReaderDown
	}
	return f.recordLocked(addr), nil
}

func (f *FakeReader) recordLocked(addr core.Address) core.Record {
	raw, ok := f.records[addr]
	if !ok {
		return core.AbsentRecord(addr)
	}
	return core.Record{Address: addr, Data: append([]byte(nil), raw...), Exists: true}
}

// BatchCalls returns a snapshot of every BatchGet call's address list.
func (f *FakeReader) BatchCalls() [][]core.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]core.Address, len(f.batchCalls))
	copy(out, f.batchCalls)
	return out
}

// SingleCalls returns a snapshot of every SingleGet address.
func (f *FakeReader) SingleCalls() []core.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Address(nil), f.singleCalls...)
}

// RemoteCalls returns the total number of remote calls of either kind.
func (f *FakeReader) RemoteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batchCalls) + len(f.singleCalls)
}

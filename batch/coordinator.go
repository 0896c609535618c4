package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/ZaK3939/minesol-go/core"
	"github.com/ZaK3939/minesol-go/logging"
)

// ErrRemoteUnavailable is returned when every requested address failed with
// a remote error and all retries are exhausted. Partial failures never
// surface it; they yield absent records for the failed addresses instead.
var ErrRemoteUnavailable = errors.New("batch: remote reader unavailable")

// Coordinator turns a list of labeled address requests into remote reads.
// Safe for concurrent use; it holds no per-fetch state.
type Coordinator struct {
	reader       core.RemoteReader
	maxBatchSize int
	retryCount   int
	baseDelay    time.Duration
	logger       logging.Logger
}

// Options configures a Coordinator.
type Options struct {
	// MaxBatchSize bounds one BatchGet call. Must be >= 1.
	MaxBatchSize int
	// RetryCount is the number of backoff retries after the first attempt.
	// Zero disables retrying.
	RetryCount int
	// BaseDelay is the initial backoff interval.
	BaseDelay time.Duration
	// Logger defaults to logging.NoOpLogger.
	Logger logging.Logger
}

// New builds a Coordinator over the given reader.
func New(reader core.RemoteReader, optFns ...func(*Options)) *Coordinator {
	opts := Options{
		MaxBatchSize: 100,
		RetryCount:   3,
		BaseDelay:    200 * time.Millisecond,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxBatchSize < 1 {
		opts.MaxBatchSize = 1
	}
	return &Coordinator{
		reader:       reader,
		maxBatchSize: opts.MaxBatchSize,
		retryCount:   opts.RetryCount,
		baseDelay:    opts.BaseDelay,
		logger:       opts.Logger,
	}
}

// FetchMany reads every requested address and returns one record per
// request, in request order. Missing and unreadable addresses come back as
// absent records; the returned error is non-nil only when not a single
// address could be read and all retries are exhausted.
func (c *Coordinator) FetchMany(ctx context.Context, reqs []core.Request) ([]core.Record, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	fetchID := uuid.NewString()
	start := time.Now()

	var out []core.Record
	op := func() error {
		recs, err := c.fetchOnce(ctx, fetchID, reqs)
		if err != nil {
			return err
		}
		out = recs
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.baseDelay
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.retryCount)), ctx))
	if err != nil {
		c.logger.Error("fetch failed after retries",
			"fetch_id", fetchID, "requested", len(reqs), "duration", time.Since(start), "error", err)
		return nil, err
	}

	resolved := 0
	for _, r := range out {
		if r.Exists {
			resolved++
		}
	}
	c.logger.Debug("fetch completed",
		"fetch_id", fetchID, "requested", len(reqs), "resolved", resolved, "duration", time.Since(start))
	return out, nil
}

// fetchOnce performs one full chunk-and-fallback pass. It fails (and is
// therefore retried) only when every address errored remotely.
func (c *Coordinator) fetchOnce(ctx context.Context, fetchID string, reqs []core.Request) ([]core.Record, error) {
	out := make([]core.Record, 0, len(reqs))
	failed := 0

	for begin := 0; begin < len(reqs); begin += c.maxBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, backoff.Permanent(err)
		}

		end := begin + c.maxBatchSize
		if end > len(reqs) {
			end = len(reqs)
		}
		chunk := reqs[begin:end]

		recs, chunkFailed := c.fetchChunk(ctx, fetchID, chunk)
		out = append(out, recs...)
		failed += chunkFailed
	}

	if failed == len(reqs) {
		return nil, fmt.Errorf("%w: all %d addresses failed", ErrRemoteUnavailable, failed)
	}
	return out, nil
}

// fetchChunk reads one chunk, preferring a single BatchGet and degrading to
// per-address SingleGet calls if the batch call fails. It returns one record
// per request in chunk order plus the count of addresses whose reads errored.
func (c *Coordinator) fetchChunk(ctx context.Context, fetchID string, chunk []core.Request) ([]core.Record, int) {
	addrs := make([]core.Address, len(chunk))
	for i, r := range chunk {
		addrs[i] = r.Address
	}

	recs, err := c.reader.BatchGet(ctx, addrs)
	if err == nil {
		// Zip by address identity, not by position: backends may reorder
		// or omit entries.
		byAddr := make(map[core.Address]core.Record, len(recs))
		for _, r := range recs {
			byAddr[r.Address] = r
		}
		out := make([]core.Record, len(chunk))
		for i, req := range chunk {
			if r, ok := byAddr[req.Address]; ok {
				out[i] = r
			} else {
				out[i] = core.AbsentRecord(req.Address)
			}
		}
		return out, 0
	}

	c.logger.Warn("batch read failed, falling back to single reads",
		"fetch_id", fetchID, "chunk_size", len(chunk), "error", err)

	out := make([]core.Record, len(chunk))
	failed := 0
	for i, req := range chunk {
		rec, err := c.reader.SingleGet(ctx, req.Address)
		if err != nil {
			c.logger.Warn("single read failed, recording absent",
				"fetch_id", fetchID, "label", req.Label, "error", err)
			out[i] = core.AbsentRecord(req.Address)
			failed++
			continue
		}
		out[i] = rec
	}
	return out, failed
}

package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fwojciec/ladderwatch"
	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a blocked caller retries the request file lock.
const lockRetryDelay = 20 * time.Millisecond

// Ensure RequestStore implements ladderwatch.RequestStore at compile time.
var _ ladderwatch.RequestStore = (*RequestStore)(nil)

// RequestStore keeps the priority request list as a JSON array on disk.
// Read-modify-write cycles hold an advisory lock on a sibling ".lock" file, so
// the pipeline and separate "request" invocations never overwrite each other.
type RequestStore struct {
	mu   sync.Mutex
	path string
}

// NewRequestStore creates a RequestStore backed by the file at path.
func NewRequestStore(path string) *RequestStore {
	return &RequestStore{path: path}
}

type requestRecord struct {
	AccountName   string `json:"accountName"`
	RequestedAt   int64  `json:"requestedAt"`
	RequestedByIP string `json:"requestedByIp,omitempty"`
}

// CreateRequest appends req to the list.
func (s *RequestStore) CreateRequest(ctx context.Context, req *ladderwatch.PriorityRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records = append(records, requestRecord{
		AccountName:   req.AccountName,
		RequestedAt:   req.RequestedAt.UnixMilli(),
		RequestedByIP: req.RequestedByIP,
	})
	return s.write(records)
}

// FindRequests returns pending requests in submission order.
func (s *RequestStore) FindRequests(ctx context.Context) ([]*ladderwatch.PriorityRequest, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}

	reqs := make([]*ladderwatch.PriorityRequest, 0, len(records))
	for _, r := range records {
		reqs = append(reqs, &ladderwatch.PriorityRequest{
			AccountName:   r.AccountName,
			RequestedAt:   time.UnixMilli(r.RequestedAt),
			RequestedByIP: r.RequestedByIP,
		})
	}
	return reqs, nil
}

// ClearRequests drops the first n requests and atomically writes back the
// rest, which is an empty array once every pending request was consumed.
func (s *RequestStore) ClearRequests(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	rest := []requestRecord{}
	if n < len(records) {
		rest = append(rest, records[n:]...)
	}
	return s.write(rest)
}

// lock takes the in-process mutex and then the cross-process file lock.
func (s *RequestStore) lock(ctx context.Context) (func(), error) {
	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	fl := flock.New(s.path + ".lock")
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err == nil && !ok {
		err = errors.New("lock not acquired")
	}
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("lock request file: %w", err)
	}

	return func() {
		_ = fl.Unlock()
		s.mu.Unlock()
	}, nil
}

func (s *RequestStore) read() ([]requestRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var records []requestRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, ladderwatch.Errorf(ladderwatch.EINVALID, "request file %s: %v", s.path, err)
	}
	return records, nil
}

func (s *RequestStore) write(records []requestRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode requests: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

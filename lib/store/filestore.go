package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/getAlby/x402hub.go/common"
	"github.com/getAlby/x402hub.go/db/models"
	"github.com/uptrace/bun"
)

type fileData struct {
	Requests map[string]*models.PaymentRequest `json:"requests"`
}

// fileRecord reads one stored request. Documents written by the earlier
// node backend carry epoch millisecond timestamps instead of RFC 3339.
type fileRecord struct {
	models.PaymentRequest
	CreatedAt fileTime `json:"createdAt"`
	ExpiresAt fileTime `json:"expiresAt"`
	PaidAt    fileTime `json:"paidAt"`
}

func (r *fileRecord) request(id string) *models.PaymentRequest {
	req := r.PaymentRequest
	if req.ID == "" {
		req.ID = id
	}
	req.CreatedAt = r.CreatedAt.Time
	req.ExpiresAt = bun.NullTime{Time: r.ExpiresAt.Time}
	req.PaidAt = bun.NullTime{Time: r.PaidAt.Time}
	return &req
}

type fileTime struct {
	time.Time
}

func (t *fileTime) UnmarshalJSON(raw []byte) error {
	switch {
	case len(raw) == 0 || string(raw) == "null":
		t.Time = time.Time{}
		return nil
	case raw[0] == '"':
		return t.Time.UnmarshalJSON(raw)
	}
	ms, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", raw, err)
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

func decodeFileData(raw []byte) (fileData, error) {
	var doc struct {
		Requests map[string]*fileRecord `json:"requests"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fileData{}, err
	}
	data := fileData{Requests: map[string]*models.PaymentRequest{}}
	for id, record := range doc.Requests {
		if record == nil {
			continue
		}
		data.Requests[id] = record.request(id)
	}
	return data, nil
}

// FileStore keeps all requests in one JSON document. Every operation holds
// the store mutex for its whole read-modify-write, which is what makes
// SettleIfPending atomic within the process.
type FileStore struct {
	path string
	now  Clock

	mu   sync.Mutex
	data fileData
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		now:  time.Now,
		data: fileData{Requests: map[string]*models.PaymentRequest{}},
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, s.flush()
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if s.data, err = decodeFileData(raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return s, nil
}

// flush writes to a temporary file and renames it over the data file so a
// crash never leaves a truncated document behind.
func (s *FileStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Create(ctx context.Context, spec NewRequest) (*models.PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := newRecord(spec, s.now())
	for s.data.Requests[req.ID] != nil {
		req.ID = generateId()
	}
	s.data.Requests[req.ID] = req
	if err := s.flush(); err != nil {
		delete(s.data.Requests, req.ID)
		return nil, err
	}
	copied := *req
	return &copied, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*models.PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.data.Requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (s *FileStore) SettleIfPending(ctx context.Context, id, txHash string, paidAt time.Time) (*models.PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.data.Requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.Status != common.RequestStatusPending {
		copied := *req
		return &copied, ErrAlreadySettled
	}
	previous := *req
	req.Status = common.RequestStatusPaid
	req.TxHash = txHash
	req.PaidAt = bun.NullTime{Time: paidAt}
	if err := s.flush(); err != nil {
		*req = previous
		return nil, err
	}
	copied := *req
	return &copied, nil
}

func (s *FileStore) List(ctx context.Context, creatorWallet string) ([]models.PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests := []models.PaymentRequest{}
	for _, req := range s.data.Requests {
		if creatorWallet != "" && req.CreatorWallet != creatorWallet {
			continue
		}
		requests = append(requests, *req)
	}
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID > requests[j].ID
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.data.Requests[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.data.Requests, id)
	if err := s.flush(); err != nil {
		s.data.Requests[id] = req
		return err
	}
	return nil
}

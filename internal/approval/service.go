// Package approval keeps the operator-consent ledger for shell commands the
// execution gate refused to run on its own. A blocked command files a
// pending request; the operator approves or rejects it out of band; an
// approved request is redeemed for exactly one execution.
package approval

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultTTL = 15 * time.Minute

// Service orchestrates the approval lifecycle.
type Service struct {
	store      *Store
	defaultTTL time.Duration
	now        func() time.Time
	mu         sync.Mutex
}

// NewService creates a service backed by <workspace>/state/approvals.json.
func NewService(workspace string) *Service {
	return &Service{
		store:      NewStore(workspace),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Create inserts a new pending approval request for a command.
func (s *Service) Create(input CreateInput) (Request, error) {
	command := strings.TrimSpace(input.Command)
	if command == "" {
		return Request{}, fmt.Errorf("command is required")
	}

	now := s.now().UTC()
	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load()
	if err != nil {
		return Request{}, err
	}

	// A duplicate pending request for the same command is returned as-is
	// so repeated tool calls do not pile up records.
	for _, req := range data.Requests {
		if req.Status == StatusPending && req.Command == command && req.ExpiresAt.After(now) {
			return req, nil
		}
	}

	request := Request{
		ID:          strconv.FormatInt(data.NextID, 10),
		Command:     command,
		Binaries:    input.Binaries,
		Reason:      strings.TrimSpace(input.Reason),
		Status:      StatusPending,
		RequestedAt: now,
		ExpiresAt:   now.Add(ttl),
	}

	data.NextID++
	data.Requests = append(data.Requests, request)

	if err := s.store.Save(data); err != nil {
		return Request{}, err
	}
	return request, nil
}

// Approve marks a pending request as approved.
func (s *Service) Approve(id string, decision DecisionInput) (Request, error) {
	return s.decide(id, StatusApproved, decision)
}

// Reject marks a pending request as rejected.
func (s *Service) Reject(id string, decision DecisionInput) (Request, error) {
	return s.decide(id, StatusRejected, decision)
}

func (s *Service) decide(id string, status RequestStatus, decision DecisionInput) (Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Request{}, fmt.Errorf("request id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load()
	if err != nil {
		return Request{}, err
	}

	now := s.now().UTC()
	for i := range data.Requests {
		req := &data.Requests[i]
		if req.ID != id {
			continue
		}
		if req.Status != StatusPending {
			return Request{}, fmt.Errorf("request %s is %s, not pending", id, req.Status)
		}
		if !req.ExpiresAt.IsZero() && !req.ExpiresAt.After(now) {
			req.Status = StatusExpired
			_ = s.store.Save(data)
			return Request{}, fmt.Errorf("request %s has expired", id)
		}

		req.Status = status
		req.DecidedAt = now
		req.DecidedBy = strings.TrimSpace(decision.DecidedBy)
		req.DecisionNote = strings.TrimSpace(decision.Note)

		if err := s.store.Save(data); err != nil {
			return Request{}, err
		}
		return *req, nil
	}

	return Request{}, fmt.Errorf("request %s not found", id)
}

// Redeem consumes an approved request for command, returning true when one
// existed. Each approval pays for a single execution.
func (s *Service) Redeem(command string) (bool, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load()
	if err != nil {
		return false, err
	}

	for i := range data.Requests {
		req := &data.Requests[i]
		if req.Status != StatusApproved || req.Command != command {
			continue
		}
		req.Status = StatusConsumed
		if err := s.store.Save(data); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// List returns requests filtered by query values.
func (s *Service) List(query Query) ([]Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	idFilter := strings.TrimSpace(query.ID)
	statusFilter := strings.TrimSpace(string(query.Status))

	result := make([]Request, 0, len(data.Requests))
	for _, req := range data.Requests {
		if idFilter != "" && req.ID != idFilter {
			continue
		}
		if statusFilter != "" && string(req.Status) != statusFilter {
			continue
		}
		result = append(result, req)
	}
	return result, nil
}

// ExpirePending marks pending requests as expired when their TTL has
// elapsed, returning the ones that changed.
func (s *Service) ExpirePending() ([]Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var expired []Request
	changed := false

	for i := range data.Requests {
		req := &data.Requests[i]
		if req.Status != StatusPending {
			continue
		}
		if req.ExpiresAt.IsZero() || req.ExpiresAt.After(now) {
			continue
		}
		req.Status = StatusExpired
		expired = append(expired, *req)
		changed = true
	}

	if changed {
		if err := s.store.Save(data); err != nil {
			return nil, err
		}
	}
	return expired, nil
}

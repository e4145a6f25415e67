package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/policy"
	"github.com/yungbote/linguabridge-backend/internal/repos"
	"github.com/yungbote/linguabridge-backend/internal/types"
)

type PolicyService interface {
	// Effective resolves the policy for a user fresh from storage.
	Effective(ctx context.Context, userID, tenantID uuid.UUID, scope policy.ScopeOverride) (policy.EffectivePolicy, error)

	// EffectiveForSession resolves once per session and caches; every turn of
	// a session decides against the same policy bytes.
	EffectiveForSession(ctx context.Context, sessionID, userID, tenantID uuid.UUID) (policy.EffectivePolicy, error)

	// Invalidate drops a session's cached policy, forcing re-resolution on
	// the next turn.
	Invalidate(sessionID uuid.UUID)
}

type policyService struct {
	log  *logger.Logger
	repo repos.PolicyRecordRepo

	mu    sync.RWMutex
	cache map[uuid.UUID]policy.EffectivePolicy
}

func NewPolicyService(repo repos.PolicyRecordRepo, baseLog *logger.Logger) PolicyService {
	return &policyService{
		log:   baseLog.With("service", "PolicyService"),
		repo:  repo,
		cache: make(map[uuid.UUID]policy.EffectivePolicy),
	}
}

func (s *policyService) Effective(ctx context.Context, userID, tenantID uuid.UUID, scope policy.ScopeOverride) (policy.EffectivePolicy, error) {
	dbc := dbctx.Context{Ctx: ctx}

	globalRow, err := s.repo.GetGlobal(dbc)
	if err != nil {
		return policy.EffectivePolicy{}, fmt.Errorf("load global policy: %w", err)
	}
	institutionRow, err := s.repo.GetByScope(dbc, types.PolicyScopeInstitution, tenantID)
	if err != nil {
		return policy.EffectivePolicy{}, fmt.Errorf("load institution policy: %w", err)
	}
	userRow, err := s.repo.GetByScope(dbc, types.PolicyScopeUser, userID)
	if err != nil {
		return policy.EffectivePolicy{}, fmt.Errorf("load user policy: %w", err)
	}

	globalDoc, err := parseRecordDoc(globalRow)
	if err != nil {
		return policy.EffectivePolicy{}, err
	}
	institutionDoc, err := parseRecordDoc(institutionRow)
	if err != nil {
		return policy.EffectivePolicy{}, err
	}
	userDoc, err := parseRecordDoc(userRow)
	if err != nil {
		return policy.EffectivePolicy{}, err
	}

	return policy.Resolve(globalDoc, institutionDoc, userDoc, scope), nil
}

func (s *policyService) EffectiveForSession(ctx context.Context, sessionID, userID, tenantID uuid.UUID) (policy.EffectivePolicy, error) {
	if sessionID != uuid.Nil {
		s.mu.RLock()
		cached, ok := s.cache[sessionID]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	resolved, err := s.Effective(ctx, userID, tenantID, policy.ScopeDefault)
	if err != nil {
		return policy.EffectivePolicy{}, err
	}

	if sessionID != uuid.Nil {
		s.mu.Lock()
		s.cache[sessionID] = resolved
		s.mu.Unlock()
	}
	return resolved, nil
}

func (s *policyService) Invalidate(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.cache, sessionID)
	s.mu.Unlock()
}

func parseRecordDoc(row *types.PolicyRecord) (*policy.Doc, error) {
	if row == nil {
		return nil, nil
	}
	doc, err := policy.ParseDoc(row.Doc)
	if err != nil {
		return nil, fmt.Errorf("policy record %s: %w", row.ID, err)
	}
	return doc, nil
}

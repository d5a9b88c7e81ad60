package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"insurance-service/internal/database/redis"
	"insurance-service/internal/engine"
	"insurance-service/internal/event"
	"insurance-service/internal/models"
	"insurance-service/internal/repository"
)

const policyCacheTTL = 60 * time.Second

const (
	counterNextPolicyID = "next_policy_id"
	counterNextClaimID  = "next_claim_id"
)

type PolicyService struct {
	engine       *engine.Engine
	writer       *StateWriter
	policyRepo   *repository.PolicyRepository
	profileRepo  *repository.RiskProfileRepository
	condRepo     *repository.ConditionRepository
	treasuryRepo *repository.TreasuryRepository
	cache        *redis.Client
	publisher    *event.LifecyclePublisher
	clock        BlockClock
}

func NewPolicyService(
	eng *engine.Engine,
	writer *StateWriter,
	policyRepo *repository.PolicyRepository,
	profileRepo *repository.RiskProfileRepository,
	condRepo *repository.ConditionRepository,
	treasuryRepo *repository.TreasuryRepository,
	cache *redis.Client,
	publisher *event.LifecyclePublisher,
	clock BlockClock,
) *PolicyService {
	return &PolicyService{
		engine:       eng,
		writer:       writer,
		policyRepo:   policyRepo,
		profileRepo:  profileRepo,
		condRepo:     condRepo,
		treasuryRepo: treasuryRepo,
		cache:        cache,
		publisher:    publisher,
		clock:        clock,
	}
}

func policyCacheKey(policyID int64) string {
	return fmt.Sprintf("policy:%d", policyID)
}

// DefineRiskProfile registers a premium-rate template. Administrator only.
func (s *PolicyService) DefineRiskProfile(ctx context.Context, caller string, req models.DefineRiskProfileRequest) (*models.RiskProfile, error) {
	var profile *models.RiskProfile
	err := s.writer.Commit(
		func() (err error) {
			profile, err = s.engine.DefineRiskProfile(caller, req.ID, req.Name, req.BaseRateBps, req.RiskFactorBps, req.MinCoverage, req.MaxCoverage, req.Description)
			return err
		},
		func() error {
			if err := s.profileRepo.Insert(ctx, profile); err != nil {
				slog.Error("failed to persist risk profile", "profile_id", profile.ID, "error", err)
				return fmt.Errorf("failed to persist risk profile: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetRiskProfile returns the profile, or nil if unknown.
func (s *PolicyService) GetRiskProfile(profileID string) *models.RiskProfile {
	return s.engine.GetRiskProfile(profileID)
}

// CalculatePremium prices coverage under a profile.
func (s *PolicyService) CalculatePremium(profileID string, coverageAmount int64) (int64, error) {
	return s.engine.CalculatePremium(profileID, coverageAmount)
}

// IssuePolicy issues an active policy to the caller and credits the premium
// to the treasury, persisting policy, treasury, and the id counter in one
// transaction.
func (s *PolicyService) IssuePolicy(ctx context.Context, caller string, req models.IssuePolicyRequest) (*models.Policy, error) {
	now := s.clock.Now()
	var res *engine.IssueResult
	err := s.writer.Commit(
		func() (err error) {
			res, err = s.engine.IssuePolicy(caller, req.RiskProfileID, req.CoverageAmount, req.Location, req.DurationBlocks, req.AutoRenew, req.TenderedPayment, now)
			return err
		},
		func() error {
			tx, err := s.policyRepo.BeginTransaction()
			if err != nil {
				return fmt.Errorf("error starting transaction: %w", err)
			}
			if err := s.policyRepo.InsertTx(tx, &res.Policy); err != nil {
				tx.Rollback()
				slog.Error("error persisting policy", "policy_id", res.Policy.ID, "error", err)
				return fmt.Errorf("error persisting policy: %w", err)
			}
			if err := s.treasuryRepo.UpsertTx(tx, res.Treasury); err != nil {
				tx.Rollback()
				slog.Error("error persisting treasury", "error", err)
				return fmt.Errorf("error persisting treasury: %w", err)
			}
			if err := s.treasuryRepo.SetCounterTx(tx, counterNextPolicyID, res.Policy.ID+1); err != nil {
				tx.Rollback()
				slog.Error("error persisting policy counter", "error", err)
				return fmt.Errorf("error persisting policy counter: %w", err)
			}
			if err := tx.Commit(); err != nil {
				slog.Error("error committing policy issuance", "policy_id", res.Policy.ID, "error", err)
				return fmt.Errorf("error committing policy issuance: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.LifecycleEvent{
		Kind:       event.EventPolicyIssued,
		Recipients: []string{caller},
		PolicyID:   res.Policy.ID,
		BlockIndex: now,
		Data: map[string]any{
			"coverage_amount": res.Policy.CoverageAmount,
			"premium_amount":  res.Policy.PremiumAmount,
			"end_index":       res.Policy.EndIndex,
		},
	})

	policy := res.Policy
	return &policy, nil
}

// CancelPolicy moves an active policy to cancelled. Holder only.
func (s *PolicyService) CancelPolicy(ctx context.Context, caller string, policyID int64) (*models.Policy, error) {
	now := s.clock.Now()
	var policy *models.Policy
	err := s.writer.Commit(
		func() (err error) {
			policy, err = s.engine.CancelPolicy(caller, policyID, now)
			return err
		},
		func() error {
			if err := s.policyRepo.Update(ctx, policy); err != nil {
				slog.Error("failed to persist policy cancellation", "policy_id", policyID, "error", err)
				return fmt.Errorf("failed to persist policy cancellation: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	s.invalidatePolicy(ctx, policyID)

	s.publish(ctx, event.LifecycleEvent{
		Kind:       event.EventPolicyCancelled,
		Recipients: []string{policy.Holder},
		PolicyID:   policyID,
		BlockIndex: now,
	})

	return policy, nil
}

// RenewPolicy extends a lapsed auto-renew policy, recomputing the premium at
// the profile's current rates.
func (s *PolicyService) RenewPolicy(ctx context.Context, caller string, policyID int64, req models.RenewPolicyRequest) (*models.Policy, error) {
	now := s.clock.Now()
	var res *engine.IssueResult
	err := s.writer.Commit(
		func() (err error) {
			res, err = s.engine.RenewPolicy(caller, policyID, req.TenderedPayment, now)
			return err
		},
		func() error {
			tx, err := s.policyRepo.BeginTransaction()
			if err != nil {
				return fmt.Errorf("error starting transaction: %w", err)
			}
			if err := s.policyRepo.UpdateTx(tx, &res.Policy); err != nil {
				tx.Rollback()
				slog.Error("error persisting policy renewal", "policy_id", policyID, "error", err)
				return fmt.Errorf("error persisting policy renewal: %w", err)
			}
			if err := s.treasuryRepo.UpsertTx(tx, res.Treasury); err != nil {
				tx.Rollback()
				slog.Error("error persisting treasury", "error", err)
				return fmt.Errorf("error persisting treasury: %w", err)
			}
			if err := tx.Commit(); err != nil {
				slog.Error("error committing policy renewal", "policy_id", policyID, "error", err)
				return fmt.Errorf("error committing policy renewal: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	s.invalidatePolicy(ctx, policyID)

	s.publish(ctx, event.LifecycleEvent{
		Kind:       event.EventPolicyRenewed,
		Recipients: []string{res.Policy.Holder},
		PolicyID:   policyID,
		BlockIndex: now,
		Data: map[string]any{
			"end_index":      res.Policy.EndIndex,
			"renewal_count":  res.Policy.RenewalCount,
			"premium_amount": res.Policy.PremiumAmount,
		},
	})

	policy := res.Policy
	return &policy, nil
}

// AddCondition attaches a trigger rule to the caller's policy.
func (s *PolicyService) AddCondition(ctx context.Context, caller string, policyID int64, req models.AddConditionRequest) (*models.ClaimCondition, error) {
	now := s.clock.Now()
	var cond *models.ClaimCondition
	err := s.writer.Commit(
		func() (err error) {
			cond, err = s.engine.AddCondition(caller, policyID, req.ConditionIndex, req.WeatherType, req.Operator, req.Threshold, req.PayoutBps, req.OracleID, now)
			return err
		},
		func() error {
			if err := s.condRepo.Insert(ctx, cond); err != nil {
				slog.Error("failed to persist claim condition", "policy_id", policyID, "condition_index", cond.ConditionIndex, "error", err)
				return fmt.Errorf("failed to persist claim condition: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return cond, nil
}

// GetPolicy serves the policy record through the read cache.
func (s *PolicyService) GetPolicy(ctx context.Context, policyID int64) *models.Policy {
	key := policyCacheKey(policyID)
	if s.cache != nil {
		var cached models.Policy
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			slog.Warn("policy cache read failed", "policy_id", policyID, "error", err)
		} else if hit {
			return &cached
		}
	}

	policy := s.engine.GetPolicy(policyID)
	if policy != nil && s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, policy, policyCacheTTL); err != nil {
			slog.Warn("policy cache write failed", "policy_id", policyID, "error", err)
		}
	}
	return policy
}

// GetConditions returns the policy's trigger rules in index order.
func (s *PolicyService) GetConditions(policyID int64) []models.ClaimCondition {
	return s.engine.GetConditions(policyID)
}

// IsPolicyActive derives liveness at the current block index.
func (s *PolicyService) IsPolicyActive(policyID int64) bool {
	return s.engine.IsPolicyActive(policyID, s.clock.Now())
}

// PoliciesByHolder returns the holder's policies in issuance order.
func (s *PolicyService) PoliciesByHolder(ctx context.Context, holder string) []models.Policy {
	ids := s.engine.PoliciesByHolder(holder)
	policies := make([]models.Policy, 0, len(ids))
	for _, id := range ids {
		if policy := s.engine.GetPolicy(id); policy != nil {
			policies = append(policies, *policy)
		}
	}
	return policies
}

// Treasury returns the aggregate premium/claims counters.
func (s *PolicyService) Treasury() models.Treasury {
	return s.engine.Treasury()
}

func (s *PolicyService) invalidatePolicy(ctx context.Context, policyID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, policyCacheKey(policyID)); err != nil {
		slog.Warn("failed to invalidate policy cache", "policy_id", policyID, "error", err)
	}
}

func (s *PolicyService) publish(ctx context.Context, ev event.LifecycleEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.Error("failed to publish lifecycle event", "kind", ev.Kind, "error", err)
	}
}

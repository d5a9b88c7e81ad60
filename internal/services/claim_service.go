package services

import (
	"context"
	"fmt"
	"log/slog"

	"insurance-service/internal/database/redis"
	"insurance-service/internal/engine"
	"insurance-service/internal/event"
	"insurance-service/internal/models"
	"insurance-service/internal/repository"
)

type ClaimService struct {
	engine       *engine.Engine
	writer       *StateWriter
	claimRepo    *repository.ClaimRepository
	policyRepo   *repository.PolicyRepository
	treasuryRepo *repository.TreasuryRepository
	cache        *redis.Client
	publisher    *event.LifecyclePublisher
	clock        BlockClock
}

func NewClaimService(
	eng *engine.Engine,
	writer *StateWriter,
	claimRepo *repository.ClaimRepository,
	policyRepo *repository.PolicyRepository,
	treasuryRepo *repository.TreasuryRepository,
	cache *redis.Client,
	publisher *event.LifecyclePublisher,
	clock BlockClock,
) *ClaimService {
	return &ClaimService{
		engine:       eng,
		writer:       writer,
		claimRepo:    claimRepo,
		policyRepo:   policyRepo,
		treasuryRepo: treasuryRepo,
		cache:        cache,
		publisher:    publisher,
		clock:        clock,
	}
}

// SubmitClaim evaluates the caller's policy against current oracle data and
// records a pending claim on a match. The engine re-checks every
// precondition itself; a prior claimable answer is never trusted.
func (s *ClaimService) SubmitClaim(ctx context.Context, caller string, policyID int64) (*models.Claim, error) {
	now := s.clock.Now()
	var claim *models.Claim
	err := s.writer.Commit(
		func() (err error) {
			claim, err = s.engine.SubmitClaim(caller, policyID, now)
			return err
		},
		func() error {
			tx, err := s.policyRepo.BeginTransaction()
			if err != nil {
				return fmt.Errorf("error starting transaction: %w", err)
			}
			if err := s.claimRepo.InsertTx(tx, claim); err != nil {
				tx.Rollback()
				slog.Error("error persisting claim", "claim_id", claim.ID, "error", err)
				return fmt.Errorf("error persisting claim: %w", err)
			}
			if err := s.treasuryRepo.SetCounterTx(tx, counterNextClaimID, claim.ID+1); err != nil {
				tx.Rollback()
				slog.Error("error persisting claim counter", "error", err)
				return fmt.Errorf("error persisting claim counter: %w", err)
			}
			if err := tx.Commit(); err != nil {
				slog.Error("error committing claim submission", "claim_id", claim.ID, "error", err)
				return fmt.Errorf("error committing claim submission: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return claim, nil
}

// ProcessClaim re-validates the recorded match against current data and
// moves the claim to approved, or to rejected when the match went stale.
func (s *ClaimService) ProcessClaim(ctx context.Context, caller string, claimID int64) (*models.Claim, error) {
	now := s.clock.Now()
	var claim *models.Claim
	err := s.writer.Commit(
		func() (err error) {
			claim, err = s.engine.ProcessClaim(caller, claimID, now)
			return err
		},
		func() error {
			if err := s.claimRepo.Update(ctx, claim); err != nil {
				slog.Error("failed to persist claim processing", "claim_id", claimID, "error", err)
				return fmt.Errorf("failed to persist claim processing: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	kind := event.EventClaimApproved
	if claim.Status == models.ClaimRejected {
		kind = event.EventClaimRejected
	}
	s.publish(ctx, event.LifecycleEvent{
		Kind:       kind,
		Recipients: []string{claim.Claimant},
		PolicyID:   claim.PolicyID,
		ClaimID:    claim.ID,
		BlockIndex: now,
	})

	return claim, nil
}

// PayClaim settles an approved claim: treasury debit, claim to paid, policy
// to claimed, all persisted in one transaction. Administrator only.
func (s *ClaimService) PayClaim(ctx context.Context, caller string, claimID int64) (*models.Claim, error) {
	now := s.clock.Now()
	var res *engine.PaymentResult
	err := s.writer.Commit(
		func() (err error) {
			res, err = s.engine.PayClaim(caller, claimID, now)
			return err
		},
		func() error {
			tx, err := s.policyRepo.BeginTransaction()
			if err != nil {
				return fmt.Errorf("error starting transaction: %w", err)
			}
			if err := s.claimRepo.UpdateTx(tx, &res.Claim); err != nil {
				tx.Rollback()
				slog.Error("error persisting claim payment", "claim_id", claimID, "error", err)
				return fmt.Errorf("error persisting claim payment: %w", err)
			}
			if err := s.policyRepo.UpdateTx(tx, &res.Policy); err != nil {
				tx.Rollback()
				slog.Error("error persisting policy claimed status", "policy_id", res.Policy.ID, "error", err)
				return fmt.Errorf("error persisting policy claimed status: %w", err)
			}
			if err := s.treasuryRepo.UpsertTx(tx, res.Treasury); err != nil {
				tx.Rollback()
				slog.Error("error persisting treasury", "error", err)
				return fmt.Errorf("error persisting treasury: %w", err)
			}
			if err := tx.Commit(); err != nil {
				slog.Error("error committing claim payment", "claim_id", claimID, "error", err)
				return fmt.Errorf("error committing claim payment: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, policyCacheKey(res.Policy.ID)); err != nil {
			slog.Warn("failed to invalidate policy cache", "policy_id", res.Policy.ID, "error", err)
		}
	}

	s.publish(ctx, event.LifecycleEvent{
		Kind:       event.EventClaimPaid,
		Recipients: []string{res.Claim.Claimant},
		PolicyID:   res.Policy.ID,
		ClaimID:    res.Claim.ID,
		BlockIndex: now,
		Data: map[string]any{
			"claim_amount": res.Claim.ClaimAmount,
		},
	})

	claim := res.Claim
	return &claim, nil
}

// GetClaim returns the claim record, or nil if unknown.
func (s *ClaimService) GetClaim(claimID int64) *models.Claim {
	return s.engine.GetClaim(claimID)
}

// ClaimsByPolicy returns the policy's claims in id order.
func (s *ClaimService) ClaimsByPolicy(policyID int64) []models.Claim {
	return s.engine.ClaimsByPolicy(policyID)
}

// Claimability reports whether a claim submitted now would be accepted and,
// if not, the failure code it would get. Pure read; never cached.
func (s *ClaimService) Claimability(policyID int64) models.ClaimabilityResponse {
	res := models.ClaimabilityResponse{PolicyID: policyID}
	if err := s.engine.Claimable(policyID, s.clock.Now()); err != nil {
		res.Reason = models.ErrorCode(err)
		return res
	}
	res.Claimable = true
	return res
}

func (s *ClaimService) publish(ctx context.Context, ev event.LifecycleEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.Error("failed to publish lifecycle event", "kind", ev.Kind, "error", err)
	}
}

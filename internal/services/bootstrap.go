package services

import (
	"context"
	"fmt"
	"log/slog"

	"insurance-service/internal/engine"
	"insurance-service/internal/repository"
)

// BootstrapEngine loads the persisted state into a fresh engine snapshot at
// process start. After this the engine is authoritative and every committed
// mutation is written back per entry point.
func BootstrapEngine(
	ctx context.Context,
	eng *engine.Engine,
	oracleRepo *repository.OracleRepository,
	obsRepo *repository.ObservationRepository,
	profileRepo *repository.RiskProfileRepository,
	policyRepo *repository.PolicyRepository,
	condRepo *repository.ConditionRepository,
	claimRepo *repository.ClaimRepository,
	treasuryRepo *repository.TreasuryRepository,
) error {
	var snap engine.Snapshot
	var err error

	if snap.Oracles, err = oracleRepo.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load oracles: %w", err)
	}
	if snap.Observations, err = obsRepo.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load observations: %w", err)
	}
	if snap.Profiles, err = profileRepo.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load risk profiles: %w", err)
	}
	if snap.Policies, err = policyRepo.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load policies: %w", err)
	}
	if snap.Conditions, err = condRepo.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load claim conditions: %w", err)
	}
	if snap.Claims, err = claimRepo.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load claims: %w", err)
	}
	if snap.Treasury, err = treasuryRepo.Get(ctx); err != nil {
		return fmt.Errorf("failed to load treasury: %w", err)
	}

	if snap.NextPolicyID, err = treasuryRepo.GetCounter(ctx, counterNextPolicyID, 1); err != nil {
		return fmt.Errorf("failed to load policy counter: %w", err)
	}
	if snap.NextClaimID, err = treasuryRepo.GetCounter(ctx, counterNextClaimID, 1); err != nil {
		return fmt.Errorf("failed to load claim counter: %w", err)
	}

	// Counters lag the tables if a crash landed between writes; the max id
	// wins so a reissued id can never collide.
	for _, p := range snap.Policies {
		if p.ID >= snap.NextPolicyID {
			snap.NextPolicyID = p.ID + 1
		}
	}
	for _, c := range snap.Claims {
		if c.ID >= snap.NextClaimID {
			snap.NextClaimID = c.ID + 1
		}
	}

	eng.Restore(snap)

	slog.Info("engine state restored",
		"oracles", len(snap.Oracles),
		"observations", len(snap.Observations),
		"risk_profiles", len(snap.Profiles),
		"policies", len(snap.Policies),
		"claims", len(snap.Claims),
	)
	return nil
}

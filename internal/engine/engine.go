package engine

import (
	"sort"
	"sync"

	"insurance-service/internal/models"
)

// ObsKey identifies an observation slot: one entry per oracle per block index.
type ObsKey struct {
	OracleID   string
	BlockIndex uint64
}

// state holds the authoritative records. It is only reachable through Engine
// entry points, each of which runs under the engine mutex, validates every
// precondition against the current state, stages its writes, and applies them
// in one step at the end. A failed call therefore leaves state untouched.
type state struct {
	oracles        map[string]*models.Oracle
	observations   map[ObsKey]*models.Observation
	latestObsIndex map[string]uint64
	profiles       map[string]*models.RiskProfile
	policies       map[int64]*models.Policy
	conditions     map[int64][]models.ClaimCondition
	claims         map[int64]*models.Claim
	holderPolicies map[string][]int64
	treasury       models.Treasury
	nextPolicyID   int64
	nextClaimID    int64
}

func newState() *state {
	return &state{
		oracles:        make(map[string]*models.Oracle),
		observations:   make(map[ObsKey]*models.Observation),
		latestObsIndex: make(map[string]uint64),
		profiles:       make(map[string]*models.RiskProfile),
		policies:       make(map[int64]*models.Policy),
		conditions:     make(map[int64][]models.ClaimCondition),
		claims:         make(map[int64]*models.Claim),
		holderPolicies: make(map[string][]int64),
		nextPolicyID:   1,
		nextClaimID:    1,
	}
}

// Engine is the deterministic claim-evaluation and state-machine core. Every
// entry point is a function of (state, caller identity, block index, inputs);
// the engine never reads the wall clock or any other ambient input. Calls are
// serialized by the mutex, so concurrent callers observe atomic transitions.
type Engine struct {
	mu    sync.Mutex
	admin string
	st    *state
}

// New returns an empty engine. admin is the identity allowed to register
// oracles, define risk profiles, and drive claim processing/payment.
func New(admin string) *Engine {
	return &Engine{admin: admin, st: newState()}
}

// Snapshot is the portable form of the engine state, used to bootstrap from
// and persist to the repositories. Secondary indices (holder -> policies,
// latest observation per oracle) are derived on Restore, not carried.
type Snapshot struct {
	Oracles      []models.Oracle
	Observations []models.Observation
	Profiles     []models.RiskProfile
	Policies     []models.Policy
	Conditions   []models.ClaimCondition
	Claims       []models.Claim
	Treasury     models.Treasury
	NextPolicyID int64
	NextClaimID  int64
}

// Restore replaces the engine state with the snapshot contents.
func (e *Engine) Restore(snap Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := newState()
	for i := range snap.Oracles {
		o := snap.Oracles[i]
		st.oracles[o.ID] = &o
	}
	for i := range snap.Observations {
		obs := snap.Observations[i]
		st.observations[ObsKey{obs.OracleID, obs.BlockIndex}] = &obs
		if cur, ok := st.latestObsIndex[obs.OracleID]; !ok || obs.BlockIndex > cur {
			st.latestObsIndex[obs.OracleID] = obs.BlockIndex
		}
	}
	for i := range snap.Profiles {
		p := snap.Profiles[i]
		st.profiles[p.ID] = &p
	}
	for i := range snap.Policies {
		p := snap.Policies[i]
		st.policies[p.ID] = &p
		st.holderPolicies[p.Holder] = append(st.holderPolicies[p.Holder], p.ID)
	}
	for _, c := range snap.Conditions {
		st.conditions[c.PolicyID] = append(st.conditions[c.PolicyID], c)
	}
	for policyID := range st.conditions {
		conds := st.conditions[policyID]
		sort.Slice(conds, func(i, j int) bool { return conds[i].ConditionIndex < conds[j].ConditionIndex })
	}
	for holder := range st.holderPolicies {
		ids := st.holderPolicies[holder]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	for i := range snap.Claims {
		c := snap.Claims[i]
		st.claims[c.ID] = &c
	}
	st.treasury = snap.Treasury
	if snap.NextPolicyID > 0 {
		st.nextPolicyID = snap.NextPolicyID
	}
	if snap.NextClaimID > 0 {
		st.nextClaimID = snap.NextClaimID
	}
	e.st = st
}

// Export captures the full state as a snapshot, the inverse of Restore. The
// persistence layer takes one before a mutating entry point so a failed
// commit can roll the engine back to the pre-call state.
func (e *Engine) Export() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Treasury:     e.st.treasury,
		NextPolicyID: e.st.nextPolicyID,
		NextClaimID:  e.st.nextClaimID,
	}
	for _, o := range e.st.oracles {
		snap.Oracles = append(snap.Oracles, *o)
	}
	for _, obs := range e.st.observations {
		snap.Observations = append(snap.Observations, *obs)
	}
	for _, p := range e.st.profiles {
		snap.Profiles = append(snap.Profiles, *p)
	}
	for _, p := range e.st.policies {
		snap.Policies = append(snap.Policies, *p)
	}
	for _, conds := range e.st.conditions {
		snap.Conditions = append(snap.Conditions, conds...)
	}
	for _, c := range e.st.claims {
		snap.Claims = append(snap.Claims, *c)
	}
	return snap
}

func (e *Engine) isAdmin(caller string) bool {
	return caller != "" && caller == e.admin
}

// Treasury returns the current aggregate counters.
func (e *Engine) Treasury() models.Treasury {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.treasury
}

// Package submission persists certified unit figures. A participation record and
// the results that come with it are written in one transaction or not at all.
package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/logger"
	"github.com/ougirez/elections/internal/pkg/store"
	"github.com/ougirez/elections/internal/service/consistency"
	"github.com/ougirez/elections/internal/service/lock"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Authorizer decides whether an identity may write to a department.
type Authorizer interface {
	Authorize(ctx context.Context, identity *domain.Identity, departmentCode int64) error
}

type Service struct {
	store      store.Store
	authorizer Authorizer
}

func NewSubmissionService(store store.Store, authorizer Authorizer) *Service {
	return &Service{store: store, authorizer: authorizer}
}

// SubmitDepartmentResults certifies a department: its participation and its candidate results.
func (s *Service) SubmitDepartmentResults(
	ctx context.Context,
	identity *domain.Identity,
	sub domain.DepartmentSubmission,
) (*domain.DepartmentSubmissionResult, error) {
	code := sub.DepartmentCode
	if code <= 0 {
		return nil, constants.NewPayloadError("department code is required")
	}
	ctx = logger.WithFields(ctx, "department", code, "user", userCodeOf(identity))

	if err := s.authorizer.Authorize(ctx, identity, code); err != nil {
		return nil, err
	}

	if _, err := s.store.GetDepartment(ctx, code); err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, fmt.Errorf("%w: %d", constants.ErrDepartmentNotFound, code)
		}
		return nil, fmt.Errorf("store.GetDepartment: %w", err)
	}

	if err := lock.AssertUnlocked(ctx, s.store, domain.LevelDepartment, code); err != nil {
		return nil, err
	}

	if err := checkDepartmentFigures(sub.Participation); err != nil {
		return nil, err
	}
	if err := checkResults(code, sub.Results); err != nil {
		return nil, err
	}

	if err := s.checkConsistency(ctx, departmentTally(sub.Participation), sub.ForceValidation); err != nil {
		return nil, err
	}

	participation := newParticipation(domain.LevelDepartment, code, sub.Participation, identity, sub.ForceValidation)
	results := make([]*domain.Result, 0, len(sub.Results))

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.LockDepartment(ctx, code); err != nil {
			return fmt.Errorf("store.LockDepartment: %w", err)
		}
		if err := lock.AssertUnlocked(ctx, tx, domain.LevelDepartment, code); err != nil {
			return err
		}

		for _, in := range sub.Results {
			partyCode, err := resolvePartyCode(ctx, tx, in)
			if err != nil {
				return err
			}
			results = append(results, &domain.Result{
				DepartmentCode: code,
				CandidateCode:  in.CandidateCode,
				PartyCode:      partyCode,
				Votes:          in.Votes,
				Percentage:     resultPercentage(in, participation.Expressed),
			})
		}

		if err := tx.CreateParticipation(ctx, participation); err != nil {
			return fmt.Errorf("store.CreateParticipation: %w", err)
		}
		if err := tx.CreateResults(ctx, results); err != nil {
			return fmt.Errorf("store.CreateResults: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow(ctx, "department results submitted", "results", len(results), "forced", sub.ForceValidation)

	return &domain.DepartmentSubmissionResult{Participation: participation, Results: results}, nil
}

// SubmitCommuneParticipation certifies the participation of one commune. Access is
// granted through the commune's parent department.
func (s *Service) SubmitCommuneParticipation(
	ctx context.Context,
	identity *domain.Identity,
	sub domain.CommuneSubmission,
) (*domain.Participation, error) {
	code := sub.CommuneCode
	if code <= 0 {
		return nil, constants.NewPayloadError("commune code is required")
	}
	ctx = logger.WithFields(ctx, "commune", code, "user", userCodeOf(identity))

	commune, err := s.store.GetCommune(ctx, code)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, fmt.Errorf("%w: %d", constants.ErrCommuneNotFound, code)
		}
		return nil, fmt.Errorf("store.GetCommune: %w", err)
	}

	if err = s.authorizer.Authorize(ctx, identity, commune.DepartmentCode); err != nil {
		return nil, err
	}

	if err = lock.AssertUnlocked(ctx, s.store, domain.LevelCommune, code); err != nil {
		return nil, err
	}

	if err = checkNonNegative(sub.Participation); err != nil {
		return nil, err
	}
	if err = s.checkConsistency(ctx, consistency.FromInput(sub.Participation), sub.ForceValidation); err != nil {
		return nil, err
	}

	participation := newParticipation(domain.LevelCommune, code, sub.Participation, identity, sub.ForceValidation)

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.LockCommune(ctx, code); err != nil {
			return fmt.Errorf("store.LockCommune: %w", err)
		}
		if err := lock.AssertUnlocked(ctx, tx, domain.LevelCommune, code); err != nil {
			return err
		}
		if err := tx.CreateParticipation(ctx, participation); err != nil {
			return fmt.Errorf("store.CreateParticipation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow(ctx, "commune participation submitted", "forced", sub.ForceValidation)

	return participation, nil
}

func (s *Service) checkConsistency(ctx context.Context, tally consistency.Tally, force bool) error {
	if force {
		if violations := consistency.Validate(tally); len(violations) > 0 {
			logger.Warnw(ctx, "consistency check bypassed by force_validation", "violations", violations)
		} else {
			logger.Warnw(ctx, "consistency check bypassed by force_validation")
		}
	}

	return consistency.Check(tally, force)
}

// departmentTally checks the figures that will be stored: a missing expressed
// suffrage is derived and missing claims become the computed rates.
func departmentTally(in domain.ParticipationInput) consistency.Tally {
	tally := consistency.FromInput(in)
	tally.ValidSuffrages = expressedSuffrages(in)

	computed := consistency.ParticipationRate(in.Registered, in.Voters)
	if !in.ClaimedParticipationRate.Valid {
		tally.ClaimedParticipationRate = computed
	}
	if !in.ClaimedAbstentionRate.Valid {
		tally.ClaimedAbstentionRate = hundred.Sub(computed)
	}

	return tally
}

func checkDepartmentFigures(in domain.ParticipationInput) error {
	if err := checkNonNegative(in); err != nil {
		return err
	}
	if !in.HasFigures() {
		return nil
	}
	if in.Registered <= 0 {
		return constants.NewPayloadError("registered voters must be greater than 0")
	}
	if in.Voters > in.Registered {
		return constants.NewPayloadError("voters (%d) cannot exceed registered voters (%d)", in.Voters, in.Registered)
	}
	return nil
}

func checkNonNegative(in domain.ParticipationInput) error {
	figures := []struct {
		name  string
		value int64
	}{
		{"polling stations", in.PollingStations},
		{"registered voters", in.Registered},
		{"voters", in.Voters},
		{"null ballots", in.NullBallots},
		{"valid suffrages", in.Expressed},
	}
	for _, f := range figures {
		if f.value < 0 {
			return constants.NewPayloadError("%s cannot be negative", f.name)
		}
	}
	return nil
}

func checkResults(departmentCode int64, results []domain.ResultInput) error {
	seen := make(map[int64]struct{}, len(results))
	for _, r := range results {
		if r.CandidateCode <= 0 {
			return constants.NewPayloadError("candidate code is required for every result")
		}
		if r.DepartmentCode != 0 && r.DepartmentCode != departmentCode {
			return constants.NewPayloadError("result for candidate %d targets department %d instead of %d",
				r.CandidateCode, r.DepartmentCode, departmentCode)
		}
		if r.Votes < 0 {
			return constants.NewPayloadError("votes of candidate %d cannot be negative", r.CandidateCode)
		}
		if _, ok := seen[r.CandidateCode]; ok {
			return constants.NewPayloadError("candidate %d appears more than once", r.CandidateCode)
		}
		seen[r.CandidateCode] = struct{}{}
	}
	return nil
}

// resolvePartyCode falls back to the candidate's first party, then to the default party.
func resolvePartyCode(ctx context.Context, st store.Store, in domain.ResultInput) (int64, error) {
	candidate, err := st.GetCandidate(ctx, in.CandidateCode)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return 0, fmt.Errorf("%w: %d", constants.ErrCandidateNotFound, in.CandidateCode)
		}
		return 0, fmt.Errorf("store.GetCandidate: %w", err)
	}

	if in.PartyCode != nil && *in.PartyCode > 0 {
		return *in.PartyCode, nil
	}
	if code, ok := candidate.PrimaryPartyCode(); ok {
		return code, nil
	}
	return domain.DefaultPartyCode, nil
}

func newParticipation(
	level domain.UnitLevel,
	unitCode int64,
	in domain.ParticipationInput,
	identity *domain.Identity,
	forced bool,
) *domain.Participation {
	p := &domain.Participation{
		Level:            level,
		UnitCode:         unitCode,
		PollingStation:   in.PollingStations,
		Registered:       in.Registered,
		Voters:           in.Voters,
		NullBallots:      in.NullBallots,
		Expressed:        expressedSuffrages(in),
		Anomalies:        in.Anomalies,
		ForcedValidation: forced,
	}
	if identity != nil {
		userCode := identity.UserCode
		p.SubmittedBy = &userCode
	}

	if in.Registered > 0 {
		participationRate := consistency.ParticipationRate(in.Registered, in.Voters).Round(2)
		p.ParticipationRate = decimal.NewNullDecimal(participationRate)
		p.AbstentionRate = decimal.NewNullDecimal(hundred.Sub(participationRate).Round(2))
	}

	return p
}

func expressedSuffrages(in domain.ParticipationInput) int64 {
	if in.Expressed > 0 {
		return in.Expressed
	}
	if derived := in.Voters - in.NullBallots; derived > 0 {
		return derived
	}
	return 0
}

func resultPercentage(in domain.ResultInput, expressed int64) decimal.Decimal {
	if in.Percentage.Valid {
		return in.Percentage.Decimal
	}
	if expressed <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(in.Votes).Mul(hundred).Div(decimal.NewFromInt(expressed)).Round(2)
}

func userCodeOf(identity *domain.Identity) int64 {
	if identity == nil {
		return 0
	}
	return identity.UserCode
}

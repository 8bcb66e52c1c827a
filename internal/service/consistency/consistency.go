// Package consistency checks the numerical coherence of a participation tally.
package consistency

import (
	"fmt"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// ballot count tolerance for rounding and manual entry
	ballotTolerance int64 = 5
	// rate tolerance, in percentage points
	rateTolerance = decimal.NewFromInt(1)
)

// Tally holds the figures the rules look at. Absent values are zero.
type Tally struct {
	Registered               int64
	Voters                   int64
	NullBallots              int64
	ValidSuffrages           int64
	ClaimedParticipationRate decimal.Decimal
	ClaimedAbstentionRate    decimal.Decimal
}

// FromInput builds a tally from a parsed payload. Claimed rates that were not
// sent are taken as 0.
func FromInput(in domain.ParticipationInput) Tally {
	return Tally{
		Registered:               in.Registered,
		Voters:                   in.Voters,
		NullBallots:              in.NullBallots,
		ValidSuffrages:           in.Expressed,
		ClaimedParticipationRate: in.ClaimedParticipationRate.Decimal,
		ClaimedAbstentionRate:    in.ClaimedAbstentionRate.Decimal,
	}
}

// Validate evaluates every rule and returns all violations in rule order.
// An empty slice means the tally is coherent.
func Validate(t Tally) []string {
	errs := make([]string, 0)

	if t.Registered > 0 && t.Voters > t.Registered {
		errs = append(errs, fmt.Sprintf("voters (%d) cannot exceed registered voters (%d)", t.Voters, t.Registered))
	}

	if t.Voters > 0 {
		total := t.NullBallots + t.ValidSuffrages
		if abs(total-t.Voters) > ballotTolerance {
			errs = append(errs, fmt.Sprintf(
				"null ballots (%d) plus valid suffrages (%d) should equal voters (%d)",
				t.NullBallots, t.ValidSuffrages, t.Voters,
			))
		}
	}

	if t.Registered > 0 {
		computed := ParticipationRate(t.Registered, t.Voters)
		if computed.Sub(t.ClaimedParticipationRate).Abs().GreaterThan(rateTolerance) {
			errs = append(errs, fmt.Sprintf(
				"claimed participation rate (%s%%) does not match the computed one (%s%%)",
				t.ClaimedParticipationRate.String(), computed.StringFixed(2),
			))
		}

		computedAbstention := AbstentionRate(t.Registered, t.Voters)
		if computedAbstention.Sub(t.ClaimedAbstentionRate).Abs().GreaterThan(rateTolerance) {
			errs = append(errs, fmt.Sprintf(
				"claimed abstention rate (%s%%) does not match the computed one (%s%%)",
				t.ClaimedAbstentionRate.String(), computedAbstention.StringFixed(2),
			))
		}
	}

	if !inPercentRange(t.ClaimedParticipationRate) {
		errs = append(errs, "participation rate must be between 0 and 100%")
	}
	if !inPercentRange(t.ClaimedAbstentionRate) {
		errs = append(errs, "abstention rate must be between 0 and 100%")
	}

	sum := t.ClaimedParticipationRate.Add(t.ClaimedAbstentionRate)
	if sum.Sub(hundred).Abs().GreaterThan(rateTolerance) {
		errs = append(errs, fmt.Sprintf(
			"participation rate (%s%%) plus abstention rate (%s%%) should equal 100%%",
			t.ClaimedParticipationRate.String(), t.ClaimedAbstentionRate.String(),
		))
	}

	return errs
}

// Check returns a *constants.ValidationError when the tally is incoherent.
// force skips every rule: it is the operator override for known edge cases.
func Check(t Tally, force bool) error {
	if force {
		return nil
	}
	if errs := Validate(t); len(errs) > 0 {
		return &constants.ValidationError{Errors: errs}
	}
	return nil
}

// ParticipationRate is voters/registered*100, unrounded. Zero registered yields zero.
func ParticipationRate(registered, voters int64) decimal.Decimal {
	if registered <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(voters).Mul(hundred).Div(decimal.NewFromInt(registered))
}

func AbstentionRate(registered, voters int64) decimal.Decimal {
	if registered <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(registered - voters).Mul(hundred).Div(decimal.NewFromInt(registered))
}

func inPercentRange(d decimal.Decimal) bool {
	return !d.IsNegative() && !d.GreaterThan(hundred)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

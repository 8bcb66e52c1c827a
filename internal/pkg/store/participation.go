package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
)

// participationColumns are shared by both participation tables, the unit column excepted.
var participationColumns = []string{
	"nombre_bureau_vote",
	"nombre_inscrit",
	"nombre_votant",
	"bulletin_nul",
	"suffrage_exprime",
	"nombre_enveloppe_urnes",
	"nombre_enveloppe_bulletins_differents",
	"nombre_bulletin_electeur_identifiable",
	"nombre_bulletin_enveloppes_signes",
	"nombre_enveloppe_non_elecam",
	"nombre_bulletin_non_elecam",
	"nombre_bulletin_sans_enveloppe",
	"nombre_enveloppe_vide",
	"taux_participation",
	"taux_abstention",
	"force_validation",
	"soumis_par",
}

func selectParticipation(level domain.UnitLevel) (sq.SelectBuilder, string, error) {
	table, unitColumn, err := participationTable(level)
	if err != nil {
		return sq.SelectBuilder{}, "", err
	}

	columns := make([]string, 0, len(participationColumns)+3)
	columns = append(columns, "p.id", fmt.Sprintf("p.%s as unit_code", unitColumn))
	for _, column := range participationColumns {
		columns = append(columns, "p."+column)
	}
	columns = append(columns, "p.date_creation")

	return builder().Select(columns...).From(table + " p"), unitColumn, nil
}

func (s *store) GetParticipation(ctx context.Context, level domain.UnitLevel, unitCode int64) (*domain.Participation, error) {
	query, unitColumn, err := selectParticipation(level)
	if err != nil {
		return nil, err
	}
	query = query.Where(sq.Eq{"p." + unitColumn: unitCode})

	var selected domain.Participation
	if err = s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}
	selected.Level = level

	return &selected, nil
}

func (s *store) ListParticipations(ctx context.Context, opts ListParticipationsOpts) ([]*domain.Participation, error) {
	query, unitColumn, err := selectParticipation(opts.Level)
	if err != nil {
		return nil, err
	}

	if opts.UnitCodes != nil {
		query = query.Where(sq.Eq{"p." + unitColumn: opts.UnitCodes})
	}

	switch opts.Level {
	case domain.LevelDepartment:
		query = query.Join(tableDepartments+" d on d.code = p.code_departement").
			OrderBy("d.code_region", "d.libelle")
		if opts.DepartmentCode != nil {
			query = query.Where(sq.Eq{"d.code": *opts.DepartmentCode})
		}
		if opts.RegionCode != nil {
			query = query.Where(sq.Eq{"d.code_region": *opts.RegionCode})
		}
	case domain.LevelCommune:
		query = query.Join(tableCommunes+" c on c.code = p.code_commune").
			Join(tableDepartments+" d on d.code = c.code_departement").
			OrderBy("c.libelle", "c.code")
		if opts.DepartmentCode != nil {
			query = query.Where(sq.Eq{"c.code_departement": *opts.DepartmentCode})
		}
		if opts.RegionCode != nil {
			query = query.Where(sq.Eq{"d.code_region": *opts.RegionCode})
		}
	}

	selected := make([]*domain.Participation, 0)
	if err = s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}
	for _, participation := range selected {
		participation.Level = opts.Level
	}

	return selected, nil
}

func (s *store) CreateParticipation(ctx context.Context, p *domain.Participation) error {
	table, unitColumn, err := participationTable(p.Level)
	if err != nil {
		return err
	}

	query := builder().Insert(table).
		Columns(append([]string{unitColumn}, participationColumns...)...).
		Values(
			p.UnitCode,
			p.PollingStation,
			p.Registered,
			p.Voters,
			p.NullBallots,
			p.Expressed,
			p.BallotBoxEnvelopes,
			p.EnvelopesDifferentBallots,
			p.BallotsIdentifyingVoter,
			p.BallotsInSignedEnvelopes,
			p.NonOfficialEnvelopes,
			p.NonOfficialBallots,
			p.BallotsWithoutEnvelope,
			p.EmptyEnvelopes,
			p.ParticipationRate,
			p.AbstentionRate,
			p.ForcedValidation,
			p.SubmittedBy,
		).
		Suffix("returning id, date_creation")

	var inserted struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"date_creation"`
	}
	if err = s.pool.Getx(ctx, &inserted, query); err != nil {
		if isUniqueViolation(err) {
			return &constants.LockedError{Level: string(p.Level), Code: p.UnitCode}
		}
		return err
	}
	p.ID = inserted.ID
	p.CreatedAt = inserted.CreatedAt

	return nil
}

package store

import (
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
)

const (
	tableRegions                  = "region"
	tableDepartments              = "departement"
	tableCommunes                 = "commune"
	tableParties                  = "parti_politique"
	tableCandidates               = "candidat"
	tableCandidateParties         = "candidat_parti"
	tableRoles                    = "role"
	tableUsers                    = "utilisateur"
	tableUserDepartments          = "utilisateur_departement"
	tableUserRegions              = "utilisateur_region"
	tableDepartmentParticipations = "participation_departement"
	tableCommuneParticipations    = "participation_commune"
	tableDepartmentResults        = "resultat_departement"
)

const uniqueViolationCode = "23505"

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// builder возвращает squirrel SQL Builder обьект.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// participationTable returns the table holding records of the given level and its unit column.
func participationTable(level domain.UnitLevel) (string, string, error) {
	switch level {
	case domain.LevelDepartment:
		return tableDepartmentParticipations, "code_departement", nil
	case domain.LevelCommune:
		return tableCommuneParticipations, "code_commune", nil
	default:
		return "", "", fmt.Errorf("no participation records at %s level", level)
	}
}

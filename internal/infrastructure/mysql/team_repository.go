package mysql

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/go-sql-driver/mysql"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
)

type MySQLTeamRepository struct {
	db *sql.DB
}

func NewMySQLTeamRepository(db *sql.DB) *MySQLTeamRepository {
	return &MySQLTeamRepository{db: db}
}

func (r *MySQLTeamRepository) GetTeam(ctx context.Context, teamID int64) (*domain.Team, error) {
	query := `
        SELECT team_id, team_name, logo_url, total_budget, remaining_budget
        FROM teams WHERE team_id = ?
    `

	var team domain.Team
	var logo sql.NullString

	err := r.db.QueryRowContext(ctx, query, teamID).Scan(
		&team.ID, &team.Name, &logo, &team.TotalBudget, &team.RemainingBudget)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	team.LogoURL = logo.String
	return &team, nil
}

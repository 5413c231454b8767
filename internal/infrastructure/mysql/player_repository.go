package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
)

type MySQLPlayerRepository struct {
	db *sql.DB
}

func NewMySQLPlayerRepository(db *sql.DB) *MySQLPlayerRepository {
	return &MySQLPlayerRepository{db: db}
}

func (r *MySQLPlayerRepository) GetPlayer(ctx context.Context, playerID int64) (*domain.Player, error) {
	query := `
        SELECT player_id, name, role, country, base_price, status, sold_price, team_id, image_url
        FROM players WHERE player_id = ?
    `

	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *MySQLPlayerRepository) ListUnsold(ctx context.Context) ([]*domain.Player, error) {
	query := `
        SELECT player_id, name, role, country, base_price, status, sold_price, team_id, image_url
        FROM players WHERE status = ? ORDER BY name ASC
    `

	rows, err := r.db.QueryContext(ctx, query, string(domain.PlayerUnsold))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*domain.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

func (r *MySQLPlayerRepository) UpdateStatus(ctx context.Context, playerID int64, status domain.PlayerStatus) error {
	query := `UPDATE players SET status = ? WHERE player_id = ?`

	result, err := r.db.ExecContext(ctx, query, string(status), playerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*domain.Player, error) {
	var player domain.Player
	var role, status string
	var soldPrice sql.NullFloat64
	var teamID sql.NullInt64
	var imageURL sql.NullString

	err := row.Scan(&player.ID, &player.Name, &role, &player.Country,
		&player.BasePrice, &status, &soldPrice, &teamID, &imageURL)
	if err != nil {
		return nil, err
	}

	player.Role = domain.PlayerRole(role)
	player.Status = domain.PlayerStatus(status)
	player.ImageURL = imageURL.String
	if soldPrice.Valid {
		price := soldPrice.Float64
		player.SoldPrice = &price
	}
	if teamID.Valid {
		id := teamID.Int64
		player.TeamID = &id
	}

	return &player, nil
}

package mysql

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
)

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

// Append writes one accepted bid. The table is insert-only; rows are
// never updated or deleted.
func (r *MySQLBidRepository) Append(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (bid_id, player_id, team_id, amount, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		bid.ID.String(), bid.PlayerID, bid.TeamID, bid.Amount, bid.CreatedAt)
	return err
}

func (r *MySQLBidRepository) ListForPlayer(ctx context.Context, playerID int64) ([]*domain.Bid, error) {
	query := `
        SELECT bid_id, player_id, team_id, amount, created_at
        FROM bids WHERE player_id = ?
        ORDER BY created_at ASC
    `

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		var bid domain.Bid
		var id string

		err := rows.Scan(&id, &bid.PlayerID, &bid.TeamID, &bid.Amount, &bid.CreatedAt)
		if err != nil {
			return nil, err
		}

		bid.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}

	return bids, rows.Err()
}

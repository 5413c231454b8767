package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
)

// MySQLSettlementStore applies the two entity writes of a sale inside
// one transaction. The budget decrement carries a remaining_budget >= ?
// guard, so a concurrent settlement can never drive a budget negative
// even if the in-memory check raced.
type MySQLSettlementStore struct {
	db *sql.DB
}

func NewMySQLSettlementStore(db *sql.DB) *MySQLSettlementStore {
	return &MySQLSettlementStore{db: db}
}

func (s *MySQLSettlementStore) CompleteSale(ctx context.Context, teamID, playerID int64, amount float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settlement tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
        UPDATE teams
        SET remaining_budget = remaining_budget - ?
        WHERE team_id = ? AND remaining_budget >= ?
    `, amount, teamID, amount)
	if err != nil {
		return fmt.Errorf("decrement budget: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrBudgetExceeded
	}

	result, err = tx.ExecContext(ctx, `
        UPDATE players
        SET status = ?, team_id = ?, sold_price = ?
        WHERE player_id = ?
    `, string(domain.PlayerSold), teamID, amount, playerID)
	if err != nil {
		return fmt.Errorf("mark player sold: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settlement tx: %w", err)
	}
	return nil
}

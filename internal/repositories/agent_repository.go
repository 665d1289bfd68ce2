package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"puja-backend/internal/models"
)

type AgentRepository struct {
	DB *pgxpool.Pool
}

func NewAgentRepository(db *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{DB: db}
}

// Create inserts the agent and its zero-balance wallet in one
// transaction.
func (r *AgentRepository) Create(ctx context.Context, a *models.Agent) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if a.Status == "" {
		a.Status = models.StatusActive
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO agents(name, email, phone, password_hash, status)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		a.Name, a.Email, a.Phone, a.PasswordHash, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO wallets(agent_id, balance) VALUES($1, 0)`, a.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *AgentRepository) Get(ctx context.Context, id int) (*models.Agent, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, phone, password_hash, status, created_at, updated_at
         FROM agents WHERE id=$1`, id)

	var a models.Agent
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepository) GetByEmail(ctx context.Context, email string) (*models.Agent, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, phone, password_hash, status, created_at, updated_at
         FROM agents WHERE email=$1`, email)

	var a models.Agent
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepository) GetWallet(ctx context.Context, agentID int) (*models.Wallet, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, agent_id, balance, updated_at FROM wallets WHERE agent_id=$1`, agentID)

	var w models.Wallet
	if err := row.Scan(&w.ID, &w.AgentID, &w.Balance, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *AgentRepository) CreateWithdrawal(ctx context.Context, wr *models.WithdrawalRequest) error {
	wr.Status = models.WithdrawalStatusPending
	return r.DB.QueryRow(ctx,
		`INSERT INTO withdrawal_requests(agent_id, amount, status, notes)
         VALUES($1, $2, $3, $4)
         RETURNING id, created_at, updated_at`,
		wr.AgentID, wr.Amount, wr.Status, wr.Notes,
	).Scan(&wr.ID, &wr.CreatedAt, &wr.UpdatedAt)
}

func (r *AgentRepository) ListWithdrawals(ctx context.Context, agentID int) ([]*models.WithdrawalRequest, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, agent_id, amount, status, notes, created_at, updated_at
         FROM withdrawal_requests WHERE agent_id=$1 ORDER BY created_at DESC`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.WithdrawalRequest
	for rows.Next() {
		var wr models.WithdrawalRequest
		if err := rows.Scan(&wr.ID, &wr.AgentID, &wr.Amount, &wr.Status, &wr.Notes, &wr.CreatedAt, &wr.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &wr)
	}
	return list, rows.Err()
}

func (r *AgentRepository) ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, agent_id, amount, status, notes, created_at, updated_at
         FROM withdrawal_requests WHERE status='pending' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.WithdrawalRequest
	for rows.Next() {
		var wr models.WithdrawalRequest
		if err := rows.Scan(&wr.ID, &wr.AgentID, &wr.Amount, &wr.Status, &wr.Notes, &wr.CreatedAt, &wr.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &wr)
	}
	return list, rows.Err()
}

// ResolveWithdrawal approves or rejects a pending request. Approval
// debits the wallet in the same transaction so the balance can never
// go negative or be debited twice.
func (r *AgentRepository) ResolveWithdrawal(ctx context.Context, id int, status, notes string) (*models.WithdrawalRequest, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var wr models.WithdrawalRequest
	err = tx.QueryRow(ctx,
		`UPDATE withdrawal_requests SET status=$1, notes=$2, updated_at=NOW()
         WHERE id=$3 AND status='pending'
         RETURNING id, agent_id, amount, status, notes, created_at, updated_at`,
		status, notes, id,
	).Scan(&wr.ID, &wr.AgentID, &wr.Amount, &wr.Status, &wr.Notes, &wr.CreatedAt, &wr.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("withdrawal not found or already resolved: %w", err)
	}

	if status == models.WithdrawalStatusApproved {
		tag, err := tx.Exec(ctx,
			`UPDATE wallets SET balance = balance - $1, updated_at=NOW()
             WHERE agent_id=$2 AND balance >= $1`,
			wr.Amount, wr.AgentID)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("insufficient wallet balance")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &wr, nil
}

func (r *AgentRepository) CountPendingWithdrawals(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM withdrawal_requests WHERE status='pending'`).Scan(&n)
	return n, err
}

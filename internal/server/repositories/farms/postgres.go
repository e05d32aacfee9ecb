package farms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/dbx"
	"github.com/agrosuite/agrosync/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateFarm(ctx context.Context, farm *models.Farm) error {
	query :=
		`INSERT INTO farms (id, name, owner_user_id, currency, timezone, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		farm.ID, farm.Name, farm.OwnerUserID, farm.Currency, farm.Timezone, farm.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetFarm(ctx context.Context, id string) (*models.Farm, error) {
	query :=
		`SELECT id, name, owner_user_id, currency, timezone, created_at FROM farms
		 WHERE id = $1
		 `

	farm := &models.Farm{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&farm.ID, &farm.Name, &farm.OwnerUserID, &farm.Currency, &farm.Timezone, &farm.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return farm, nil
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, m *models.Membership) error {
	query :=
		`INSERT INTO memberships (id, user_id, farm_id, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query, m.ID, m.UserID, m.FarmID, m.Role, m.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "duplicate") {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetMembership(ctx context.Context, userID, farmID string) (*models.Membership, error) {
	query :=
		`SELECT id, user_id, farm_id, role, created_at FROM memberships
		 WHERE user_id = $1 AND farm_id = $2
		 `

	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, userID, farmID).
		Scan(&m.ID, &m.UserID, &m.FarmID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) ListUserFarms(ctx context.Context, userID string) ([]models.Farm, []models.Membership, error) {
	query :=
		`SELECT f.id, f.name, f.owner_user_id, f.currency, f.timezone, f.created_at,
		        m.id, m.user_id, m.farm_id, m.role, m.created_at
		 FROM farms f
		 JOIN memberships m ON m.farm_id = f.id
		 WHERE m.user_id = $1
		 ORDER BY f.name
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var farms []models.Farm
	var memberships []models.Membership
	for rows.Next() {
		var f models.Farm
		var m models.Membership
		if err := rows.Scan(&f.ID, &f.Name, &f.OwnerUserID, &f.Currency, &f.Timezone, &f.CreatedAt,
			&m.ID, &m.UserID, &m.FarmID, &m.Role, &m.CreatedAt); err != nil {
			return nil, nil, err
		}
		farms = append(farms, f)
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return farms, memberships, nil
}

func (r *PostgresRepository) CreateInvite(ctx context.Context, inv *models.FarmInvite) error {
	query :=
		`INSERT INTO farm_invites (code, farm_id, created_by_user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		inv.Code, inv.FarmID, inv.CreatedByUserID, inv.CreatedAt, inv.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetInvite(ctx context.Context, code string) (*models.FarmInvite, error) {
	query :=
		`SELECT code, farm_id, created_by_user_id, created_at, expires_at FROM farm_invites
		 WHERE code = $1
		 `

	inv := &models.FarmInvite{}
	err := r.db.QueryRowContext(ctx, query, code).
		Scan(&inv.Code, &inv.FarmID, &inv.CreatedByUserID, &inv.CreatedAt, &inv.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return inv, nil
}

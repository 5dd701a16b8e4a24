package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portal-gateway/internal/domain"
)

// InvitationRepository manages invitation persistence. Status mutations
// are conditional on the pending state so that concurrent redemption
// attempts cannot produce divergent grants.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.Invitation) error
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	List(ctx context.Context, filter InvitationFilter) ([]domain.Invitation, error)
	// ApplyGrant flips a pending invitation to accepted. It reports true
	// when this call applied the grant and false when another caller
	// already had; at most one caller ever observes true per token.
	ApplyGrant(ctx context.Context, token string) (bool, error)
	// Revoke terminates a pending invitation. Terminal states are
	// permanent; revoking a non-pending invitation returns pgx.ErrNoRows.
	Revoke(ctx context.Context, token string) error
}

// InvitationFilter defines query params for invitation listing.
type InvitationFilter struct {
	Status *domain.InvitationStatus
	Email  *string
	Limit  int
	Offset int
}

type invitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository constructs the repository.
func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &invitationRepository{pool: pool}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	const query = `
        INSERT INTO invitations (token, email, role, org_id, status, expires_at, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		invitation.Token,
		invitation.Email,
		invitation.Role,
		invitation.OrgID,
		invitation.Status,
		invitation.ExpiresAt,
		invitation.CreatedBy,
	).Scan(&invitation.ID, &invitation.CreatedAt, &invitation.UpdatedAt)
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	const query = `
        SELECT id, token, email, role, org_id, status, expires_at, accepted_at, created_by, created_at, updated_at
        FROM invitations WHERE token=$1`

	var invitation domain.Invitation
	if err := r.pool.QueryRow(ctx, query, token).Scan(
		&invitation.ID,
		&invitation.Token,
		&invitation.Email,
		&invitation.Role,
		&invitation.OrgID,
		&invitation.Status,
		&invitation.ExpiresAt,
		&invitation.AcceptedAt,
		&invitation.CreatedBy,
		&invitation.CreatedAt,
		&invitation.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) List(ctx context.Context, filter InvitationFilter) ([]domain.Invitation, error) {
	query := `
        SELECT id, token, email, role, org_id, status, expires_at, accepted_at, created_by, created_at, updated_at
        FROM invitations WHERE 1=1`
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status=$` + itoa(len(args))
	}
	if filter.Email != nil {
		args = append(args, *filter.Email)
		query += ` AND email=$` + itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		var invitation domain.Invitation
		if err := rows.Scan(
			&invitation.ID,
			&invitation.Token,
			&invitation.Email,
			&invitation.Role,
			&invitation.OrgID,
			&invitation.Status,
			&invitation.ExpiresAt,
			&invitation.AcceptedAt,
			&invitation.CreatedBy,
			&invitation.CreatedAt,
			&invitation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

func (r *invitationRepository) ApplyGrant(ctx context.Context, token string) (bool, error) {
	// Single conditional update guarded by status='pending': the loser of
	// a concurrent redemption race affects zero rows and reports
	// already-applied instead of re-applying the grant.
	const query = `
        UPDATE invitations SET status=$1, accepted_at=NOW(), updated_at=NOW()
        WHERE token=$2 AND status=$3`

	cmd, err := r.pool.Exec(ctx, query,
		domain.InvitationStatusAccepted,
		token,
		domain.InvitationStatusPending,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *invitationRepository) Revoke(ctx context.Context, token string) error {
	const query = `
        UPDATE invitations SET status=$1, updated_at=NOW()
        WHERE token=$2 AND status=$3`

	cmd, err := r.pool.Exec(ctx, query,
		domain.InvitationStatusRevoked,
		token,
		domain.InvitationStatusPending,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

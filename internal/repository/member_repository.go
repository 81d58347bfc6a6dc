package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

var errNoPool = errors.New("postgres pool not configured")

// MemberRepository resolves people and departments to contact addresses.
// Only approved, non-deleted members are visible.
type MemberRepository interface {
	FindEmailByName(ctx context.Context, name string) (string, bool, error)
	FindEmailsByDepartment(ctx context.Context, dept domain.DepartmentKey) ([]string, error)
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository instantiates the repository. A nil pool yields a
// repository whose lookups report the directory unavailable.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) FindEmailByName(ctx context.Context, name string) (string, bool, error) {
	if r.pool == nil {
		return "", false, domain.Unavailable("find member by name", errNoPool)
	}
	const query = `
        SELECT email
        FROM members
        WHERE nickname=$1 AND is_deleted = FALSE AND is_approved = TRUE
        ORDER BY created_at
        LIMIT 1`

	var email string
	if err := r.pool.QueryRow(ctx, query, strings.TrimSpace(name)).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, domain.Unavailable("find member by name", err)
	}
	return email, true, nil
}

func (r *memberRepository) FindEmailsByDepartment(ctx context.Context, dept domain.DepartmentKey) ([]string, error) {
	if r.pool == nil {
		return nil, domain.Unavailable("find members by department", errNoPool)
	}
	const query = `
        SELECT email
        FROM members
        WHERE department=$1 AND is_deleted = FALSE AND is_approved = TRUE
        ORDER BY created_at`

	target := strings.ToUpper(strings.TrimSpace(string(dept)))
	rows, err := r.pool.Query(ctx, query, target)
	if err != nil {
		return nil, domain.Unavailable("find members by department", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, domain.Unavailable("find members by department", err)
		}
		result = append(result, email)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("find members by department", err)
	}
	return result, nil
}

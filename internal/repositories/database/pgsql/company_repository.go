package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company and membership data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

// SaveCompany persists a new company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	modelCompany := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (company_id, name, default_currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelCompany.CompanyID,
		modelCompany.Name,
		modelCompany.DefaultCurrencyCode,
		modelCompany.IsActive,
		modelCompany.CreatedAt,
		modelCompany.CreatedBy,
		modelCompany.LastUpdatedAt,
		modelCompany.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: company with ID %s already exists", apperrors.ErrDuplicate, modelCompany.CompanyID)
		}
		return apperrors.NewAppError(500, "failed to insert company "+modelCompany.CompanyID, err)
	}
	return nil
}

// FindCompanyByID retrieves a company by its ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, default_currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var m models.Company
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID,
		&m.Name,
		&m.DefaultCurrencyCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find company by ID "+companyID, err)
	}

	domainCompany := mapping.ToDomainCompany(m)
	return &domainCompany, nil
}

// SaveMembership inserts or updates a membership row. Re-inviting an existing
// member updates the role in place.
func (r *PgxCompanyRepository) SaveMembership(ctx context.Context, member domain.CompanyMember) error {
	modelMember := mapping.ToModelCompanyMember(member)
	query := `
		INSERT INTO company_members (user_id, company_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, company_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query,
		modelMember.UserID,
		modelMember.CompanyID,
		modelMember.Role,
		modelMember.JoinedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save membership for user "+modelMember.UserID, err)
	}
	return nil
}

// FindMembership retrieves the membership of a user in a company.
func (r *PgxCompanyRepository) FindMembership(ctx context.Context, companyID string, userID string) (*domain.CompanyMember, error) {
	query := `
		SELECT user_id, company_id, role, joined_at
		FROM company_members
		WHERE company_id = $1 AND user_id = $2;
	`
	var m models.CompanyMember
	err := r.Pool.QueryRow(ctx, query, companyID, userID).Scan(
		&m.UserID,
		&m.CompanyID,
		&m.Role,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID, err)
	}

	domainMember := mapping.ToDomainCompanyMember(m)
	return &domainMember, nil
}

// ListCompaniesByUser retrieves all companies the user is a member of.
func (r *PgxCompanyRepository) ListCompaniesByUser(ctx context.Context, userID string) ([]domain.Company, error) {
	query := `
		SELECT c.company_id, c.name, c.default_currency_code, c.is_active, c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM companies c
		JOIN company_members cm ON cm.company_id = c.company_id
		WHERE cm.user_id = $1
		ORDER BY c.name, c.company_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query companies for user "+userID, err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var m models.Company
		err := rows.Scan(
			&m.CompanyID,
			&m.Name,
			&m.DefaultCurrencyCode,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan company row for user "+userID, err)
		}
		companies = append(companies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating company rows for user "+userID, err)
	}

	return mapping.ToDomainCompanySlice(companies), nil
}

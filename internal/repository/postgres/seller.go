package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/pkg/database"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

const sellerColumns = `id, owner_user_id, username, first_name, last_name, email, confirmed_by_admin, rating, created_at, updated_at`

// SellerRepository implements repository.SellerRepository using PostgreSQL.
type SellerRepository struct {
	pool database.DBTX
}

// NewSellerRepository creates a new PostgreSQL-backed seller repository.
func NewSellerRepository(pool database.DBTX) *SellerRepository {
	return &SellerRepository{pool: pool}
}

const queryInsertSeller = `
		INSERT INTO seller_profiles (` + sellerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create inserts a new seller profile.
func (r *SellerRepository) Create(ctx context.Context, s *domain.SellerProfile) (err error) {
	ctx, end := database.TraceQuery(ctx, "CreateSeller", queryInsertSeller)
	defer func() { end(err) }()

	return insertSeller(ctx, r.pool, s)
}

const queryInsertSellerFromComment = `
		INSERT INTO seller_from_comment (id, profile_id, username, first_name, last_name, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

// CreateWithLinkedRecord inserts the profile and its SellerFromComment record
// in a single transaction.
func (r *SellerRepository) CreateWithLinkedRecord(ctx context.Context, s *domain.SellerProfile, linked *domain.SellerFromComment) (err error) {
	ctx, end := database.TraceQuery(ctx, "CreateSellerFromComment", queryInsertSellerFromComment)
	defer func() { end(err) }()

	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertSeller(ctx, tx, s); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, queryInsertSellerFromComment,
			linked.ID,
			s.ID,
			linked.Username,
			linked.FirstName,
			linked.LastName,
			linked.Email,
			linked.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert seller from comment: %w", err)
		}
		return nil
	})
}

func insertSeller(ctx context.Context, db database.DBTX, s *domain.SellerProfile) error {
	_, err := db.Exec(ctx, queryInsertSeller,
		s.ID,
		s.OwnerUserID,
		s.Username,
		s.FirstName,
		s.LastName,
		s.Email,
		s.ConfirmedByAdmin,
		s.Rating,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return sellerWriteError(err, s, "insert seller")
	}
	return nil
}

func sellerWriteError(err error, s *domain.SellerProfile, op string) error {
	switch {
	case violatesConstraint(err, constraintSellerEmail) && s.Email != nil:
		return apperrors.AlreadyExists("seller", "email", *s.Email)
	case violatesConstraint(err, constraintSellerUsername):
		return apperrors.AlreadyExists("seller", "username", s.Username)
	case isUniqueViolation(err):
		return apperrors.AlreadyExists("seller", "id", s.ID)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// GetByID retrieves a seller profile by its ID.
func (r *SellerRepository) GetByID(ctx context.Context, id string) (*domain.SellerProfile, error) {
	return r.getBy(ctx, "GetSellerByID", "id", id)
}

// GetByEmail retrieves a seller profile by its email address.
func (r *SellerRepository) GetByEmail(ctx context.Context, email string) (*domain.SellerProfile, error) {
	return r.getBy(ctx, "GetSellerByEmail", "email", email)
}

// GetByUsername retrieves a seller profile by its username.
func (r *SellerRepository) GetByUsername(ctx context.Context, username string) (*domain.SellerProfile, error) {
	return r.getBy(ctx, "GetSellerByUsername", "username", username)
}

// getBy runs a single-row lookup on one of the unique columns. column is
// always a literal from this file.
func (r *SellerRepository) getBy(ctx context.Context, op, column, value string) (s *domain.SellerProfile, err error) {
	query := `SELECT ` + sellerColumns + ` FROM seller_profiles WHERE ` + column + ` = $1`

	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() {
		if errors.Is(err, apperrors.ErrNotFound) {
			end(nil)
			return
		}
		end(err)
	}()

	seller, err := scanSeller(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("seller", value)
		}
		return nil, fmt.Errorf("get seller by %s: %w", column, err)
	}
	return seller, nil
}

const queryListSellers = `
		SELECT ` + sellerColumns + `, COUNT(*) OVER() AS total_count
		FROM seller_profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

// List returns one page of seller profiles, newest first.
func (r *SellerRepository) List(ctx context.Context, offset, limit int) (sellers []domain.SellerProfile, total int, err error) {
	ctx, end := database.TraceQuery(ctx, "ListSellers", queryListSellers)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, queryListSellers, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sellers: %w", err)
	}
	return scanSellersWithCount(rows)
}

// SearchByRating returns one page of sellers whose rating is within filter,
// highest rated first.
func (r *SellerRepository) SearchByRating(ctx context.Context, filter domain.RatingFilter, offset, limit int) (sellers []domain.SellerProfile, total int, err error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Min != nil {
		args = append(args, *filter.Min)
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", len(args)))
	}
	if filter.Max != nil {
		args = append(args, *filter.Max)
		conditions = append(conditions, fmt.Sprintf("rating <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM seller_profiles
		%s
		ORDER BY rating DESC, created_at ASC
		LIMIT $%d OFFSET $%d`, sellerColumns, where, len(args)-1, len(args))

	ctx, end := database.TraceQuery(ctx, "SearchSellersByRating", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search sellers by rating: %w", err)
	}
	return scanSellersWithCount(rows)
}

const queryListSellersByConfirmation = `
		SELECT ` + sellerColumns + `
		FROM seller_profiles
		WHERE confirmed_by_admin = $1
		ORDER BY created_at ASC`

// ListByConfirmation returns all profiles with the given admin confirmation state.
func (r *SellerRepository) ListByConfirmation(ctx context.Context, confirmed bool) (sellers []domain.SellerProfile, err error) {
	ctx, end := database.TraceQuery(ctx, "ListSellersByConfirmation", queryListSellersByConfirmation)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, queryListSellersByConfirmation, confirmed)
	if err != nil {
		return nil, fmt.Errorf("list sellers by confirmation: %w", err)
	}
	defer rows.Close()

	sellers = make([]domain.SellerProfile, 0)
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seller: %w", err)
		}
		sellers = append(sellers, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sellers: %w", err)
	}
	return sellers, nil
}

const querySetSellerConfirmed = `
		UPDATE seller_profiles SET confirmed_by_admin = $1, updated_at = $2 WHERE id = $3`

// SetConfirmed sets the admin confirmation flag of a profile.
func (r *SellerRepository) SetConfirmed(ctx context.Context, id string, confirmed bool) (err error) {
	ctx, end := database.TraceQuery(ctx, "SetSellerConfirmed", querySetSellerConfirmed)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, querySetSellerConfirmed, confirmed, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set seller confirmed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("seller", id)
	}
	return nil
}

const queryUpdateSeller = `
		UPDATE seller_profiles
		SET first_name = $1, last_name = $2, email = $3, updated_at = $4
		WHERE id = $5`

// Update writes the owner-editable fields of s.
func (r *SellerRepository) Update(ctx context.Context, s *domain.SellerProfile) (err error) {
	ctx, end := database.TraceQuery(ctx, "UpdateSeller", queryUpdateSeller)
	defer func() { end(err) }()

	s.UpdatedAt = time.Now().UTC()
	ct, err := r.pool.Exec(ctx, queryUpdateSeller, s.FirstName, s.LastName, s.Email, s.UpdatedAt, s.ID)
	if err != nil {
		return sellerWriteError(err, s, "update seller")
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("seller", s.ID)
	}
	return nil
}

const queryDeleteSeller = `DELETE FROM seller_profiles WHERE id = $1`

// Delete removes a profile. Comments and ratings go with it through
// ON DELETE CASCADE.
func (r *SellerRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, end := database.TraceQuery(ctx, "DeleteSeller", queryDeleteSeller)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, queryDeleteSeller, id)
	if err != nil {
		return fmt.Errorf("delete seller: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("seller", id)
	}
	return nil
}

const queryListTopSellers = `
		SELECT id, username, first_name, last_name, rating
		FROM seller_profiles
		ORDER BY rating DESC, created_at ASC
		LIMIT $1`

// ListTop returns the limit highest-rated sellers.
func (r *SellerRepository) ListTop(ctx context.Context, limit int) (sellers []domain.SellerSummary, err error) {
	ctx, end := database.TraceQuery(ctx, "ListTopSellers", queryListTopSellers)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, queryListTopSellers, limit)
	if err != nil {
		return nil, fmt.Errorf("list top sellers: %w", err)
	}
	defer rows.Close()

	sellers = make([]domain.SellerSummary, 0, limit)
	for rows.Next() {
		var s domain.SellerSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.FirstName, &s.LastName, &s.Rating); err != nil {
			return nil, fmt.Errorf("scan top seller: %w", err)
		}
		sellers = append(sellers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top sellers: %w", err)
	}
	return sellers, nil
}

func scanSeller(row pgx.Row, extra ...any) (*domain.SellerProfile, error) {
	var s domain.SellerProfile
	dest := []any{
		&s.ID,
		&s.OwnerUserID,
		&s.Username,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.ConfirmedByAdmin,
		&s.Rating,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSellersWithCount(rows pgx.Rows) ([]domain.SellerProfile, int, error) {
	defer rows.Close()

	var total int
	sellers := make([]domain.SellerProfile, 0)
	for rows.Next() {
		s, err := scanSeller(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan seller: %w", err)
		}
		sellers = append(sellers, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sellers: %w", err)
	}
	return sellers, total, nil
}

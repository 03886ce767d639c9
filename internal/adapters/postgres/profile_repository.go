package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/internal/domain/ports"
)

const paymentProfileColumns = `pp.id, pp.customer_profile_id, pp.payment_profile_id, pp.card_last_four, pp.expiration_date,
	pp.first_name, pp.last_name, pp.company, pp.address, pp.city, pp.state, pp.zip, pp.country, pp.phone, pp.fax,
	pp.created_at`

// ProfileRepository implements ports.ProfileRepository with pgx
type ProfileRepository struct{}

// NewProfileRepository creates a new profile repository
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

// GetCustomerProfileByUserID looks up the customer profile owned by a user
func (r *ProfileRepository) GetCustomerProfileByUserID(ctx context.Context, db ports.DBTX, userID string) (*domain.CustomerProfile, error) {
	var p domain.CustomerProfile
	err := db.QueryRow(ctx,
		`SELECT id, user_id, profile_id, created_at FROM customer_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.ID, &p.UserID, &p.ProfileID, &p.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, domain.ErrCustomerProfileNotFound)
	}
	return &p, nil
}

// CreateCustomerProfile inserts a customer profile
func (r *ProfileRepository) CreateCustomerProfile(ctx context.Context, tx ports.DBTX, profile *domain.CustomerProfile) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO customer_profiles (id, user_id, profile_id, created_at) VALUES ($1, $2, $3, $4)`,
		profile.ID, profile.UserID, profile.ProfileID, profile.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrorCodeDatabaseError, "customer profile already exists", err).
				WithDetail("user_id", profile.UserID)
		}
		return domain.WrapError(domain.ErrorCodeDatabaseError, "insert customer profile", err)
	}
	return nil
}

// CreatePaymentProfile inserts a payment profile
func (r *ProfileRepository) CreatePaymentProfile(ctx context.Context, tx ports.DBTX, p *domain.CustomerPaymentProfile) error {
	_, err := tx.Exec(ctx, `INSERT INTO customer_payment_profiles (
			id, customer_profile_id, payment_profile_id, card_last_four, expiration_date,
			first_name, last_name, company, address, city, state, zip, country, phone, fax, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.CustomerProfileID, p.PaymentProfileID, p.CardLastFour, p.ExpirationDate,
		p.FirstName, p.LastName, p.Company, p.Address, p.City, p.State, p.Zip, p.Country, p.Phone, p.Fax, p.CreatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "insert payment profile", err)
	}
	return nil
}

// GetPaymentProfileForUser retrieves a payment profile scoped to its owner
func (r *ProfileRepository) GetPaymentProfileForUser(ctx context.Context, db ports.DBTX, id uuid.UUID, userID string) (*domain.CustomerPaymentProfile, error) {
	row := db.QueryRow(ctx, `SELECT `+paymentProfileColumns+`
		FROM customer_payment_profiles pp
		JOIN customer_profiles cp ON cp.id = pp.customer_profile_id
		WHERE pp.id = $1 AND cp.user_id = $2`, id, userID)

	p, err := scanPaymentProfile(row)
	if err != nil {
		return nil, notFoundOr(err, domain.ErrPaymentProfileNotFound)
	}
	return p, nil
}

// ListPaymentProfilesForUser lists a user's payment profiles, newest first
func (r *ProfileRepository) ListPaymentProfilesForUser(ctx context.Context, db ports.DBTX, userID string) ([]*domain.CustomerPaymentProfile, error) {
	rows, err := db.Query(ctx, `SELECT `+paymentProfileColumns+`
		FROM customer_payment_profiles pp
		JOIN customer_profiles cp ON cp.id = pp.customer_profile_id
		WHERE cp.user_id = $1
		ORDER BY pp.created_at DESC`, userID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "list payment profiles", err)
	}
	defer rows.Close()

	profiles := make([]*domain.CustomerPaymentProfile, 0)
	for rows.Next() {
		p, err := scanPaymentProfile(rows)
		if err != nil {
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "scan payment profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "iterate payment profiles", err)
	}
	return profiles, nil
}

func scanPaymentProfile(row pgx.Row) (*domain.CustomerPaymentProfile, error) {
	var p domain.CustomerPaymentProfile
	err := row.Scan(
		&p.ID, &p.CustomerProfileID, &p.PaymentProfileID, &p.CardLastFour, &p.ExpirationDate,
		&p.FirstName, &p.LastName, &p.Company, &p.Address, &p.City, &p.State, &p.Zip, &p.Country, &p.Phone, &p.Fax,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

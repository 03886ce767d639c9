package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/internal/domain/ports"
)

const responseColumns = `id, response_code, response_subcode, response_reason_code, response_reason_text,
	auth_code, avs_code, trans_id, invoice_num, description, amount, method, type, cust_id,
	first_name, last_name, company, address, city, state, zip, country, phone, fax, email,
	ship_to_first_name, ship_to_last_name, ship_to_company, ship_to_address,
	ship_to_city, ship_to_state, ship_to_zip, ship_to_country,
	tax, duty, freight, tax_exempt, po_num,
	md5_hash, card_code_response, cavv_response, account_number, card_type, created_at`

// ResponseRepository implements ports.ResponseRepository with pgx
type ResponseRepository struct{}

// NewResponseRepository creates a new response repository
func NewResponseRepository() *ResponseRepository {
	return &ResponseRepository{}
}

var _ ports.ResponseRepository = (*ResponseRepository)(nil)

// Create inserts a response row
func (r *ResponseRepository) Create(ctx context.Context, db ports.DBTX, resp *domain.TransactionResponse) error {
	_, err := db.Exec(ctx, `INSERT INTO transaction_responses (`+responseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42, $43, $44)`,
		resp.ID, resp.ResponseCode, resp.ResponseSubcode, resp.ResponseReasonCode, resp.ResponseReasonText,
		resp.AuthCode, resp.AVSCode, resp.TransID, resp.InvoiceNum, resp.Description, resp.Amount, resp.Method, resp.Type, resp.CustID,
		resp.FirstName, resp.LastName, resp.Company, resp.Address, resp.City, resp.State, resp.Zip, resp.Country, resp.Phone, resp.Fax, resp.Email,
		resp.ShipToFirstName, resp.ShipToLastName, resp.ShipToCompany, resp.ShipToAddress,
		resp.ShipToCity, resp.ShipToState, resp.ShipToZip, resp.ShipToCountry,
		resp.Tax, resp.Duty, resp.Freight, resp.TaxExempt, resp.PONum,
		resp.MD5Hash, resp.CardCodeResponse, resp.CAVVResponse, resp.AccountNumber, resp.CardType, resp.CreatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "insert transaction response", err)
	}
	return nil
}

// GetByID retrieves a response by its ID
func (r *ResponseRepository) GetByID(ctx context.Context, db ports.DBTX, id uuid.UUID) (*domain.TransactionResponse, error) {
	var resp domain.TransactionResponse
	err := db.QueryRow(ctx, `SELECT `+responseColumns+` FROM transaction_responses WHERE id = $1`, id).Scan(
		&resp.ID, &resp.ResponseCode, &resp.ResponseSubcode, &resp.ResponseReasonCode, &resp.ResponseReasonText,
		&resp.AuthCode, &resp.AVSCode, &resp.TransID, &resp.InvoiceNum, &resp.Description, &resp.Amount, &resp.Method, &resp.Type, &resp.CustID,
		&resp.FirstName, &resp.LastName, &resp.Company, &resp.Address, &resp.City, &resp.State, &resp.Zip, &resp.Country, &resp.Phone, &resp.Fax, &resp.Email,
		&resp.ShipToFirstName, &resp.ShipToLastName, &resp.ShipToCompany, &resp.ShipToAddress,
		&resp.ShipToCity, &resp.ShipToState, &resp.ShipToZip, &resp.ShipToCountry,
		&resp.Tax, &resp.Duty, &resp.Freight, &resp.TaxExempt, &resp.PONum,
		&resp.MD5Hash, &resp.CardCodeResponse, &resp.CAVVResponse, &resp.AccountNumber, &resp.CardType, &resp.CreatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, domain.ErrResponseNotFound)
	}
	return &resp, nil
}

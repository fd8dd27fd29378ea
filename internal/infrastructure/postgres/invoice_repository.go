package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Firmador-api/internal/domain"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
	"github.com/jhoicas/Firmador-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Las líneas de detalle se guardan como JSONB en la misma fila: se leen y
// escriben siempre junto con la cabecera y no se consultan por separado.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, date,
		seller_tax_code, seller_name, seller_address, seller_phone, seller_email,
		buyer_tax_code, buyer_name, buyer_address, buyer_phone, buyer_email,
		items, subtotal, vat_rate, vat_amount, total, currency, payment_method,
		notes, xml_path, pdf_path, signature_id, status, created_at`

// Create persiste una factura nueva con su detalle.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err = r.q.Exec(context.Background(), query,
		inv.ID, inv.Number, inv.Date,
		inv.Seller.TaxCode, inv.Seller.Name, inv.Seller.Address, inv.Seller.Phone, inv.Seller.Email,
		inv.Buyer.TaxCode, inv.Buyer.Name, inv.Buyer.Address, inv.Buyer.Phone, inv.Buyer.Email,
		items, inv.Subtotal, inv.VATRate, inv.VATAmount, inv.Total, inv.Currency, inv.PaymentMethod,
		inv.Notes, inv.XMLPath, inv.PDFPath, inv.SignatureID, inv.Status, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID. Devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List lista las facturas, más recientes primero.
func (r *InvoiceRepo) List() ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Count número de facturas emitidas.
func (r *InvoiceRepo) Count() (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM invoices`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var items []byte
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Date,
		&inv.Seller.TaxCode, &inv.Seller.Name, &inv.Seller.Address, &inv.Seller.Phone, &inv.Seller.Email,
		&inv.Buyer.TaxCode, &inv.Buyer.Name, &inv.Buyer.Address, &inv.Buyer.Phone, &inv.Buyer.Email,
		&items, &inv.Subtotal, &inv.VATRate, &inv.VATAmount, &inv.Total, &inv.Currency, &inv.PaymentMethod,
		&inv.Notes, &inv.XMLPath, &inv.PDFPath, &inv.SignatureID, &inv.Status, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	return &inv, nil
}

package repository

import "github.com/jhoicas/Firmador-api/internal/domain/entity"

// InvoiceRepository persistencia de facturas electrónicas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	// GetByID devuelve (nil, nil) si la factura no existe.
	GetByID(id string) (*entity.Invoice, error)
	List() ([]*entity.Invoice, error)
	Count() (int, error)
}

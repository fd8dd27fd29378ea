package billing

import (
	"context"

	"github.com/jhoicas/Firmador-api/internal/domain/entity"
)

// InvoiceXMLBuilder genera el XML de la factura (formato GDT Vietnam).
type InvoiceXMLBuilder interface {
	Build(invoice *entity.Invoice) ([]byte, error)
}

// InvoicePDFGenerator genera la representación gráfica para el cliente.
type InvoicePDFGenerator interface {
	Generate(invoice *entity.Invoice) ([]byte, error)
}

// InvoiceSigner firma digitalmente el XML generado con la identidad del sistema.
type InvoiceSigner interface {
	SignInvoiceXML(ctx context.Context, xmlPath string) (*entity.SignatureRecord, error)
}

// InvoiceStorage escribe los artefactos XML/PDF en la carpeta de facturas.
type InvoiceStorage interface {
	Save(name string, data []byte) (string, error)
	PathFor(name string) string
}

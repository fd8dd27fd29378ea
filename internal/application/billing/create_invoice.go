package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Firmador-api/internal/application/dto"
	"github.com/jhoicas/Firmador-api/internal/domain"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
	"github.com/jhoicas/Firmador-api/internal/domain/repository"
)

// Tasa general de IVA en Vietnam si el caller no especifica otra.
var defaultVATRate = decimal.NewFromFloat(0.10)

// CreateInvoiceUseCase ciclo completo de factura electrónica
// (Decreto 70/2025/ND-CP): totales con aritmética decimal, XML para la
// autoridad tributaria, PDF para el cliente y firma digital del XML con la
// identidad del sistema.
type CreateInvoiceUseCase struct {
	repo   repository.InvoiceRepository
	xml    InvoiceXMLBuilder
	pdf    InvoicePDFGenerator
	signer InvoiceSigner
	store  InvoiceStorage
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	repo repository.InvoiceRepository,
	xml InvoiceXMLBuilder,
	pdf InvoicePDFGenerator,
	signer InvoiceSigner,
	store InvoiceStorage,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{repo: repo, xml: xml, pdf: pdf, signer: signer, store: store}
}

// CreateInvoice crea la factura, genera XML y PDF y firma el XML.
// Si la firma falla, la factura igual se persiste con estado ERROR_SIGN: el
// consecutivo ya fue asignado y los artefactos existen.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	if in.Seller.Name == "" || in.Buyer.Name == "" || len(in.Items) == 0 || in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}

	items := make([]entity.InvoiceItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, it := range in.Items {
		if it.Description == "" || it.Quantity.Sign() <= 0 || it.UnitPrice.Sign() < 0 {
			return nil, domain.ErrInvalidInput
		}
		amount := it.Quantity.Mul(it.UnitPrice)
		items = append(items, entity.InvoiceItem{
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      amount,
		})
		subtotal = subtotal.Add(amount)
	}

	vatRate := in.VATRate
	if vatRate.IsZero() {
		vatRate = defaultVATRate
	}
	vatAmount := subtotal.Mul(vatRate).Round(2)
	total := subtotal.Add(vatAmount)

	currency := in.Currency
	if currency == "" {
		currency = "VND"
	}

	now := time.Now()
	count, err := uc.repo.Count()
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		ID:            uuid.NewString(),
		Number:        fmt.Sprintf("INV-%s-%05d", now.Format("20060102"), count+1),
		Date:          now,
		Seller:        partyFromRequest(in.Seller),
		Buyer:         partyFromRequest(in.Buyer),
		Items:         items,
		Subtotal:      subtotal,
		VATRate:       vatRate,
		VATAmount:     vatAmount,
		Total:         total,
		Currency:      currency,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		Status:        entity.InvoiceStatusGenerated,
		CreatedAt:     now,
	}

	xmlBytes, err := uc.xml.Build(invoice)
	if err != nil {
		return nil, fmt.Errorf("generar XML de factura: %w", err)
	}
	invoice.XMLPath, err = uc.store.Save(invoice.ID+".xml", xmlBytes)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := uc.pdf.Generate(invoice)
	if err != nil {
		return nil, fmt.Errorf("generar PDF de factura: %w", err)
	}
	invoice.PDFPath, err = uc.store.Save(invoice.ID+".pdf", pdfBytes)
	if err != nil {
		return nil, err
	}

	if record, signErr := uc.signer.SignInvoiceXML(ctx, invoice.XMLPath); signErr != nil {
		invoice.Status = entity.InvoiceStatusErrorSign
	} else {
		invoice.Status = entity.InvoiceStatusSigned
		invoice.SignatureID = record.ID
	}

	if err := uc.repo.Create(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetInvoice obtiene una factura por ID.
func (uc *CreateInvoiceUseCase) GetInvoice(_ context.Context, id string) (*entity.Invoice, error) {
	invoice, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

// ListInvoices lista las facturas emitidas.
func (uc *CreateInvoiceUseCase) ListInvoices(_ context.Context) ([]*entity.Invoice, error) {
	return uc.repo.List()
}

// Count número de facturas emitidas (para el tablero de estadísticas).
func (uc *CreateInvoiceUseCase) Count(_ context.Context) (int, error) {
	return uc.repo.Count()
}

func partyFromRequest(p dto.PartyRequest) entity.Party {
	return entity.Party{
		TaxCode: p.TaxCode,
		Name:    p.Name,
		Address: p.Address,
		Phone:   p.Phone,
		Email:   p.Email,
	}
}

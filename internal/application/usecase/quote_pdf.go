package usecase

import (
	"context"
	"fmt"

	"github.com/tiendasol/presupuestos-api/internal/domain"
	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/internal/domain/repository"
)

// QuotePDFGenerator puerto de generación del documento PDF del presupuesto.
// Lo implementa infrastructure/pdf.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, quote *entity.Quote) ([]byte, error)
}

// QuotePDFUseCase genera el PDF imprimible de un presupuesto con sus líneas,
// subtotal, IVA y total.
type QuotePDFUseCase struct {
	quotes    repository.QuoteRepository
	generator QuotePDFGenerator
}

// NewQuotePDFUseCase construye el caso de uso.
func NewQuotePDFUseCase(quotes repository.QuoteRepository, generator QuotePDFGenerator) *QuotePDFUseCase {
	return &QuotePDFUseCase{quotes: quotes, generator: generator}
}

// Download recupera el presupuesto y devuelve los bytes del PDF junto con un
// nombre de archivo sugerido.
func (uc *QuotePDFUseCase) Download(ctx context.Context, quoteID string) (pdf []byte, filename string, err error) {
	q, err := uc.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener presupuesto: %w", err)
	}
	if q == nil {
		return nil, "", domain.ErrNotFound
	}

	pdf, err = uc.generator.GenerateQuotePDF(ctx, q)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}

	filename = fmt.Sprintf("presupuesto-%s-%s.pdf", q.ID, q.CreatedAt.Format("20060102"))
	return pdf, filename, nil
}

// Package printing renders order receipts as HTML and PDF.
package printing

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/preorder"
	"github.com/preorder/backoffice/internal/domain/report"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/preorder/backoffice/internal/infrastructure/logger"
	"github.com/preorder/backoffice/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/receipt.html
var templateFS embed.FS

// DefaultShopName is printed in the receipt header
const DefaultShopName = "Lucky Mooncake"

// ErrRendererDisabled is returned when PDF output is requested but no
// renderer is configured
var ErrRendererDisabled = shared.NewDomainError(shared.CodeUnavailable, "PDF rendering is not enabled")

// PDFRenderer converts a complete HTML document to PDF bytes
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// ReceiptLine is one printed order line
type ReceiptLine struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Receipt holds everything printed on an order receipt
type Receipt struct {
	OrderID         uuid.UUID       `json:"order_id"`
	ShortID         string          `json:"short_id"`
	ShopName        string          `json:"shop_name"`
	RoundName       string          `json:"round_name"`
	CreatedAt       time.Time       `json:"created_at"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address,omitempty"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	Note            string          `json:"note,omitempty"`
	PaymentStatus   string          `json:"payment_status"`
	ShippingStatus  string          `json:"shipping_status"`
	Lines           []ReceiptLine   `json:"lines"`
	Total           decimal.Decimal `json:"total"`
}

// ReceiptService builds receipts for orders
type ReceiptService struct {
	orderRepo   trade.OrderRepository
	roundRepo   preorder.RoundRepository
	productRepo catalog.ProductRepository
	renderer    PDFRenderer
	tmpl        *template.Template
	shopName    string
	location    *time.Location
	logger      *zap.Logger
}

// Option configures a ReceiptService
type Option func(*ReceiptService)

// WithRenderer enables PDF output
func WithRenderer(r PDFRenderer) Option {
	return func(s *ReceiptService) {
		s.renderer = r
	}
}

// WithShopName overrides the header text
func WithShopName(name string) Option {
	return func(s *ReceiptService) {
		if name != "" {
			s.shopName = name
		}
	}
}

// WithLocation sets the time zone dates are printed in
func WithLocation(loc *time.Location) Option {
	return func(s *ReceiptService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewReceiptService creates a new ReceiptService. The embedded template is
// parsed once here and a parse failure panics.
func NewReceiptService(
	orderRepo trade.OrderRepository,
	roundRepo preorder.RoundRepository,
	productRepo catalog.ProductRepository,
	log *zap.Logger,
	opts ...Option,
) *ReceiptService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ReceiptService{
		orderRepo:   orderRepo,
		roundRepo:   roundRepo,
		productRepo: productRepo,
		shopName:    DefaultShopName,
		location:    time.UTC,
		logger:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tmpl = template.Must(template.New("receipt.html").Funcs(s.funcs()).ParseFS(templateFS, "templates/receipt.html"))
	return s
}

// PDFEnabled reports whether a renderer is configured
func (s *ReceiptService) PDFEnabled() bool {
	return s.renderer != nil
}

// ReceiptData loads an order and resolves what the receipt shows
func (s *ReceiptService) ReceiptData(ctx context.Context, orderID uuid.UUID) (*Receipt, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "data", telemetry.SpanAttrOrderID, orderID.String())
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = shared.NewNotFoundError("Order", orderID)
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	roundName, err := s.roundName(ctx, order.RoundID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	names := report.ProductNames{}
	if ids := report.ReferencedProducts([]trade.Order{*order}); len(ids) > 0 {
		products, err := s.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		names = report.NamesOf(products)
	}

	receipt := &Receipt{
		OrderID:         order.ID,
		ShortID:         shortID(order.ID),
		ShopName:        s.shopName,
		RoundName:       roundName,
		CreatedAt:       order.CreatedAt,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		DeliveryDate:    order.DeliveryDate,
		Note:            order.Note,
		PaymentStatus:   string(order.PaymentStatus),
		ShippingStatus:  string(order.ShippingStatus),
		Lines:           make([]ReceiptLine, len(order.Items)),
		Total:           order.TotalAmount,
	}
	for i, item := range order.Items {
		_, name := names.Resolve(item.ProductID)
		receipt.Lines[i] = ReceiptLine{
			ProductName: name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			LineTotal:   item.LineTotal(),
		}
	}
	return receipt, nil
}

// RenderReceiptHTML renders the receipt page for an order
func (s *ReceiptService) RenderReceiptHTML(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	receipt, err := s.ReceiptData(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.render(receipt)
}

// RenderReceiptPDF renders the receipt page and prints it to PDF
func (s *ReceiptService) RenderReceiptPDF(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrRendererDisabled
	}

	html, err := s.RenderReceiptHTML(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "pdf", telemetry.SpanAttrOrderID, orderID.String())
	defer span.End()

	start := time.Now()
	pdf, err := s.renderer.RenderPDF(ctx, string(html))
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Ctx(ctx, s.logger).Error("Failed to render receipt PDF",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}

	logger.Ctx(ctx, s.logger).Info("Receipt PDF rendered",
		zap.String("order_id", orderID.String()),
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}

func (s *ReceiptService) render(receipt *Receipt) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, receipt); err != nil {
		return nil, fmt.Errorf("execute receipt template: %w", err)
	}
	return buf.Bytes(), nil
}

// roundName returns an empty name when the round no longer exists
func (s *ReceiptService) roundName(ctx context.Context, roundID uuid.UUID) (string, error) {
	round, err := s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return round.Name, nil
}

func (s *ReceiptService) funcs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			return t.In(s.location).Format("02 Jan 2006 15:04")
		},
		"day": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(s.location).Format("02 Jan 2006")
		},
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
	}
}

func shortID(id uuid.UUID) string {
	return strings.ToUpper(shared.ShortID(id))
}

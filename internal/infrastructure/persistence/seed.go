package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/inventory"
	"github.com/preorder/backoffice/internal/domain/preorder"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/preorder/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedResult reports what Seed inserted
type SeedResult struct {
	RoundID      uuid.UUID
	ProductIDs   []uuid.UUID
	StockEntries int
	OrderIDs     []uuid.UUID
}

type seedProduct struct {
	name, description string
	price             int64
	initialStock      int
	stockNote         string
}

var seedProducts = []seedProduct{
	{"ขนมไหว้พระจันทร์ไส้ทุเรียนไข่คู่", "สูตรดั้งเดิม แป้งบาง ไส้เนียน หอมทุเรียนหมอนทอง", 159, 100, "นำเข้าล็อตแรก"},
	{"ขนมไหว้พระจันทร์ไส้โหงวยิ้ง", "ธัญพืช 5 ชนิด กรุบกรอบ หอมน้ำมันงา", 139, 50, "นำเข้าล็อตแรก"},
	{"ขนมเปี๊ยะลาวาไข่เค็ม (กล่อง 4 ชิ้น)", "ขนมเปี๊ยะแป้งนุ่ม ไส้ลาวาไข่เค็มเยิ้มๆ ทานคู่กับชา", 250, 200, "เปี๊ยะลาวาพร้อมส่ง"},
}

type seedLine struct {
	product  int
	quantity int
}

type seedOrder struct {
	customer trade.Customer
	payment  trade.PaymentStatus
	shipping trade.ShippingStatus
	lines    []seedLine
}

var seedOrders = []seedOrder{
	{
		customer: trade.Customer{Name: "คุณสมหญิง ใจดี", Phone: "081-234-5678", Address: "123 หมู่บ้านสุขสันต์ ถนนลาดพร้าว กทม. 10230"},
		payment:  trade.PaymentStatusPaid,
		shipping: trade.ShippingStatusWaiting,
		lines:    []seedLine{{0, 2}, {1, 1}},
	},
	{
		customer: trade.Customer{Name: "ทดสอบ รอจ่าย", Phone: "099-999-9999"},
		payment:  trade.PaymentStatusUnpaid,
		shipping: trade.ShippingStatusWaiting,
		lines:    []seedLine{{2, 5}},
	},
	{
		customer: trade.Customer{Name: "พี่แจ็ค คนจริง", Phone: "088-777-6666", Address: "คอนโดหรู ใจกลางเมือง สีลม"},
		payment:  trade.PaymentStatusPaid,
		shipping: trade.ShippingStatusReady,
		lines:    []seedLine{{0, 4}},
	},
}

// Seed wipes rounds, products, orders and stock entries, then inserts one
// active round with sample products, opening stock and orders. Expenses are
// left alone. Everything runs in one transaction.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) (*SeedResult, error) {
	result := &SeedResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := wipe(tx); err != nil {
			return err
		}

		round, err := preorder.NewRound(preorder.RoundWindow{
			Name:         fmt.Sprintf("รอบไหว้พระจันทร์ ฮั่วเซ่งฮง %d", now.Year()),
			StartDate:    now,
			EndDate:      now.AddDate(0, 0, 10),
			DeliveryDate: now.AddDate(0, 0, 15),
		}, true)
		if err != nil {
			return err
		}
		if err := NewGormRoundRepository(tx).Save(ctx, round); err != nil {
			return err
		}
		result.RoundID = round.ID

		products := NewGormProductRepository(tx)
		var entries []*inventory.StockEntry
		seeded := make([]*catalog.Product, len(seedProducts))
		for i, sp := range seedProducts {
			p, err := catalog.NewProduct(catalog.ProductDetails{
				Name:        sp.name,
				Description: sp.description,
				Price:       decimal.NewFromInt(sp.price),
			})
			if err != nil {
				return err
			}
			if err := products.Save(ctx, p); err != nil {
				return err
			}
			seeded[i] = p
			result.ProductIDs = append(result.ProductIDs, p.ID)

			entry, err := inventory.NewStockEntry(p.ID, sp.initialStock, inventory.DirectionIn, sp.stockNote)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		if err := NewGormStockEntryRepository(tx).Append(ctx, entries...); err != nil {
			return err
		}
		result.StockEntries = len(entries)

		orders := NewGormOrderRepository(tx)
		for _, so := range seedOrders {
			lines := make([]trade.LineInput, len(so.lines))
			for i, l := range so.lines {
				p := seeded[l.product]
				lines[i] = trade.LineInput{ProductID: &p.ID, Quantity: l.quantity, Price: p.Price}
			}
			order, err := trade.NewOrder(round.ID, trade.OrderDetails{
				Customer:       so.customer,
				PaymentStatus:  so.payment,
				ShippingStatus: so.shipping,
			}, lines)
			if err != nil {
				return err
			}
			if err := orders.Save(ctx, order); err != nil {
				return err
			}
			result.OrderIDs = append(result.OrderIDs, order.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return result, nil
}

func wipe(tx *gorm.DB) error {
	for _, m := range []any{
		&models.OrderItemModel{},
		&models.OrderModel{},
		&models.StockEntryModel{},
		&models.RoundModel{},
		&models.ProductModel{},
	} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("wipe %T: %w", m, err)
		}
	}
	return nil
}

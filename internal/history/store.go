// Package history keeps a per-session projection of placed orders so a
// guest can revisit them. The upstream API owns the orders; this table
// only mirrors what the gateway has seen.
package history

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tably-system/internal/session"
)

type OrderRecord struct {
	ID          string `gorm:"primaryKey"`
	SessionID   string `gorm:"index;not null"`
	OrderNumber string `gorm:"not null"`
	Status      string `gorm:"not null"`
	TotalAmount string `gorm:"type:varchar(32);not null"`
	OrderType   string `gorm:"not null"`
	PlacedAt    time.Time
	UpdatedAt   time.Time
}

func NewConnection(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		log.Fatal("DSN is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

func MigrateHistoryDB(db *gorm.DB) error {
	return db.AutoMigrate(&OrderRecord{})
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) RecordOrder(ctx context.Context, sessionID string, order session.Order) error {
	record := recordFromOrder(sessionID, order)
	return s.db.WithContext(ctx).Save(&record).Error
}

func (s *Store) UpdateStatus(ctx context.Context, orderID string, status session.OrderStatus, totalAmount float64, updatedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&OrderRecord{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"status":       string(status),
		"total_amount": decimal.NewFromFloat(totalAmount).StringFixed(2),
		"updated_at":   updatedAt,
	}).Error
}

func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]session.Order, error) {
	var records []OrderRecord
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("placed_at desc").
		Find(&records).Error; err != nil {
		return nil, err
	}

	orders := make([]session.Order, len(records))
	for i, record := range records {
		orders[i] = orderFromRecord(record)
	}
	return orders, nil
}

func recordFromOrder(sessionID string, order session.Order) OrderRecord {
	return OrderRecord{
		ID:          order.ID,
		SessionID:   sessionID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		TotalAmount: decimal.NewFromFloat(order.TotalAmount).StringFixed(2),
		OrderType:   string(order.OrderType),
		PlacedAt:    order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func orderFromRecord(record OrderRecord) session.Order {
	total, _ := decimal.NewFromString(record.TotalAmount)
	amount, _ := total.Float64()
	return session.Order{
		ID:          record.ID,
		OrderNumber: record.OrderNumber,
		Status:      session.OrderStatus(record.Status),
		TotalAmount: amount,
		OrderType:   session.OrderType(record.OrderType),
		CreatedAt:   record.PlacedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

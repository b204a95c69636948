// Package store persists closed trades to PostgreSQL.
package store

import (
	"time"

	"github.com/yanun0323/errors"

	"main/internal/broker"
	"main/pkg/conn"
)

// TradeRecord is one fill row.
type TradeRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   string    `gorm:"size:64;index"`
	Pair      string    `gorm:"size:32;index"`
	Side      string    `gorm:"size:8"`
	Price     float64   `gorm:"not null"`
	Qty       float64   `gorm:"not null"`
	Fee       float64   `gorm:"not null"`
	Partial   bool      `gorm:"not null"`
	Reason    string    `gorm:"size:64"`
	FilledAt  time.Time `gorm:"index"`
	CreatedAt time.Time
}

// TableName fixes the table name regardless of gorm pluralization settings.
func (TradeRecord) TableName() string {
	return "trade_records"
}

// Store writes fills through a shared PostgreSQL client.
type Store struct {
	client *conn.Client
}

// New connects and migrates the trade table.
func New(option conn.Option) (*Store, error) {
	client, err := conn.New(option)
	if err != nil {
		return nil, errors.Wrap(err, "connect trade store")
	}

	if err := client.DB().AutoMigrate(&TradeRecord{}); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "migrate trade store")
	}

	return &Store{client: client}, nil
}

// RecordFill persists one fill. reason is empty for entries and carries the
// exit reason otherwise.
func (s *Store) RecordFill(pair, side, reason string, fill broker.Fill) error {
	if s == nil {
		return nil
	}

	record := TradeRecord{
		OrderID:  fill.OrderID,
		Pair:     pair,
		Side:     side,
		Price:    fill.Price,
		Qty:      fill.Qty,
		Fee:      fill.Fee,
		Partial:  fill.Partial,
		Reason:   reason,
		FilledAt: fill.Ts,
	}
	if err := s.client.DB().Create(&record).Error; err != nil {
		return errors.Wrap(err, "record fill").With("order_id", fill.OrderID)
	}

	return nil
}

// FillsBetween returns fills in [from, to), oldest first.
func (s *Store) FillsBetween(from, to time.Time) ([]TradeRecord, error) {
	if s == nil {
		return nil, nil
	}

	var records []TradeRecord
	err := s.client.DB().
		Where("filled_at >= ? AND filled_at < ?", from, to).
		Order("filled_at asc").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "query fills")
	}

	return records, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}

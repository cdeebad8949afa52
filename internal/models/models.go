// Package models defines the core data types for the price alert tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType identifies which price provider serves an asset.
type AssetType string

const (
	AssetCrypto AssetType = "crypto"
	AssetStock  AssetType = "stock"
)

// Currency is the quote currency of a price observation.
type Currency string

const (
	USD Currency = "USD"
	BRL Currency = "BRL"
)

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case BRL:
		return "R$"
	default:
		return "$"
	}
}

// Asset is a tracked instrument with its alert threshold.
// Assets are loaded once from configuration and never mutated.
type Asset struct {
	Symbol     string          `mapstructure:"symbol" json:"symbol"`
	Name       string          `mapstructure:"name" json:"name"`
	Type       AssetType       `mapstructure:"type" json:"type"`
	AlertPrice decimal.Decimal `mapstructure:"alert_price" json:"alert_price"`
	BuyDate    string          `mapstructure:"buy_date" json:"buy_date"`
	BuyPrice   decimal.Decimal `mapstructure:"buy_price" json:"buy_price"`
}

// Quote is a single price observation for an asset. A zero amount is the
// sentinel for "price unavailable"; it must never reach the evaluator.
type Quote struct {
	Amount   decimal.Decimal
	Currency Currency
}

// Unavailable reports whether the quote carries no usable price.
func (q Quote) Unavailable() bool {
	return !q.Amount.IsPositive()
}

// AlertRecord is a fired alert as persisted in the alert log.
type AlertRecord struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Type         AssetType       `json:"type"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Currency     Currency        `json:"currency"`
	AlertPrice   decimal.Decimal `json:"alert_price"`
	Timestamp    string          `json:"timestamp"`
	BuyDate      string          `json:"buy_date"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
}

// NewAlertRecord builds the log record for a triggered asset.
func NewAlertRecord(asset Asset, quote Quote, at time.Time) AlertRecord {
	return AlertRecord{
		Symbol:       asset.Symbol,
		Name:         asset.Name,
		Type:         asset.Type,
		CurrentPrice: quote.Amount,
		Currency:     quote.Currency,
		AlertPrice:   asset.AlertPrice,
		Timestamp:    at.Format(time.RFC3339),
		BuyDate:      asset.BuyDate,
		BuyPrice:     asset.BuyPrice,
	}
}

// Day returns the calendar-day portion of the record timestamp.
func (r AlertRecord) Day() string {
	if len(r.Timestamp) >= 10 {
		return r.Timestamp[:10]
	}
	return r.Timestamp
}

// DedupKey is the (symbol, calendar day) pair used to suppress repeated
// log entries for the same trigger.
func (r AlertRecord) DedupKey() string {
	return r.Symbol + "@" + r.Day()
}

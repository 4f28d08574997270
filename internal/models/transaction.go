package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a recorded payment. Rows are written once and never updated.
type Transaction struct {
	ID        int64           `db:"id" json:"id"`
	Sender    string          `db:"sender" json:"sender"`
	Receiver  string          `db:"receiver" json:"receiver"`
	Account   string          `db:"account" json:"account"`
	Amount    decimal.Decimal `db:"amt" json:"amt"`
	TxDate    *time.Time      `db:"tx_date" json:"tx_date"`
	TxID      string          `db:"txid" json:"txId"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Attribute returns the display value of a named transaction attribute, or "" when
// the name is unknown or the value is absent.
func (t *Transaction) Attribute(name string) string {
	switch name {
	case "txId":
		return t.TxID
	case "sender":
		return t.Sender
	case "receiver":
		return t.Receiver
	case "account":
		return t.Account
	default:
		return ""
	}
}

package event_bus

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionCreated  EventType = "transaction.created"
	TransactionReplaced EventType = "transaction.replaced"
	TransactionDeleted  EventType = "transaction.deleted"
	BudgetCreated       EventType = "budget.created"
	BudgetDeleted       EventType = "budget.deleted"
	SettingsUpdated     EventType = "settings.updated"
)

var AllEventTypes = []EventType{
	TransactionCreated,
	TransactionReplaced,
	TransactionDeleted,
	BudgetCreated,
	BudgetDeleted,
	SettingsUpdated,
}

type TransactionChanged struct {
	Id       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
}

type BudgetChanged struct {
	Id            int     `json:"id"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	PlannedAmount float64 `json:"plannedAmount"`
}

type SettingsChanged struct {
	DisplayName      string `json:"displayName"`
	Currency         string `json:"currency"`
	PreviousCurrency string `json:"previousCurrency,omitempty"`
	Language         string `json:"language"`
}

package investment

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type PositionDTO struct {
	TransactionId string   `json:"transactionId"`
	Symbol        string   `json:"symbol,omitempty"`
	Category      string   `json:"category"`
	Quantity      float64  `json:"quantity"`
	PurchasePrice float64  `json:"purchasePrice"`
	CurrentPrice  float64  `json:"currentPrice"`
	Invested      float64  `json:"invested"`
	CurrentValue  float64  `json:"currentValue"`
	Gain          float64  `json:"gain"`
	GainPercent   float64  `json:"gainPercent"`
	Change24h     *float64 `json:"change24h,omitempty"`
	NoData        bool     `json:"noData"`
	Priced        bool     `json:"priced"`
}

type PortfolioDTO struct {
	Currency         string        `json:"currency"`
	Positions        []PositionDTO `json:"positions"`
	TotalInvested    float64       `json:"totalInvested"`
	TotalCurrent     float64       `json:"totalCurrent"`
	TotalGain        float64       `json:"totalGain"`
	TotalGainPercent float64       `json:"totalGainPercent"`
	Degraded         bool          `json:"degraded"`
}

// CurrencyProvider returns the currency configured by the user.
type CurrencyProvider func() string

type Handler struct {
	service  *Service
	currency CurrencyProvider
}

func NewHandler(service *Service, currency CurrencyProvider) *Handler {
	return &Handler{service: service, currency: currency}
}

func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = h.currency()
	}

	report, err := h.service.Portfolio(r.Context(), currency)
	if err != nil {
		log.Errorf("could not load investments: %v", err)
		http.Error(w, "could not load investments", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ReportToDTO(report)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func ReportToDTO(report Report) PortfolioDTO {
	p := report.Portfolio
	dto := PortfolioDTO{
		Currency:         report.Currency,
		Positions:        make([]PositionDTO, 0, len(p.Positions)),
		TotalInvested:    p.TotalInvested,
		TotalCurrent:     p.TotalCurrent,
		TotalGain:        p.TotalGain,
		TotalGainPercent: p.TotalGainPercent,
		Degraded:         p.Degraded,
	}
	for _, position := range p.Positions {
		positionDTO := PositionDTO{
			TransactionId: position.TransactionId.String(),
			Symbol:        position.Symbol,
			Category:      position.Category,
			Quantity:      position.Quantity,
			PurchasePrice: position.PurchasePrice,
			CurrentPrice:  position.CurrentPrice,
			Invested:      position.Invested,
			CurrentValue:  position.CurrentValue,
			Gain:          position.Gain,
			GainPercent:   position.GainPercent,
			NoData:        position.NoData,
			Priced:        position.Priced,
		}
		if change, ok := report.Change24h[position.Symbol]; ok && position.Priced {
			positionDTO.Change24h = &change
		}
		dto.Positions = append(dto.Positions, positionDTO)
	}
	return dto
}

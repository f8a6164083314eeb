package stats

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbook/pocketbook/internal/rest"
	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/period"
	log "github.com/sirupsen/logrus"
)

type ShareDTO struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type TypeStatsDTO struct {
	Type      string     `json:"type"`
	Total     float64    `json:"total"`
	Count     int        `json:"count"`
	Breakdown []ShareDTO `json:"breakdown"`
}

type StatsSummaryDTO struct {
	Period    string                 `json:"period"`
	StartDate *time.Time             `json:"startDate,omitempty"`
	EndDate   *time.Time             `json:"endDate,omitempty"`
	Types     []TypeStatsDTO         `json:"types"`
	Balance   float64                `json:"balance"`
	Budgets   []budget.EvaluationDTO `json:"budgets"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
	clock            utils.Clock
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer, clock utils.Clock) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer, clock}
}

// GetStats godoc
// @Summary Dashboard summary
// @Description Totals, category breakdowns and balance for a period plus current month budget statuses
// @Tags Stats
// @Produce json
// @Produce text/csv
// @Param mode query string false "all, day, week, month or year"
// @Param year query int false "Year for month and year modes"
// @Param month query int false "Month for month mode"
// @Success 200 {object} StatsSummaryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid period"
// @Router /api/stats/summary [get]
func (handler *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	handler.render(w, r, r.Header.Get("Accept") == "text/csv")
}

// GetStatsCsv renders the same summary as GetStats in CSV form.
func (handler *StatsHandler) GetStatsCsv(w http.ResponseWriter, r *http.Request) {
	handler.render(w, r, true)
}

func (handler *StatsHandler) render(w http.ResponseWriter, r *http.Request, asCsv bool) {
	query := r.URL.Query()
	var selector *period.Selector
	if mode := strings.ToLower(query.Get("mode")); mode != "" && mode != "all" {
		parsed, err := period.ParseSelector(mode, query.Get("year"), query.Get("month"), handler.clock.Now())
		if err != nil {
			rest.WriteErrorDetails(w, http.StatusBadRequest, "Invalid period", err.Error())
			return
		}
		selector = &parsed
	}

	stats, err := handler.statsService.GetStats(r.Context(), selector)
	if err != nil {
		log.Errorf("could not load stats: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "could not load stats")
		return
	}

	if asCsv {
		csv, err := handler.csvStatsRenderer.RenderStats(stats)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(convertToJsonResponse(stats)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func convertToJsonResponse(stats StatsSummary) StatsSummaryDTO {
	dto := StatsSummaryDTO{
		Period:  stats.Period,
		Types:   make([]TypeStatsDTO, 0, len(stats.Types)),
		Balance: stats.Balance,
		Budgets: make([]budget.EvaluationDTO, 0, len(stats.Budgets)),
	}
	if !stats.StartDate.IsZero() {
		dto.StartDate = &stats.StartDate
		dto.EndDate = &stats.EndDate
	}
	for _, typeStats := range stats.Types {
		shares := make([]ShareDTO, 0, len(typeStats.Breakdown))
		for _, share := range typeStats.Breakdown {
			shares = append(shares, ShareDTO(share))
		}
		dto.Types = append(dto.Types, TypeStatsDTO{
			Type:      string(typeStats.Type),
			Total:     typeStats.Total,
			Count:     typeStats.Count,
			Breakdown: shares,
		})
	}
	for _, evaluation := range stats.Budgets {
		dto.Budgets = append(dto.Budgets, budget.EvaluationToDTO(evaluation))
	}
	return dto
}

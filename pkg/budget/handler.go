package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	Id            int     `json:"id"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	PlannedAmount float64 `json:"plannedAmount"`
	// Active defaults to true when omitted.
	Active *bool `json:"active,omitempty"`
}

type StatusDTO struct {
	Budget           BudgetDTO `json:"budget"`
	Actual           float64   `json:"actual"`
	PercentageRaw    float64   `json:"percentageRaw"`
	PercentageCapped float64   `json:"percentageCapped"`
	Difference       float64   `json:"difference"`
	ExceededBy       float64   `json:"exceededBy"`
	State            string    `json:"state"`
	Color            string    `json:"color"`
	Message          string    `json:"message"`
	MessageAmount    float64   `json:"messageAmount"`
	Completed        bool      `json:"completed"`
}

type EvaluationDTO struct {
	Type            string      `json:"type"`
	Statuses        []StatusDTO `json:"statuses"`
	TotalPlanned    float64     `json:"totalPlanned"`
	TotalActual     float64     `json:"totalActual"`
	TotalPercentage float64     `json:"totalPercentage"`
	State           string      `json:"state"`
	Color           string      `json:"color"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	budgets, err := h.service.List(r.Context())
	if err != nil {
		log.Errorf("could not load budgets: %v", err)
		http.Error(w, "could not load budgets", http.StatusInternalServerError)
		return
	}

	budgetsDTO := make([]BudgetDTO, 0, len(budgets))
	for _, b := range budgets {
		budgetsDTO = append(budgetsDTO, ToDTO(b))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(budgetsDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Create godoc
// @Summary Create a budget
// @Description Create a monthly budget for a category. Only one active budget per category and type is allowed.
// @Tags Budget
// @Accept json
// @Produce json
// @Param budget body BudgetDTO true "Budget"
// @Success 201 {object} BudgetDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 409 {string} string "Duplicate category"
// @Router /api/budget [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new budget")
	w.Header().Set("Content-Type", "application/json")

	var budgetDTO BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&budgetDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), FromDTO(budgetDTO))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	budgetId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var budgetDTO BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&budgetDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if budgetDTO.Id != 0 && budgetDTO.Id != budgetId {
		http.Error(w, "Invalid budget id in request body", http.StatusBadRequest)
		return
	}
	budgetDTO.Id = budgetId

	updated, err := h.service.Update(r.Context(), FromDTO(budgetDTO))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	budgetId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), budgetId); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status godoc
// @Summary Budget status for the current month
// @Tags Budget
// @Produce json
// @Param type query string false "expense (default) or income"
// @Success 200 {object} EvaluationDTO
// @Failure 500 {string} string "could not load"
// @Router /api/budget/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	txType := transaction.Expense
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := transaction.ParseType(raw)
		if err != nil || (parsed != transaction.Expense && parsed != transaction.Income) {
			http.Error(w, "type must be expense or income", http.StatusBadRequest)
			return
		}
		txType = parsed
	}

	evaluation, err := h.service.Status(r.Context(), txType)
	if err != nil {
		log.Errorf("could not load budget status: %v", err)
		http.Error(w, "could not load budget status", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(EvaluationToDTO(evaluation)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidBudget):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrDuplicateCategory):
		http.Error(w, "A budget for this category already exists", http.StatusConflict)
	case errors.Is(err, ErrBudgetNotFound):
		http.Error(w, "Budget not found", http.StatusNotFound)
	default:
		log.Error(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ToDTO(b Budget) BudgetDTO {
	active := b.Active
	return BudgetDTO{
		Id:            b.Id,
		Type:          string(b.Type),
		Category:      b.Category,
		PlannedAmount: b.PlannedAmount,
		Active:        &active,
	}
}

func FromDTO(dto BudgetDTO) Budget {
	active := true
	if dto.Active != nil {
		active = *dto.Active
	}
	return Budget{
		Id:            dto.Id,
		Type:          transaction.Type(strings.ToLower(strings.TrimSpace(dto.Type))),
		Category:      dto.Category,
		PlannedAmount: dto.PlannedAmount,
		Active:        active,
	}
}

func EvaluationToDTO(e Evaluation) EvaluationDTO {
	dto := EvaluationDTO{
		Type:            string(e.Type),
		Statuses:        make([]StatusDTO, 0, len(e.Statuses)),
		TotalPlanned:    e.TotalPlanned,
		TotalActual:     e.TotalActual,
		TotalPercentage: e.TotalPercentage,
		State:           string(e.State),
		Color:           string(e.Color),
	}
	for _, s := range e.Statuses {
		dto.Statuses = append(dto.Statuses, StatusDTO{
			Budget:           ToDTO(s.Budget),
			Actual:           s.Actual,
			PercentageRaw:    s.PercentageRaw,
			PercentageCapped: s.PercentageCapped,
			Difference:       s.Difference,
			ExceededBy:       s.ExceededBy,
			State:            string(s.State),
			Color:            string(s.Color),
			Message:          string(s.Message.Kind),
			MessageAmount:    s.Message.Amount,
			Completed:        s.Message.Completed(),
		})
	}
	return dto
}

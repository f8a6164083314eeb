package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/period"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	Id       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Category string `json:"category"`
	// Amount is optional on input and read as 0 when absent.
	Amount        *float64 `json:"amount"`
	Description   string   `json:"description,omitempty"`
	Date          string   `json:"date"`
	AssetSymbol   string   `json:"assetSymbol,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty"`
	PurchasePrice *float64 `json:"purchasePrice,omitempty"`
}

type ListDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	Total        float64          `json:"total"`
	Count        int              `json:"count"`
	Period       string           `json:"period"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

// List godoc
// @Summary List transactions
// @Description Transactions of one type (or all types) within a period, newest first, with their total
// @Tags Transaction
// @Produce json
// @Param type query string false "expense, income, saving or investment"
// @Param mode query string false "all, day, week, month or year"
// @Param year query int false "Year for month and year modes"
// @Param month query int false "Month for month mode"
// @Success 200 {object} ListDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/transaction [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing transactions")
	w.Header().Set("Content-Type", "application/json")
	query := r.URL.Query()

	txType, err := parseOptionalType(query.Get("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var result period.Result[Transaction]
	periodName := "all"
	mode := strings.ToLower(query.Get("mode"))
	if mode == "" || mode == "all" {
		result, err = h.service.ListAll(r.Context(), txType)
	} else {
		selector, parseErr := period.ParseSelector(mode, query.Get("year"), query.Get("month"), h.clock.Now())
		if parseErr != nil {
			http.Error(w, parseErr.Error(), http.StatusBadRequest)
			return
		}
		periodName = selector.String()
		result, err = h.service.ListForPeriod(r.Context(), txType, selector)
	}
	if err != nil {
		log.Errorf("could not load transactions: %v", err)
		http.Error(w, "could not load transactions", http.StatusInternalServerError)
		return
	}

	dto := ListDTO{
		Transactions: make([]TransactionDTO, 0, len(result.Records)),
		Total:        result.Total,
		Count:        result.Count,
		Period:       periodName,
	}
	for _, t := range result.Records {
		dto.Transactions = append(dto.Transactions, ToDTO(t))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Create godoc
// @Summary Log a transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transaction body TransactionDTO true "Transaction"
// @Success 201 {object} TransactionDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/transaction [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating transaction")
	w.Header().Set("Content-Type", "application/json")
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	transaction, err := FromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	transaction.Id = uuid.Nil

	created, err := h.service.Create(r.Context(), transaction)
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

// Replace godoc
// @Summary Replace a transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param transaction body TransactionDTO true "Transaction"
// @Success 200 {object} TransactionDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Not Found"
// @Router /api/transaction/{id} [put]
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id != "" && dto.Id != id.String() {
		http.Error(w, "Invalid transaction id in request body", http.StatusBadRequest)
		return
	}
	transaction, err := FromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	transaction.Id = id

	replaced, err := h.service.Replace(r.Context(), transaction)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToDTO(replaced)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Delete godoc
// @Summary Delete a transaction
// @Tags Transaction
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {string} string "Not Found"
// @Router /api/transaction/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories godoc
// @Summary Category options for a transaction type
// @Tags Transaction
// @Produce json
// @Param type query string true "Transaction type"
// @Success 200 {array} string
// @Router /api/category [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	txType, err := ParseType(r.URL.Query().Get("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	options, err := h.service.CategoryOptions(r.Context(), txType)
	if err != nil {
		log.Errorf("could not load categories: %v", err)
		http.Error(w, "could not load categories", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(options); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidTransaction):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTransactionNotFound):
		http.Error(w, "Transaction not found", http.StatusNotFound)
	default:
		log.Error(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseOptionalType(s string) (Type, error) {
	if s == "" {
		return "", nil
	}
	return ParseType(s)
}

func ToDTO(t Transaction) TransactionDTO {
	amount := t.Amount
	dto := TransactionDTO{
		Id:            t.Id.String(),
		Type:          string(t.Type),
		Category:      t.Category,
		Amount:        &amount,
		Description:   t.Description,
		AssetSymbol:   t.AssetSymbol,
		Quantity:      t.Quantity,
		PurchasePrice: t.PurchasePrice,
	}
	if t.HasDate() {
		dto.Date = t.Date.Format(DateLayout)
	}
	return dto
}

func FromDTO(dto TransactionDTO) (Transaction, error) {
	txType, err := ParseType(dto.Type)
	if err != nil {
		return Transaction{}, err
	}
	date, err := ParseDate(dto.Date)
	if err != nil {
		return Transaction{}, errors.Join(ErrInvalidTransaction, err)
	}
	t := Transaction{
		Type:          txType,
		Category:      dto.Category,
		Description:   dto.Description,
		Date:          date,
		AssetSymbol:   strings.ToUpper(strings.TrimSpace(dto.AssetSymbol)),
		Quantity:      dto.Quantity,
		PurchasePrice: dto.PurchasePrice,
	}
	if dto.Amount != nil {
		t.Amount = *dto.Amount
	}
	if dto.Id != "" {
		id, err := uuid.Parse(dto.Id)
		if err != nil {
			return Transaction{}, errors.Join(ErrInvalidTransaction, err)
		}
		t.Id = id
	}
	return t, nil
}

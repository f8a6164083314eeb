package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pocketbook/pocketbook/internal/rest"
	"github.com/pocketbook/pocketbook/pkg/currency"
	log "github.com/sirupsen/logrus"
)

type SettingsDTO struct {
	DisplayName string `json:"displayName"`
	Currency    string `json:"currency"`
	Language    string `json:"language"`
	Symbol      string `json:"symbol,omitempty"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get godoc
// @Summary Current settings
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsDTO
// @Router /api/settings [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	current, err := h.service.Get(r.Context())
	if err != nil {
		log.Errorf("could not load settings: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "could not load settings")
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(current)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Update godoc
// @Summary Update settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param settings body SettingsDTO true "Settings"
// @Success 200 {object} SettingsDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/settings [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating settings")
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	updated, err := h.service.Update(r.Context(), Settings{
		DisplayName: dto.DisplayName,
		Currency:    dto.Currency,
		Language:    dto.Language,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			rest.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Errorf("could not update settings: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "could not update settings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(s Settings) SettingsDTO {
	dto := SettingsDTO{DisplayName: s.DisplayName, Currency: s.Currency, Language: s.Language}
	if f, err := currency.NewFormatter(s.Currency, s.Language); err == nil {
		dto.Symbol = f.Symbol()
	}
	return dto
}

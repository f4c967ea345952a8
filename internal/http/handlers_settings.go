package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dhaba/internal/core"
	"dhaba/internal/services"
)

type updateSettingsRequest struct {
	PricePerPlate   *string           `json:"pricePerPlate"`
	TaxRate         *float64          `json:"taxRate"`
	DeliveryCharge  *string           `json:"deliveryCharge"`
	BusinessName    *string           `json:"businessName"`
	BusinessPhone   *string           `json:"businessPhone"`
	BusinessAddress *string           `json:"businessAddress"`
	Currency        *string           `json:"currency"`
	WorkingHours    *workingHoursView `json:"workingHours"`
}

// GET /api/settings, PUT /api/settings
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.settings.Get(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get settings")
			return
		}
		writeJSON(w, http.StatusOK, toSettingsView(settings))

	case http.MethodPut:
		s.updateSettings(w, r)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	patch := services.SettingsPatch{
		TaxRate:         req.TaxRate,
		BusinessName:    req.BusinessName,
		BusinessPhone:   req.BusinessPhone,
		BusinessAddress: req.BusinessAddress,
		Currency:        req.Currency,
	}

	if req.PricePerPlate != nil {
		cents, err := core.ParseDecimalToCents(*req.PricePerPlate)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid price per plate %q", *req.PricePerPlate))
			return
		}
		patch.PricePerPlate = &core.Money{Cents: cents}
	}
	if req.DeliveryCharge != nil {
		cents, err := core.ParseDecimalToCents(*req.DeliveryCharge)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid delivery charge %q", *req.DeliveryCharge))
			return
		}
		patch.DeliveryCharge = &core.Money{Cents: cents}
	}
	if req.WorkingHours != nil {
		for _, hours := range []string{req.WorkingHours.Open, req.WorkingHours.Close} {
			if _, err := time.Parse("15:04", hours); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid working hours %q, expected HH:MM", hours))
				return
			}
		}
		patch.WorkingHours = &core.WorkingHours{
			Open:  req.WorkingHours.Open,
			Close: req.WorkingHours.Close,
		}
	}

	settings, err := s.settings.Update(r.Context(), patch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsView(settings))
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dhaba/internal/core"
)

// SettingsService manages the singleton business configuration. Defaults
// come in through the constructor rather than a package-level global, so
// the boundary that owns configuration is explicit.
type SettingsService struct {
	store    SettingsStore
	defaults core.Settings
}

func NewSettingsService(store SettingsStore, defaults core.Settings) *SettingsService {
	return &SettingsService{store: store, defaults: defaults}
}

// SettingsPatch carries only the fields a caller wants to change.
type SettingsPatch struct {
	PricePerPlate   *core.Money
	TaxRate         *float64
	DeliveryCharge  *core.Money
	BusinessName    *string
	BusinessPhone   *string
	BusinessAddress *string
	Currency        *string
	WorkingHours    *core.WorkingHours
}

// Get returns the stored settings, or the defaults when nothing has been
// written yet. The defaults are not persisted by a read.
func (s *SettingsService) Get(ctx context.Context) (core.Settings, error) {
	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if stored == nil {
		return s.defaults, nil
	}
	return *stored, nil
}

// Update applies the patch on top of the current settings (stored or
// defaults) and upserts the singleton row. The first write creates the
// instance.
func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (core.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return core.Settings{}, err
	}

	now := time.Now()
	if current.ID == "" {
		current.ID = uuid.NewString()
		current.CreatedAt = now
	}
	current.UpdatedAt = now

	if patch.PricePerPlate != nil {
		current.PricePerPlate = *patch.PricePerPlate
	}
	if patch.TaxRate != nil {
		current.TaxRate = *patch.TaxRate
	}
	if patch.DeliveryCharge != nil {
		current.DeliveryCharge = *patch.DeliveryCharge
	}
	if patch.BusinessName != nil {
		current.BusinessName = *patch.BusinessName
	}
	if patch.BusinessPhone != nil {
		current.BusinessPhone = *patch.BusinessPhone
	}
	if patch.BusinessAddress != nil {
		current.BusinessAddress = *patch.BusinessAddress
	}
	if patch.Currency != nil {
		current.Currency = *patch.Currency
	}
	if patch.WorkingHours != nil {
		current.WorkingHours = *patch.WorkingHours
	}

	stored, err := s.store.SaveSettings(ctx, current)
	if err != nil {
		return core.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return stored, nil
}

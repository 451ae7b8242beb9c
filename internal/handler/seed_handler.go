package handler

import (
	"net/http"

	"mishki-store/internal/model"
	"mishki-store/internal/seed"

	"github.com/rs/zerolog"
)

// SeedHandler exposes the demo-data seeding endpoint. It is gated by
// configuration and refuses to run when disabled.
type SeedHandler struct {
	seeder   *seed.Seeder
	enabled  bool
	seedPath string
	logger   zerolog.Logger
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seeder *seed.Seeder, enabled bool, seedPath string, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		seeder:   seeder,
		enabled:  enabled,
		seedPath: seedPath,
		logger:   logger.With().Str("handler", "seed").Logger(),
	}
}

// Run handles POST /api/seed requests.
func (h *SeedHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if !h.enabled {
		writeDomainError(w, model.ErrSeedDisabled, h.logger)
		return
	}

	result, err := h.seeder.Run(r.Context(), h.seedPath)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

package transport

import (
	"net/http"

	"medfinder/internal/middleware"
	"medfinder/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PharmacyHandler handles HTTP requests for pharmacy operations
type PharmacyHandler struct {
	pharmacies service.PharmacyService
	logger     *zap.Logger
}

// NewPharmacyHandler creates a new PharmacyHandler
func NewPharmacyHandler(pharmacies service.PharmacyService, logger *zap.Logger) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacies: pharmacies,
		logger:     logger,
	}
}

// RegisterRoutes registers all pharmacy routes. Mutations and the caller's
// own pharmacy sit behind authMiddleware and ownerOnly.
func (h *PharmacyHandler) RegisterRoutes(r chi.Router, authMiddleware, ownerOnly func(http.Handler) http.Handler) {
	r.Route("/api/pharmacy", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, ownerOnly)
			r.Post("/", h.Create)
			r.Get("/my-pharmacy", h.GetMine)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})

		r.Get("/{id}", h.GetByID)
	})
}

// Create handles pharmacy registration
func (h *PharmacyHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var input service.PharmacyInput
	if err := middleware.DecodeJSON(r, &input); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	pharmacy, err := h.pharmacies.Create(r.Context(), caller.ID, input)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	h.logger.Info("Pharmacy registered",
		zap.String("pharmacy_id", pharmacy.ID.String()),
		zap.String("owner_id", caller.ID.String()),
	)
	middleware.RespondWithData(w, http.StatusCreated, pharmacy)
}

// GetMine returns the caller's pharmacy
func (h *PharmacyHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	pharmacy, err := h.pharmacies.GetMine(r.Context(), caller.ID)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, pharmacy)
}

// List returns every pharmacy
func (h *PharmacyHandler) List(w http.ResponseWriter, r *http.Request) {
	pharmacies, err := h.pharmacies.List(r.Context())
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	middleware.RespondWithList(w, http.StatusOK, pharmacies, len(pharmacies))
}

// GetByID returns a single pharmacy
func (h *PharmacyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	pharmacy, err := h.pharmacies.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, pharmacy)
}

// Update applies a partial update. Ownership is checked before the body is read.
func (h *PharmacyHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	current, err := h.pharmacies.Authorize(r.Context(), caller.ID, id, service.ActionUpdate)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	var patch service.PharmacyPatch
	if err := middleware.DecodeJSON(r, &patch); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	pharmacy, err := h.pharmacies.ApplyPatch(r.Context(), current, patch)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, pharmacy)
}

// Delete removes the caller's pharmacy and its stock
func (h *PharmacyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	if err := h.pharmacies.Delete(r.Context(), caller.ID, chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	h.logger.Info("Pharmacy deleted", zap.String("owner_id", caller.ID.String()))
	middleware.RespondWithMessage(w, http.StatusOK, "Pharmacy deleted successfully")
}

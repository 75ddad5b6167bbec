package transport

import (
	"net/http"

	"medfinder/internal/middleware"
	"medfinder/internal/search"
	"medfinder/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MedicineHandler handles HTTP requests for medicine operations
type MedicineHandler struct {
	medicines service.MedicineService
	logger    *zap.Logger
}

// NewMedicineHandler creates a new MedicineHandler
func NewMedicineHandler(medicines service.MedicineService, logger *zap.Logger) *MedicineHandler {
	return &MedicineHandler{
		medicines: medicines,
		logger:    logger,
	}
}

// RegisterRoutes registers all medicine routes. searchLimiter may be nil.
func (h *MedicineHandler) RegisterRoutes(r chi.Router, authMiddleware, ownerOnly, searchLimiter func(http.Handler) http.Handler) {
	if searchLimiter == nil {
		searchLimiter = passThrough
	}

	r.Route("/api/medicine", func(r chi.Router) {
		r.With(searchLimiter).Get("/search", h.Search)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, ownerOnly)
			r.Post("/", h.Create)
			r.Get("/owner/my-medicines", h.ListMine)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})

		r.Get("/{id}", h.GetByID)
	})
}

// Create adds a medicine to the caller's pharmacy
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var input service.MedicineInput
	if err := middleware.DecodeJSON(r, &input); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	medicine, err := h.medicines.Create(r.Context(), caller.ID, input)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	middleware.RespondWithData(w, http.StatusCreated, medicine)
}

// ListMine returns the caller's stock
func (h *MedicineHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	medicines, err := h.medicines.ListMine(r.Context(), caller.ID)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	middleware.RespondWithList(w, http.StatusOK, medicines, len(medicines))
}

// Search answers the public availability search
func (h *MedicineHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := search.ParamsFromQuery(r.URL.Query())

	medicines, err := h.medicines.Search(r.Context(), params)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	h.logger.Debug("Medicine search",
		zap.String("name", params.Name),
		zap.String("category", params.Category),
		zap.String("city", params.City),
		zap.String("pincode", params.Pincode),
		zap.Int("results", len(medicines)),
	)
	middleware.RespondWithList(w, http.StatusOK, medicines, len(medicines))
}

// GetByID returns a single medicine with its pharmacy
func (h *MedicineHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	medicine, err := h.medicines.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, medicine)
}

// Update applies a partial update. Ownership is checked before the body is read.
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	current, err := h.medicines.Authorize(r.Context(), caller.ID, id, service.ActionUpdate)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	var patch service.MedicinePatch
	if err := middleware.DecodeJSON(r, &patch); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	medicine, err := h.medicines.ApplyPatch(r.Context(), current, patch)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, medicine)
}

// Delete removes a medicine of the caller's pharmacy
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	if err := h.medicines.Delete(r.Context(), caller.ID, chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	middleware.RespondWithMessage(w, http.StatusOK, "Medicine deleted successfully")
}

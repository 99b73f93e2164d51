package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/alchemorsel/flavorgraph/internal/ports/inbound"
	"github.com/alchemorsel/flavorgraph/pkg/errors"
	"go.uber.org/zap"
)

// similarityFailure is the message for requests that fail outside validation
const similarityFailure = "Failed to process ingredient similarity request"

// SimilarityHandlers serves the ingredient similarity endpoints
type SimilarityHandlers struct {
	pairing inbound.PairingService
	logger  *zap.Logger
}

// NewSimilarityHandlers creates a new similarity handlers instance
func NewSimilarityHandlers(pairing inbound.PairingService, logger *zap.Logger) *SimilarityHandlers {
	return &SimilarityHandlers{
		pairing: pairing,
		logger:  logger.Named("similarity-handlers"),
	}
}

// Query handles POST /api/v1/ingredient-similarity
func (h *SimilarityHandlers) Query(w http.ResponseWriter, r *http.Request) {
	var req inbound.SimilarityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if ingredientsNotArray(err) {
			writeError(w, r, h.logger, errors.NewBadRequestError(inbound.MsgIngredientsRequired).WithCause(err), similarityFailure)
			return
		}
		writeError(w, r, h.logger, errors.NewInternalError(similarityFailure).WithCause(err), similarityFailure)
		return
	}

	resp, err := h.pairing.Query(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err, similarityFailure)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// ingredientsNotArray reports a body whose ingredients field is not an
// array of strings
func ingredientsNotArray(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return stderrors.As(err, &typeErr) && strings.HasPrefix(typeErr.Field, "ingredients")
}

// Stats handles GET /api/v1/ingredient-similarity/stats
func (h *SimilarityHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.pairing.Stats(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err, "Failed to get ingredient similarity stats")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Pair handles GET /api/v1/ingredient-similarity/pair?a=&b=&strategy=
func (h *SimilarityHandlers) Pair(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := inbound.PairRequest{
		A:        query.Get("a"),
		B:        query.Get("b"),
		Strategy: query.Get("strategy"),
	}

	resp, err := h.pairing.Pair(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err, "Failed to score ingredient pair")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// AddIngredient handles POST /api/v1/ingredients
func (h *SimilarityHandlers) AddIngredient(w http.ResponseWriter, r *http.Request) {
	var req inbound.AddIngredientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("Invalid request body").WithCause(err), "")
		return
	}

	resp, err := h.pairing.AddIngredient(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err, "Failed to add ingredient")
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, resp)
}

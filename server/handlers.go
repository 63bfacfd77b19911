package server

import (
	"net/http"
	"strings"
	"time"

	"casino-gateway/middleware/geo"
	geodomain "casino-gateway/middleware/geo/domain"
	"casino-gateway/middleware/ratelimit"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// GeoResolver é o subconjunto do application.Resolver usado pelos handlers.
type GeoResolver interface {
	Resolve(country, region, city string) geodomain.Verdict
	IsWarningCountry(country string) bool
	HelplineFor(country string) geodomain.Helpline
}

// GeoHeaders nomeia os headers de geolocalização confiáveis da borda.
type GeoHeaders struct {
	Country string
	Region  string
	City    string
}

type handlers struct {
	sink     Sink
	validate *validator.Validate
	resolver GeoResolver
	headers  GeoHeaders
	logger   *zap.Logger
	now      func() time.Time
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

type newsletterRequest struct {
	Email  string `json:"email" validate:"required,email,max=254"`
	Source string `json:"source" validate:"omitempty,max=64"`
}

type reviewRequest struct {
	CasinoID    string `json:"casinoId" validate:"required,max=64"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Body        string `json:"body" validate:"required,min=20,max=5000"`
	AuthorName  string `json:"authorName" validate:"required,min=2,max=80"`
	AuthorEmail string `json:"authorEmail" validate:"omitempty,email,max=254"`
}

type clickRequest struct {
	CasinoID  string `json:"casinoId" validate:"required,max=64"`
	TargetURL string `json:"targetUrl" validate:"required,url,max=2048"`
	Placement string `json:"placement" validate:"omitempty,max=64"`
}

func (h *handlers) country(r *http.Request) string {
	if v, ok := geo.FromContext(r.Context()); ok {
		return v.Country
	}
	return strings.ToUpper(strings.TrimSpace(r.Header.Get(h.headers.Country)))
}

func (h *handlers) contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeAndValidate(w, r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.sink.SaveContact(r.Context(), ContactMessage{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Subject:  strings.TrimSpace(req.Subject),
		Message:  strings.TrimSpace(req.Message),
		Country:  h.country(r),
		Received: h.now(),
	})
	if err != nil {
		h.logger.Error("save contact failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *handlers) newsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := decodeAndValidate(w, r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.sink.Subscribe(r.Context(), Subscriber{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Source:   req.Source,
		Country:  h.country(r),
		Received: h.now(),
	})
	if err != nil {
		h.logger.Error("newsletter subscribe failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "already subscribed"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (h *handlers) review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeAndValidate(w, r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.sink.SaveReview(r.Context(), Review{
		CasinoID:    req.CasinoID,
		Rating:      req.Rating,
		Title:       strings.TrimSpace(req.Title),
		Body:        strings.TrimSpace(req.Body),
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorEmail: strings.TrimSpace(req.AuthorEmail),
		Status:      "pending",
		Received:    h.now(),
	})
	if err != nil {
		h.logger.Error("save review failed", zap.String("casino_id", req.CasinoID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to submit review")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "status": "pending"})
}

// trackClick nunca falha para payloads válidos: estouro de limite ou erro no
// sink apenas pulam o registro.
func (h *handlers) trackClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decodeAndValidate(w, r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if ratelimit.Limited(r.Context()) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	err := h.sink.RecordClick(r.Context(), Click{
		CasinoID:  req.CasinoID,
		TargetURL: req.TargetURL,
		Placement: req.Placement,
		Country:   h.country(r),
		At:        h.now(),
	})
	if err != nil {
		h.logger.Warn("record click failed", zap.String("casino_id", req.CasinoID), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type geoResponse struct {
	geodomain.Verdict
	Warning         bool               `json:"warning"`
	CountryHelpline geodomain.Helpline `json:"countryHelpline"`
}

func (h *handlers) geoInfo(w http.ResponseWriter, r *http.Request) {
	v, ok := geo.FromContext(r.Context())
	if !ok {
		v = h.resolver.Resolve(
			r.Header.Get(h.headers.Country),
			r.Header.Get(h.headers.Region),
			geo.DecodeCity(r.Header.Get(h.headers.City)),
		)
	}
	writeJSON(w, http.StatusOK, geoResponse{
		Verdict: v,
		Warning: h.resolver.IsWarningCountry(v.Country),
		// helpline do país mesmo quando restrito, para exibir recursos de ajuda
		CountryHelpline: h.resolver.HelplineFor(v.Country),
	})
}

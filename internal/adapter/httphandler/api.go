package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/form"
	"github.com/niksmo/storefront/internal/core/order"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET  v1/products?category=name (200 OK)
// GET  v1/products/{id} (200 OK, 404 Not found, 503 Service unavailable)
// GET  v1/products/{id}/inquiry (200 OK, 404 Not found)
// POST v1/products/{id}/order JSON customer details (200 OK, 422 Unprocessable)
// GET  v1/categories (200 OK)
// GET  v1/blogs (200 OK)
// POST v1/admin/unlock JSON {"secret"} (204 No content, 401 Unauthorized)
// POST v1/admin/products JSON product form (201 Created, 401, 409, 422, 503)
// POST v1/admin/blogs JSON blog form (201 Created, 401, 409, 422, 503)

type APIHandler struct {
	catalog  port.CatalogReader
	writer   port.CatalogWriter
	gate     port.AdminGate
	guard    *form.Guard
	composer order.Composer
}

func RegisterAPI(
	mux *http.ServeMux,
	catalog port.CatalogReader,
	writer port.CatalogWriter,
	gate port.AdminGate,
	guard *form.Guard,
	composer order.Composer,
) {
	h := APIHandler{catalog, writer, gate, guard, composer}
	handle := func(pattern string, hf http.HandlerFunc) {
		mux.Handle(pattern, AllowJSON(hf))
	}
	handle("GET /v1/products", h.ListProducts)
	handle("GET /v1/products/{id}", h.GetProduct)
	handle("GET /v1/products/{id}/inquiry", h.Inquiry)
	handle("POST /v1/products/{id}/order", h.Order)
	handle("GET /v1/categories", h.Categories)
	handle("GET /v1/blogs", h.ListBlogPosts)
	handle("POST /v1/admin/unlock", h.Unlock)
	handle("POST /v1/admin/products", h.CreateProduct)
	handle("POST /v1/admin/blogs", h.CreateBlogPost)
}

func (h APIHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var ps []domain.Product
	if category := r.URL.Query().Get("category"); category != "" {
		ps = h.catalog.ProductsByCategory(r.Context(), category)
	} else {
		ps = h.catalog.ListProducts(r.Context())
	}
	writeJSON(w, http.StatusOK, toProducts(ps))
}

func (h APIHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProduct(p))
}

func (h APIHandler) Inquiry(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, HandoffLink{
		URL:     h.composer.InquiryURL(p),
		Message: h.composer.InquiryMessage(p),
	})
}

func (h APIHandler) Order(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.Order"
	log := slog.With("op", op)

	p, ok := h.product(w, r)
	if !ok {
		return
	}

	var cd order.CustomerDetails
	if err := json.NewDecoder(r.Body).Decode(&cd); err != nil {
		log.Warn("failed to parse JSON", "err", err)
		writeJSONError(w, http.StatusBadRequest, "invalid JSON data", nil)
		return
	}

	u, err := h.composer.OrderURL(p, cd)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HandoffLink{
		URL:     u,
		Message: h.composer.OrderMessage(p, cd),
	})
}

func (h APIHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCategories(h.catalog.CategorySummaries(r.Context())))
}

func (h APIHandler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toBlogPosts(h.catalog.ListBlogPosts(r.Context())))
}

func (h APIHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.Unlock"
	log := slog.With("op", op)

	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse JSON", "err", err)
		writeJSONError(w, http.StatusBadRequest, "invalid JSON data", nil)
		return
	}

	err := h.gate.Unlock(r.Context(), SessionID(r.Context()), req.Secret)
	if err != nil {
		if errors.Is(err, domain.ErrAdminRejected) {
			writeJSONError(w, http.StatusUnauthorized, domain.ErrAdminRejected.Error(), nil)
			return
		}
		log.Error("failed to unlock", "err", err)
		writeJSONError(w, http.StatusServiceUnavailable, "session storage unavailable", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h APIHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.CreateProduct"

	var f form.ProductForm
	h.create(w, r, op, form.ProductFormName, &f, func() (string, error) {
		draft, err := f.Validate()
		if err != nil {
			return "", err
		}
		return h.writer.CreateProduct(r.Context(), draft)
	})
}

func (h APIHandler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.CreateBlogPost"

	var f form.BlogForm
	h.create(w, r, op, form.BlogFormName, &f, func() (string, error) {
		draft, err := f.Validate()
		if err != nil {
			return "", err
		}
		return h.writer.CreateBlogPost(r.Context(), draft)
	})
}

// create runs the shared admin write flow: gate, decode, in-flight
// guard, then submit.
func (h APIHandler) create(
	w http.ResponseWriter,
	r *http.Request,
	op, formName string,
	dst any,
	submit func() (string, error),
) {
	log := slog.With("op", op)

	sid := SessionID(r.Context())
	if !h.gate.Unlocked(r.Context(), sid) {
		writeJSONError(w, http.StatusUnauthorized, "admin access required", nil)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Warn("failed to parse JSON", "err", err)
		writeJSONError(w, http.StatusBadRequest, "invalid JSON data", nil)
		return
	}

	done, err := h.guard.Begin(sid, formName)
	if err != nil {
		writeJSONError(w, http.StatusConflict, err.Error(), nil)
		return
	}
	defer done()

	id, err := submit()
	if err != nil {
		if errors.Is(err, domain.ErrValidationFailed) {
			writeValidationError(w, err)
			return
		}
		log.Error("failed to create", "err", err)
		writeJSONError(w, http.StatusServiceUnavailable, "failed to save, please try again", nil)
		return
	}
	writeJSON(w, http.StatusCreated, Created{ID: id})
}

func (h APIHandler) product(
	w http.ResponseWriter, r *http.Request,
) (domain.Product, bool) {
	p, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err == nil {
		return p, true
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, domain.ErrNotFound.Error(), nil)
	} else {
		writeJSONError(w, http.StatusServiceUnavailable, domain.ErrBackendUnavailable.Error(), nil)
	}
	return domain.Product{}, false
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSONError(
		w, http.StatusUnprocessableEntity,
		domain.ErrValidationFailed.Error(), problems(err),
	)
}

func writeJSONError(
	w http.ResponseWriter, status int, msg string, fields map[string]string,
) {
	writeJSON(w, status, ErrorResponse{Error: msg, Fields: fields})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

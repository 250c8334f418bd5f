package httphandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/form"
	"github.com/niksmo/storefront/internal/core/port"
)

const (
	adminPath          = "/admin"
	addedProductFlash  = "Product added successfully!"
	addedBlogFlash     = "Blog post published successfully!"
	retryMessage       = "Could not save. Please try again."
	inFlightMessage    = "A submission is already in progress."
	rejectedMessage    = "Incorrect password."
	sessionDownMessage = "Sign in is temporarily unavailable. Please try again."
)

type AdminHandler struct {
	gate    port.AdminGate
	writer  port.CatalogWriter
	guard   *form.Guard
	render  *Renderer
	decoder *schema.Decoder
}

func RegisterAdmin(
	mux *http.ServeMux,
	gate port.AdminGate,
	writer port.CatalogWriter,
	guard *form.Guard,
	render *Renderer,
) {
	h := AdminHandler{
		gate:    gate,
		writer:  writer,
		guard:   guard,
		render:  render,
		decoder: newFormDecoder(),
	}
	mux.HandleFunc("GET "+adminPath, h.Admin)
	mux.HandleFunc("POST "+adminPath+"/login", h.Login)
	mux.HandleFunc("POST "+adminPath+"/products", h.CreateProduct)
	mux.HandleFunc("POST "+adminPath+"/blogs", h.CreateBlogPost)
}

type loginView struct {
	Error string
}

type adminView struct {
	Product         form.ProductForm
	ProductProblems map[string]string
	ProductError    string
	Blog            form.BlogForm
	BlogProblems    map[string]string
	BlogError       string
	Categories      []domain.Category
}

func newAdminView() adminView {
	return adminView{
		Product:    form.NewProductForm(),
		Categories: domain.Categories,
	}
}

// Admin shows the login view until the session is unlocked.
func (h AdminHandler) Admin(w http.ResponseWriter, r *http.Request) {
	if !h.gate.Unlocked(r.Context(), SessionID(r.Context())) {
		h.renderLogin(w, http.StatusOK, "")
		return
	}

	var flash string
	switch r.URL.Query().Get("added") {
	case form.ProductFormName:
		flash = addedProductFlash
	case form.BlogFormName:
		flash = addedBlogFlash
	}
	h.renderAdmin(w, http.StatusOK, flash, newAdminView())
}

func (h AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.Login"
	log := slog.With("op", op)

	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", "err", err)
		h.renderLogin(w, http.StatusBadRequest, rejectedMessage)
		return
	}

	err := h.gate.Unlock(r.Context(), SessionID(r.Context()), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, domain.ErrAdminRejected) {
			h.renderLogin(w, http.StatusUnauthorized, rejectedMessage)
			return
		}
		log.Error("failed to unlock", "err", err)
		h.renderLogin(w, http.StatusServiceUnavailable, sessionDownMessage)
		return
	}

	http.Redirect(w, r, adminPath, http.StatusSeeOther)
}

func (h AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.CreateProduct"
	log := slog.With("op", op)

	sid := SessionID(r.Context())
	if !h.gate.Unlocked(r.Context(), sid) {
		h.renderLogin(w, http.StatusUnauthorized, "")
		return
	}

	av := newAdminView()
	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", "err", err)
		h.renderAdmin(w, http.StatusBadRequest, "", av)
		return
	}
	if err := h.decoder.Decode(&av.Product, r.PostForm); err != nil {
		log.Warn("failed to decode form", "err", err)
		h.renderAdmin(w, http.StatusBadRequest, "", av)
		return
	}

	done, err := h.guard.Begin(sid, form.ProductFormName)
	if err != nil {
		av.ProductError = inFlightMessage
		h.renderAdmin(w, http.StatusConflict, "", av)
		return
	}
	defer done()

	draft, err := av.Product.Validate()
	if err != nil {
		av.ProductProblems = problems(err)
		h.renderAdmin(w, http.StatusUnprocessableEntity, "", av)
		return
	}

	if _, err := h.writer.CreateProduct(r.Context(), draft); err != nil {
		log.Error("failed to create product", "err", err)
		av.ProductError = retryMessage
		h.renderAdmin(w, http.StatusServiceUnavailable, "", av)
		return
	}

	http.Redirect(w, r, adminPath+"?added="+form.ProductFormName, http.StatusSeeOther)
}

func (h AdminHandler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.CreateBlogPost"
	log := slog.With("op", op)

	sid := SessionID(r.Context())
	if !h.gate.Unlocked(r.Context(), sid) {
		h.renderLogin(w, http.StatusUnauthorized, "")
		return
	}

	av := newAdminView()
	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", "err", err)
		h.renderAdmin(w, http.StatusBadRequest, "", av)
		return
	}
	if err := h.decoder.Decode(&av.Blog, r.PostForm); err != nil {
		log.Warn("failed to decode form", "err", err)
		h.renderAdmin(w, http.StatusBadRequest, "", av)
		return
	}

	done, err := h.guard.Begin(sid, form.BlogFormName)
	if err != nil {
		av.BlogError = inFlightMessage
		h.renderAdmin(w, http.StatusConflict, "", av)
		return
	}
	defer done()

	draft, err := av.Blog.Validate()
	if err != nil {
		av.BlogProblems = problems(err)
		h.renderAdmin(w, http.StatusUnprocessableEntity, "", av)
		return
	}

	if _, err := h.writer.CreateBlogPost(r.Context(), draft); err != nil {
		log.Error("failed to create blog post", "err", err)
		av.BlogError = retryMessage
		h.renderAdmin(w, http.StatusServiceUnavailable, "", av)
		return
	}

	http.Redirect(w, r, adminPath+"?added="+form.BlogFormName, http.StatusSeeOther)
}

func (h AdminHandler) renderLogin(w http.ResponseWriter, status int, msg string) {
	h.render.render(w, status, "admin_login", page{
		Title: "Admin Access",
		Body:  loginView{Error: msg},
	})
}

func (h AdminHandler) renderAdmin(
	w http.ResponseWriter, status int, flash string, av adminView,
) {
	h.render.render(w, status, "admin", page{
		Title: "Admin Panel",
		Flash: flash,
		Body:  av,
	})
}

func problems(err error) map[string]string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields()
	}
	return map[string]string{}
}

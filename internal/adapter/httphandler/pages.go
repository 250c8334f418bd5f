package httphandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/order"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/view"
)

const (
	notFoundMessage     = "The page you are looking for does not exist."
	productGoneMessage  = "Product not found."
	unavailableMessage  = "The catalog is temporarily unavailable. Please try again."
	homeScrollerLength  = 10
	homeBlogScrollerLen = 3
)

type PagesHandler struct {
	catalog  port.CatalogReader
	composer order.Composer
	render   *Renderer
	decoder  *schema.Decoder
}

func RegisterPages(
	mux *http.ServeMux,
	catalog port.CatalogReader,
	composer order.Composer,
	render *Renderer,
) {
	h := PagesHandler{
		catalog:  catalog,
		composer: composer,
		render:   render,
		decoder:  newFormDecoder(),
	}
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /products", h.Products)
	mux.HandleFunc("GET /product/{id}", h.Product)
	mux.HandleFunc("GET /product/{id}/inquiry", h.Inquiry)
	mux.HandleFunc("GET /order-confirmation/{id}", h.OrderForm)
	mux.HandleFunc("POST /order-confirmation/{id}", h.PlaceOrder)
	mux.HandleFunc("GET /categories", h.Categories)
	mux.HandleFunc("GET /category/{name}", h.Category)
	mux.HandleFunc("GET /blog", h.Blog)
	mux.HandleFunc("GET /about", h.static("about", "About Us"))
	mux.HandleFunc("GET /contact", h.static("contact", "Contact Us"))
	mux.HandleFunc("GET /terms-of-service", h.static("terms", "Terms of Service"))
	mux.HandleFunc("POST /cart/{id}", h.AddToCart)
	mux.HandleFunc("/", h.NotFound)
}

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

type homeView struct {
	Scroller   []view.ProductCard
	Featured   []view.ProductCard
	Total      int
	BlogPosts  []view.BlogCard
	Categories []domain.CategorySummary
}

func (h PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	home := h.catalog.Home(r.Context())
	if r.Context().Err() != nil {
		return
	}

	cards := view.NewProductCards(home.Products)
	hv := homeView{
		Scroller:   head(cards, homeScrollerLength),
		Featured:   view.NewProductCards(home.Featured),
		Total:      len(cards),
		BlogPosts:  head(view.NewBlogCards(home.BlogPosts), homeBlogScrollerLen),
		Categories: home.Categories,
	}
	h.render.render(w, http.StatusOK, "home", page{Title: "Home", Body: hv})
}

type productsView struct {
	Cards   []view.ProductCard
	Total   int
	ShowAll bool
}

// Products lists the featured products, or all of them with ?all=1.
func (h PagesHandler) Products(w http.ResponseWriter, r *http.Request) {
	showAll := r.URL.Query().Get("all") == "1"
	shown, total := h.catalog.FeaturedProducts(r.Context(), showAll)
	if r.Context().Err() != nil {
		return
	}

	h.render.render(w, http.StatusOK, "products", page{
		Title: "Products",
		Body: productsView{
			Cards:   view.NewProductCards(shown),
			Total:   total,
			ShowAll: showAll || len(shown) == total,
		},
	})
}

type productView struct {
	Card       view.ProductCard
	InquiryURL string
}

func (h PagesHandler) Product(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	h.render.render(w, http.StatusOK, "product", page{
		Title: p.Name,
		Body:  productView{view.NewProductCard(p), h.composer.InquiryURL(p)},
	})
}

// Inquiry redirects to the hand-off URL carrying the quick order text.
func (h PagesHandler) Inquiry(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	http.Redirect(w, r, h.composer.InquiryURL(p), http.StatusSeeOther)
}

type orderView struct {
	Card           view.ProductCard
	Customer       order.CustomerDetails
	Problems       map[string]string
	DeliveryCharge float64
	Total          float64
}

func (h PagesHandler) OrderForm(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	h.renderOrder(w, http.StatusOK, p, order.CustomerDetails{}, nil)
}

// PlaceOrder validates the customer details and hands the order message
// off to the shop's messaging account.
func (h PagesHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.PlaceOrder"
	log := slog.With("op", op)

	p, ok := h.product(w, r)
	if !ok {
		return
	}

	var cd order.CustomerDetails
	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", "err", err)
		h.renderOrder(w, http.StatusBadRequest, p, cd, nil)
		return
	}
	if err := h.decoder.Decode(&cd, r.PostForm); err != nil {
		log.Warn("failed to decode form", "err", err)
		h.renderOrder(w, http.StatusBadRequest, p, cd, nil)
		return
	}

	u, err := h.composer.OrderURL(p, cd)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.renderOrder(w, http.StatusUnprocessableEntity, p, cd, verr.Fields())
			return
		}
		log.Error("failed to compose order", "err", err)
		h.renderOrder(w, http.StatusInternalServerError, p, cd, nil)
		return
	}

	log.Info("order handed off", "productID", p.ID)
	http.Redirect(w, r, u, http.StatusSeeOther)
}

func (h PagesHandler) renderOrder(
	w http.ResponseWriter,
	status int,
	p domain.Product,
	cd order.CustomerDetails,
	problems map[string]string,
) {
	h.render.render(w, status, "order", page{
		Title: "Confirm Order",
		Body: orderView{
			Card:           view.NewProductCard(p),
			Customer:       cd,
			Problems:       problems,
			DeliveryCharge: h.composer.DeliveryCharge(),
			Total:          h.composer.Total(p),
		},
	})
}

func (h PagesHandler) Categories(w http.ResponseWriter, r *http.Request) {
	summaries := h.catalog.CategorySummaries(r.Context())
	if r.Context().Err() != nil {
		return
	}
	h.render.render(w, http.StatusOK, "categories", page{
		Title: "Categories",
		Body:  summaries,
	})
}

type categoryView struct {
	Name  string
	Cards []view.ProductCard
}

func (h PagesHandler) Category(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ps := h.catalog.ProductsByCategory(r.Context(), name)
	if r.Context().Err() != nil {
		return
	}
	h.render.render(w, http.StatusOK, "category", page{
		Title: name,
		Body:  categoryView{Name: name, Cards: view.NewProductCards(ps)},
	})
}

func (h PagesHandler) Blog(w http.ResponseWriter, r *http.Request) {
	posts := h.catalog.ListBlogPosts(r.Context())
	if r.Context().Err() != nil {
		return
	}
	h.render.render(w, http.StatusOK, "blog", page{
		Title: "Blog",
		Body:  view.NewBlogCards(posts),
	})
}

// AddToCart only acknowledges the click. Nothing is stored.
func (h PagesHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	h.render.render(w, http.StatusOK, "product", page{
		Title: p.Name,
		Flash: p.Name + " added to cart!",
		Body:  productView{view.NewProductCard(p), h.composer.InquiryURL(p)},
	})
}

func (h PagesHandler) static(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render.render(w, http.StatusOK, name, page{Title: title})
	}
}

func (h PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render.notFound(w, http.StatusNotFound, notFoundMessage)
}

// product loads the product named by the id path value. On failure it
// writes the not-found view and returns false.
func (h PagesHandler) product(
	w http.ResponseWriter, r *http.Request,
) (domain.Product, bool) {
	p, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err == nil {
		return p, true
	}
	if r.Context().Err() != nil {
		return domain.Product{}, false
	}
	if errors.Is(err, domain.ErrNotFound) {
		h.render.notFound(w, http.StatusNotFound, productGoneMessage)
	} else {
		h.render.notFound(w, http.StatusServiceUnavailable, unavailableMessage)
	}
	return domain.Product{}, false
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

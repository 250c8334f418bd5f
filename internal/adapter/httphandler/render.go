package httphandler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/storefront/internal/core/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home", "products", "product", "order", "categories", "category",
	"blog", "about", "contact", "terms", "admin_login", "admin", "notfound",
}

// ShopInfo is shown by every page.
type ShopInfo struct {
	Name           string
	Currency       string
	WhatsAppNumber string
	DeliveryCharge float64
}

type page struct {
	Title string
	Flash string
	Shop  ShopInfo
	Year  int
	Body  any
}

type Renderer struct {
	shop  ShopInfo
	pages map[string]*template.Template
}

func NewRenderer(shop ShopInfo) (*Renderer, error) {
	const op = "NewRenderer"

	funcs := template.FuncMap{
		"currency": func() string { return shop.Currency },
		"money": func(v float64) string {
			return shop.Currency + " " + view.FormatAmount(v)
		},
		"problem": func(problems map[string]string, field string) string {
			return problems[field]
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(
			templateFS, "templates/layout.html", "templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		pages[name] = t
	}
	return &Renderer{shop: shop, pages: pages}, nil
}

// render executes the page into a buffer first so a template failure
// never leaves a half written response.
func (rd *Renderer) render(
	w http.ResponseWriter, status int, name string, p page,
) {
	const op = "Renderer.render"
	log := slog.With("op", op, "page", name)

	t, ok := rd.pages[name]
	if !ok {
		log.Error("unknown page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	p.Shop = rd.shop
	p.Year = time.Now().Year()

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		log.Error("failed to execute template", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (rd *Renderer) notFound(w http.ResponseWriter, status int, message string) {
	rd.render(w, status, "notfound", page{
		Title: "Not Found",
		Body:  message,
	})
}

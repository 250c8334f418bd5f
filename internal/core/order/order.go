// Package order composes the hand-off messages sent to the shop's
// messaging account when a customer orders or asks about a product.
package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/view"
)

const (
	DefaultHandoffBaseURL = "https://wa.me/"
	DefaultDeliveryCharge = 300
	DefaultCurrency       = "PKR"
)

type CustomerDetails struct {
	Name    string `schema:"name" json:"name"`
	Phone   string `schema:"phone" json:"phone"`
	Address string `schema:"address" json:"address"`
	City    string `schema:"city" json:"city"`
}

// Validate requires every field to be non-empty after trimming.
func (c CustomerDetails) Validate() error {
	var verr domain.ValidationError
	for _, f := range []struct{ name, value string }{
		{"name", c.Name},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
	} {
		if strings.TrimSpace(f.value) == "" {
			verr.Add(f.name, "required")
		}
	}
	return verr.Err()
}

// A Composer renders order and inquiry messages and the hand-off URLs
// carrying them. It never performs network calls.
type Composer struct {
	baseURL        string
	phone          string
	deliveryCharge float64
	currency       string
}

type Opt func(*Composer)

func DeliveryChargeOpt(v float64) Opt {
	return func(c *Composer) { c.deliveryCharge = v }
}

func CurrencyOpt(v string) Opt {
	return func(c *Composer) { c.currency = v }
}

func BaseURLOpt(v string) Opt {
	return func(c *Composer) { c.baseURL = v }
}

// NewComposer returns a Composer addressing the phone destination.
func NewComposer(phone string, opts ...Opt) Composer {
	c := Composer{
		baseURL:        DefaultHandoffBaseURL,
		phone:          phone,
		deliveryCharge: DefaultDeliveryCharge,
		currency:       DefaultCurrency,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func (c Composer) DeliveryCharge() float64 {
	return c.deliveryCharge
}

// Total returns the product price plus the delivery charge.
func (c Composer) Total(p domain.Product) float64 {
	return p.Price + c.deliveryCharge
}

func (c Composer) money(v float64) string {
	return c.currency + " " + view.FormatAmount(v)
}

// OrderMessage renders the order confirmation text. The customer details
// are expected to be validated.
func (c Composer) OrderMessage(p domain.Product, cd CustomerDetails) string {
	var b strings.Builder
	b.WriteString("Hi! I want to confirm my order:\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "📦 Product: %s\n", p.Name)
	fmt.Fprintf(&b, "💰 Price: %s\n", c.money(p.Price))
	fmt.Fprintf(&b, "🚚 Delivery Charges: %s\n", c.money(c.deliveryCharge))
	fmt.Fprintf(&b, "💳 Total Amount: %s\n", c.money(c.Total(p)))
	b.WriteString("\n")
	b.WriteString("👤 Customer Details:\n")
	fmt.Fprintf(&b, "Name: %s\n", cd.Name)
	fmt.Fprintf(&b, "Phone: %s\n", cd.Phone)
	fmt.Fprintf(&b, "Address: %s\n", cd.Address)
	fmt.Fprintf(&b, "City: %s\n", cd.City)
	b.WriteString("\n")
	b.WriteString("Please confirm availability and delivery details.")
	return b.String()
}

// InquiryMessage renders the one-line quick order text.
func (c Composer) InquiryMessage(p domain.Product) string {
	return fmt.Sprintf(
		"Hi! I'm interested in %s (%s). Please share more details.",
		p.Name, c.money(p.Price),
	)
}

// OrderURL validates the customer details and returns the hand-off URL
// carrying the order message.
func (c Composer) OrderURL(p domain.Product, cd CustomerDetails) (string, error) {
	const op = "Composer.OrderURL"

	if err := cd.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return c.handoffURL(c.OrderMessage(p, cd)), nil
}

func (c Composer) InquiryURL(p domain.Product) string {
	return c.handoffURL(c.InquiryMessage(p))
}

func (c Composer) handoffURL(text string) string {
	return c.baseURL + c.phone + "?text=" + Encode(text)
}

// componentUnescaper undoes the query escaping of the characters that
// URI component encoding keeps verbatim.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Encode percent-encodes s as a URI component. Spaces become %20, not
// '+', and !'()* stay unescaped.
func Encode(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

package order_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopPhone = "923167202164"

var (
	lamp     = domain.Product{ID: "p1", Name: "Lamp", Price: 1500}
	customer = order.CustomerDetails{
		Name:    "Ali",
		Phone:   "03001234567",
		Address: "St 1",
		City:    "Lahore",
	}
)

func TestOrderMessage(t *testing.T) {
	c := order.NewComposer(shopPhone)

	want := "Hi! I want to confirm my order:\n" +
		"\n" +
		"📦 Product: Lamp\n" +
		"💰 Price: PKR 1,500\n" +
		"🚚 Delivery Charges: PKR 300\n" +
		"💳 Total Amount: PKR 1,800\n" +
		"\n" +
		"👤 Customer Details:\n" +
		"Name: Ali\n" +
		"Phone: 03001234567\n" +
		"Address: St 1\n" +
		"City: Lahore\n" +
		"\n" +
		"Please confirm availability and delivery details."

	assert.Equal(t, want, c.OrderMessage(lamp, customer))
	assert.Equal(t, 1800.0, c.Total(lamp))
}

func TestOrderMessageIsDeterministic(t *testing.T) {
	c := order.NewComposer(shopPhone)
	assert.Equal(t, c.OrderMessage(lamp, customer), c.OrderMessage(lamp, customer))
	assert.Equal(t, c.InquiryMessage(lamp), c.InquiryMessage(lamp))
}

func TestOrderURL(t *testing.T) {
	c := order.NewComposer(shopPhone)

	t.Run("Valid", func(t *testing.T) {
		raw, err := c.OrderURL(lamp, customer)
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(raw, "https://wa.me/923167202164?text="))
		assert.NotContains(t, raw, "+")
		assert.NotContains(t, raw, " ")

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, c.OrderMessage(lamp, customer), u.Query().Get("text"))
	})

	t.Run("MissingCustomerFields", func(t *testing.T) {
		_, err := c.OrderURL(lamp, order.CustomerDetails{Name: "Ali", City: "  "})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string]string{
			"phone":   "required",
			"address": "required",
			"city":    "required",
		}, verr.Fields())
	})
}

func TestInquiryURL(t *testing.T) {
	c := order.NewComposer(shopPhone)

	assert.Equal(t,
		"Hi! I'm interested in Lamp (PKR 1,500). Please share more details.",
		c.InquiryMessage(lamp),
	)

	u, err := url.Parse(c.InquiryURL(lamp))
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/923167202164", u.Path)
	assert.Equal(t, c.InquiryMessage(lamp), u.Query().Get("text"))
}

func TestComposerOpts(t *testing.T) {
	c := order.NewComposer("1",
		order.DeliveryChargeOpt(500),
		order.CurrencyOpt("USD"),
		order.BaseURLOpt("https://example.test/"),
	)

	assert.Equal(t, 500.0, c.DeliveryCharge())
	assert.Contains(t, c.OrderMessage(lamp, customer), "💳 Total Amount: USD 2,000\n")
	assert.True(t, strings.HasPrefix(c.InquiryURL(lamp), "https://example.test/1?text="))
}

func TestEncode(t *testing.T) {
	s := "a b&c=d+e/💳\n"
	enc := order.Encode(s)

	assert.Equal(t, "a%20b%26c%3Dd%2Be%2F%F0%9F%92%B3%0A", enc)

	dec, err := url.QueryUnescape(enc)
	require.NoError(t, err)
	assert.Equal(t, s, dec)

	t.Run("ComponentMarksKept", func(t *testing.T) {
		s := "Hi! (it's *new*) ~_-."
		enc := order.Encode(s)

		assert.Equal(t, "Hi!%20(it's%20*new*)%20~_-.", enc)

		dec, err := url.QueryUnescape(enc)
		require.NoError(t, err)
		assert.Equal(t, s, dec)
	})
}

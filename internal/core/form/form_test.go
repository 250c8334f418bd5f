package form_test

import (
	"sync"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductForm() form.ProductForm {
	f := form.NewProductForm()
	f.Name = "Lamp"
	f.Price = "1500"
	f.Images = "https://cdn.test/a.jpg"
	f.Category = "Home & Living"
	return f
}

func TestSplitImages(t *testing.T) {
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, form.SplitImages("a.jpg\n\nb.jpg\n  "))
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, form.SplitImages("  a.jpg \r\n b.jpg"))
	assert.Nil(t, form.SplitImages(" \n\t\n"))
}

func TestProductFormValidate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		assert.Equal(t, "4.5", form.NewProductForm().Rating)
	})

	t.Run("Valid", func(t *testing.T) {
		f := validProductForm()
		f.OriginalPrice = "2000"
		f.Images = "a.jpg\n\nb.jpg\n  "
		f.Description = "warm"

		d, err := f.Validate()
		require.NoError(t, err)

		assert.Equal(t, "Lamp", d.Name)
		assert.Equal(t, 1500.0, d.Price)
		require.NotNil(t, d.OriginalPrice)
		assert.Equal(t, 2000.0, *d.OriginalPrice)
		assert.Equal(t, []string{"a.jpg", "b.jpg"}, d.Images)
		assert.Equal(t, "Home & Living", d.Category)
		assert.Equal(t, "warm", d.Description)
		assert.Equal(t, 4.5, d.Rating)
	})

	t.Run("UnparsableOriginalPriceIsAbsent", func(t *testing.T) {
		for _, v := range []string{"", "  ", "abc"} {
			f := validProductForm()
			f.OriginalPrice = v

			d, err := f.Validate()
			require.NoError(t, err)
			assert.Nil(t, d.OriginalPrice, "original price %q", v)
		}
	})

	t.Run("RequiredFieldsBlank", func(t *testing.T) {
		f := form.ProductForm{
			Name:     "  ",
			Images:   "\n \n",
			Category: "\t",
		}

		_, err := f.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string]string{
			"name":     "required",
			"price":    "required",
			"images":   "required",
			"category": "required",
		}, verr.Fields())
	})

	t.Run("UnparsableNumbers", func(t *testing.T) {
		f := validProductForm()
		f.Price = "12a"
		f.Rating = "five"

		_, err := f.Validate()

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string]string{
			"price":  "must be a number",
			"rating": "must be a number",
		}, verr.Fields())
	})

	t.Run("NonFiniteNumbers", func(t *testing.T) {
		for _, v := range []string{"NaN", "Inf", "-Infinity"} {
			f := validProductForm()
			f.Price = v
			f.Rating = v
			f.OriginalPrice = v

			_, err := f.Validate()

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr, "value %q", v)
			assert.Equal(t, map[string]string{
				"price":  "must be a number",
				"rating": "must be a number",
			}, verr.Fields())
		}
	})

	t.Run("NonFiniteOriginalPriceIsAbsent", func(t *testing.T) {
		f := validProductForm()
		f.OriginalPrice = "NaN"

		d, err := f.Validate()
		require.NoError(t, err)
		assert.Nil(t, d.OriginalPrice)
	})

	t.Run("RangesAreNotChecked", func(t *testing.T) {
		f := validProductForm()
		f.Price = "-10"
		f.Rating = "9"

		d, err := f.Validate()
		require.NoError(t, err)
		assert.Equal(t, -10.0, d.Price)
		assert.Equal(t, 9.0, d.Rating)
	})
}

func TestBlogFormValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := form.BlogForm{
			Title:   " Hello ",
			Author:  "Admin",
			Excerpt: "short",
			Content: "long\ntext",
		}.Validate()
		require.NoError(t, err)

		assert.Equal(t, domain.BlogPostDraft{
			Title:   "Hello",
			Author:  "Admin",
			Excerpt: "short",
			Content: "long\ntext",
		}, d)
	})

	t.Run("Blank", func(t *testing.T) {
		_, err := form.BlogForm{Title: "Hello", Content: " "}.Validate()

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string]string{
			"author":  "required",
			"excerpt": "required",
			"content": "required",
		}, verr.Fields())
	})
}

func TestGuard(t *testing.T) {
	t.Run("SecondSubmitRejected", func(t *testing.T) {
		g := form.NewGuard()

		done, err := g.Begin("s1", form.ProductFormName)
		require.NoError(t, err)
		assert.True(t, g.InFlight("s1", form.ProductFormName))

		_, err = g.Begin("s1", form.ProductFormName)
		assert.ErrorIs(t, err, domain.ErrSubmitInFlight)

		done()
		done()
		assert.False(t, g.InFlight("s1", form.ProductFormName))

		done, err = g.Begin("s1", form.ProductFormName)
		require.NoError(t, err)
		done()
	})

	t.Run("IndependentKeys", func(t *testing.T) {
		g := form.NewGuard()

		doneProduct, err := g.Begin("s1", form.ProductFormName)
		require.NoError(t, err)
		defer doneProduct()

		doneBlog, err := g.Begin("s1", form.BlogFormName)
		require.NoError(t, err)
		defer doneBlog()

		doneOther, err := g.Begin("s2", form.ProductFormName)
		require.NoError(t, err)
		defer doneOther()
	})

	t.Run("Concurrent", func(t *testing.T) {
		g := form.NewGuard()

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		start := make(chan struct{})
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := g.Begin("s1", form.BlogFormName); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, 1, accepted)
	})
}

package domain

import "time"

// Field names of a product document.
const (
	ProductName          = "name"
	ProductPrice         = "price"
	ProductOriginalPrice = "originalPrice"
	ProductImages        = "images"
	ProductImage         = "image"
	ProductCategory      = "category"
	ProductRating        = "rating"
	ProductDescription   = "description"
	ProductApproved      = "approved"
)

type (
	// A Product is the normalized catalog entity.
	//
	// OriginalPrice is nil when the document carries no usable original
	// price. LegacyImage holds the deprecated singular image field.
	Product struct {
		ID            string
		Name          string
		Price         float64
		OriginalPrice *float64
		Images        []string
		LegacyImage   string
		Category      string
		Rating        float64
		Description   string
		Approved      bool
		CreatedAt     time.Time
	}

	// A ProductDraft is validated admin input ready to be written.
	ProductDraft struct {
		Name          string
		Price         float64
		OriginalPrice *float64
		Images        []string
		Category      string
		Description   string
		Rating        float64
	}
)

// ImageCandidates returns the display image alternatives in fallback
// order: first gallery image, then the legacy image. Empty alternatives
// are skipped.
func (p Product) ImageCandidates() []string {
	var cs []string
	if len(p.Images) != 0 && p.Images[0] != "" {
		cs = append(cs, p.Images[0])
	}
	if p.LegacyImage != "" {
		cs = append(cs, p.LegacyImage)
	}
	return cs
}

// Record returns the document fields written for the draft.
//
// Absent original price is written as an explicit null and new products
// are written as approved.
func (d ProductDraft) Record() map[string]any {
	var originalPrice any
	if d.OriginalPrice != nil {
		originalPrice = *d.OriginalPrice
	}

	images := make([]any, len(d.Images))
	for i, img := range d.Images {
		images[i] = img
	}

	return map[string]any{
		ProductName:          d.Name,
		ProductPrice:         d.Price,
		ProductOriginalPrice: originalPrice,
		ProductImages:        images,
		ProductCategory:      d.Category,
		ProductDescription:   d.Description,
		ProductRating:        d.Rating,
		ProductApproved:      true,
	}
}

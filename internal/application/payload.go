package application

import (
	"fmt"
	"sort"

	"shopify-product-export/internal/domain"
)

const (
	defaultProductTitle = "Untitled Product"
	defaultVariantTitle = "Default Title"
	defaultOptionName   = "Title"
	defaultPrice        = "0.00"

	// The target platform positions variants on at most three option dimensions.
	maxOptionDimensions = 3
)

// BuildProductPayload maps a source product snapshot into the target
// platform's REST payload. Option dimensions are the distinct selected-option
// names across all variants, sorted lexicographically so the result does not
// depend on variant order. A non-empty status is applied to the payload.
func BuildProductPayload(product *domain.SourceProduct, status string) *domain.ProductPayload {
	target := domain.TargetProduct{
		Title:       product.Title,
		BodyHTML:    product.BodyHTML,
		Vendor:      product.Vendor,
		ProductType: product.ProductType,
		Tags:        product.Tags,
		Status:      status,
	}
	if target.Title == "" {
		target.Title = defaultProductTitle
	}
	if target.Tags == nil {
		target.Tags = []string{}
	}

	target.Images = make([]domain.TargetImage, 0, len(product.Images))
	for _, img := range product.Images {
		target.Images = append(target.Images, domain.TargetImage{
			Src: img.URL,
			Alt: img.AltText,
		})
	}

	if len(product.Variants) == 0 {
		defaultTitle := defaultVariantTitle
		target.Options = []domain.TargetOption{{Name: defaultOptionName}}
		target.Variants = []domain.TargetVariant{{
			Title:             defaultVariantTitle,
			Price:             defaultPrice,
			CompareAtPrice:    nil,
			SKU:               "",
			Barcode:           "",
			InventoryQuantity: 0,
			Option1:           &defaultTitle,
		}}
		return &domain.ProductPayload{Product: target}
	}

	dimensions := optionDimensions(product.Variants)
	target.Options = make([]domain.TargetOption, 0, len(dimensions))
	for _, name := range dimensions {
		target.Options = append(target.Options, domain.TargetOption{Name: name})
	}

	target.Variants = make([]domain.TargetVariant, 0, len(product.Variants))
	for _, variant := range product.Variants {
		mapped := domain.TargetVariant{
			Title:             variant.Title,
			Price:             variant.Price,
			CompareAtPrice:    variant.CompareAtPrice,
			SKU:               variant.SKU,
			Barcode:           variant.Barcode,
			InventoryQuantity: variant.InventoryQuantity,
		}
		if mapped.Title == "" {
			mapped.Title = defaultVariantTitle
		}
		if mapped.Price == "" {
			mapped.Price = defaultPrice
		}

		positions := []**string{&mapped.Option1, &mapped.Option2, &mapped.Option3}
		for i, name := range dimensions {
			*positions[i] = optionValue(variant, name)
		}
		target.Variants = append(target.Variants, mapped)
	}

	return &domain.ProductPayload{Product: target}
}

// optionDimensions collects the distinct option names across variants, sorted
// lexicographically and truncated to the platform's three-dimension limit.
func optionDimensions(variants []domain.SourceVariant) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, variant := range variants {
		for _, opt := range variant.SelectedOptions {
			if _, ok := seen[opt.Name]; ok {
				continue
			}
			seen[opt.Name] = struct{}{}
			names = append(names, opt.Name)
		}
	}
	sort.Strings(names)
	if len(names) > maxOptionDimensions {
		names = names[:maxOptionDimensions]
	}
	return names
}

// optionValue looks up a variant's value for one dimension name; nil when the
// variant does not carry that dimension.
func optionValue(variant domain.SourceVariant, name string) *string {
	for _, opt := range variant.SelectedOptions {
		if opt.Name == name {
			value := opt.Value
			return &value
		}
	}
	return nil
}

// ApplyConflictSuffix appends one timestamp suffix to every variant title and
// to the first option value within a single create payload. This is a
// heuristic against the target platform's uniqueness constraint on variant
// option combinations, not a collision guarantee.
func ApplyConflictSuffix(payload *domain.ProductPayload, timestamp int64) {
	suffix := fmt.Sprintf(" (%d)", timestamp)
	for i := range payload.Product.Variants {
		variant := &payload.Product.Variants[i]
		variant.Title += suffix
		if variant.Option1 != nil {
			suffixed := *variant.Option1 + suffix
			variant.Option1 = &suffixed
		}
	}
}

package application

import (
	"testing"

	"shopify-product-export/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestBuildProductPayloadMapsScalarFields(t *testing.T) {
	product := &domain.SourceProduct{
		ID:          "gid://shopify/Product/1",
		Title:       "Red Shirt",
		Vendor:      "Acme",
		ProductType: "Apparel",
		Tags:        []string{"summer", "sale"},
		BodyHTML:    "<p>Soft</p>",
		Images: []domain.SourceImage{
			{URL: "https://cdn/one.png", AltText: "front"},
			{URL: "https://cdn/two.png"},
		},
		Variants: []domain.SourceVariant{
			{
				Title:             "Red / M",
				Price:             "19.99",
				CompareAtPrice:    strPtr("24.99"),
				SKU:               "RS-M",
				Barcode:           "123",
				InventoryQuantity: 7,
				SelectedOptions: []domain.SelectedOption{
					{Name: "Color", Value: "Red"},
					{Name: "Size", Value: "M"},
				},
			},
		},
	}

	payload := BuildProductPayload(product, "")
	got := payload.Product

	if got.Title != "Red Shirt" || got.Vendor != "Acme" || got.ProductType != "Apparel" {
		t.Errorf("scalar fields not mapped: %+v", got)
	}
	if got.BodyHTML != "<p>Soft</p>" {
		t.Errorf("body not mapped: %q", got.BodyHTML)
	}
	if len(got.Images) != 2 || got.Images[0].Src != "https://cdn/one.png" || got.Images[0].Alt != "front" {
		t.Errorf("images not mapped in order: %+v", got.Images)
	}
	if got.Images[1].Alt != "" {
		t.Errorf("missing alt text should map to empty, got %q", got.Images[1].Alt)
	}
	if len(got.Variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(got.Variants))
	}
	v := got.Variants[0]
	if v.Price != "19.99" || v.CompareAtPrice == nil || *v.CompareAtPrice != "24.99" || v.InventoryQuantity != 7 {
		t.Errorf("variant fields not mapped: %+v", v)
	}
	if v.Option1 == nil || *v.Option1 != "Red" || v.Option2 == nil || *v.Option2 != "M" || v.Option3 != nil {
		t.Errorf("option positions wrong: %+v", v)
	}
}

func TestBuildProductPayloadDefaults(t *testing.T) {
	payload := BuildProductPayload(&domain.SourceProduct{ID: "gid://shopify/Product/2"}, "")
	got := payload.Product

	if got.Title != "Untitled Product" {
		t.Errorf("expected default title, got %q", got.Title)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("expected empty tag list, got %v", got.Tags)
	}
	if got.Status != "" {
		t.Errorf("expected no status, got %q", got.Status)
	}
}

func TestBuildProductPayloadAppliesStatus(t *testing.T) {
	payload := BuildProductPayload(&domain.SourceProduct{ID: "p", Title: "T"}, "draft")
	if payload.Product.Status != "draft" {
		t.Errorf("expected status draft, got %q", payload.Product.Status)
	}
}

// Option dimensions must be stable regardless of per-variant option order.
func TestOptionDimensionStability(t *testing.T) {
	product := &domain.SourceProduct{
		ID:    "gid://shopify/Product/3",
		Title: "Shirt",
		Variants: []domain.SourceVariant{
			{
				Title: "M / Blue",
				Price: "10.00",
				SelectedOptions: []domain.SelectedOption{
					{Name: "Size", Value: "M"},
					{Name: "Color", Value: "Blue"},
				},
			},
			{
				Title: "Red / L",
				Price: "10.00",
				SelectedOptions: []domain.SelectedOption{
					{Name: "Color", Value: "Red"},
					{Name: "Size", Value: "L"},
				},
			},
		},
	}

	payload := BuildProductPayload(product, "")
	options := payload.Product.Options
	if len(options) != 2 || options[0].Name != "Color" || options[1].Name != "Size" {
		t.Fatalf("expected [Color Size], got %+v", options)
	}

	first := payload.Product.Variants[0]
	if first.Option1 == nil || *first.Option1 != "Blue" {
		t.Errorf("variant 0 option1 should be its Color value, got %v", first.Option1)
	}
	if first.Option2 == nil || *first.Option2 != "M" {
		t.Errorf("variant 0 option2 should be its Size value, got %v", first.Option2)
	}

	second := payload.Product.Variants[1]
	if second.Option1 == nil || *second.Option1 != "Red" || second.Option2 == nil || *second.Option2 != "L" {
		t.Errorf("variant 1 options wrong: %v %v", second.Option1, second.Option2)
	}
}

func TestOptionDimensionsTruncatedToThree(t *testing.T) {
	product := &domain.SourceProduct{
		ID:    "gid://shopify/Product/4",
		Title: "Gadget",
		Variants: []domain.SourceVariant{
			{
				Title: "A",
				Price: "1.00",
				SelectedOptions: []domain.SelectedOption{
					{Name: "Color", Value: "Red"},
					{Name: "Size", Value: "S"},
					{Name: "Material", Value: "Wool"},
					{Name: "Pattern", Value: "Plaid"},
				},
			},
		},
	}

	payload := BuildProductPayload(product, "")
	options := payload.Product.Options
	if len(options) != 3 {
		t.Fatalf("expected 3 option dimensions, got %d", len(options))
	}
	// Lexicographic: Color, Material, Pattern; Size falls off.
	if options[0].Name != "Color" || options[1].Name != "Material" || options[2].Name != "Pattern" {
		t.Errorf("unexpected dimension order: %+v", options)
	}
}

func TestUnmatchedOptionPositionIsNull(t *testing.T) {
	product := &domain.SourceProduct{
		ID:    "gid://shopify/Product/5",
		Title: "Mixed",
		Variants: []domain.SourceVariant{
			{
				Title:           "Red",
				Price:           "5.00",
				SelectedOptions: []domain.SelectedOption{{Name: "Color", Value: "Red"}},
			},
			{
				Title:           "M",
				Price:           "5.00",
				SelectedOptions: []domain.SelectedOption{{Name: "Size", Value: "M"}},
			},
		},
	}

	payload := BuildProductPayload(product, "")
	first := payload.Product.Variants[0]
	if first.Option1 == nil || *first.Option1 != "Red" || first.Option2 != nil {
		t.Errorf("variant 0: want option1=Red option2=nil, got %v %v", first.Option1, first.Option2)
	}
	second := payload.Product.Variants[1]
	if second.Option1 != nil || second.Option2 == nil || *second.Option2 != "M" {
		t.Errorf("variant 1: want option1=nil option2=M, got %v %v", second.Option1, second.Option2)
	}
}

// A product with no variants gets the synthesized default option and variant.
func TestNoVariantDefault(t *testing.T) {
	payload := BuildProductPayload(&domain.SourceProduct{ID: "p", Title: "Bare"}, "")
	got := payload.Product

	if len(got.Options) != 1 || got.Options[0].Name != "Title" {
		t.Fatalf("expected single Title option, got %+v", got.Options)
	}
	if len(got.Variants) != 1 {
		t.Fatalf("expected single default variant, got %d", len(got.Variants))
	}
	v := got.Variants[0]
	if v.Title != "Default Title" || v.Price != "0.00" || v.InventoryQuantity != 0 {
		t.Errorf("default variant wrong: %+v", v)
	}
	if v.CompareAtPrice != nil {
		t.Errorf("default variant compare_at_price should be null")
	}
}

// The conflict suffix must be identical across all variants of one payload and
// applied to both the title and the first option value.
func TestApplyConflictSuffix(t *testing.T) {
	product := &domain.SourceProduct{
		ID:    "p",
		Title: "Shirt",
		Variants: []domain.SourceVariant{
			{
				Title:           "Red / M",
				Price:           "10.00",
				SelectedOptions: []domain.SelectedOption{{Name: "Color", Value: "Red"}, {Name: "Size", Value: "M"}},
			},
			{
				Title:           "Blue / L",
				Price:           "10.00",
				SelectedOptions: []domain.SelectedOption{{Name: "Color", Value: "Blue"}, {Name: "Size", Value: "L"}},
			},
		},
	}

	payload := BuildProductPayload(product, "")
	ApplyConflictSuffix(payload, 1700000000000)

	want := " (1700000000000)"
	for i, v := range payload.Product.Variants {
		if v.Title[len(v.Title)-len(want):] != want {
			t.Errorf("variant %d title missing suffix: %q", i, v.Title)
		}
		if v.Option1 == nil || (*v.Option1)[len(*v.Option1)-len(want):] != want {
			t.Errorf("variant %d option1 missing suffix: %v", i, v.Option1)
		}
		if v.Option2 == nil || (*v.Option2 != "M" && *v.Option2 != "L") {
			t.Errorf("variant %d option2 should be untouched: %v", i, v.Option2)
		}
	}

	if payload.Product.Variants[0].Title != "Red / M"+want {
		t.Errorf("unexpected suffixed title: %q", payload.Product.Variants[0].Title)
	}
}

func TestApplyConflictSuffixSkipsNilOption1(t *testing.T) {
	payload := &domain.ProductPayload{
		Product: domain.TargetProduct{
			Variants: []domain.TargetVariant{{Title: "X", Price: "1.00"}},
		},
	}
	ApplyConflictSuffix(payload, 42)
	if payload.Product.Variants[0].Option1 != nil {
		t.Errorf("nil option1 must stay nil")
	}
	if payload.Product.Variants[0].Title != "X (42)" {
		t.Errorf("title should still be suffixed, got %q", payload.Product.Variants[0].Title)
	}
}

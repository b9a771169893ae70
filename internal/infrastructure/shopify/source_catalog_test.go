package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"shopify-product-export/internal/ports"
	experrors "shopify-product-export/pkg/errors"

	"github.com/rs/zerolog"
)

type fakeAdminClient struct {
	response  *ports.GraphQLResponse
	err       error
	lastQuery string
	lastVars  map[string]interface{}
}

func (f *fakeAdminClient) Execute(ctx context.Context, query string, variables map[string]interface{}) (*ports.GraphQLResponse, error) {
	f.lastQuery = query
	f.lastVars = variables
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

const detailedProductData = `{
	"product": {
		"id": "gid://shopify/Product/1",
		"title": "Wool Hat",
		"handle": "wool-hat",
		"status": "ACTIVE",
		"vendor": "Acme",
		"productType": "Apparel",
		"tags": ["winter", "wool"],
		"bodyHtml": "<p>Warm</p>",
		"images": {"edges": [
			{"node": {"id": "gid://shopify/ProductImage/1", "url": "https://cdn/hat.png", "altText": "hat"}}
		]},
		"variants": {"edges": [
			{"node": {
				"id": "gid://shopify/ProductVariant/1",
				"title": "Red / M",
				"price": "19.99",
				"compareAtPrice": "24.99",
				"inventoryQuantity": 3,
				"sku": "WH-R-M",
				"barcode": "111",
				"selectedOptions": [{"name": "Color", "value": "Red"}, {"name": "Size", "value": "M"}]
			}},
			{"node": {
				"id": "gid://shopify/ProductVariant/2",
				"title": "Blue / M",
				"price": "19.99",
				"compareAtPrice": null,
				"inventoryQuantity": 0,
				"sku": "WH-B-M",
				"barcode": "",
				"selectedOptions": [{"name": "Color", "value": "Blue"}, {"name": "Size", "value": "M"}]
			}}
		]},
		"metafields": {"edges": [
			{"node": {"namespace": "custom", "key": "material", "value": "wool", "type": "single_line_text_field", "description": ""}}
		]}
	}
}`

func TestFetchDetailedProduct(t *testing.T) {
	admin := &fakeAdminClient{response: &ports.GraphQLResponse{Data: json.RawMessage(detailedProductData)}}
	catalog := NewSourceCatalog(admin, zerolog.Nop())

	product, err := catalog.FetchDetailedProduct(context.Background(), "gid://shopify/Product/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if admin.lastVars["id"] != "gid://shopify/Product/1" {
		t.Errorf("query variables missing product id: %v", admin.lastVars)
	}
	if !strings.Contains(admin.lastQuery, "selectedOptions") {
		t.Errorf("query should request selected options")
	}

	if product.Title != "Wool Hat" || product.Vendor != "Acme" || product.ProductType != "Apparel" {
		t.Errorf("scalar fields not mapped: %+v", product)
	}
	if len(product.Tags) != 2 || product.Tags[0] != "winter" {
		t.Errorf("tags not mapped: %v", product.Tags)
	}
	if len(product.Images) != 1 || product.Images[0].URL != "https://cdn/hat.png" || product.Images[0].AltText != "hat" {
		t.Errorf("images not mapped: %+v", product.Images)
	}
	if len(product.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(product.Variants))
	}

	first := product.Variants[0]
	if first.Price != "19.99" || first.CompareAtPrice == nil || *first.CompareAtPrice != "24.99" {
		t.Errorf("variant prices not mapped: %+v", first)
	}
	if len(first.SelectedOptions) != 2 || first.SelectedOptions[0].Name != "Color" || first.SelectedOptions[0].Value != "Red" {
		t.Errorf("selected options not mapped: %+v", first.SelectedOptions)
	}

	second := product.Variants[1]
	if second.CompareAtPrice != nil {
		t.Errorf("null compareAtPrice must map to nil, got %v", *second.CompareAtPrice)
	}

	if len(product.Metafields) != 1 || product.Metafields[0].Key != "material" || product.Metafields[0].Value != "wool" {
		t.Errorf("metafields not mapped: %+v", product.Metafields)
	}
}

func TestFetchDetailedProductTransportError(t *testing.T) {
	admin := &fakeAdminClient{err: errors.New("connection refused")}
	catalog := NewSourceCatalog(admin, zerolog.Nop())

	_, err := catalog.FetchDetailedProduct(context.Background(), "gid://shopify/Product/1")
	var upstream *experrors.ErrUpstreamQuery
	if !errors.As(err, &upstream) {
		t.Fatalf("expected upstream query error, got %v", err)
	}
}

func TestFetchDetailedProductQueryErrors(t *testing.T) {
	admin := &fakeAdminClient{response: &ports.GraphQLResponse{
		Data: json.RawMessage(`{"product": null}`),
		Errors: []ports.GraphQLError{
			{Message: "Throttled"},
			{Message: "Field deprecated", Path: []interface{}{"product", "variants"}},
		},
	}}
	catalog := NewSourceCatalog(admin, zerolog.Nop())

	_, err := catalog.FetchDetailedProduct(context.Background(), "gid://shopify/Product/1")
	var upstream *experrors.ErrUpstreamQuery
	if !errors.As(err, &upstream) {
		t.Fatalf("expected upstream query error, got %v", err)
	}
	if !strings.Contains(upstream.Message, "Throttled") || !strings.Contains(upstream.Message, "Field deprecated") {
		t.Errorf("error should join every query error message: %q", upstream.Message)
	}
	if !strings.Contains(upstream.Message, "(path product.variants)") {
		t.Errorf("error should name the query path when reported: %q", upstream.Message)
	}
}

func TestFetchDetailedProductMissingNode(t *testing.T) {
	admin := &fakeAdminClient{response: &ports.GraphQLResponse{Data: json.RawMessage(`{"product": null}`)}}
	catalog := NewSourceCatalog(admin, zerolog.Nop())

	_, err := catalog.FetchDetailedProduct(context.Background(), "gid://shopify/Product/999")
	var malformed *experrors.ErrMalformedResponse
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestShopName(t *testing.T) {
	admin := &fakeAdminClient{response: &ports.GraphQLResponse{Data: json.RawMessage(`{"shop": {"name": "Source Shop"}}`)}}
	catalog := NewSourceCatalog(admin, zerolog.Nop())

	name, err := catalog.ShopName(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Source Shop" {
		t.Errorf("unexpected shop name %q", name)
	}
}

func TestShopNameQueryError(t *testing.T) {
	admin := &fakeAdminClient{response: &ports.GraphQLResponse{
		Data:   json.RawMessage(`null`),
		Errors: []ports.GraphQLError{{Message: "denied"}},
	}}
	catalog := NewSourceCatalog(admin, zerolog.Nop())

	if _, err := catalog.ShopName(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

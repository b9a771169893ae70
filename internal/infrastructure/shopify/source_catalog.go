package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shopify-product-export/internal/domain"
	"shopify-product-export/internal/ports"
	experrors "shopify-product-export/pkg/errors"

	"github.com/rs/zerolog"
)

const detailedProductQuery = `
query getDetailedProduct($id: ID!) {
	product(id: $id) {
		id
		title
		handle
		status
		vendor
		productType
		tags
		bodyHtml
		images(first: 50) {
			edges {
				node {
					id
					url
					altText
				}
			}
		}
		variants(first: 50) {
			edges {
				node {
					id
					title
					price
					compareAtPrice
					inventoryQuantity
					sku
					barcode
					selectedOptions {
						name
						value
					}
				}
			}
		}
		metafields(first: 50) {
			edges {
				node {
					id
					namespace
					key
					value
					type
					description
				}
			}
		}
	}
}`

const shopNameQuery = `
{
	shop {
		name
	}
}`

// SourceCatalog reads product data from the source store through an admin
// client. One instance is built per export call around the caller's client.
type SourceCatalog struct {
	admin  ports.AdminClient
	logger zerolog.Logger
}

// NewSourceCatalog wraps an admin client.
func NewSourceCatalog(admin ports.AdminClient, logger zerolog.Logger) *SourceCatalog {
	return &SourceCatalog{admin: admin, logger: logger}
}

// CatalogFactory implements ports.SourceCatalogFactory.
type CatalogFactory struct {
	logger zerolog.Logger
}

// NewCatalogFactory creates the factory.
func NewCatalogFactory(logger zerolog.Logger) *CatalogFactory {
	return &CatalogFactory{logger: logger}
}

// CatalogFor builds a catalog around an admin client.
func (f *CatalogFactory) CatalogFor(admin ports.AdminClient) ports.SourceCatalog {
	return NewSourceCatalog(admin, f.logger)
}

type edges[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

type detailedProductNode struct {
	ID          string                     `json:"id"`
	Title       string                     `json:"title"`
	Handle      string                     `json:"handle"`
	Status      string                     `json:"status"`
	Vendor      string                     `json:"vendor"`
	ProductType string                     `json:"productType"`
	Tags        []string                   `json:"tags"`
	BodyHTML    string                     `json:"bodyHtml"`
	Images      edges[domain.SourceImage]  `json:"images"`
	Variants    edges[sourceVariantNode]   `json:"variants"`
	Metafields  edges[sourceMetafieldNode] `json:"metafields"`
}

type sourceVariantNode struct {
	ID                string                  `json:"id"`
	Title             string                  `json:"title"`
	Price             string                  `json:"price"`
	CompareAtPrice    *string                 `json:"compareAtPrice"`
	InventoryQuantity int                     `json:"inventoryQuantity"`
	SKU               string                  `json:"sku"`
	Barcode           string                  `json:"barcode"`
	SelectedOptions   []domain.SelectedOption `json:"selectedOptions"`
}

type sourceMetafieldNode struct {
	Namespace   string `json:"namespace"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// FetchDetailedProduct retrieves the full product snapshot for one product id.
// A single failed fetch aborts the export for its (product, store) pair; there
// is no retry.
func (c *SourceCatalog) FetchDetailedProduct(ctx context.Context, productID string) (*domain.SourceProduct, error) {
	resp, err := c.admin.Execute(ctx, detailedProductQuery, map[string]interface{}{"id": productID})
	if err != nil {
		c.logger.Error().Err(err).Str("productId", productID).Msg("Failed to fetch detailed product")
		return nil, &experrors.ErrUpstreamQuery{Message: err.Error()}
	}

	if len(resp.Errors) > 0 {
		messages := make([]string, len(resp.Errors))
		for i, gqlErr := range resp.Errors {
			messages[i] = formatQueryError(gqlErr)
		}
		c.logger.Error().Str("productId", productID).Strs("errors", messages).Msg("Admin API reported query errors")
		return nil, &experrors.ErrUpstreamQuery{Message: strings.Join(messages, "; ")}
	}

	var data struct {
		Product *detailedProductNode `json:"product"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, &experrors.ErrMalformedResponse{Detail: fmt.Sprintf("failed to decode product: %v", err)}
	}
	if data.Product == nil {
		return nil, &experrors.ErrMalformedResponse{Detail: "product node is absent"}
	}

	return mapProductNode(data.Product), nil
}

// ShopName returns the source shop's display name.
func (c *SourceCatalog) ShopName(ctx context.Context) (string, error) {
	resp, err := c.admin.Execute(ctx, shopNameQuery, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch shop name: %w", err)
	}
	if len(resp.Errors) > 0 {
		return "", fmt.Errorf("failed to fetch shop name: %s", resp.Errors[0].Message)
	}

	var data struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to decode shop name: %w", err)
	}

	return data.Shop.Name, nil
}

// formatQueryError renders one admin API error, appending the query path when
// the API reports one.
func formatQueryError(gqlErr ports.GraphQLError) string {
	if len(gqlErr.Path) == 0 {
		return gqlErr.Message
	}
	parts := make([]string, len(gqlErr.Path))
	for i, segment := range gqlErr.Path {
		parts[i] = fmt.Sprint(segment)
	}
	return fmt.Sprintf("%s (path %s)", gqlErr.Message, strings.Join(parts, "."))
}

func mapProductNode(node *detailedProductNode) *domain.SourceProduct {
	product := &domain.SourceProduct{
		ID:          node.ID,
		Title:       node.Title,
		Handle:      node.Handle,
		Status:      node.Status,
		Vendor:      node.Vendor,
		ProductType: node.ProductType,
		Tags:        node.Tags,
		BodyHTML:    node.BodyHTML,
	}

	for _, edge := range node.Images.Edges {
		product.Images = append(product.Images, edge.Node)
	}
	for _, edge := range node.Variants.Edges {
		product.Variants = append(product.Variants, domain.SourceVariant{
			ID:                edge.Node.ID,
			Title:             edge.Node.Title,
			Price:             edge.Node.Price,
			CompareAtPrice:    edge.Node.CompareAtPrice,
			InventoryQuantity: edge.Node.InventoryQuantity,
			SKU:               edge.Node.SKU,
			Barcode:           edge.Node.Barcode,
			SelectedOptions:   edge.Node.SelectedOptions,
		})
	}
	for _, edge := range node.Metafields.Edges {
		product.Metafields = append(product.Metafields, domain.Metafield{
			Namespace:   edge.Node.Namespace,
			Key:         edge.Node.Key,
			Value:       edge.Node.Value,
			Type:        edge.Node.Type,
			Description: edge.Node.Description,
		})
	}

	return product
}

var (
	_ ports.SourceCatalog        = (*SourceCatalog)(nil)
	_ ports.SourceCatalogFactory = (*CatalogFactory)(nil)
)

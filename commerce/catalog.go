package commerce

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
)

// CatalogClient reads the product catalog over the commerce backend's
// GraphQL endpoint. Catalog access is read-only; the storefront never
// mutates catalog data.
type CatalogClient struct {
	gql *graphql.Client
}

func NewCatalogClient(endpoint string) *CatalogClient {
	return &CatalogClient{gql: graphql.NewClient(endpoint)}
}

// Term is a category or brand node.
type Term struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Image is a catalog media reference.
type Image struct {
	SourceURL string `json:"sourceUrl"`
}

// Product is the catalog shape the storefront renders. DatabaseID is the
// stable numeric identity used for cart lines and order line items.
type Product struct {
	ID               string `json:"id"`
	DatabaseID       int64  `json:"databaseId"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Price            string `json:"price"`
	ShortDescription string `json:"shortDescription,omitempty"`
	Description      string `json:"description,omitempty"`
	Image            Image  `json:"image"`
	Categories       []Term `json:"categories"`
	Brands           []Term `json:"brands"`
}

type termList struct {
	Nodes []Term `json:"nodes"`
}

type gqlProduct struct {
	ID                string   `json:"id"`
	DatabaseID        int64    `json:"databaseId"`
	Name              string   `json:"name"`
	Slug              string   `json:"slug"`
	Price             string   `json:"price"`
	ShortDescription  string   `json:"shortDescription"`
	Description       string   `json:"description"`
	Image             Image    `json:"image"`
	ProductCategories termList `json:"productCategories"`
	ProductBrands     termList `json:"productBrands"`
}

func (p gqlProduct) toProduct() Product {
	return Product{
		ID:               p.ID,
		DatabaseID:       p.DatabaseID,
		Name:             p.Name,
		Slug:             p.Slug,
		Price:            p.Price,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Image:            p.Image,
		Categories:       p.ProductCategories.Nodes,
		Brands:           p.ProductBrands.Nodes,
	}
}

// productFields is shared by every product query. Price lives on the
// concrete product types, so it is requested through inline fragments.
const productFields = `
	id
	databaseId
	name
	slug
	image { sourceUrl }
	productCategories { nodes { id name slug } }
	productBrands { nodes { id name slug } }
	... on SimpleProduct { price }
	... on VariableProduct { price }
	... on ExternalProduct { price }
	... on GroupProduct { price }
`

// ShopData is the initial bundle for the shop page: the full term lists plus
// the first page of products.
type ShopData struct {
	Categories []Term    `json:"categories"`
	Brands     []Term    `json:"brands"`
	Products   []Product `json:"products"`
}

// ShopInit fetches categories, brands and the first page of products in one
// round trip.
func (cc *CatalogClient) ShopInit(ctx context.Context) (*ShopData, error) {
	req := graphql.NewRequest(fmt.Sprintf(`
		query ShopInit {
			productCategories(first: 100) {
				nodes { id name slug count }
			}
			productBrands(first: 100) {
				nodes { id name slug count }
			}
			products(first: 60) {
				nodes { %s }
			}
		}
	`, productFields))

	var resp struct {
		ProductCategories termList `json:"productCategories"`
		ProductBrands     termList `json:"productBrands"`
		Products          struct {
			Nodes []gqlProduct `json:"nodes"`
		} `json:"products"`
	}
	if err := cc.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("shop init query failed: %w", err)
	}

	data := &ShopData{
		Categories: resp.ProductCategories.Nodes,
		Brands:     resp.ProductBrands.Nodes,
		Products:   make([]Product, 0, len(resp.Products.Nodes)),
	}
	for _, node := range resp.Products.Nodes {
		data.Products = append(data.Products, node.toProduct())
	}
	return data, nil
}

// Categories fetches all product categories.
func (cc *CatalogClient) Categories(ctx context.Context) ([]Term, error) {
	return cc.terms(ctx, "productCategories")
}

// Brands fetches all product brands.
func (cc *CatalogClient) Brands(ctx context.Context) ([]Term, error) {
	return cc.terms(ctx, "productBrands")
}

func (cc *CatalogClient) terms(ctx context.Context, field string) ([]Term, error) {
	req := graphql.NewRequest(fmt.Sprintf(`
		query Terms {
			%s(first: 100) {
				nodes { id name slug count }
			}
		}
	`, field))

	var resp map[string]termList
	if err := cc.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("%s query failed: %w", field, err)
	}
	return resp[field].Nodes, nil
}

// ProductsByCategory fetches products filtered by a category slug. An empty
// slug returns the unfiltered first page.
func (cc *CatalogClient) ProductsByCategory(ctx context.Context, slug string) ([]Product, error) {
	query := fmt.Sprintf(`
		query ProductsByCategory($slug: String!) {
			products(first: 60, where: { category: $slug }) {
				nodes { %s }
			}
		}
	`, productFields)
	if slug == "" {
		query = fmt.Sprintf(`
			query Products {
				products(first: 60) {
					nodes { %s }
				}
			}
		`, productFields)
	}

	req := graphql.NewRequest(query)
	if slug != "" {
		req.Var("slug", slug)
	}
	return cc.products(ctx, req)
}

// ProductsByBrand fetches products carrying the given brand slug. Brand is a
// custom taxonomy upstream, so the filter goes through the taxonomy clause.
func (cc *CatalogClient) ProductsByBrand(ctx context.Context, slug string) ([]Product, error) {
	req := graphql.NewRequest(fmt.Sprintf(`
		query ProductsByBrand($slug: [String]) {
			products(first: 60, where: {
				taxonomyFilter: { filters: [{ taxonomy: PRODUCT_BRAND, terms: $slug }] }
			}) {
				nodes { %s }
			}
		}
	`, productFields))
	req.Var("slug", []string{slug})
	return cc.products(ctx, req)
}

func (cc *CatalogClient) products(ctx context.Context, req *graphql.Request) ([]Product, error) {
	var resp struct {
		Products struct {
			Nodes []gqlProduct `json:"nodes"`
		} `json:"products"`
	}
	if err := cc.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("products query failed: %w", err)
	}

	products := make([]Product, 0, len(resp.Products.Nodes))
	for _, node := range resp.Products.Nodes {
		products = append(products, node.toProduct())
	}
	return products, nil
}

// ProductBySlug fetches a single product for the product detail page.
func (cc *CatalogClient) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	req := graphql.NewRequest(fmt.Sprintf(`
		query ProductBySlug($slug: ID!) {
			product(id: $slug, idType: SLUG) {
				%s
				shortDescription
				description
			}
		}
	`, productFields))
	req.Var("slug", slug)

	var resp struct {
		Product *gqlProduct `json:"product"`
	}
	if err := cc.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("product query failed: %w", err)
	}
	if resp.Product == nil {
		return nil, nil
	}
	product := resp.Product.toProduct()
	return &product, nil
}

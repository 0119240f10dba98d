package domain

// ProductRecord is one row of the storefront catalog
type ProductRecord struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Flavor      string  `json:"flavor"`
	Strength    int     `json:"strength"` // milligrams
	Price       float64 `json:"price,omitempty"`
	Stock       int     `json:"stock,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Description string  `json:"description,omitempty"`

	// Raw is the source document as decoded, including fields not modeled above
	Raw map[string]interface{} `json:"-"`
}

// Catalog is the ordered product list loaded from the catalog file
type Catalog struct {
	Products []ProductRecord `json:"products"`
}

// Document is a keyed record destined for a document store
type Document struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

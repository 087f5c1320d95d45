package models

// Product represents a catalog entry from the Products sheet. Read-only.
type Product struct {
	SKU           string   `json:"sku"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	StockLevel    int      `json:"stockLevel"`
	Description   string   `json:"description"`
	Compatibility []string `json:"compatibility"`
	ImageURL      string   `json:"imageUrl"`
}

// Compatibility is the result of checking a product against a device model.
type Compatibility struct {
	Compatible       bool     `json:"compatible"`
	ProductName      string   `json:"productName"`
	SupportedDevices []string `json:"supportedDevices"`
}

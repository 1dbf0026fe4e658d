// Package model 定义了与数据库表对应的 Go 结构体。
package model

// EsListing 代表存储在 Elasticsearch 车源索引中的文档结构。
type EsListing struct {
	ListingID    string  `json:"listing_id"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
	BodyType     string  `json:"body_type"`
	Color        string  `json:"color"`
	Mileage      float64 `json:"mileage"`
	City         string  `json:"city"`
	Condition    string  `json:"condition"`
	SellerType   string  `json:"seller_type"`
	BusinessName string  `json:"business_name"`
	// Title 是拼接出的检索文本，例如 "2020 Toyota RAV4 SUV Automatic Petrol"。
	Title string `json:"title"`
}

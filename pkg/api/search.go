package api

// ProductPage представляет страницу результатов поиска по товарам
type ProductPage struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	TotalItems int       `json:"total_items"`
}

// SearchResults представляет полный набор результатов одного поискового запроса.
// Набор всегда заменяется целиком, инкрементальный merge не предусмотрен.
type SearchResults struct {
	Products  ProductPage `json:"products"`
	Deals     []Deal      `json:"deals"`
	Suppliers []Supplier  `json:"suppliers"`
}

// SearchResponse представляет ответ GET /api/v1/search
type SearchResponse struct {
	Results SearchResults `json:"results"`
}

package domain

// Place результат поиска локации
type Place struct {
	Description string  `json:"description"`
	PlaceID     string  `json:"place_id"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

package locationiq

// autocompleteItem элемент ответа /autocomplete, координаты приходят строками
type autocompleteItem struct {
	PlaceID     string `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

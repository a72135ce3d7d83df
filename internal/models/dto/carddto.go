package dto

// CardDTO is the public view of a knowledge card.
type CardDTO struct {
	CardID    string `json:"card_id"`
	Content   string `json:"content"`
	Kind      string `json:"kind"`
	Source    string `json:"source"`
	Page      int    `json:"page,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
}

// CardSearchResponseDTO wraps a card search result set.
type CardSearchResponseDTO struct {
	Query string    `json:"query"`
	Count int       `json:"count"`
	Cards []CardDTO `json:"cards"`
}

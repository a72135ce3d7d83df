package constants

const (
	// CardsCollection is the collection/table holding knowledge-base cards.
	CardsCollection = "cards"

	// DefaultSearchLimit caps search results when the caller does not give a limit.
	DefaultSearchLimit = 20
)

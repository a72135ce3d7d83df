package models

const (
	// CardKindText marks a card built from a chunk of handbook text.
	CardKindText = "text"
	// CardKindImage marks a card built from an AI caption of an extracted figure.
	CardKindImage = "image"
)

// Card is a single entry in the knowledge base: a chunk of handbook text or the
// caption of an extracted figure, along with enough metadata to cite it.
type Card struct {
	ID        string `bson:"_id,omitempty" mapstructure:"id" db:"id"`
	Content   string `bson:"content" mapstructure:"content" db:"content"`
	Kind      string `bson:"kind" mapstructure:"kind" db:"kind"`
	Source    string `bson:"source" mapstructure:"source" db:"source"`
	Page      int    `bson:"page" mapstructure:"page" db:"page"`
	ChunkID   int    `bson:"chunk_id" mapstructure:"chunk_id" db:"chunk_id"`
	ImagePath string `bson:"image_path,omitempty" mapstructure:"image_path" db:"image_path"`
}

// NewTextCard creates a text card for one chunk of a page.
func NewTextCard(content, source string, page, chunkID int) *Card {
	return &Card{
		Content: content,
		Kind:    CardKindText,
		Source:  source,
		Page:    page,
		ChunkID: chunkID,
	}
}

// NewImageCard creates an image card for a captioned figure.
func NewImageCard(caption, source, imagePath string, page int) *Card {
	return &Card{
		Content:   caption,
		Kind:      CardKindImage,
		Source:    source,
		Page:      page,
		ImagePath: imagePath,
	}
}

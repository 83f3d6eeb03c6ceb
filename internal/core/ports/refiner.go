package ports

import "context"

// EmotionRefiner narrows a coarse emotion plus free-text detail down to one
// label from the closed emotion vocabulary.
type EmotionRefiner interface {
	RefineEmotion(ctx context.Context, mainEmotion, detail string) (string, error)
}

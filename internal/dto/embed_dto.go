package dto

import "github.com/google/uuid"

// PublishEmbedPostMessage is the embed-queue job payload.
type PublishEmbedPostMessage struct {
	PostId uuid.UUID `json:"post_id"`
}

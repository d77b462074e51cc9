package model

import "time"

// Favorite is a denormalized project snapshot saved to the local favorites
// slot. Membership is keyed by Project.ID; insertion order is preserved for
// display but irrelevant for membership checks.
type Favorite struct {
	Project Project   `json:"project"`
	AddedAt time.Time `json:"added_at"`
}

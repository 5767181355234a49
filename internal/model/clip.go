package model

import "fmt"

// ClipDescriptor identifies one B-roll clip and carries its semantic
// description, produced by the description collaborator.
type ClipDescriptor struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (c ClipDescriptor) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("clip id is required")
	}
	if c.Text == "" {
		return fmt.Errorf("clip %s has empty description", c.ID)
	}
	return nil
}

func ValidateClips(clips []ClipDescriptor) error {
	seen := make(map[string]bool, len(clips))
	for i, clip := range clips {
		if err := clip.Validate(); err != nil {
			return fmt.Errorf("clip %d: %w", i, err)
		}
		if seen[clip.ID] {
			return fmt.Errorf("clip %d: duplicate clip id %s", i, clip.ID)
		}
		seen[clip.ID] = true
	}
	return nil
}

package team

import "fmt"

// Team is one of the 32 NFL franchises. Reference data, seeded once at import time.
type Team struct {
	ID       int64
	Name     string
	Short    string
	BadgeURL string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be positive")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Short == "" {
		return fmt.Errorf("team short code is required")
	}

	return nil
}

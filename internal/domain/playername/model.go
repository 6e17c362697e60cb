package playername

import "fmt"

// LocalizedName maps an upstream player id to its Korean display name.
type LocalizedName struct {
	PlayerID int64
	Name     string
}

func (n LocalizedName) Validate() error {
	if n.PlayerID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if n.Name == "" {
		return fmt.Errorf("localized name is required")
	}

	return nil
}

package mediaasset

import "fmt"

// Kind selects the upstream media namespace.
type Kind string

const (
	KindPlayer Kind = "players"
	KindTeam   Kind = "teams"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindPlayer, KindTeam:
		return Kind(raw), nil
	default:
		return "", fmt.Errorf("unknown media kind: %s", raw)
	}
}

// Asset is a stored override for an upstream image.
type Asset struct {
	Kind  Kind
	RefID int64
	URL   string
}

func (a Asset) Validate() error {
	if _, err := ParseKind(string(a.Kind)); err != nil {
		return err
	}
	if a.RefID <= 0 {
		return fmt.Errorf("ref id must be greater than zero")
	}
	if a.URL == "" {
		return fmt.Errorf("asset url is required")
	}

	return nil
}

// FallbackURL is the provider CDN location used when no stored asset exists.
func FallbackURL(kind Kind, refID int64) string {
	return fmt.Sprintf("https://media.api-sports.io/football/%s/%d.png", kind, refID)
}

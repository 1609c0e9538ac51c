package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	MaxSkills        = 10
	MaxPortfolioURLs = 5
	MaxBioLength     = 200
)

// User is a creative collaborator profile. UserID is the stable subject
// identifier asserted by the identity gateway and is immutable once created.
type User struct {
	UserID        string     `json:"user_id"`
	DisplayName   string     `json:"display_name"`
	Bio           string     `json:"bio"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	Skills        []string   `json:"skills"`
	PortfolioURLs []string   `json:"portfolio_urls"`
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Filter selects users in a search. Query matches display name, bio and
// skill tags; Skills matches when the user's tags intersect it (ANY-of).
type Filter struct {
	Query  string
	Skills []string
}

// Update carries profile edits. Nil pointer / nil slice means "unchanged".
type Update struct {
	DisplayName   *string
	Bio           *string
	AvatarURL     *string
	Skills        []string
	PortfolioURLs []string
}

// DedupSkills removes duplicate tags case-insensitively, keeping the first
// spelling and the original order.
func DedupSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.UserID) == "" {
		return fmt.Errorf("%w: user id required", ErrInvalidArgument)
	}
	if strings.TrimSpace(u.DisplayName) == "" {
		return fmt.Errorf("%w: display name required", ErrInvalidArgument)
	}
	if len(u.Bio) > MaxBioLength {
		return fmt.Errorf("%w: bio exceeds %d characters", ErrInvalidArgument, MaxBioLength)
	}
	if len(u.Skills) > MaxSkills {
		return fmt.Errorf("%w: at most %d skills allowed", ErrInvalidArgument, MaxSkills)
	}
	if len(u.PortfolioURLs) > MaxPortfolioURLs {
		return fmt.Errorf("%w: at most %d portfolio links allowed", ErrInvalidArgument, MaxPortfolioURLs)
	}
	for _, raw := range u.PortfolioURLs {
		parsed, err := url.Parse(raw)
		if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("%w: invalid portfolio url %q", ErrInvalidArgument, raw)
		}
	}
	return nil
}

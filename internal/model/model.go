// Package model holds the SpaceGame record types served by the repositories.
package model

// Score is one recorded game result.
type Score struct {
	ID         string `json:"id"`
	ProfileID  string `json:"profileId"`
	Score      int    `json:"score"`
	GameMode   string `json:"gameMode"`
	GameRegion string `json:"gameRegion"`
}

func (s Score) Identifier() string { return s.ID }

// HighScore orders scores by their value.
func HighScore(s Score) int { return s.Score }

// Profile is a player profile referenced by Score.ProfileID.
type Profile struct {
	ID           string   `json:"id"`
	UserName     string   `json:"userName"`
	AvatarURL    string   `json:"avatarUrl"`
	Achievements []string `json:"achievements"`
}

func (p Profile) Identifier() string { return p.ID }

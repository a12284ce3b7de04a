package models

// LeaderboardEntry is a ranked snapshot row joined to its user. The
// leaderboards table is populated by the learning platform, not by this API.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	Username  string  `json:"username"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	XP        int     `json:"xp"`
	Level     int     `json:"level"`
}

package controllers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mdrsisme/lisan-sign/config"
	"github.com/mdrsisme/lisan-sign/models"
	"github.com/mdrsisme/lisan-sign/utils"
)

// Leaderboard lists XP snapshots of verified users, best first. The
// snapshots themselves are written by the learning platform; this endpoint
// only reads them.
func Leaderboard(c *fiber.Ctx) error {
	page, limit, offset := utils.ParsePagination(c)

	countQuery := `SELECT COUNT(*)
				   FROM leaderboards l
				   JOIN users u ON u.id = l.user_id
				   WHERE u.is_verified = TRUE`

	var total int
	if err := config.DB.QueryRow(countQuery).Scan(&total); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}

	listQuery := `SELECT l.xp_snapshot, l.level_snapshot, u.username, u.full_name, u.avatar_url
				  FROM leaderboards l
				  JOIN users u ON u.id = l.user_id
				  WHERE u.is_verified = TRUE
				  ORDER BY l.xp_snapshot DESC
				  LIMIT $1 OFFSET $2`

	rows, err := config.DB.Query(listQuery, limit, offset)
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}
	defer rows.Close()

	items := make([]models.LeaderboardEntry, 0)
	for rows.Next() {
		var xp, level int
		var username *string
		var fullName string
		var avatarURL *string

		if err := rows.Scan(&xp, &level, &username, &fullName, &avatarURL); err != nil {
			return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
		}

		entry := models.LeaderboardEntry{
			Rank:      offset + len(items) + 1,
			Username:  "Unknown",
			FullName:  fullName,
			AvatarURL: avatarURL,
			XP:        xp,
			Level:     level,
		}
		if username != nil && *username != "" {
			entry.Username = *username
		}
		if entry.FullName == "" {
			entry.FullName = "No Name"
		}
		items = append(items, entry)
	}
	if err := rows.Err(); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}

	return utils.Success(c, "Leaderboard fetched successfully", utils.Paginated{
		Items:      items,
		Pagination: utils.NewPagination(page, limit, total),
	})
}

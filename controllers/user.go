package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mdrsisme/lisan-sign/config"
	"github.com/mdrsisme/lisan-sign/models"
	"github.com/mdrsisme/lisan-sign/services"
	"github.com/mdrsisme/lisan-sign/utils"
)

// Safe projection: everything but password_hash.
const safeUserColumns = `id, full_name, username, email, role, is_verified,
	is_premium, xp, level, avatar_url, created_at, updated_at`

var userSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"full_name":  true,
	"username":   true,
	"email":      true,
	"role":       true,
	"xp":         true,
	"level":      true,
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user not found in context")
	}
	return id, nil
}

func scanSafeUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.IsVerified,
		&user.IsPremium,
		&user.XP,
		&user.Level,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers is the admin user browser: role filter, substring search,
// whitelisted sort and pagination.
func ListUsers(c *fiber.Ctx) error {
	page, limit, offset := utils.ParsePagination(c)

	role := c.Query("role")
	search := c.Query("search")

	sortBy := c.Query("sort", "created_at")
	if !userSortFields[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if c.Query("order") == "asc" {
		order = "ASC"
	}

	var conditions []string
	var args []interface{}

	if role != "" && role != "all" {
		args = append(args, role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d OR username ILIKE $%d)", n, n, n))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users` + whereClause
	if err := config.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		safeUserColumns, whereClause, sortBy, order, len(args)+1, len(args)+2)

	rows, err := config.DB.Query(listQuery, append(args, limit, offset)...)
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.FullName,
			&user.Username,
			&user.Email,
			&user.Role,
			&user.IsVerified,
			&user.IsPremium,
			&user.XP,
			&user.Level,
			&user.AvatarURL,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}

	return utils.Success(c, "Data retrieved successfully", utils.Paginated{
		Items:      users,
		Pagination: utils.NewPagination(page, limit, total),
	})
}

// UserStats fans the five count queries out concurrently; they are
// independent reads, so only latency is shared.
func UserStats(c *fiber.Ctx) error {
	var total, admins, users, verified, premium int

	countInto := func(dest *int, query string) func() error {
		return func() error {
			return config.DB.QueryRow(query).Scan(dest)
		}
	}

	g := new(errgroup.Group)
	g.Go(countInto(&total, `SELECT COUNT(*) FROM users`))
	g.Go(countInto(&admins, `SELECT COUNT(*) FROM users WHERE role = 'admin'`))
	g.Go(countInto(&users, `SELECT COUNT(*) FROM users WHERE role = 'user'`))
	g.Go(countInto(&verified, `SELECT COUNT(*) FROM users WHERE is_verified = TRUE`))
	g.Go(countInto(&premium, `SELECT COUNT(*) FROM users WHERE is_premium = TRUE`))

	if err := g.Wait(); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error retrieving stats", err)
	}

	stats := models.UserStats{
		TotalUsers: total,
		ByRole: models.RoleCounts{
			Admin: admins,
			User:  users,
		},
		ByStatus: models.StatusCounts{
			VerifiedUsers: verified,
			PremiumUsers:  premium,
			Unverified:    total - verified,
		},
	}

	return utils.Success(c, "Stats retrieved successfully", stats)
}

func GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	query := `SELECT ` + safeUserColumns + ` FROM users WHERE id = $1 LIMIT 1`
	user, err := scanSafeUser(config.DB.QueryRow(query, userID))
	if err == sql.ErrNoRows {
		return utils.Fail(c, http.StatusNotFound, "User not found")
	} else if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}

	return utils.Success(c, "Profile retrieved successfully", user)
}

// UpdateProfile applies a partial multipart update: only supplied fields
// change.
func UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var sets []string
	var args []interface{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if raw := c.FormValue("full_name"); raw != "" {
		fullName := strings.TrimSpace(raw)
		if len(fullName) < 3 {
			return utils.Fail(c, http.StatusBadRequest, "Full name must be at least 3 characters")
		}
		addSet("full_name", fullName)
	}

	if raw := c.FormValue("username"); raw != "" {
		username := strings.ToLower(strings.TrimSpace(raw))

		var takenBy uuid.UUID
		checkQuery := `SELECT id FROM users WHERE username = $1 AND id <> $2 LIMIT 1`
		err := config.DB.QueryRow(checkQuery, username, userID).Scan(&takenBy)
		if err == nil {
			return utils.Fail(c, http.StatusConflict, "Username already taken")
		} else if err != sql.ErrNoRows {
			return utils.FailWithError(c, http.StatusInternalServerError, "Failed to update profile", err)
		}

		addSet("username", username)
	}

	if avatar, err := c.FormFile("avatar"); err == nil && avatar != nil && avatar.Size > 0 {
		if !strings.HasPrefix(avatar.Header.Get("Content-Type"), "image/") {
			return utils.Fail(c, http.StatusBadRequest, "Avatar must be an image")
		}

		file, err := avatar.Open()
		if err != nil {
			return utils.FailWithError(c, http.StatusInternalServerError, "Failed to read avatar", err)
		}
		defer file.Close()

		upload, err := services.UploadFile(file, avatar, "lisan_avatars")
		if err != nil {
			return utils.FailWithError(c, http.StatusInternalServerError, "Failed to upload avatar", err)
		}
		addSet("avatar_url", upload.URL)
	}

	addSet("updated_at", time.Now())

	args = append(args, userID)
	updateQuery := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), safeUserColumns)

	user, err := scanSafeUser(config.DB.QueryRow(updateQuery, args...))
	if err == sql.ErrNoRows {
		return utils.Fail(c, http.StatusNotFound, "User not found")
	} else if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to update profile", err)
	}

	return utils.Success(c, "Profile updated successfully", user)
}

// DeleteAccount removes the user permanently; token rows go with it via the
// foreign key cascade, and both session cookies are expired.
func DeleteAccount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	if _, err := config.DB.Exec(`DELETE FROM users WHERE id = $1`, userID); err != nil {
		log.Printf("Delete user error: %v", err)
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to delete account", err)
	}

	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{Name: "accessToken", Value: "", Expires: expired, HTTPOnly: true, Path: "/"})
	c.Cookie(&fiber.Cookie{Name: "refreshToken", Value: "", Expires: expired, HTTPOnly: true, Path: "/"})

	return utils.Success(c, "Account permanently deleted", nil)
}

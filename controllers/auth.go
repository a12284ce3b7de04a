package controllers

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mdrsisme/lisan-sign/config"
	"github.com/mdrsisme/lisan-sign/models"
	"github.com/mdrsisme/lisan-sign/services"
	"github.com/mdrsisme/lisan-sign/utils"
)

var validate = validator.New()

const userColumns = `id, full_name, username, email, password_hash, avatar_url,
	is_verified, is_premium, role, xp, level, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.IsVerified,
		&user.IsPremium,
		&user.Role,
		&user.XP,
		&user.Level,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// upsertVerificationToken replaces the user's OTP in one statement. The
// partial unique index on tokens(user_id, type) makes concurrent resends
// settle on a single row instead of racing a delete against an insert.
func upsertVerificationToken(userID uuid.UUID, code string) error {
	query := `INSERT INTO tokens (user_id, token, type, expires_at)
			  VALUES ($1, $2, 'verification', $3)
			  ON CONFLICT (user_id, type) WHERE type = 'verification'
			  DO UPDATE SET token = EXCLUDED.token,
							expires_at = EXCLUDED.expires_at,
							is_used = FALSE,
							created_at = NOW()`

	_, err := config.DB.Exec(query, userID, code, time.Now().Add(utils.VerificationTTL))
	return err
}

type RegisterInput struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "Missing required fields")
	}
	if err := validate.Struct(input); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "Missing required fields")
	}

	// Single OR-lookup so we can tell the caller which field collided
	var existingEmail string
	var existingUsername *string
	dupQuery := `SELECT email, username FROM users WHERE email = $1 OR username = $2 LIMIT 1`

	err := config.DB.QueryRow(dupQuery, input.Email, input.Username).Scan(&existingEmail, &existingUsername)
	if err == nil {
		message := "Username already taken"
		if existingEmail == input.Email {
			message = "Email already registered"
		}
		return utils.Fail(c, http.StatusConflict, message)
	} else if err != sql.ErrNoRows {
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "Failed to hash password")
	}

	// The first account ever created becomes the admin. A failed count must
	// abort the request: falling through with count == 0 would hand the
	// admin role to whoever registers during a database hiccup.
	var count int
	if err := config.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		log.Printf("Query error on count users: %v", err)
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	role := "user"
	if count == 0 {
		role = "admin"
	}

	var userID uuid.UUID
	insertQuery := `INSERT INTO users (full_name, email, username, password_hash, role)
					VALUES ($1, $2, $3, $4, $5)
					RETURNING id`

	err = config.DB.QueryRow(insertQuery, input.FullName, input.Email, input.Username, hash, role).Scan(&userID)
	if err != nil {
		log.Printf("Insert user error: %v", err)
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if err := upsertVerificationToken(userID, code); err != nil {
		log.Printf("Insert verification token error: %v", err)
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	// Async send; a dispatch failure does not roll the registration back
	services.SendVerificationEmail(input.Email, input.FullName, code)

	return utils.Success(c, "Registration successful", fiber.Map{"userId": userID})
}

type LoginInput struct {
	// Email carries either the email address or the username.
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "Missing required fields")
	}
	if err := validate.Struct(input); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "Missing required fields")
	}

	selectQuery := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $1 LIMIT 1`
	user, err := scanUser(config.DB.QueryRow(selectQuery, input.Email))

	if err == sql.ErrNoRows {
		return utils.Fail(c, http.StatusUnauthorized, "Invalid email/username or password")
	} else if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Database error", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return utils.Fail(c, http.StatusUnauthorized, "Invalid email/username or password")
	}

	if !user.IsVerified {
		return utils.Fail(c, http.StatusForbidden, "Please verify your email address first")
	}

	accessToken, err := utils.GenerateAccessToken(utils.TokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
	})
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "Failed to generate access token")
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "Failed to generate refresh token")
	}

	insertToken := `INSERT INTO tokens (user_id, token, type, expires_at)
					VALUES ($1, $2, $3, $4)`

	_, err = config.DB.Exec(insertToken, user.ID, refreshToken, models.TokenTypeRefresh,
		time.Now().Add(utils.RefreshTokenTTL))
	if err != nil {
		log.Printf("Insert refresh token error: %v", err)
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to create session", err)
	}

	secure := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Strict",
		Path:     "/",
		MaxAge:   int(utils.AccessTokenTTL.Seconds()),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   secure,
		Path:     "/",
		MaxAge:   int(utils.RefreshTokenTTL.Seconds()),
	})

	return utils.Success(c, "Login successful", fiber.Map{
		"user":        user,
		"accessToken": accessToken,
	})
}

type VerifyInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

func Verify(c *fiber.Ctx) error {
	var input VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "Email and code are required")
	}
	if err := validate.Struct(input); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "Email and code are required")
	}

	var userID uuid.UUID
	var isVerified bool
	userQuery := `SELECT id, is_verified FROM users WHERE email = $1 LIMIT 1`

	err := config.DB.QueryRow(userQuery, input.Email).Scan(&userID, &isVerified)
	if err == sql.ErrNoRows {
		return utils.Fail(c, http.StatusNotFound, "User not found")
	} else if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if isVerified {
		return utils.Fail(c, http.StatusBadRequest, "User already verified")
	}

	var tokenID uuid.UUID
	var expiresAt time.Time
	tokenQuery := `SELECT id, expires_at FROM tokens
				   WHERE user_id = $1 AND token = $2 AND type = 'verification'
				   LIMIT 1`

	err = config.DB.QueryRow(tokenQuery, userID, input.Code).Scan(&tokenID, &expiresAt)
	if err == sql.ErrNoRows {
		return utils.Fail(c, http.StatusBadRequest, "Invalid verification code")
	} else if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	// An expired code stays in place; only a successful verification consumes it
	if expiresAt.Before(time.Now()) {
		return utils.Fail(c, http.StatusBadRequest, "Verification code expired")
	}

	updateQuery := `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`
	if _, err := config.DB.Exec(updateQuery, userID); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to verify account", err)
	}

	if _, err := config.DB.Exec(`DELETE FROM tokens WHERE id = $1`, tokenID); err != nil {
		log.Printf("Delete consumed token error: %v", err)
	}

	return utils.Success(c, "Email verified successfully", nil)
}

type SendCodeInput struct {
	Email string `json:"email" validate:"required,email"`
}

func SendCode(c *fiber.Ctx) error {
	var input SendCodeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "Email is required")
	}
	if err := validate.Struct(input); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "Email is required")
	}

	var userID uuid.UUID
	var fullName string
	var isVerified bool
	userQuery := `SELECT id, full_name, is_verified FROM users WHERE email = $1 LIMIT 1`

	err := config.DB.QueryRow(userQuery, input.Email).Scan(&userID, &fullName, &isVerified)
	if err == sql.ErrNoRows {
		return utils.Fail(c, http.StatusNotFound, "User not found")
	} else if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if isVerified {
		return utils.Fail(c, http.StatusBadRequest, "User already verified")
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	if err := upsertVerificationToken(userID, code); err != nil {
		log.Printf("Replace verification token error: %v", err)
		return utils.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}

	services.SendVerificationEmail(input.Email, fullName, code)

	return utils.Success(c, "Verification code sent", nil)
}

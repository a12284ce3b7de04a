package controllers

import (
	"database/sql"
	"fmt"
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

const announcementColumns = `id, title, content, image_url, banner_url,
	video_url, is_public, created_at, updated_at`

func scanAnnouncement(row *sql.Row) (*models.Announcement, error) {
	var a models.Announcement
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.ImageURL,
		&a.BannerURL,
		&a.VideoURL,
		&a.IsPublic,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// uploadFormFile pushes an optional multipart file to object storage and
// returns its public URL, or nil when the field was not supplied.
func uploadFormFile(c *fiber.Ctx, field, folder string) (*string, error) {
	header, err := c.FormFile(field)
	if err != nil || header == nil || header.Size == 0 {
		return nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	upload, err := services.UploadFile(file, header, folder)
	if err != nil {
		return nil, err
	}
	return &upload.URL, nil
}

func ListAnnouncements(c *fiber.Ctx) error {
	page, limit, offset := utils.ParsePagination(c)
	search := c.Query("search")
	visibility := c.Query("visibility")

	var conditions []string
	var args []interface{}

	if search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	switch visibility {
	case "public":
		conditions = append(conditions, "is_public = TRUE")
	case "private":
		conditions = append(conditions, "is_public = FALSE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM announcements` + whereClause
	if err := config.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM announcements%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		announcementColumns, whereClause, len(args)+1, len(args)+2)

	rows, err := config.DB.Query(listQuery, append(args, limit, offset)...)
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}
	defer rows.Close()

	items := make([]models.Announcement, 0)
	for rows.Next() {
		var a models.Announcement
		err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.ImageURL, &a.BannerURL,
			&a.VideoURL, &a.IsPublic, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}

	return utils.Success(c, "Data fetched successfully", utils.Paginated{
		Items:      items,
		Pagination: utils.NewPagination(page, limit, total),
	})
}

func CreateAnnouncement(c *fiber.Ctx) error {
	title := c.FormValue("title")
	content := c.FormValue("content")
	if title == "" || content == "" {
		return utils.Fail(c, http.StatusBadRequest, "Title and content are required")
	}

	isPublic := c.FormValue("is_public") == "true"

	imageURL, err := uploadFormFile(c, "image", "announcements/images")
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to upload image", err)
	}
	bannerURL, err := uploadFormFile(c, "banner", "announcements/banners")
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to upload banner", err)
	}
	videoURL, err := uploadFormFile(c, "video", "announcements/videos")
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to upload video", err)
	}

	insertQuery := `INSERT INTO announcements (title, content, is_public, image_url, banner_url, video_url)
					VALUES ($1, $2, $3, $4, $5, $6)
					RETURNING ` + announcementColumns

	created, err := scanAnnouncement(config.DB.QueryRow(insertQuery,
		title, content, isPublic, imageURL, bannerURL, videoURL))
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to create announcement", err)
	}

	return utils.Success(c, "Announcement created successfully", created)
}

func GetAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.Fail(c, http.StatusNotFound, "Announcement not found")
	}

	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1 LIMIT 1`
	announcement, err := scanAnnouncement(config.DB.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return utils.Fail(c, http.StatusNotFound, "Announcement not found")
	} else if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error fetching data", err)
	}

	return utils.Success(c, "Detail fetched successfully", announcement)
}

// UpdateAnnouncement is a partial update: each text field and file is
// independently optional, and replaced media is never cleaned up upstream.
func UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.Fail(c, http.StatusNotFound, "Announcement not found")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.Fail(c, http.StatusBadRequest, "Invalid multipart form")
	}

	formValue := func(key string) (string, bool) {
		values, ok := form.Value[key]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}

	var sets []string
	var args []interface{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if title, ok := formValue("title"); ok && title != "" {
		addSet("title", title)
	}
	if content, ok := formValue("content"); ok && content != "" {
		addSet("content", content)
	}
	if visibility, ok := formValue("is_public"); ok {
		addSet("is_public", visibility == "true")
	}

	imageURL, err := uploadFormFile(c, "image", "announcements/images")
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to upload image", err)
	}
	if imageURL != nil {
		addSet("image_url", *imageURL)
	}

	bannerURL, err := uploadFormFile(c, "banner", "announcements/banners")
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to upload banner", err)
	}
	if bannerURL != nil {
		addSet("banner_url", *bannerURL)
	}

	videoURL, err := uploadFormFile(c, "video", "announcements/videos")
	if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to upload video", err)
	}
	if videoURL != nil {
		addSet("video_url", *videoURL)
	}

	addSet("updated_at", time.Now())

	args = append(args, id)
	updateQuery := fmt.Sprintf(`UPDATE announcements SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), announcementColumns)

	updated, err := scanAnnouncement(config.DB.QueryRow(updateQuery, args...))
	if err == sql.ErrNoRows {
		return utils.Fail(c, http.StatusNotFound, "Announcement not found")
	} else if err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to update announcement", err)
	}

	return utils.Success(c, "Announcement updated successfully", updated)
}

func DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.Fail(c, http.StatusNotFound, "Announcement not found")
	}

	if _, err := config.DB.Exec(`DELETE FROM announcements WHERE id = $1`, id); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Failed to delete announcement", err)
	}

	return utils.Success(c, "Announcement deleted successfully", nil)
}

func AnnouncementStats(c *fiber.Ctx) error {
	var total, public, private int

	countInto := func(dest *int, query string) func() error {
		return func() error {
			return config.DB.QueryRow(query).Scan(dest)
		}
	}

	g := new(errgroup.Group)
	g.Go(countInto(&total, `SELECT COUNT(*) FROM announcements`))
	g.Go(countInto(&public, `SELECT COUNT(*) FROM announcements WHERE is_public = TRUE`))
	g.Go(countInto(&private, `SELECT COUNT(*) FROM announcements WHERE is_public = FALSE`))

	if err := g.Wait(); err != nil {
		return utils.FailWithError(c, http.StatusInternalServerError, "Error retrieving stats", err)
	}

	return utils.Success(c, "Stats retrieved successfully", models.AnnouncementStats{
		Total:        total,
		PublicCount:  public,
		PrivateCount: private,
	})
}

package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// UploadResult is what the media API hands back for a stored object.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	} `json:"data"`
	Error string `json:"error"`
}

var storageClient = &http.Client{Timeout: 30 * time.Second}

// UploadFile proxies a multipart file to the external media storage API and
// returns the public URL. Previously stored objects are never deleted here;
// replacing a media field simply points it at the new URL.
func UploadFile(file multipart.File, header *multipart.FileHeader, folder string) (*UploadResult, error) {
	endpoint := os.Getenv("MEDIA_UPLOAD_URL")
	if endpoint == "" {
		return nil, errors.New("MEDIA_UPLOAD_URL is not set")
	}
	apiKey := os.Getenv("MEDIA_UPLOAD_KEY")

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	part, err := writer.CreateFormFile("file", header.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload file: %w", err)
	}

	if err := writer.WriteField("folder", folder); err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, endpoint, &requestBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := storageClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	return parseUploadResponse(body)
}

func parseUploadResponse(body []byte) (*UploadResult, error) {
	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w", err)
	}

	if !parsed.Success {
		if parsed.Error != "" {
			return nil, fmt.Errorf("media upload failed: %s", parsed.Error)
		}
		return nil, errors.New("media upload failed")
	}

	return &UploadResult{
		URL:      parsed.Data.SecureURL,
		PublicID: parsed.Data.PublicID,
	}, nil
}

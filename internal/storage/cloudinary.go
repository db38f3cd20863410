package storage

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/flat-service/internal/config"
)

const defaultUploadURL = "https://api.cloudinary.com/v1_1/%s/image/upload"

// Cloudinary implements ObjectStorage against the Cloudinary upload REST API
// using signed uploads.
type Cloudinary struct {
	cfg    config.StorageConfig
	client *http.Client
	now    func() time.Time
}

// NewCloudinary constructs the adapter.
func NewCloudinary(cfg config.StorageConfig) *Cloudinary {
	return &Cloudinary{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the payload as a base64 data URI, mirroring the upstream API
// contract, and returns the hosted secure URL.
func (c *Cloudinary) Upload(ctx context.Context, payload []byte, contentType string, opts UploadOptions) (string, error) {
	if c.cfg.CloudName == "" || c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return "", fmt.Errorf("cloudinary credentials not configured")
	}

	params := map[string]string{
		"public_id": uuid.NewString(),
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}
	if opts.Transformation != "" {
		params["transformation"] = opts.Transformation
	}
	signature := signParams(params, c.cfg.APISecret)

	form := url.Values{}
	for key, val := range params {
		form.Set(key, val)
	}
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", signature)
	form.Set("file", fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(payload)))

	endpoint := c.cfg.UploadURL
	if endpoint == "" {
		endpoint = fmt.Sprintf(defaultUploadURL, c.cfg.CloudName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("cloudinary: unexpected response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("cloudinary: upload rejected (status %d): %s", resp.StatusCode, parsed.Error.Message)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: response missing secure_url")
	}
	return parsed.SecureURL, nil
}

// signParams builds the API signature: the sorted request parameters,
// excluding file and api_key, concatenated with the secret and SHA1 hashed.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// Package media talks to Cloudinary, where content images are hosted.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/config"
)

// ErrNotConfigured is returned when Cloudinary credentials are missing
var ErrNotConfigured = errors.New("cloudinary is not configured")

// UploadSignature lets a client upload directly to Cloudinary
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder"`
}

// CDN wraps a Cloudinary client
type CDN struct {
	cld    *cloudinary.Cloudinary
	folder string
	now    func() time.Time
}

// New builds a CDN client from the Cloudinary credentials
func New(cfg config.CloudinaryConfig) (*CDN, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CDN{cld: cld, folder: cfg.Folder, now: time.Now}, nil
}

// Destroy deletes one image. An image that is already gone counts as destroyed.
func (c *CDN) Destroy(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to destroy %s: %s", publicID, res.Error.Message)
	}
	switch res.Result {
	case "ok":
		zap.S().Infow("image destroyed", "publicId", publicID)
		return nil
	case "not found":
		zap.S().Warnw("image already gone", "publicId", publicID)
		return nil
	}
	return fmt.Errorf("failed to destroy %s: unexpected result %q", publicID, res.Result)
}

// SignUpload signs an upload into the content folder, valid for about an hour
func (c *CDN) SignUpload() (*UploadSignature, error) {
	ts := c.now().Unix()
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(ts, 10))
	if c.folder != "" {
		params.Set("folder", c.folder)
	}

	sig, err := api.SignParameters(params, c.cld.Config.Cloud.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload: %w", err)
	}
	return &UploadSignature{
		Signature: sig,
		Timestamp: ts,
		APIKey:    c.cld.Config.Cloud.APIKey,
		CloudName: c.cld.Config.Cloud.CloudName,
		Folder:    c.folder,
	}, nil
}

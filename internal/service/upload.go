package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
)

const (
	uploadMaxWidth  = 800
	uploadMaxHeight = 500
	uploadQuality   = 85
	uploadPrefix    = "recipes/"

	// MaxUploadPixels bounds the decoded size of an uploaded image
	MaxUploadPixels = 40_000_000
)

// ObjectPutter is the subset of the S3 client used for uploads
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// UploadService stores recipe images in object storage
type UploadService struct {
	client    ObjectPutter
	bucket    string
	publicURL func(key string) string
	logger    zerolog.Logger
}

// NewUploadService creates a new UploadService. publicURL maps an object
// key to the URL clients use to fetch it.
func NewUploadService(client ObjectPutter, bucket string, publicURL func(key string) string) *UploadService {
	return &UploadService{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
		logger:    log.With().Str("component", "UploadService").Logger(),
	}
}

// Upload fits the image within 800x500, re-encodes it as JPEG and stores it.
// It returns the public URL of the stored object.
func (s *UploadService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", unsupportedImage()
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxUploadPixels {
		return "", apperrors.Validation("image too large", map[string]string{
			"file": fmt.Sprintf("image must be at most %d pixels", MaxUploadPixels),
		})
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", unsupportedImage()
	}

	fitted := resize.Thumbnail(uploadMaxWidth, uploadMaxHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fitted, &jpeg.Options{Quality: uploadQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	key := uploadPrefix + uuid.NewString() + ".jpg"
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", apperrors.Upstream("failed to store image", err)
	}

	s.logger.Info().Str("key", key).Str("source_format", format).Str("filename", filename).
		Int("bytes", buf.Len()).Msg("image uploaded")
	return s.publicURL(key), nil
}

func unsupportedImage() error {
	return apperrors.Validation("unsupported image", map[string]string{
		"file": "file must be a JPEG, PNG or GIF image",
	})
}

package service_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

type fakePutter struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = aws.ToString(params.Key)
	f.contentType = aws.ToString(params.ContentType)
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func publicURL(key string) string {
	return "https://bucket.s3.us-east-1.amazonaws.com/" + key
}

func TestUploadFitsAndStoresImage(t *testing.T) {
	putter := &fakePutter{}
	svc := service.NewUploadService(putter, "bucket", publicURL)

	url, err := svc.Upload(context.Background(), "pie.png", pngBytes(t, 1600, 600))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(putter.key, "recipes/"))
	assert.True(t, strings.HasSuffix(putter.key, ".jpg"))
	assert.Equal(t, "image/jpeg", putter.contentType)
	assert.Equal(t, publicURL(putter.key), url)

	stored, err := jpeg.Decode(bytes.NewReader(putter.body))
	require.NoError(t, err)
	bounds := stored.Bounds()
	assert.Equal(t, 800, bounds.Dx())
	assert.Equal(t, 300, bounds.Dy())
}

func TestUploadKeepsSmallImages(t *testing.T) {
	putter := &fakePutter{}
	svc := service.NewUploadService(putter, "bucket", publicURL)

	_, err := svc.Upload(context.Background(), "small.png", pngBytes(t, 120, 80))
	require.NoError(t, err)

	stored, err := jpeg.Decode(bytes.NewReader(putter.body))
	require.NoError(t, err)
	assert.Equal(t, 120, stored.Bounds().Dx())
	assert.Equal(t, 80, stored.Bounds().Dy())
}

func TestUploadRejectsNonImages(t *testing.T) {
	putter := &fakePutter{}
	svc := service.NewUploadService(putter, "bucket", publicURL)

	_, err := svc.Upload(context.Background(), "notes.txt", []byte("just text"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, putter.key)
}

func TestUploadStorageFailure(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	svc := service.NewUploadService(putter, "bucket", publicURL)

	_, err := svc.Upload(context.Background(), "pie.png", pngBytes(t, 10, 10))
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

// oversizedPNG is a valid 1x1 PNG whose header claims width x height pixels
func oversizedPNG(t *testing.T, width, height uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)

	// IHDR data starts after the signature, chunk length and chunk type
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestUploadRejectsOversizedImages(t *testing.T) {
	putter := &fakePutter{}
	svc := service.NewUploadService(putter, "bucket", publicURL)

	data := oversizedPNG(t, 12000, 12000)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 12000, cfg.Width)

	_, err = svc.Upload(context.Background(), "huge.png", data)
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Equal(t, "image too large", appErr.Message)
	assert.Contains(t, appErr.Fields, "file")
	assert.Empty(t, putter.key)
}

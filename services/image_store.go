package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore persists recipe images arriving as base64 data-URIs.
// Files land under mediaDir by default; when a bucket is configured
// they are uploaded to S3 instead and the object key is stored.
type ImageStore struct {
	logger   zerolog.Logger
	mediaDir string
	bucket   string
	s3Client *s3.Client
}

func NewImageStore(mediaDir, bucket string) (*ImageStore, error) {
	logger := log.With().Str("serviceName", "imageStore").Logger()

	store := &ImageStore{
		logger:   logger,
		mediaDir: mediaDir,
		bucket:   bucket,
	}
	if bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		store.s3Client = s3.NewFromConfig(awsCfg)
		logger.Info().Str("bucket", bucket).Msg("image uploads go to S3")
	}
	return store, nil
}

// Save decodes the data-URI and writes the image, returning the stored
// reference path.
func (s *ImageStore) Save(dataURI string) (string, error) {
	contentType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", errs.NewValidationError("image", err.Error())
	}

	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", errs.NewValidationError("image", fmt.Sprintf("unsupported image type %q", contentType))
	}
	key := filepath.Join("recipes", uuid.NewString()+ext)

	if s.s3Client != nil {
		_, err = s.s3Client.PutObject(context.Background(), &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return "", errs.NewStorageError("upload", "image", err)
		}
		return key, nil
	}

	fullPath := filepath.Join(s.mediaDir, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", errs.NewStorageError("store", "image", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", errs.NewStorageError("store", "image", err)
	}
	return key, nil
}

// decodeDataURI splits "data:image/png;base64,...." into its content
// type and raw bytes.
func decodeDataURI(dataURI string) (string, []byte, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", nil, fmt.Errorf("image must be a data-URI")
	}
	header, payload, found := strings.Cut(dataURI[len("data:"):], ",")
	if !found {
		return "", nil, fmt.Errorf("image data-URI has no payload")
	}
	contentType, encoding, found := strings.Cut(header, ";")
	if !found || encoding != "base64" {
		return "", nil, fmt.Errorf("image data-URI must be base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("image payload is not valid base64")
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("image payload is empty")
	}
	return contentType, data, nil
}

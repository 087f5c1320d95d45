// Package storage persists synthesized audio and returns the reference the
// frontend uses to fetch it.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/customer_portal/internal/config"
)

const audioContentType = "audio/mpeg"

// AudioStore saves an audio file and returns its public reference.
type AudioStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// LocalAudioStore writes files under a directory served by the API.
type LocalAudioStore struct {
	dir       string
	urlPrefix string
}

// NewLocalAudioStore creates the directory if needed. urlPrefix is the route
// the directory is mounted at, e.g. "/audio".
func NewLocalAudioStore(dir, urlPrefix string) (*LocalAudioStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio dir: %w", err)
	}
	return &LocalAudioStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Save writes data to dir/name.
func (s *LocalAudioStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid audio file name %q", name)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3AudioStore uploads files to a bucket under the audio/ prefix.
type S3AudioStore struct {
	client  PutObjectAPI
	bucket  string
	baseURL string
}

// NewS3AudioStore builds an S3 client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
func NewS3AudioStore(ctx context.Context, cfg config.S3Config) (*S3AudioStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", cfg.Bucket).Str("region", cfg.Region).Msg("Audio storage: S3")
	return NewS3AudioStoreWithClient(client, cfg.Bucket, publicBaseURL(cfg)), nil
}

// NewS3AudioStoreWithClient wires an existing client.
func NewS3AudioStoreWithClient(client PutObjectAPI, bucket, baseURL string) *S3AudioStore {
	return &S3AudioStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Save uploads data as audio/<name> and returns the object URL.
func (s *S3AudioStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := "audio/" + name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(audioContentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

func publicBaseURL(cfg config.S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

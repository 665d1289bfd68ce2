package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	appconfig "puja-backend/internal/config"
)

// Uploader stores media objects and returns their public URLs, which
// are persisted verbatim on the owning rows.
type Uploader struct {
	bucket        string
	publicBaseURL string
	client        *s3.Client
}

func NewUploader(cfg *appconfig.Config) (*Uploader, error) {
	st := cfg.Storage
	if st.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if st.AccessKey == "" || st.SecretKey == "" {
		return nil, fmt.Errorf("s3 credentials are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			st.AccessKey,
			st.SecretKey,
			"",
		)),
		awsconfig.WithRegion(st.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if st.Endpoint != "" {
			o.BaseEndpoint = aws.String(st.Endpoint)
		}
	})

	publicBase := st.PublicBaseURL
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", st.Bucket, st.Region)
	}

	return &Uploader{
		bucket:        st.Bucket,
		publicBaseURL: strings.TrimRight(publicBase, "/"),
		client:        client,
	}, nil
}

// Upload stores data under <category>/<timestamp>_<filename> and
// returns the public URL.
func (u *Uploader) Upload(ctx context.Context, category, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("no data to upload")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := ObjectKey(category, filename, time.Now())
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	return u.publicBaseURL + "/" + key, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectKey builds the storage key <category>/<timestamp>_<filename>.
// Unsafe characters are squashed; an empty filename gets a random one.
func ObjectKey(category, filename string, now time.Time) string {
	base := unsafeKeyChars.ReplaceAllString(path.Base(filename), "_")
	if base == "" || base == "." || base == "_" {
		base = uuid.NewString()
	}
	if category == "" {
		category = "misc"
	}
	return fmt.Sprintf("%s/%d_%s", category, now.Unix(), base)
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/brandpoint/intelligence-engine/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func NewS3Client(ctx context.Context) *s3.Client {
	region := util.GetEnv("AWS_REGION")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		return nil
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client
}

func archiveKey(brandID, contentID string) string {
	return fmt.Sprintf("archive/%s/%s.txt", brandID, contentID)
}

// ArchiveContent stores the raw content bytes so the original text
// survives even after the indexed document is trimmed or re-embedded.
func ArchiveContent(ctx context.Context, client *s3.Client, brandID, contentID string, content []byte) (string, error) {
	bucket := util.GetEnv("AWS_BUCKET")
	key := archiveKey(brandID, contentID)

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive content to S3: %v", err)
	}

	return key, nil
}

func GetArchivedContent(ctx context.Context, client *s3.Client, brandID, contentID string) ([]byte, error) {
	bucket := util.GetEnv("AWS_BUCKET")

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(archiveKey(brandID, contentID)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get archived content from S3: %v", err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, result.Body); err != nil {
		return nil, fmt.Errorf("failed to read archived content: %v", err)
	}

	return buf.Bytes(), nil
}

func DeleteArchivedContent(ctx context.Context, client *s3.Client, brandID, contentID string) error {
	bucket := util.GetEnv("AWS_BUCKET")

	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(archiveKey(brandID, contentID)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete archived content from S3: %v", err)
	}

	return nil
}

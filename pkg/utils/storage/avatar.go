package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"postpro_backend/pkg/utils/image"
	"postpro_backend/pkg/utils/validation"
)

// Avatars live in a Cloudflare R2 bucket behind the S3 API.

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

// UploadAvatar validates, converts to webp and uploads a user avatar.
// Returns the public URL.
func UploadAvatar(file *multipart.FileHeader, username string) (string, error) {
	if err := validation.ValidateAvatar(file); err != nil {
		return "", err
	}

	buf, err := image.ProcessAvatar(file)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("users/%s/avatar/%s.webp", slug.Make(username), uuid.New().String())

	client, err := getS3Client()
	if err != nil {
		return "", err
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload to R2: %v", err)
	}

	return fmt.Sprintf("%s/%s", os.Getenv("R2_PUBLIC_URL"), objectKey), nil
}

// DeleteAvatar removes a previously uploaded avatar by its public URL.
func DeleteAvatar(avatarURL string) error {
	key := strings.TrimPrefix(avatarURL, os.Getenv("R2_PUBLIC_URL")+"/")

	client, err := getS3Client()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:    aws.String(key),
	})

	return err
}

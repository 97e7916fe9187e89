package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aivanovs/issuetracker/internal/server/models"
	"github.com/aivanovs/issuetracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	sc "github.com/aivanovs/issuetracker/internal/server/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AttachmentService stores attachment metadata in PostgreSQL and hands out
// presigned S3 URLs so file bodies never pass through the server.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewAttachmentService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// GetRandomStorageKey builds a date-bucketed object key for a new attachment.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("attachments/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *AttachmentService) getPresignedPutURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *AttachmentService) getPresignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// CreateUpload registers an attachment for a visible issue and returns the
// stored record plus a presigned PUT URL the client uploads the body to.
func (s *AttachmentService) CreateUpload(ctx context.Context, userID, issueID, fileName string) (*models.Attachment, string, error) {
	issueRepo := s.repomanager.Issues(s.db)
	if _, err := issueRepo.GetVisible(ctx, issueID, userID); err != nil {
		return nil, "", err
	}

	key := GetRandomStorageKey()
	url, err := s.getPresignedPutURL(ctx, key)
	if err != nil {
		return nil, "", err
	}

	attachment := &models.Attachment{
		ID:         uuid.NewString(),
		IssueID:    issueID,
		FileName:   fileName,
		StorageKey: key,
		OwnerID:    &userID,
	}
	repo := s.repomanager.Attachments(s.db)
	created, err := repo.Create(ctx, attachment)
	if err != nil {
		return nil, "", err
	}

	return created, url, nil
}

// getThroughIssue loads an attachment and checks that its owning issue is
// visible to the caller. Every attachment path resolves visibility this way
// so list, confirm and download agree.
func (s *AttachmentService) getThroughIssue(ctx context.Context, userID, id string) (*models.Attachment, error) {
	repo := s.repomanager.Attachments(s.db)
	attachment, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	issueRepo := s.repomanager.Issues(s.db)
	if _, err := issueRepo.GetVisible(ctx, attachment.IssueID, userID); err != nil {
		return nil, err
	}
	return attachment, nil
}

// ConfirmUpload marks an attachment as uploaded after the client finishes
// its PUT.
func (s *AttachmentService) ConfirmUpload(ctx context.Context, userID, id string) error {
	if _, err := s.getThroughIssue(ctx, userID, id); err != nil {
		return err
	}
	repo := s.repomanager.Attachments(s.db)
	return repo.MarkUploaded(ctx, id)
}

// List returns attachment records for a visible issue.
func (s *AttachmentService) List(ctx context.Context, userID, issueID string) ([]*models.Attachment, error) {
	issueRepo := s.repomanager.Issues(s.db)
	if _, err := issueRepo.GetVisible(ctx, issueID, userID); err != nil {
		return nil, err
	}
	repo := s.repomanager.Attachments(s.db)
	return repo.ListByIssue(ctx, issueID)
}

// GetDownloadURL returns a presigned GET URL for an attachment whose owning
// issue is visible to the caller.
func (s *AttachmentService) GetDownloadURL(ctx context.Context, userID, id string) (*models.Attachment, string, error) {
	attachment, err := s.getThroughIssue(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	url, err := s.getPresignedGetURL(ctx, attachment.StorageKey)
	if err != nil {
		return nil, "", err
	}
	return attachment, url, nil
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aivanovs/issuetracker/internal/common"
	sc "github.com/aivanovs/issuetracker/internal/server/config"
	"github.com/aivanovs/issuetracker/internal/server/models"
)

func newAttachmentService(t *testing.T, rm *fakeRepoManager) *AttachmentService {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New err: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	cfg := &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "attachments",
		SecretKey:      "k",
	}
	return NewAttachmentService(db, rm, cfg)
}

func stubPresign(t *testing.T, putURL, getURL string) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: putURL}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: getURL}, nil
	}
}

func TestGetRandomStorageKey_Prefix(t *testing.T) {
	key := GetRandomStorageKey()
	if !strings.HasPrefix(key, "attachments/") {
		t.Fatalf("unexpected key: %q", key)
	}
}

func TestCreateUpload_Success(t *testing.T) {
	stubPresign(t, "http://presigned/put", "http://presigned/get")

	rm := &fakeRepoManager{
		i: &fakeIssuesRepo{getOut: &models.Issue{ID: "i-1"}},
		a: &fakeAttachmentsRepo{},
	}
	s := newAttachmentService(t, rm)

	attachment, url, err := s.CreateUpload(context.Background(), "u-1", "i-1", "screenshot.png")
	if err != nil {
		t.Fatalf("CreateUpload error: %v", err)
	}
	if url != "http://presigned/put" {
		t.Fatalf("unexpected url: %q", url)
	}
	if attachment.ID == "" || attachment.StorageKey == "" {
		t.Fatalf("attachment not populated: %+v", attachment)
	}
	if attachment.OwnerID == nil || *attachment.OwnerID != "u-1" {
		t.Fatalf("owner not set: %+v", attachment)
	}
	if rm.a.lastCreated == nil {
		t.Fatal("metadata row not stored")
	}
}

func TestCreateUpload_IssueNotVisible(t *testing.T) {
	stubPresign(t, "http://presigned/put", "http://presigned/get")

	rm := &fakeRepoManager{
		i: &fakeIssuesRepo{getErr: common.ErrorNotFound},
		a: &fakeAttachmentsRepo{},
	}
	s := newAttachmentService(t, rm)

	_, _, err := s.CreateUpload(context.Background(), "u-1", "i-x", "screenshot.png")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if rm.a.lastCreated != nil {
		t.Fatal("metadata must not be stored for an invisible issue")
	}
}

func TestConfirmUpload_MarksRow(t *testing.T) {
	rm := &fakeRepoManager{
		i: &fakeIssuesRepo{getOut: &models.Issue{ID: "i-1"}},
		a: &fakeAttachmentsRepo{getOut: &models.Attachment{ID: "a-1", IssueID: "i-1"}},
	}
	s := newAttachmentService(t, rm)

	if err := s.ConfirmUpload(context.Background(), "u-1", "a-1"); err != nil {
		t.Fatalf("ConfirmUpload error: %v", err)
	}
	if rm.a.lastMarked != "a-1" {
		t.Fatalf("MarkUploaded not called: %q", rm.a.lastMarked)
	}
}

func TestConfirmUpload_IssueNotVisible(t *testing.T) {
	rm := &fakeRepoManager{
		i: &fakeIssuesRepo{getErr: common.ErrorNotFound},
		a: &fakeAttachmentsRepo{getOut: &models.Attachment{ID: "a-1", IssueID: "i-1"}},
	}
	s := newAttachmentService(t, rm)

	err := s.ConfirmUpload(context.Background(), "u-2", "a-1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if rm.a.lastMarked != "" {
		t.Fatal("MarkUploaded must not run for an invisible issue")
	}
}

func TestGetDownloadURL_Success(t *testing.T) {
	stubPresign(t, "http://presigned/put", "http://presigned/get")

	rm := &fakeRepoManager{
		i: &fakeIssuesRepo{getOut: &models.Issue{ID: "i-1"}},
		a: &fakeAttachmentsRepo{getOut: &models.Attachment{ID: "a-1", IssueID: "i-1", StorageKey: "attachments/x"}},
	}
	s := newAttachmentService(t, rm)

	attachment, url, err := s.GetDownloadURL(context.Background(), "u-1", "a-1")
	if err != nil {
		t.Fatalf("GetDownloadURL error: %v", err)
	}
	if url != "http://presigned/get" || attachment.ID != "a-1" {
		t.Fatalf("unexpected result: %v %q", attachment, url)
	}
}

// Visibility follows the owning issue: an attachment created by one user on
// an ownerless issue is downloadable by any authenticated caller, matching
// the list path.
func TestGetDownloadURL_FollowsIssueVisibility(t *testing.T) {
	stubPresign(t, "http://presigned/put", "http://presigned/get")

	creator := "u-1"
	rm := &fakeRepoManager{
		i: &fakeIssuesRepo{getOut: &models.Issue{ID: "i-1"}}, // ownerless issue, visible to all
		a: &fakeAttachmentsRepo{getOut: &models.Attachment{ID: "a-1", IssueID: "i-1", OwnerID: &creator, StorageKey: "attachments/x"}},
	}
	s := newAttachmentService(t, rm)

	_, url, err := s.GetDownloadURL(context.Background(), "u-2", "a-1")
	if err != nil {
		t.Fatalf("GetDownloadURL error: %v", err)
	}
	if url != "http://presigned/get" {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestGetDownloadURL_NotFound(t *testing.T) {
	rm := &fakeRepoManager{
		i: &fakeIssuesRepo{},
		a: &fakeAttachmentsRepo{getErr: common.ErrorNotFound},
	}
	s := newAttachmentService(t, rm)

	_, _, err := s.GetDownloadURL(context.Background(), "u-1", "a-x")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetPresignClient_LoadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	s := newAttachmentService(t, &fakeRepoManager{})
	_, err := s.getPresignClient()
	if err == nil || err.Error() != "load-fail" {
		t.Fatalf("expected load-fail, got %v", err)
	}
}

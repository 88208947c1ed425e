package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/interviewqs/backend/internal/common"
	"github.com/interviewqs/backend/internal/logging"
	sc "github.com/interviewqs/backend/internal/server/config"
	"github.com/interviewqs/backend/internal/server/models"
	"github.com/interviewqs/backend/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// pinVerifier gates attachment deletion behind the parent post's admin pin.
// *PostService satisfies it.
type pinVerifier interface {
	VerifyPin(ctx context.Context, id int64, presented string) error
}

// AttachmentService manages post file attachments: metadata rows in the
// database, blobs in S3-compatible object storage reached through presigned
// URLs.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	posts       pinVerifier
	config      *sc.Config
	logger      logging.Logger
}

// NewAttachmentService constructs an AttachmentService.
func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, posts pinVerifier, cfg *sc.Config, logger logging.Logger) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: m,
		posts:       posts,
		config:      cfg,
		logger:      logger.With("module", "attachment_service"),
	}
}

func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("posts/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	}), nil
}

// CreateUploadURL verifies the parent post, records an attachment row, and
// returns a presigned PUT URL the client uploads the file to.
func (s *AttachmentService) CreateUploadURL(ctx context.Context, postID int64) (*models.AttachmentUploadTask, error) {
	if postID == 0 {
		return nil, common.ErrorValidation
	}
	if _, err := s.repomanager.Posts(s.db).GetPublished(ctx, postID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "fetch post for upload", "error", err.Error())
		return nil, common.ErrorInternal
	}

	client, err := s.getClient()
	if err != nil {
		s.logger.Error(ctx, "s3 client", "error", err.Error())
		return nil, common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := randomStorageKey()

	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		s.logger.Error(ctx, "presign put", "error", err.Error())
		return nil, common.ErrorInternal
	}

	fileURL := fmt.Sprintf("%s%s/%s", ensureTrailingSlash(s.config.S3BaseEndpoint), bucket, key)
	attachment := &models.Attachment{
		PostID:     postID,
		StorageKey: key,
		URL:        fileURL,
		CreateDate: today(),
	}
	if _, err := s.repomanager.Attachments(s.db).Create(ctx, attachment); err != nil {
		s.logger.Error(ctx, "record attachment", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &models.AttachmentUploadTask{URL: req.URL, FileURL: fileURL}, nil
}

// ListByPost returns the attachment URLs of a post. Public read.
func (s *AttachmentService) ListByPost(ctx context.Context, postID int64) ([]*models.Attachment, error) {
	if postID == 0 {
		return nil, common.ErrorValidation
	}
	result, err := s.repomanager.Attachments(s.db).ListByPost(ctx, postID)
	if err != nil {
		s.logger.Error(ctx, "list attachments", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return result, nil
}

// DeleteByPost removes all attachments of a post after verifying the post's
// admin pin. Blob deletion is best-effort; a failed object delete is logged
// and does not undo the metadata removal.
func (s *AttachmentService) DeleteByPost(ctx context.Context, postID int64, postPin string) error {
	if err := s.posts.VerifyPin(ctx, postID, postPin); err != nil {
		return err
	}

	keys, err := s.repomanager.Attachments(s.db).DeleteByPost(ctx, postID)
	if err != nil {
		s.logger.Error(ctx, "delete attachment rows", "error", err.Error())
		return common.ErrorInternal
	}
	if len(keys) == 0 {
		return nil
	}

	client, err := s.getClient()
	if err != nil {
		s.logger.Error(ctx, "s3 client", "error", err.Error())
		return nil
	}
	bucket := s.config.S3Bucket
	for _, key := range keys {
		if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
			Bucket: &bucket,
			Key:    aws.String(key),
		}); err != nil {
			s.logger.Warn(ctx, "delete attachment blob", "key", key, "error", err.Error())
		}
	}
	return nil
}

func ensureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

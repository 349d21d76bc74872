package storage

import (
	"os"
	"strings"

	"artfolio/db"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

type Bucket struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt   int64  `json:"-"`
	UpdatedAt   int64  `json:"-"`
	Name        string `gorm:"type:varchar(200)" json:"name"`
	StorageType StorageType `json:"type"`
	Path        string      `json:"path"` // Directory on a drive or a key prefix in a S3 bucket
	Region      string      `gorm:"type:varchar(50)" json:"region"`
	Endpoint    string      `gorm:"type:varchar(300)" json:"endpoint"` // Custom S3 endpoint, empty for AWS
	AuthDetails string      `json:"auth_details"`                      // In case of S3 bucket - "key:secret"
	// Base for public object URLs (CDN or website endpoint).
	// Empty means objects are served by us at /files/ (disk buckets only).
	PublicBaseURL string `gorm:"type:varchar(300)" json:"public_base_url"`
	SSEEncryption string `gorm:"type:varchar(20)" json:"sse_encryption"`
}

func (b *Bucket) Create() error {
	err := db.Instance.Create(b).Error
	if err != nil {
		return err
	}
	if b.StorageType == StorageTypeFile {
		return os.MkdirAll(b.Path, 0777)
	}
	return nil
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath prepends the configured key prefix (if any)
func (b *Bucket) GetRemotePath(path string) string {
	if b.Path == "" {
		return path
	}
	return strings.TrimSuffix(b.Path, "/") + "/" + path
}

// CreateSVC builds the S3 client for this bucket
func (b *Bucket) CreateSVC() *s3.S3 {
	creds := strings.SplitN(b.AuthDetails, ":", 2)
	if len(creds) != 2 {
		creds = []string{"", ""}
	}
	conf := aws.Config{
		Region:      aws.String(b.Region),
		Credentials: credentials.NewStaticCredentials(creds[0], creds[1], ""),
	}
	if b.Endpoint != "" {
		conf.Endpoint = aws.String(b.Endpoint)
		conf.S3ForcePathStyle = aws.Bool(true)
	}
	return s3.New(session.Must(session.NewSession(&conf)))
}

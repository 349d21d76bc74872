package storage

import (
	"io"
	"net/http"
	"strings"

	"artfolio/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Storage struct {
	Bucket   Bucket
	s3Client *s3.S3
}

func NewS3Storage(bucket *Bucket) StorageAPI {
	return &S3Storage{
		Bucket:   *bucket,
		s3Client: bucket.CreateSVC(),
	}
}

func (s *S3Storage) GetBucket() *Bucket {
	return &s.Bucket
}

// GetFullPath returns local temp path in case of S3
func (s *S3Storage) GetFullPath(path string) string {
	return config.TMP_DIR + "/" + strings.ReplaceAll(path, "/", "_")
}

type countingReader struct {
	reader io.Reader
	size   int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.size += int64(n)
	return n, err
}

func (s *S3Storage) Save(path string, reader io.Reader) (int64, error) {
	return s.upload(path, "", reader)
}

// SaveNew relies on object keys being unique by construction
// (nanosecond timestamp + random suffix), as S3 PutObject has no
// portable create-only mode
func (s *S3Storage) SaveNew(path, mimeType string, reader io.Reader) (int64, error) {
	return s.upload(path, mimeType, reader)
}

func (s *S3Storage) upload(path, mimeType string, reader io.Reader) (int64, error) {
	counter := &countingReader{reader: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	input := s3manager.UploadInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
		Body:   counter,
	}
	if mimeType != "" {
		input.ContentType = &mimeType
	}
	if s.Bucket.SSEEncryption != "" {
		input.ServerSideEncryption = &s.Bucket.SSEEncryption
	}
	if _, err := uploader.Upload(&input); err != nil {
		return 0, err
	}
	return counter.size, nil
}

func (s *S3Storage) Load(path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	http.Redirect(writer, request, s.PublicURL(path), http.StatusFound)
}

func (s *S3Storage) Delete(path string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	return err
}

func (s *S3Storage) PublicURL(path string) string {
	if s.Bucket.PublicBaseURL != "" {
		return strings.TrimSuffix(s.Bucket.PublicBaseURL, "/") + "/" + s.Bucket.GetRemotePath(path)
	}
	return "https://" + s.Bucket.Name + ".s3.amazonaws.com/" + s.Bucket.GetRemotePath(path)
}

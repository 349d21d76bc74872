package storage

import (
	"io"
	"log"
	"net/http"

	"artfolio/config"
	"artfolio/db"
)

type StorageAPI interface {
	GetBucket() *Bucket
	GetFullPath(path string) string
	// Save writes (or overwrites) the object at path
	Save(path string, reader io.Reader) (int64, error)
	// SaveNew writes the object at path and never overwrites an existing one
	SaveNew(path, mimeType string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	// PublicURL returns the address under which the object at path can be
	// fetched by anyone
	PublicURL(path string) string
}

var cachedStorage []StorageAPI

func Init() {
	if err := db.Instance.AutoMigrate(&Bucket{}); err != nil {
		panic(err)
	}
	cachedStorage = []StorageAPI{}
	var buckets []Bucket
	if err := db.Instance.Find(&buckets).Error; err != nil {
		panic(err)
	}
	if len(buckets) == 0 && config.DEFAULT_BUCKET_DIR != "" {
		bucket := Bucket{
			Name:        "Default",
			StorageType: StorageTypeFile,
			Path:        config.DEFAULT_BUCKET_DIR,
		}
		if err := bucket.Create(); err != nil {
			panic(err)
		}
		buckets = append(buckets, bucket)
	}
	log.Printf("Storage buckets found: %d\n", len(buckets))
	for _, bucket := range buckets {
		cachedStorage = append(cachedStorage, New(&bucket))
	}
}

func New(bucket *Bucket) StorageAPI {
	if bucket.IsS3() {
		return NewS3Storage(bucket)
	}
	return NewDiskStorage(bucket)
}

func StorageFrom(bucket *Bucket) StorageAPI {
	for _, s := range cachedStorage {
		if s.GetBucket().ID == bucket.ID {
			return s
		}
	}
	return nil
}

func GetDefaultStorage() StorageAPI {
	if len(cachedStorage) == 0 {
		return nil
	}
	for _, s := range cachedStorage {
		if s.GetBucket().StorageType == StorageTypeFile {
			return s
		}
	}
	return cachedStorage[0]
}

// Register adds storage for a newly created bucket
func Register(bucket *Bucket) StorageAPI {
	s := New(bucket)
	cachedStorage = append(cachedStorage, s)
	return s
}

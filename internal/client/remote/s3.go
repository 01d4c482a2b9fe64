package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/google/uuid"
)

// S3Config locates the bucket holding the owner documents.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// seams for tests
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newDocumentID = uuid.NewString
)

// S3Store keeps one JSON object per document under
// users/{owner}/{collection}/{id}.json and the profile at
// users/{owner}/profile.json.
type S3Store struct {
	bucket string
	api    S3API
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithAPI(cfg.Bucket, api), nil
}

func NewS3StoreWithAPI(bucket string, api S3API) *S3Store {
	return &S3Store{bucket: bucket, api: api}
}

func collectionPrefix(owner, collection string) string {
	return path.Join("users", owner, collection) + "/"
}

func documentKey(owner, collection, id string) string {
	return collectionPrefix(owner, collection) + id + ".json"
}

func profileKey(owner string) string {
	return path.Join("users", owner, "profile.json")
}

func (s *S3Store) put(ctx context.Context, key string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidDocument, err)
	}
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (s *S3Store) get(ctx context.Context, key string) (map[string]any, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidDocument, key, err)
	}
	return fields, nil
}

func (s *S3Store) exists(ctx context.Context, key string) error {
	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return mapS3Error(err)
}

func (s *S3Store) Add(ctx context.Context, owner, collection string, fields map[string]any) (string, error) {
	if err := checkScope("add", owner, collection); err != nil {
		return "", err
	}
	id := newDocumentID()
	if err := s.put(ctx, documentKey(owner, collection, id), fields); err != nil {
		return "", common.NewRemoteError("add", collection, err)
	}
	return id, nil
}

func (s *S3Store) Set(ctx context.Context, owner, collection, id string, fields map[string]any) error {
	if err := checkScope("set", owner, collection); err != nil {
		return err
	}
	key := documentKey(owner, collection, id)
	if err := s.exists(ctx, key); err != nil {
		return common.NewRemoteError("set", collection, err)
	}
	return common.NewRemoteError("set", collection, s.put(ctx, key, fields))
}

func (s *S3Store) Delete(ctx context.Context, owner, collection, id string) error {
	if err := checkScope("delete", owner, collection); err != nil {
		return err
	}
	key := documentKey(owner, collection, id)
	if err := s.exists(ctx, key); err != nil {
		return common.NewRemoteError("delete", collection, err)
	}
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return common.NewRemoteError("delete", collection, err)
}

func (s *S3Store) FetchAll(ctx context.Context, owner, collection string) ([]Document, error) {
	if err := checkScope("fetch", owner, collection); err != nil {
		return nil, err
	}
	prefix := collectionPrefix(owner, collection)
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var docs []Document
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, common.NewRemoteError("fetch", collection, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			id, ok := strings.CutSuffix(strings.TrimPrefix(key, prefix), ".json")
			if !ok || id == "" || strings.Contains(id, "/") {
				continue
			}
			fields, err := s.get(ctx, key)
			if err != nil {
				return nil, common.NewRemoteError("fetch", collection, err)
			}
			docs = append(docs, Document{ID: id, Fields: fields})
		}
	}
	return docs, nil
}

func (s *S3Store) GetProfile(ctx context.Context, owner string) (map[string]any, error) {
	if err := checkScope("get profile", owner, common.CollectionUsers); err != nil {
		return nil, err
	}
	p, err := s.get(ctx, profileKey(owner))
	if err != nil {
		return nil, common.NewRemoteError("get profile", common.CollectionUsers, err)
	}
	return p, nil
}

func (s *S3Store) SaveProfile(ctx context.Context, owner string, profile map[string]any) error {
	if err := checkScope("save profile", owner, common.CollectionUsers); err != nil {
		return err
	}
	return common.NewRemoteError("save profile", common.CollectionUsers, s.put(ctx, profileKey(owner), profile))
}

func mapS3Error(err error) error {
	if err == nil {
		return nil
	}
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return common.ErrNotFound
	}
	return err
}

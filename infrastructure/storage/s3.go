package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/traffic-report-api/internal/config"
)

// PutObjectAPI é o subconjunto do cliente S3 usado no envio de artefatos
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client        PutObjectAPI
	bucket        string
	region        string
	prefix        string
	publicBaseURL string
}

// NewS3Storage carrega as credenciais da cadeia padrão da AWS
func NewS3Storage(ctx context.Context, cfg config.Storage) (*S3Storage, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar configuração da AWS: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": cfg.Bucket,
		"prefix": cfg.Prefix,
		"region": region,
	}).Info("Armazenamento de relatórios configurado")

	return NewS3StorageWithClient(s3.NewFromConfig(awsCfg), cfg), nil
}

func NewS3StorageWithClient(client PutObjectAPI, cfg config.Storage) *S3Storage {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	return &S3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		region:        region,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// Upload grava o arquivo com leitura pública e devolve a URL de acesso
func (s *S3Storage) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	objectKey := s.objectKey(key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("erro ao enviar %s para o bucket %s: %w", objectKey, s.bucket, err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"key":    objectKey,
		"size":   len(body),
	}).Info("Arquivo enviado ao armazenamento")

	return s.PublicURL(objectKey), nil
}

func (s *S3Storage) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// PublicURL usa a URL pública configurada (CDN) ou o endereço virtual-hosted do bucket
func (s *S3Storage) PublicURL(objectKey string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + objectKey
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, objectKey)
}

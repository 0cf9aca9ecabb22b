package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/config"
	"elibrary/api/internal/ids"
	"elibrary/api/internal/media/sniffer"
	"elibrary/api/internal/storage"
)

// UploadPurpose selects the bucket and the accepted file kinds.
type UploadPurpose string

const (
	PurposeCover    UploadPurpose = "cover"
	PurposeDocument UploadPurpose = "document"
	PurposeMedia    UploadPurpose = "media"
	PurposeAvatar   UploadPurpose = "avatar"
)

type UploadInput struct {
	Purpose UploadPurpose
	File    multipart.File
	Header  *multipart.FileHeader
}

type UploadResult struct {
	FileName      string `json:"fileName"`
	OriginalName  string `json:"originalName"`
	MimeType      string `json:"mimeType"`
	SizeBytes     int64  `json:"sizeBytes"`
	FormattedSize string `json:"formattedSize"`
	Bucket        string `json:"bucket"`
	ObjectKey     string `json:"objectKey"`
	URL           string `json:"url"`
}

type UploadService struct {
	store   *storage.ObjectStore
	storage config.StorageConfig
	limits  config.UploadConfig
	log     zerolog.Logger
}

func NewUploadService(store *storage.ObjectStore, storageCfg config.StorageConfig, limits config.UploadConfig, log zerolog.Logger) *UploadService {
	return &UploadService{store: store, storage: storageCfg, limits: limits, log: log}
}

// Upload sniffs the payload by magic bytes, applies the size cap for
// the detected kind and stores the object. The declared content type
// from the client is ignored.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.File == nil || input.Header == nil {
		return UploadResult{}, apperr.Validation("No file provided")
	}

	head := make([]byte, 512)
	n, err := input.File.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return UploadResult{}, fmt.Errorf("read head: %w", err)
	}
	head = head[:n]

	var data []byte
	if seeker, ok := input.File.(io.ReadSeeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return UploadResult{}, fmt.Errorf("rewind: %w", err)
		}
		data, err = io.ReadAll(seeker)
		if err != nil {
			return UploadResult{}, fmt.Errorf("read file: %w", err)
		}
	} else {
		rest, err := io.ReadAll(input.File)
		if err != nil {
			return UploadResult{}, fmt.Errorf("read file: %w", err)
		}
		data = append(head, rest...)
	}

	if len(data) == 0 {
		return UploadResult{}, apperr.Validation("File is empty")
	}

	detected, err := sniffer.DetectHead(head)
	if err != nil {
		return UploadResult{}, apperr.Validation("Unsupported file type")
	}

	bucket, maxBytes, err := s.routeFor(input.Purpose, detected.Kind)
	if err != nil {
		return UploadResult{}, err
	}
	if int64(len(data)) > maxBytes {
		return UploadResult{}, apperr.Validation(fmt.Sprintf("File exceeds the %d MB limit", maxBytes/(1<<20)))
	}

	objectKey := buildObjectKey(ids.New(), detected.Ext)
	options := minio.PutObjectOptions{ContentType: detected.MIME}

	info, err := s.store.Client().PutObject(ctx, bucket, objectKey, bytes.NewReader(data), int64(len(data)), options)
	if err != nil {
		return UploadResult{}, fmt.Errorf("put object: %w", err)
	}

	s.log.Info().
		Str("bucket", bucket).
		Str("object", objectKey).
		Int64("size", info.Size).
		Str("mime", detected.MIME).
		Msg("file stored")

	return UploadResult{
		FileName:      path.Base(objectKey),
		OriginalName:  input.Header.Filename,
		MimeType:      detected.MIME,
		SizeBytes:     info.Size,
		FormattedSize: formatBytes(info.Size),
		Bucket:        bucket,
		ObjectKey:     objectKey,
		URL:           s.store.PublicURL(bucket, objectKey),
	}, nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGT"[exp])
}

func (s *UploadService) routeFor(purpose UploadPurpose, kind sniffer.Kind) (string, int64, error) {
	switch purpose {
	case PurposeCover, PurposeAvatar:
		if kind != sniffer.KindImage {
			return "", 0, apperr.Validation("An image file is required")
		}
		return s.storage.BucketCovers, s.limits.MaxImageBytes, nil
	case PurposeDocument:
		if kind != sniffer.KindDocument {
			return "", 0, apperr.Validation("A PDF file is required")
		}
		return s.storage.BucketDocuments, s.limits.MaxPDFBytes, nil
	case PurposeMedia:
		if kind != sniffer.KindAudio && kind != sniffer.KindVideo {
			return "", 0, apperr.Validation("An audio or video file is required")
		}
		return s.storage.BucketMedia, s.limits.MaxMediaBytes, nil
	default:
		return "", 0, apperr.Validation("Unknown upload purpose")
	}
}

func buildObjectKey(id, ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, id+ext)
}

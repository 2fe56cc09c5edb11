// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/caselight/legalqa-gw/pkg/docstore"
)

func init() {
	docstore.Providers.Register("s3", func(ctx context.Context, params map[string]string) (docstore.DocumentStore, error) {
		return New(ctx, Options{
			Bucket:   params["bucket"],
			Region:   params["region"],
			Prefix:   params["prefix"],
			Endpoint: params["endpoint"],
		})
	})
}

// compile-time check
var _ docstore.DocumentStore = (*Store)(nil)

// Options configures the S3 backend.
type Options struct {
	Bucket   string // required
	Region   string // e.g. "us-east-1"
	Prefix   string // key prefix, e.g. "documents/"
	Endpoint string // custom endpoint for MinIO compatibility
}

// docMetadata is the JSON sidecar stored alongside each document in S3.
type docMetadata struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Matter      string    `json:"matter"`
	ContentType string    `json:"content_type"`
	Bytes       int64     `json:"bytes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store implements docstore.DocumentStore backed by S3 (or MinIO).
//
// Object layout:
//
//	<prefix><doc_id>/content
//	<prefix><doc_id>/metadata.json
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an S3-backed Store.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 docstore: bucket is required")
	}

	optFns := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if opts.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	client := s3.NewFromConfig(cfg, s3Opts...)

	return &Store{
		client: client,
		bucket: opts.Bucket,
		prefix: opts.Prefix,
	}, nil
}

func (s *Store) contentKey(docID string) string {
	return s.prefix + docID + "/content"
}

func (s *Store) metadataKey(docID string) string {
	return s.prefix + docID + "/metadata.json"
}

// CreateDocument uploads both content and metadata.json to S3.
func (s *Store) CreateDocument(ctx context.Context, doc *docstore.Document) error {
	// Upload content
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.contentKey(doc.ID)),
		Body:        bytes.NewReader(doc.Content),
		ContentType: aws.String(doc.ContentType),
	})
	if err != nil {
		return fmt.Errorf("put content: %w", err)
	}

	return s.writeMetadata(ctx, &docMetadata{
		ID:          doc.ID,
		Filename:    doc.Filename,
		Matter:      doc.Matter,
		ContentType: doc.ContentType,
		Bytes:       doc.Bytes,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
	})
}

// GetDocument returns document metadata (Content is nil).
func (s *Store) GetDocument(ctx context.Context, docID string) (*docstore.Document, error) {
	meta, err := s.readMetadata(ctx, docID)
	if err != nil {
		return nil, err
	}
	return metaToDocument(meta), nil
}

// GetDocumentContent returns the raw document bytes from S3.
func (s *Store) GetDocumentContent(ctx context.Context, docID string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.contentKey(docID)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("document %s: %w", docID, docstore.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read content body: %w", err)
	}
	return data, nil
}

// UpdateDocumentStatus rewrites the metadata sidecar object with the new status.
func (s *Store) UpdateDocumentStatus(ctx context.Context, docID, status string) error {
	meta, err := s.readMetadata(ctx, docID)
	if err != nil {
		return err
	}
	meta.Status = status
	return s.writeMetadata(ctx, meta)
}

// DeleteDocument removes both the content and metadata objects.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	// Check existence first
	_, err := s.readMetadata(ctx, docID)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3types.Delete{
			Objects: []s3types.ObjectIdentifier{
				{Key: aws.String(s.contentKey(docID))},
				{Key: aws.String(s.metadataKey(docID))},
			},
			Quiet: aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	return nil
}

// ListDocumentsPaginated lists documents sorted by CreatedAt with cursor-based pagination.
func (s *Store) ListDocumentsPaginated(ctx context.Context, after, before string, limit int, order, matter string) ([]*docstore.Document, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	// List "directories" under prefix using delimiter
	delimiter := "/"
	var allDocIDs []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String(delimiter),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("list objects: %w", err)
		}
		for _, cp := range page.CommonPrefixes {
			// Extract document ID from prefix: "<prefix><doc_id>/"
			dir := aws.ToString(cp.Prefix)
			dir = strings.TrimPrefix(dir, s.prefix)
			dir = strings.TrimSuffix(dir, "/")
			if dir != "" {
				allDocIDs = append(allDocIDs, dir)
			}
		}
	}

	// Fetch metadata concurrently with a semaphore
	const maxConcurrency = 10
	sem := make(chan struct{}, maxConcurrency)
	var mu sync.Mutex
	var allDocs []*docstore.Document
	var fetchErr error

	var wg sync.WaitGroup
	for _, id := range allDocIDs {
		if fetchErr != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(docID string) {
			defer wg.Done()
			defer func() { <-sem }()

			meta, err := s.readMetadata(ctx, docID)
			if err != nil {
				mu.Lock()
				if fetchErr == nil {
					fetchErr = err
				}
				mu.Unlock()
				return
			}

			if matter != "" && meta.Matter != matter {
				return
			}

			mu.Lock()
			allDocs = append(allDocs, metaToDocument(meta))
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	if fetchErr != nil {
		return nil, false, fetchErr
	}

	// Sort by CreatedAt
	sort.Slice(allDocs, func(i, j int) bool {
		if order == "desc" {
			return allDocs[i].CreatedAt.After(allDocs[j].CreatedAt)
		}
		return allDocs[i].CreatedAt.Before(allDocs[j].CreatedAt)
	})

	// Apply cursor-based pagination
	var filtered []*docstore.Document
	foundAfter := after == ""

	for _, doc := range allDocs {
		if after != "" && !foundAfter {
			if doc.ID == after {
				foundAfter = true
			}
			continue
		}

		if before != "" && doc.ID == before {
			break
		}

		filtered = append(filtered, doc)

		if len(filtered) >= limit {
			break
		}
	}

	hasMore := len(allDocs) > len(filtered) && len(filtered) == limit

	return filtered, hasMore, nil
}

// Close is a no-op for the S3 store.
func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) writeMetadata(ctx context.Context, meta *docMetadata) error {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.metadataKey(meta.ID)),
		Body:        bytes.NewReader(metaBytes),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put metadata: %w", err)
	}
	return nil
}

// readMetadata fetches and unmarshals the metadata.json object for a document ID.
func (s *Store) readMetadata(ctx context.Context, docID string) (*docMetadata, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.metadataKey(docID)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("document %s: %w", docID, docstore.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read metadata body: %w", err)
	}

	var meta docMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &meta, nil
}

func metaToDocument(meta *docMetadata) *docstore.Document {
	return &docstore.Document{
		ID:          meta.ID,
		Filename:    meta.Filename,
		Matter:      meta.Matter,
		ContentType: meta.ContentType,
		Bytes:       meta.Bytes,
		Status:      meta.Status,
		CreatedAt:   meta.CreatedAt,
	}
}

// isNotFound reports whether the S3 error indicates a missing object.
func isNotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *s3types.NotFound
	return errors.As(err, &notFound)
}

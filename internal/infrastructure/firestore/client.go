package firestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pouchpalace/backend/internal/domain"
)

const maxAttempts = 3

// Config holds the settings for a Firestore document store
type Config struct {
	ProjectID  string
	DatabaseID string
	// CredentialsFile is a service account key; empty uses Application
	// Default Credentials (or none when FIRESTORE_EMULATOR_HOST is set)
	CredentialsFile   string
	RequestsPerSecond float64
}

// setFunc writes one document
type setFunc func(ctx context.Context, collection, id string, fields map[string]interface{}) error

// Client writes documents to Cloud Firestore
type Client struct {
	fs          *gcfirestore.Client
	set         setFunc
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient connects to the configured Firestore database.
// RequestsPerSecond <= 0 falls back to 10.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	databaseID := cfg.DatabaseID
	if databaseID == "" {
		databaseID = gcfirestore.DefaultDatabaseID
	}

	fs, err := gcfirestore.NewClientWithDatabase(ctx, cfg.ProjectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to firestore: %v", domain.ErrDocumentStoreFailure, err)
	}

	client := newClient(cfg.RequestsPerSecond, logger)
	client.fs = fs
	client.set = client.setDocument
	return client, nil
}

func newClient(requestsPerSecond float64, logger *zap.Logger) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1),
		backoff:     exponentialBackoff,
		logger:      logger,
	}
}

// Close releases the underlying connection
func (c *Client) Close() error {
	if c.fs == nil {
		return nil
	}
	return c.fs.Close()
}

// exponentialBackoff returns the wait before retry attempt n: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func (c *Client) setDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	_, err := c.fs.Collection(collection).Doc(id).Set(ctx, fields)
	return err
}

// UpsertDocument creates or replaces collection/id. Writes are rate limited;
// Unavailable, ResourceExhausted and Aborted failures are retried with
// exponential backoff.
func (c *Client) UpsertDocument(ctx context.Context, collection string, doc domain.Document) error {
	if collection == "" || doc.ID == "" {
		return fmt.Errorf("%w: collection and id are required", domain.ErrInvalidRequest)
	}
	if strings.Contains(collection, "/") || strings.Contains(doc.ID, "/") {
		return fmt.Errorf("%w: collection %q and id %q must not contain '/'", domain.ErrInvalidRequest, collection, doc.ID)
	}

	fields := NormalizeFields(doc.Fields)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		err := c.set(ctx, collection, doc.ID, fields)
		if err == nil {
			c.logger.Debug("document upserted",
				zap.String("collection", collection),
				zap.String("id", doc.ID),
				zap.Strings("fields", FieldNames(doc.Fields)))
			return nil
		}
		lastErr = fmt.Errorf("%w: %v", domain.ErrDocumentStoreFailure, err)
		if !retryable(err) {
			return lastErr
		}

		c.logger.Warn("firestore write failed",
			zap.Int("attempt", attempt),
			zap.String("id", doc.ID),
			zap.Error(err))

		if attempt < maxAttempts {
			if err := sleepContext(ctx, c.backoff(attempt)); err != nil {
				return err
			}
		}
	}

	return lastErr
}

// retryable reports whether a write failure is transient
func retryable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted:
		return true
	default:
		return false
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

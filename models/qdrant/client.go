// Package qdrant finds associated models stored as points in a Qdrant
// collection. The point payload is returned as the model.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/creastat/cart/models"
)

// ErrNotFound is returned when the collection has no point with the id.
var ErrNotFound = errors.New("point not found")

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant server address (e.g., "https://example.qdrant.io:6333").
	URL string

	// CollectionName is the collection holding the catalog points.
	CollectionName string

	// APIKey is optional API key for authentication.
	APIKey string
}

// Payload is the decoded payload of one point.
type Payload = map[string]any

type pointGetter interface {
	Get(ctx context.Context, request *qdrant.GetPoints) ([]*qdrant.RetrievedPoint, error)
	Close() error
}

// Client reads catalog points by product id.
type Client struct {
	client         pointGetter
	collectionName string
}

// New creates a new Qdrant client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}

	// Parse the URL to extract host, port, and scheme
	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "https://" + parsedURL
	}

	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	host := u.Hostname()
	port := 6334 // default port
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Client{
		client:         qdrantClient,
		collectionName: cfg.CollectionName,
	}, nil
}

// Get returns the payload of the point with the given product id. Integer
// ids (or numeric strings) address numeric points, anything else must be a
// UUID.
func (c *Client) Get(ctx context.Context, id any) (Payload, error) {
	pid, err := pointID(id)
	if err != nil {
		return nil, err
	}

	points, err := c.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: c.collectionName,
		Ids:            []*qdrant.PointId{pid},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant get failed: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}

	payload := make(Payload, len(points[0].Payload))
	for k, v := range points[0].Payload {
		payload[k] = extractValue(v)
	}
	return payload, nil
}

// Finder adapts the client for registration in a models.Registry.
func (c *Client) Finder() models.Finder {
	return models.FinderFunc(func(ctx context.Context, id any) (any, error) {
		return c.Get(ctx, id)
	})
}

func (c *Client) Close() error {
	return c.client.Close()
}

func pointID(id any) (*qdrant.PointId, error) {
	switch v := id.(type) {
	case int:
		if v >= 0 {
			return qdrant.NewIDNum(uint64(v)), nil
		}
	case int64:
		if v >= 0 {
			return qdrant.NewIDNum(uint64(v)), nil
		}
	case uint64:
		return qdrant.NewIDNum(v), nil
	case float64:
		if v >= 0 && v == float64(uint64(v)) {
			return qdrant.NewIDNum(uint64(v)), nil
		}
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return qdrant.NewIDNum(n), nil
		}
		if _, err := uuid.Parse(v); err == nil {
			return qdrant.NewID(v), nil
		}
	}
	return nil, fmt.Errorf("unsupported qdrant point id %v (%T)", id, id)
}

// extractValue extracts a Go value from a Qdrant Value.
func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}

	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_ListValue:
		out := make([]any, 0, len(val.ListValue.GetValues()))
		for _, e := range val.ListValue.GetValues() {
			out = append(out, extractValue(e))
		}
		return out
	case *qdrant.Value_StructValue:
		out := make(map[string]any, len(val.StructValue.GetFields()))
		for k, e := range val.StructValue.GetFields() {
			out[k] = extractValue(e)
		}
		return out
	default:
		return nil
	}
}

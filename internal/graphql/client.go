package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go-chms/internal/config"
	"go-chms/internal/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error carries the messages of a GraphQL errors[] array.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return "graphql: unknown error"
	}
	return strings.Join(e.Messages, "; ")
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Doer executes a single GraphQL operation and decodes data into out.
type Doer interface {
	Do(ctx context.Context, query string, variables map[string]any, out any) error
}

type Client struct {
	endpoint string
	timeout  time.Duration
	tokens   storage.Store
	logger   *zap.Logger
}

// NewClient builds the client. When tokens is non-nil the stored session
// token is sent as a bearer credential.
func NewClient(cfg *config.Config, tokens storage.Store, logger *zap.Logger) *Client {
	return &Client{
		endpoint: cfg.GraphQLURL,
		timeout:  cfg.GraphQLTimeout,
		tokens:   tokens,
		logger:   logger,
	}
}

func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	// fasthttp agents cannot be cancelled mid-flight.
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(c.endpoint)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if token := c.bearer(ctx); token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	agent.JSON(request{Query: query, Variables: variables})
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("graphql: failed to build request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		c.logger.Warn("GraphQL transport failure", zap.String("endpoint", c.endpoint), zap.Errors("errors", errs))
		return fmt.Errorf("graphql: request failed: %w", errors.Join(errs...))
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		if code >= fiber.StatusMultipleChoices {
			return fmt.Errorf("graphql: server returned status %d", code)
		}
		return fmt.Errorf("graphql: malformed response: %w", err)
	}
	if len(resp.Errors) > 0 {
		gqlErr := &Error{}
		for _, e := range resp.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}
	if code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("graphql: server returned status %d", code)
	}

	if out == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("graphql: failed to decode data: %w", err)
	}
	return nil
}

func (c *Client) bearer(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		return ""
	}
	return string(token)
}

// MaxPages bounds a single Paginate walk.
const MaxPages = 1000

// ErrPagination reports a listing that does not honor skip/take.
var ErrPagination = errors.New("graphql: server does not paginate")

// Paginate walks a skip/take listing until a page comes back short. key
// identifies an item; a page identical to the previous one means the server
// ignores skip, and the walk stops with ErrPagination. A nil key disables
// that check.
func Paginate[T any](ctx context.Context, pageSize int, fetch func(ctx context.Context, skip, take int) ([]T, error), key func(T) string) ([]T, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	var (
		all      []T
		previous []string
	)
	for pages, skip := 0, 0; ; pages, skip = pages+1, skip+pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pages >= MaxPages {
			return nil, fmt.Errorf("%w: more than %d pages", ErrPagination, MaxPages)
		}

		page, err := fetch(ctx, skip, pageSize)
		if err != nil {
			return nil, err
		}
		if len(page) > pageSize {
			return nil, fmt.Errorf("%w: asked for %d items, got %d", ErrPagination, pageSize, len(page))
		}
		if key != nil {
			ids := make([]string, len(page))
			for i, item := range page {
				ids[i] = key(item)
			}
			if len(ids) > 0 && slices.Equal(ids, previous) {
				return nil, fmt.Errorf("%w: page at skip %d repeats the previous page", ErrPagination, skip)
			}
			previous = ids
		}

		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

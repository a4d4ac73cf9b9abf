package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-stepform/pkg/formdata"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

// Redis defaults.
const (
	DefaultRedisStream    = "stepform:submissions"
	DefaultRedisKeyPrefix = "stepform:submission:"
)

// Redis keeps each submission in a hash keyed by its id and appends the id to
// a stream so consumers can pick it up.
type Redis struct {
	client *redis.Client
	stream string
	prefix string
	ttl    time.Duration
}

var _ wizard.Sink = (*Redis)(nil)

// RedisOption configures a Redis sink.
type RedisOption func(*Redis)

// WithStream sets the stream submissions are announced on.
func WithStream(name string) RedisOption {
	return func(r *Redis) {
		if name != "" {
			r.stream = name
		}
	}
}

// WithKeyPrefix sets the prefix of the per-submission hash keys.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithTTL expires stored submissions after ttl. Zero keeps them.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// NewRedis returns a sink writing through client. The caller owns the
// client lifecycle.
func NewRedis(client *redis.Client, options ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, errors.New("sink: redis client is required")
	}
	r := &Redis{
		client: client,
		stream: DefaultRedisStream,
		prefix: DefaultRedisKeyPrefix,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Stream reports the stream name submissions are appended to.
func (r *Redis) Stream() string {
	return r.stream
}

func (r *Redis) key(id string) string {
	return r.prefix + id
}

// Submit implements wizard.Sink. A submission id that is already stored is
// rejected with ErrDuplicateSubmission.
func (r *Redis) Submit(ctx context.Context, sub wizard.Submission) error {
	payload, err := json.Marshal(sub.Values)
	if err != nil {
		return fmt.Errorf("sink: encode values: %w", err)
	}
	key := r.key(sub.ID)

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrDuplicateSubmission
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				"id", sub.ID,
				"submitted_at", sub.SubmittedAt.UTC().Format(time.RFC3339Nano),
				"payload", string(payload),
			)
			if r.ttl > 0 {
				pipe.Expire(ctx, key, r.ttl)
			}
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: r.stream,
				Values: map[string]any{"submission_id": sub.ID},
			})
			return nil
		})
		return err
	}, key)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateSubmission), errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: %s", ErrDuplicateSubmission, sub.ID)
	default:
		return fmt.Errorf("sink: redis submit: %w", err)
	}
}

// Get reads a stored submission back. The bool is false when id is unknown.
func (r *Redis) Get(ctx context.Context, id string) (wizard.Submission, bool, error) {
	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return wizard.Submission{}, false, fmt.Errorf("sink: redis get %s: %w", id, err)
	}
	if len(fields) == 0 {
		return wizard.Submission{}, false, nil
	}
	submittedAt, err := time.Parse(time.RFC3339Nano, fields["submitted_at"])
	if err != nil {
		return wizard.Submission{}, false, fmt.Errorf("sink: parse submitted_at for %s: %w", id, err)
	}
	var values formdata.Values
	if err := json.Unmarshal([]byte(fields["payload"]), &values); err != nil {
		return wizard.Submission{}, false, fmt.Errorf("sink: decode payload for %s: %w", id, err)
	}
	return wizard.Submission{ID: fields["id"], Values: values, SubmittedAt: submittedAt}, true, nil
}

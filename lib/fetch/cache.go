package fetch

import (
	"bytes"
	"context"
	"encoding/gob"
	"net/url"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errResponseNotFound = badger.ErrKeyNotFound

type cachedResponse struct {
	Status int
	Body   []byte

	ExpiresAt int64
}

type responseCache struct {
	db  *badger.DB
	ttl time.Duration
}

func openResponseCache(dir string, ttl time.Duration) (*responseCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &responseCache{db: db, ttl: ttl}, nil
}

func (c *responseCache) close() error {
	return c.db.Close()
}

func (c *responseCache) key(rawUrl string) (string, error) {
	full, err := url.Parse(rawUrl)
	if err != nil {
		return "", err
	}
	normalized := purell.NormalizeURL(
		full,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	return normalized, nil
}

func (c *responseCache) get(ctx context.Context, rawUrl string) (cachedResponse, error) {
	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()

	key, err := c.key(rawUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return cachedResponse{}, err
	}
	span.SetAttributes(attribute.KeyValue{
		Key:   "cache_key",
		Value: attribute.StringValue(key),
	})

	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	item, err := tx.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return cachedResponse{}, errResponseNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return cachedResponse{}, err
	}
	serialized, err := item.ValueCopy(nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy cached item")
		return cachedResponse{}, err
	}

	decoder := gob.NewDecoder(bytes.NewBuffer(serialized))

	var cached cachedResponse
	err = decoder.Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached item")
		return cachedResponse{}, err
	}

	if time.Now().Unix() >= cached.ExpiresAt {
		span.AddEvent("delete expired cache key", trace.WithAttributes(attribute.KeyValue{
			Key:   "key",
			Value: attribute.StringValue(key),
		}))

		tx := c.db.NewTransaction(true)
		defer tx.Commit()

		err = tx.Delete([]byte(key))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
		}
		return cachedResponse{}, errResponseNotFound
	}

	span.AddEvent(
		"successfully returned cached response",
		trace.WithAttributes(attribute.KeyValue{
			Key:   "contentlength",
			Value: attribute.IntValue(len(cached.Body)),
		}),
	)

	return cached, nil
}

func (c *responseCache) set(ctx context.Context, rawUrl string, res cachedResponse) error {
	ctx, span := tracer.Start(ctx, "cache:set")
	defer span.End()

	key, err := c.key(rawUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return err
	}
	span.SetAttributes(attribute.KeyValue{
		Key:   "cache_key",
		Value: attribute.StringValue(key),
	})

	res.ExpiresAt = time.Now().Add(c.ttl).Unix()

	serialized := bytes.NewBuffer(nil)
	encoder := gob.NewEncoder(serialized)
	err = encoder.Encode(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize response")
		return err
	}

	tx := c.db.NewTransaction(true)
	defer tx.Commit()

	err = tx.Set([]byte(key), serialized.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}

	return nil
}

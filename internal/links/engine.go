// Package links holds the rules for creating, editing, deleting and
// resolving shortlinks on top of a Store.
package links

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abdusco/shortlinks/internal"
	"github.com/abdusco/shortlinks/internal/slug"
	"github.com/rs/zerolog/log"
)

const DefaultMaxAttempts = 10

type Store interface {
	Insert(ctx context.Context, shortlink, longlink string) (*internal.Link, error)
	Find(ctx context.Context, shortlink string) (*internal.Link, error)
	ListAll(ctx context.Context) ([]*internal.Link, error)
	Delete(ctx context.Context, shortlink string) (bool, error)
	Update(ctx context.Context, oldShortlink, newShortlink, longlink string) (bool, error)
}

type HitRecorder interface {
	Record(ctx context.Context, shortlink string) error
}

// Request carries a caller-chosen shortlink (optional) and the target URL.
type Request struct {
	Shortlink string `json:"shortlink"`
	Longlink  string `json:"longlink"`
}

type Config struct {
	// MaxAttempts bounds how many generated shortlinks are tried before giving up.
	MaxAttempts int
	Reserved    []string
}

type Engine struct {
	store       Store
	hits        HitRecorder
	generator   slug.Generator
	maxAttempts int
	reserved    []string
}

func NewEngine(store Store, hits HitRecorder, generator slug.Generator, cfg Config) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Reserved == nil {
		cfg.Reserved = ReservedShortlinks
	}

	return &Engine{
		store:       store,
		hits:        hits,
		generator:   generator,
		maxAttempts: cfg.MaxAttempts,
		reserved:    cfg.Reserved,
	}
}

// AddLink creates a link and returns its final shortlink. An existing
// shortlink is never overwritten.
func (e *Engine) AddLink(ctx context.Context, req Request) (string, error) {
	req = normalize(req)

	if err := validateLonglink(req.Longlink); err != nil {
		return "", err
	}

	if req.Shortlink != "" {
		if err := validateShortlink(req.Shortlink, e.reserved); err != nil {
			return "", err
		}

		link, err := e.store.Insert(ctx, req.Shortlink, req.Longlink)
		if err != nil {
			return "", storageError(err)
		}
		return link.Shortlink, nil
	}

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		candidate := e.generator.Generate()
		if err := validateShortlink(candidate, e.reserved); err != nil {
			continue
		}

		link, err := e.store.Insert(ctx, candidate, req.Longlink)
		if err == nil {
			return link.Shortlink, nil
		}
		if !errors.Is(err, internal.ErrShortlinkExists) {
			return "", storageError(err)
		}

		log.Debug().Str("shortlink", candidate).Int("attempt", attempt).Msg("generated shortlink collided, retrying")
	}

	log.Warn().Int("attempts", e.maxAttempts).Msg("shortlink generation exhausted")
	return "", fmt.Errorf("%w after %d attempts", internal.ErrGenerationExhausted, e.maxAttempts)
}

// GetLongURL resolves shortlink without counting a hit.
func (e *Engine) GetLongURL(ctx context.Context, shortlink string) (string, error) {
	link, err := e.store.Find(ctx, shortlink)
	if err != nil {
		return "", storageError(err)
	}
	return link.Longlink, nil
}

// RecordHit counts one resolution of shortlink. A link deleted since it was
// resolved is only logged.
func (e *Engine) RecordHit(ctx context.Context, shortlink string) error {
	err := e.hits.Record(ctx, shortlink)
	if errors.Is(err, internal.ErrLinkNotFound) {
		log.Warn().Str("shortlink", shortlink).Msg("link vanished before its hit was recorded")
		return nil
	}
	return storageError(err)
}

func (e *Engine) DeleteLink(ctx context.Context, shortlink string) (bool, error) {
	deleted, err := e.store.Delete(ctx, shortlink)
	if err != nil {
		return false, storageError(err)
	}
	return deleted, nil
}

// EditLink validates req like AddLink and applies it to shortlink. An empty
// req.Shortlink keeps the current one. It reports false if shortlink does not exist.
func (e *Engine) EditLink(ctx context.Context, shortlink string, req Request) (bool, error) {
	req = normalize(req)
	if req.Shortlink == "" {
		req.Shortlink = shortlink
	}

	if err := validateLonglink(req.Longlink); err != nil {
		return false, err
	}
	if err := validateShortlink(req.Shortlink, e.reserved); err != nil {
		return false, err
	}

	updated, err := e.store.Update(ctx, shortlink, req.Shortlink, req.Longlink)
	if err != nil {
		return false, storageError(err)
	}
	return updated, nil
}

// GetAll lists every link. Callers are responsible for gating access.
func (e *Engine) GetAll(ctx context.Context) ([]*internal.Link, error) {
	links, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return links, nil
}

func normalize(req Request) Request {
	return Request{
		Shortlink: strings.TrimSpace(req.Shortlink),
		Longlink:  strings.TrimSpace(req.Longlink),
	}
}

// storageError passes domain and context errors through and marks everything
// else as a storage failure.
func storageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, internal.ErrShortlinkExists),
		errors.Is(err, internal.ErrLinkNotFound),
		errors.Is(err, internal.ErrInvalidInput),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %w", internal.ErrStorageUnavailable, err)
}

// Package authors maps free-text author names onto quotes.
//
// Resolution runs in two stages. The input is slugified and tried as is;
// on a miss the paginated author directory is scanned in name order and
// the first entry whose name contains the input is used instead.
package authors

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/quotebot/core/logger"
	"github.com/m3rciful/quotebot/internal/quotes"
)

// Source is the subset of the quotes client the resolver needs.
type Source interface {
	FetchRandomByAuthorSlug(ctx context.Context, slug string) (quotes.Quote, error)
	FetchAuthors(ctx context.Context, page int) (quotes.AuthorPage, error)
}

// Stage tells which step produced a quote.
type Stage string

const (
	// StageSlug means the input slug matched an author directly.
	StageSlug Stage = "slug"
	// StageDirectory means the author was found by scanning the directory.
	StageDirectory Stage = "directory"
)

// Resolution is a successful lookup.
type Resolution struct {
	Quote quotes.Quote
	// Author is the directory name used for the second lookup; empty for StageSlug.
	Author string
	Stage  Stage
}

// Resolver resolves author names against a Source.
type Resolver struct {
	src Source
}

// NewResolver returns a Resolver backed by src.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve finds a random quote by the author best matching raw.
// It returns a *NotFoundError, or the context error when ctx ends first.
func (r *Resolver) Resolve(ctx context.Context, raw string) (res Resolution, err error) {
	start := time.Now()
	lookupID := "lk_" + uuid.New().String()[:8]
	input := strings.TrimSpace(raw)
	slug := Slugify(input)
	var scanned, pages int

	defer func() {
		attrs := []slog.Attr{
			slog.String("status", resolveStatus(err)),
			slog.String("lookup_id", lookupID),
			slog.String("slug", slug),
			slog.Int("pages", pages),
			slog.Int("scanned", scanned),
			slog.Duration("duration", logger.Took(start)),
		}
		var nf *NotFoundError
		switch {
		case err == nil:
			attrs = append(attrs, slog.String("stage", string(res.Stage)), slog.String("author", res.Quote.Author))
		case errors.As(err, &nf):
			attrs = append(attrs, slog.String("reason", string(nf.Reason)))
			if nf.Err != nil {
				attrs = append(attrs, slog.String("err", logger.SanitizeLimit(nf.Err.Error(), 256)))
			}
		default:
			cause := context.Cause(ctx)
			if cause == nil {
				cause = err
			}
			attrs = append(attrs, slog.String("reason", logger.SanitizeLimit(cause.Error(), 128)))
		}
		logger.Info(ctx, "authors", "author.resolve", attrs...)
	}()

	if slug == "" {
		return Resolution{}, &NotFoundError{Reason: ReasonNoMatch}
	}

	q, err := r.src.FetchRandomByAuthorSlug(ctx, slug)
	switch {
	case err == nil:
		return Resolution{Quote: q, Stage: StageSlug}, nil
	case ctx.Err() != nil:
		return Resolution{}, ctx.Err()
	case !errors.Is(err, quotes.ErrEmpty):
		// a failed direct lookup still falls through to the directory scan
		logger.Debug(ctx, "authors", "author.slug_failed",
			slog.String("lookup_id", lookupID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}

	name, scanErr := r.scan(ctx, strings.ToLower(input), &pages, &scanned)
	if scanErr != nil {
		return Resolution{}, scanErr
	}

	matched := Slugify(name)
	logger.Debug(ctx, "authors", "author.matched",
		slog.String("lookup_id", lookupID),
		slog.String("author", name),
		slog.Int("page", pages),
	)
	q, err = r.src.FetchRandomByAuthorSlug(ctx, matched)
	switch {
	case err == nil:
		return Resolution{Quote: q, Author: name, Stage: StageDirectory}, nil
	case ctx.Err() != nil:
		return Resolution{}, ctx.Err()
	case errors.Is(err, quotes.ErrEmpty):
		return Resolution{}, &NotFoundError{Reason: ReasonNoQuotes, Author: name}
	default:
		return Resolution{}, &NotFoundError{Reason: ReasonTransport, Author: name, Err: err}
	}
}

// scan walks the directory page by page until an entry contains needle.
// Every page is fetched at most once.
func (r *Resolver) scan(ctx context.Context, needle string, pages, scanned *int) (string, error) {
	total := 1
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p, err := r.src.FetchAuthors(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", &NotFoundError{Reason: ReasonTransport, Err: err}
		}
		*pages = page
		if page == 1 {
			total = p.TotalPages
		}
		for _, a := range p.Results {
			*scanned++
			if strings.Contains(strings.ToLower(a.Name), needle) {
				return a.Name, nil
			}
		}
	}
	return "", &NotFoundError{Reason: ReasonNoMatch}
}

func resolveStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "fail"
}

package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/football-sync/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// RateLimiter delays the caller for at least d, returning early only on cancellation.
type RateLimiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

type StopReason string

const (
	StopLastPage    StopReason = "last_page"
	StopEmptyPage   StopReason = "empty_page"
	StopRateLimited StopReason = "rate_limited"
	StopTransport   StopReason = "transport_error"
	StopCancelled   StopReason = "cancelled"
	StopPageLimit   StopReason = "page_limit"
)

// FetchResult is always usable: a stopped fetch still carries every record
// accumulated before the stop.
type FetchResult struct {
	Records  []ExternalRecord
	Pages    int
	Complete bool
	Stop     StopReason
	Err      error
}

type PaginatedFetcher struct {
	source    PageSource
	limiter   RateLimiter
	pageDelay time.Duration
	maxPages  int
	logger    *logging.Logger
}

func NewPaginatedFetcher(source PageSource, limiter RateLimiter, pageDelay time.Duration, maxPages int, logger *logging.Logger) *PaginatedFetcher {
	if logger == nil {
		logger = logging.Default()
	}
	if maxPages <= 0 {
		maxPages = 50
	}
	return &PaginatedFetcher{
		source:    source,
		limiter:   limiter,
		pageDelay: pageDelay,
		maxPages:  maxPages,
		logger:    logger,
	}
}

func (f *PaginatedFetcher) FetchAll(ctx context.Context, resource string, params map[string]string) FetchResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.PaginatedFetcher.FetchAll")
	defer span.End()

	result := FetchResult{Records: make([]ExternalRecord, 0, 32)}
	defer func() {
		span.SetAttributes(
			attribute.String("sync.resource", resource),
			attribute.Int("sync.pages", result.Pages),
			attribute.Int("sync.records", len(result.Records)),
			attribute.String("sync.stop", string(result.Stop)),
		)
	}()

	for page := 1; ; page++ {
		if page > f.maxPages {
			result.Stop = StopPageLimit
			f.logger.WarnContext(ctx, "page limit reached, stopping pagination",
				"resource", resource,
				"max_pages", f.maxPages,
			)
			return result
		}

		if page > 1 {
			if err := f.limiter.Wait(ctx, f.pageDelay); err != nil {
				result.Stop = StopCancelled
				result.Err = err
				return result
			}
		}

		resp, err := f.source.FetchPage(ctx, resource, params, page)
		if err != nil {
			result.Stop = StopTransport
			result.Err = err
			f.logger.WarnContext(ctx, "page fetch failed, keeping partial result",
				"resource", resource,
				"page", page,
				"records_kept", len(result.Records),
				"error", err,
			)
			return result
		}

		if len(resp.Errors) > 0 {
			result.Stop = StopRateLimited
			f.logger.WarnContext(ctx, "provider rejected page, keeping partial result",
				"resource", resource,
				"page", page,
				"records_kept", len(result.Records),
				"provider_errors", resp.Errors.String(),
			)
			return result
		}

		result.Pages = page
		if len(resp.Records) == 0 {
			result.Stop = StopEmptyPage
			result.Complete = true
			return result
		}
		result.Records = append(result.Records, resp.Records...)

		if resp.Total > 0 && resp.Current >= resp.Total {
			result.Stop = StopLastPage
			result.Complete = true
			return result
		}
	}
}

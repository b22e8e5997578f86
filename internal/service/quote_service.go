package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/quotes"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/repository"
)

// QuoteService refreshes position prices from the market-data provider.
type QuoteService struct {
	positionRepo *repository.PositionRepository
	client       quotes.Client
	logger       zerolog.Logger
}

// NewQuoteService creates a new QuoteService with the provided repository
// and quote client.
func NewQuoteService(
	positionRepo *repository.PositionRepository,
	client quotes.Client,
	logger zerolog.Logger,
) *QuoteService {
	return &QuoteService{
		positionRepo: positionRepo,
		client:       client,
		logger:       logger.With().Str("component", "quotes").Logger(),
	}
}

// RefreshPrices fetches the latest price for every held security and updates
// the affected position snapshots. Each security is fetched once even when
// held across multiple portfolios. Provider failures for individual symbols
// are logged and skipped so one bad symbol cannot block the rest of the
// refresh. Returns the number of positions updated.
func (s *QuoteService) RefreshPrices(ctx context.Context) (int, error) {
	positions, err := s.positionRepo.GetPositions("")
	if err != nil {
		return 0, err
	}

	prices := make(map[string]quotes.Quote)
	for _, p := range positions {
		if _, done := prices[p.SecurityID]; done {
			continue
		}

		quote, err := s.client.LatestPrice(ctx, p.SecurityID)
		if err != nil {
			s.logger.Warn().Err(err).Str("security_id", p.SecurityID).Msg("price fetch failed")
			continue
		}
		prices[p.SecurityID] = quote
	}

	now := time.Now().UTC()
	updated := 0
	for _, p := range positions {
		quote, ok := prices[p.SecurityID]
		if !ok {
			continue
		}

		if err := s.positionRepo.UpdatePrice(p.ID, quote.Price, now); err != nil {
			s.logger.Error().Err(err).Str("position_id", p.ID).Msg("price update failed")
			continue
		}
		updated++
	}

	s.logger.Info().Int("positions_updated", updated).Int("symbols_fetched", len(prices)).Msg("price refresh complete")
	return updated, nil
}

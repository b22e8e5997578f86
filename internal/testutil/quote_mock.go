package testutil

import (
	"context"
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/quotes"
)

// MockQuoteClient is a quotes.Client implementation returning canned prices
// instead of calling a real provider.
type MockQuoteClient struct {
	// Prices maps symbol to the price to return. Symbols not in the map
	// return Err (or a default error when Err is nil).
	Prices map[string]float64
	// Err is the error to return for unknown symbols.
	Err error
	// CallCount tracks how many times LatestPrice was called.
	CallCount int
}

// NewMockQuoteClient creates a mock with the given symbol prices.
func NewMockQuoteClient(prices map[string]float64) *MockQuoteClient {
	return &MockQuoteClient{Prices: prices}
}

// LatestPrice returns the canned price for a symbol.
func (m *MockQuoteClient) LatestPrice(_ context.Context, symbol string) (quotes.Quote, error) {
	m.CallCount++

	price, ok := m.Prices[symbol]
	if !ok {
		if m.Err != nil {
			return quotes.Quote{}, m.Err
		}
		return quotes.Quote{}, errUnknownSymbol(symbol)
	}

	return quotes.Quote{
		Symbol:   symbol,
		Currency: "INR",
		Price:    price,
		AsOf:     time.Now().UTC(),
	}, nil
}

type errUnknownSymbol string

func (e errUnknownSymbol) Error() string {
	return "no results returned for symbol " + string(e)
}

package coinm

import (
	"context"
	"net/http"
	"time"

	"kurir/pkg/client"
	"kurir/pkg/core"
)

// DefaultHistoryLimit is the row count requested when HistoryQuery.Limit is zero.
const DefaultHistoryLimit = 100

// Market covers market data history.
type Market struct {
	doer client.Doer
}

// HistoryQuery selects a time range of a symbol's history.
type HistoryQuery struct {
	Symbol    string     `url:"symbol" validate:"required"`
	StartTime *time.Time `url:"startTime,omitempty"`
	EndTime   *time.Time `url:"endTime,omitempty"`
	Limit     int        `url:"limit" validate:"min=0,max=1000"`
}

// FundingRate returns funding history of a perpetual contract.
func (m *Market) FundingRate(ctx context.Context, query HistoryQuery) ([]FundingRate, error) {
	if query.Limit == 0 {
		query.Limit = DefaultHistoryLimit
	}
	if err := validateRequest(&query); err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodGet, PathFundingRate).
		SetPayload(query).
		SetSecurity(core.SecuritySigned)
	return client.Send[[]FundingRate](ctx, m.doer, req)
}

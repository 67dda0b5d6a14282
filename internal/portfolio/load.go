package portfolio

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// Fetcher fetches a user's portfolio. client.HTTPClient satisfies it.
type Fetcher interface {
	GetPortfolio(ctx context.Context, userID string) (*model.Portfolio, error)
}

// View is what the portfolio pane renders.
type View struct {
	Portfolio model.Portfolio `json:"portfolio"`
	Summary   Summary         `json:"summary"`
	// Sample is true when the backend could not supply data.
	Sample bool `json:"sample"`
	// Err is the fetch failure that caused the fallback, if any.
	Err error `json:"-"`
}

// Load fetches the portfolio for userID. A fetch failure or an empty
// position list falls back to SamplePositions so the pane always renders.
func Load(ctx context.Context, f Fetcher, userID string) View {
	p, err := f.GetPortfolio(ctx, userID)
	if err != nil {
		slog.Debug("portfolio: using sample data", "error", err)
		return sampleView(userID, err)
	}
	if len(p.Positions) == 0 {
		return sampleView(userID, nil)
	}
	return View{Portfolio: *p, Summary: Summarize(p.Positions)}
}

func sampleView(userID string, err error) View {
	positions := SamplePositions()
	return View{
		Portfolio: model.Portfolio{UserID: userID, Positions: positions},
		Summary:   Summarize(positions),
		Sample:    true,
		Err:       err,
	}
}

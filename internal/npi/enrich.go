package npi

import (
	"context"

	"github.com/gyeh/conflicted-ids/internal/ledger"
	"go.uber.org/zap"
)

// Suggestion lists registry entries that share a NOLASTNAME person's name.
type Suggestion struct {
	ProviderPK int64           `json:"provider_pk"`
	Candidates []*ProviderInfo `json:"candidates"`
}

// Enrich looks up the NPI of every matched row that has one. Lookup
// failures are logged and skipped.
func (c *Client) Enrich(ctx context.Context, rows []ledger.MatchedRow, log *zap.SugaredLogger) map[int64]*ProviderInfo {
	var npis []int64
	seen := make(map[int64]bool)
	for _, r := range rows {
		if r.NPI != 0 && !seen[r.NPI] {
			seen[r.NPI] = true
			npis = append(npis, r.NPI)
		}
	}

	infos, errs := c.LookupAll(ctx, npis)
	out := make(map[int64]*ProviderInfo, len(npis))
	for i, number := range npis {
		if errs[i] != nil {
			log.Warnw("npi lookup failed", "npi", number, "error", errs[i])
			continue
		}
		if infos[i] != nil {
			out[number] = infos[i]
		}
	}
	return out
}

// Suggest searches the registry by name for each unmatched row with reason
// reason. state narrows the search when the person has exactly one.
func (c *Client) Suggest(ctx context.Context, rows []ledger.UnmatchedRow, states map[int64]string, reason string, log *zap.SugaredLogger) []Suggestion {
	var out []Suggestion
	for _, r := range rows {
		if r.Unmatched != reason || r.LastName == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		found, err := c.SearchByName(ctx, r.FirstName, r.LastName, states[r.ProviderPK])
		if err != nil {
			log.Warnw("npi search failed", "provider_pk", r.ProviderPK, "error", err)
			continue
		}
		if len(found) > 0 {
			out = append(out, Suggestion{ProviderPK: r.ProviderPK, Candidates: found})
		}
	}
	return out
}

package renderer

import (
	"github.com/foliodash/folio"
	"github.com/foliodash/folio/date"
)

// Summary is the view of one valuation pass, shaped for rendering.
// Numbers keep their exact domain types (Money, Quantity, Percent) so the
// templates can use their built-in renderers (SignedString etc.).
type Summary struct {
	// Date of the valuation pass.
	Date date.Date `json:"date"`
	// Currency is the reporting currency every total is expressed in.
	Currency string `json:"currency"`

	TotalValue    folio.Money   `json:"totalValue"`
	TotalInvested folio.Money   `json:"totalInvested"`
	TotalGain     folio.Money   `json:"totalGain"`
	GainPct       folio.Percent `json:"gainPct"`

	// Best and Worst are the gain-percentage extremes of the pass.
	Best  *SummaryMover `json:"best,omitempty"`
	Worst *SummaryMover `json:"worst,omitempty"`
	// TopAsset is the asset type carrying the largest share of the value.
	TopAsset folio.AssetType `json:"topAsset,omitempty"`

	Holdings []SummaryHolding `json:"holdings"`
}

// SummaryMover is a holding singled out as a best or worst performer.
type SummaryMover struct {
	Ticker  string        `json:"ticker"`
	GainPct folio.Percent `json:"gainPct"`
}

// SummaryHolding is one row of the holdings table.
type SummaryHolding struct {
	Ticker       string          `json:"ticker"`
	AssetType    folio.AssetType `json:"asset"`
	Quantity     folio.Quantity  `json:"quantity"`
	Invested     folio.Money     `json:"invested"`
	CurrentValue folio.Money     `json:"currentValue"`
	Gain         folio.Money     `json:"gain"`
	GainPct      folio.Percent   `json:"gainPct"`
	DayChange    folio.Money     `json:"dayChange"`
	Stale        bool            `json:"stale"`
}

// NewSummary builds the renderable view from one valuation pass.
func NewSummary(s folio.Summary, holdings []folio.Holding) *Summary {
	v := &Summary{
		Date:          s.Date,
		Currency:      s.Currency,
		TotalValue:    s.TotalValue,
		TotalInvested: s.TotalInvested,
		TotalGain:     s.TotalGain,
		GainPct:       s.GainPct,
		TopAsset:      s.TopAsset,
		Holdings:      make([]SummaryHolding, 0, len(holdings)),
	}
	for _, h := range holdings {
		v.Holdings = append(v.Holdings, SummaryHolding{
			Ticker:       h.Ticker,
			AssetType:    h.AssetType,
			Quantity:     h.Quantity,
			Invested:     h.Invested,
			CurrentValue: h.CurrentValue,
			Gain:         h.Gain,
			GainPct:      h.GainPct,
			DayChange:    h.DayChange,
			Stale:        h.Stale,
		})
		if h.Ticker == s.Best {
			v.Best = &SummaryMover{Ticker: h.Ticker, GainPct: h.GainPct}
		}
		if h.Ticker == s.Worst {
			v.Worst = &SummaryMover{Ticker: h.Ticker, GainPct: h.GainPct}
		}
	}
	return v
}

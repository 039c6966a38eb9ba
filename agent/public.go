package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/foliodash/folio"
	"github.com/foliodash/folio/renderer"
)

const model = "gemini-2.5-pro"

// Portfolio bundles what the analyst's tools need to answer a question:
// a way to load the ledger and the market data sources.
type Portfolio struct {
	Load      func() (*folio.Ledger, error)
	Quotes    folio.QuoteSource
	Rates     folio.RateSource
	Dividends folio.DividendSource
	Reporting string
}

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to get information about the assets in his portfolio.
			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request.

			The user will assume that you know his tickers; check the portfolio first to
			understand what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns the expert grounding answers in web search.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert market researcher,
		very well aware of financial products and institutions and
		of the latest news about funds and companies.
		Ask the Researcher whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in financial markets. You can search and find anything related
			to financial institutions, companies, markets and funds. You leverage Google
			Search to ground your assertions, and you know how to relate the latest news
			to the user's request.
				`}}},
		},
	}
}

// NewAnalyst returns the expert with function-call access to the ledger.
func NewAnalyst(p *Portfolio) *Expert {
	lib := []Function{holdingsTool(p), summaryTool(p), dividendsTool(p)}

	return &Expert{
		Name: "Analyst",
		Description: `This is the portfolio Analyst. He reads the user's transaction ledger
		and can compute the relevant figures about the user's wealth: current holdings,
		totals and gains, and unrecorded dividends.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's portfolio ledger.
				You know how to use the Tools to extract relevant information about the
				user's portfolio: held tickers, valuations, gains and dividends.
				Other experts may ask you questions about the portfolio; pardon their
				approximative language and figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"error": err.Error()},
	}
}

func success(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"output": output},
	}
}

// valuate loads the ledger and runs one valuation pass against live quotes.
func valuate(ctx context.Context, p *Portfolio) ([]folio.Holding, folio.Summary, error) {
	l, err := p.Load()
	if err != nil {
		return nil, folio.Summary{}, fmt.Errorf("could not load ledger: %w", err)
	}
	quotes := make(map[string]*folio.Quote)
	for ticker := range l.Tickers() {
		if l.AssetTypeOf(ticker) == folio.Cash {
			continue
		}
		quotes[ticker] = p.Quotes.CurrentQuote(ctx, ticker)
	}
	holdings := folio.CurrentHoldings(ctx, l, quotes, p.Rates, p.Reporting)
	return holdings, folio.PortfolioSummary(holdings, p.Reporting), nil
}

func holdingsTool(p *Portfolio) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Holdings",
			Description: `Holdings lists every open position in the user's portfolio:
			ticker, asset type, quantity, average cost, current value and gain.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the user's current holdings.",
			},
		},
		Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
			holdings, _, err := valuate(ctx, p)
			if err != nil {
				return failure(id, "Holdings", err)
			}
			return success(id, "Holdings", renderer.HoldingsMarkdown(holdings))
		},
	}
}

func summaryTool(p *Portfolio) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Summary",
			Description: `Summary computes the portfolio totals: value, invested capital,
			gain, and the best and worst performers.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted portfolio summary.",
			},
		},
		Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
			holdings, summary, err := valuate(ctx, p)
			if err != nil {
				return failure(id, "Summary", err)
			}
			return success(id, "Summary", renderer.RenderSummary(renderer.NewSummary(summary, holdings)))
		},
	}
}

func dividendsTool(p *Portfolio) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "DividendSuggestions",
			Description: `DividendSuggestions scans the provider's corporate-actions history
			for dividend payments missing from the user's ledger.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of unrecorded dividends.",
			},
		},
		Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
			l, err := p.Load()
			if err != nil {
				return failure(id, "DividendSuggestions", err)
			}
			r := &folio.Reconciler{Dividends: p.Dividends, Rates: p.Rates, Reporting: p.Reporting}
			suggestions := r.ScanForMissingDividends(ctx, l)
			return success(id, "DividendSuggestions", renderer.SuggestionsMarkdown(suggestions))
		},
	}
}

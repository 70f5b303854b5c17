// Package utils provides small shared helpers: ticker symbol
// normalization and company name resolution.
package utils

import "strings"

// NormalizeSymbol converts user input into a canonical ticker symbol:
// uppercase, trimmed, with any exchange suffix (".US", ".L", ...) removed.
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if idx := strings.Index(s, "."); idx > 0 {
		s = s[:idx]
	}
	return s
}

// companyNames maps common tickers to their company names. Used to build
// better provider search queries than the bare ticker. Unknown tickers
// fall back to the ticker itself.
var companyNames = map[string]string{
	"AAPL":  "Apple",
	"MSFT":  "Microsoft",
	"GOOGL": "Alphabet",
	"GOOG":  "Alphabet",
	"AMZN":  "Amazon",
	"META":  "Meta Platforms",
	"NVDA":  "NVIDIA",
	"TSLA":  "Tesla",
	"NFLX":  "Netflix",
	"AMD":   "Advanced Micro Devices",
	"INTC":  "Intel",
	"JPM":   "JPMorgan Chase",
	"BAC":   "Bank of America",
	"GS":    "Goldman Sachs",
	"V":     "Visa",
	"MA":    "Mastercard",
	"DIS":   "Disney",
	"KO":    "Coca-Cola",
	"PEP":   "PepsiCo",
	"WMT":   "Walmart",
	"XOM":   "Exxon Mobil",
	"CVX":   "Chevron",
	"PFE":   "Pfizer",
	"JNJ":   "Johnson & Johnson",
	"BA":    "Boeing",
	"GME":   "GameStop",
	"AMC":   "AMC Entertainment",
	"PLTR":  "Palantir",
	"COIN":  "Coinbase",
	"UBER":  "Uber",
}

// CompanyName returns the company name for a ticker, or the normalized
// ticker itself when no mapping exists.
func CompanyName(symbol string) string {
	s := NormalizeSymbol(symbol)
	if name, ok := companyNames[s]; ok {
		return name
	}
	return s
}

package domain

// Watch lists. The universe served by the dashboard is the deduplicated
// union of these; tickers appearing in several lists keep their first slot.
var (
	BaseWatchlist = []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "META",
		"TSLA", "NVDA", "JPM", "V", "WMT",
		"DIS", "NFLX", "PYPL", "INTC", "AMD",
		"BA", "PFE", "KO", "PEP", "XOM",
	}

	AIWatchlist = []string{
		"NVDA", "AMD", "MSFT", "GOOGL", "META", "PLTR", "SMCI", "AVGO",
	}

	TechWatchlist = []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "CRM", "ORCL", "ADBE", "NOW",
	}
)

// Universe returns the order-preserving deduplicated union of all watch
// lists.
func Universe() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(BaseWatchlist)+len(AIWatchlist)+len(TechWatchlist))
	for _, list := range [][]string{BaseWatchlist, AIWatchlist, TechWatchlist} {
		for _, symbol := range list {
			if seen[symbol] {
				continue
			}
			seen[symbol] = true
			out = append(out, symbol)
		}
	}
	return out
}

// InUniverse reports whether a symbol belongs to any watch list.
func InUniverse(symbol string) bool {
	for _, s := range Universe() {
		if s == symbol {
			return true
		}
	}
	return false
}

package alphavantage

// ── Estructuras del protocolo Alpha Vantage (GLOBAL_QUOTE, TIME_SERIES_DAILY) ─────
// Los punteros distinguen "campo ausente" de "campo vacío".

type globalQuoteResponse struct {
	GlobalQuote *globalQuote `json:"Global Quote"`
}

type globalQuote struct {
	Symbol string `json:"01. symbol"`
	Price  string `json:"05. price"`
}

type dailySeriesResponse struct {
	TimeSeries map[string]dailyBar `json:"Time Series (Daily)"`
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

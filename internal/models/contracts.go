package models

import "encoding/json"

type QuoteResponse struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Exchange      string  `json:"exchange,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	UpdatedISO    string  `json:"updatedISO"`
}

type StockResponse struct {
	Symbol     string          `json:"symbol"`
	Quote      QuoteResponse   `json:"quote"`
	Price      json.RawMessage `json:"price"`
	EOD        json.RawMessage `json:"eod"`
	TimeSeries json.RawMessage `json:"timeSeries"`
	TsISO      string          `json:"tsISO"`
}

type IndicatorBundle struct {
	Symbol     string                     `json:"symbol"`
	Interval   string                     `json:"interval"`
	Indicators map[string]json.RawMessage `json:"indicators"`
	TsISO      string                     `json:"tsISO"`
}

type ForexPair struct {
	Symbol        string `json:"symbol"`
	CurrencyGroup string `json:"currency_group"`
	CurrencyBase  string `json:"currency_base"`
	CurrencyQuote string `json:"currency_quote"`
}

type ForexPageResponse struct {
	TsISO         string      `json:"tsISO"`
	Page          int         `json:"page"`
	PerPage       int         `json:"perPage"`
	Total         int         `json:"total"`
	CurrencyGroup string      `json:"currencyGroup,omitempty"`
	SearchQuery   string      `json:"searchQuery,omitempty"`
	Items         []ForexPair `json:"items"`
}

type CryptoPair struct {
	Symbol             string   `json:"symbol"`
	AvailableExchanges []string `json:"available_exchanges"`
	CurrencyBase       string   `json:"currency_base"`
	CurrencyQuote      string   `json:"currency_quote"`
}

type CryptoPageResponse struct {
	TsISO       string       `json:"tsISO"`
	Page        int          `json:"page"`
	PerPage     int          `json:"perPage"`
	Total       int          `json:"total"`
	SearchQuery string       `json:"searchQuery,omitempty"`
	Items       []CryptoPair `json:"items"`
}

type OverviewResponse struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"marketCap"`
	Logo      string  `json:"logo"`
	WebURL    string  `json:"webUrl"`
	Country   string  `json:"country"`
	Currency  string  `json:"currency"`
	TsISO     string  `json:"tsISO"`
}

type NewsArticle struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	URL            string `json:"url"`
	Source         string `json:"source"`
	PublishedAtISO string `json:"publishedAtISO"`
}

type NewsPageResponse struct {
	TsISO    string        `json:"tsISO"`
	Query    string        `json:"query"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int           `json:"total"`
	Articles []NewsArticle `json:"articles"`
}

type AnalysisResponse struct {
	Symbol  string        `json:"symbol"`
	Quote   QuoteResponse `json:"quote"`
	Summary string        `json:"summary"`
	TsISO   string        `json:"tsISO"`
}

type HealthResponse struct {
	Ok      bool            `json:"ok"`
	TsISO   string          `json:"tsISO"`
	Service string          `json:"service"`
	Version string          `json:"version"`
	Env     map[string]bool `json:"env"`
}

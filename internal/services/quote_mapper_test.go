package services

import "testing"

func TestMapQuote(t *testing.T) {
	raw := providerQuote{
		Symbol:        "AAPL",
		Name:          "Apple Inc",
		Currency:      "USD",
		Close:         "150.00",
		Change:        "2.5",
		PercentChange: "1.69",
		Volume:        "50000000",
	}
	q, err := mapQuote("AAPL", raw)
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if q.Price != 150.0 {
		t.Fatalf("expected price 150.0, got %v", q.Price)
	}
	if q.Change != 2.5 {
		t.Fatalf("expected change 2.5, got %v", q.Change)
	}
	if q.ChangePercent != 1.69 {
		t.Fatalf("expected changePercent 1.69, got %v", q.ChangePercent)
	}
	if q.Volume != 50000000 {
		t.Fatalf("expected volume 50000000, got %v", q.Volume)
	}
	if q.UpdatedISO == "" {
		t.Fatal("expected updated timestamp")
	}
}

func TestMapQuoteRequiresClose(t *testing.T) {
	if _, err := mapQuote("AAPL", providerQuote{Close: ""}); err == nil {
		t.Fatal("expected error for missing close")
	}
	if _, err := mapQuote("AAPL", providerQuote{Close: "not-a-number"}); err == nil {
		t.Fatal("expected error for malformed close")
	}
}

func TestMapQuoteToleratesMissingOptionalFields(t *testing.T) {
	q, err := mapQuote("AAPL", providerQuote{Close: "150.00"})
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if q.Change != 0 || q.ChangePercent != 0 || q.Volume != 0 {
		t.Fatalf("expected zero optional fields, got %+v", q)
	}
}

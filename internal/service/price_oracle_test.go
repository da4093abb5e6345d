package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stocksim/internal/domain"
)

func chartPayload(symbol string, price float64) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":%q,"regularMarketPrice":%f}}],"error":null}}`, symbol, price)
}

func TestYahooPriceOracleLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, chartPayload("AAPL", 185.52))
	}))
	defer srv.Close()

	oracle := NewYahooPriceOracle(srv.URL, 2*time.Second)
	quote, err := oracle.Lookup(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if quote.Symbol != "AAPL" {
		t.Errorf("symbol = %s, want AAPL", quote.Symbol)
	}
	if quote.Price.String() != "185.52" {
		t.Errorf("price = %s, want 185.52", quote.Price)
	}
}

func TestYahooPriceOracleUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	oracle := NewYahooPriceOracle(srv.URL, 2*time.Second)
	if _, err := oracle.Lookup(context.Background(), "NOPE"); !errors.Is(err, domain.ErrUnknownSymbol) {
		t.Fatalf("Lookup: got %v, want ErrUnknownSymbol", err)
	}
}

func TestYahooPriceOracleEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":{"code":"Not Found"}}}`)
	}))
	defer srv.Close()

	oracle := NewYahooPriceOracle(srv.URL, 2*time.Second)
	if _, err := oracle.Lookup(context.Background(), "NOPE"); !errors.Is(err, domain.ErrUnknownSymbol) {
		t.Fatalf("Lookup: got %v, want ErrUnknownSymbol", err)
	}
}

func TestYahooPriceOracleTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	oracle := NewYahooPriceOracle(srv.URL, 1*time.Second)
	if _, err := oracle.Lookup(context.Background(), "AAPL"); !errors.Is(err, domain.ErrOracleUnavailable) {
		t.Fatalf("Lookup: got %v, want ErrOracleUnavailable", err)
	}
}

func TestYahooPriceOracleServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	oracle := NewYahooPriceOracle(srv.URL, 2*time.Second)
	if _, err := oracle.Lookup(context.Background(), "AAPL"); !errors.Is(err, domain.ErrOracleUnavailable) {
		t.Fatalf("Lookup: got %v, want ErrOracleUnavailable", err)
	}
}

func TestYahooPriceOracleFallsBackToLastClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"AAPL","regularMarketPrice":0},`+
			`"timestamp":[1,2,3],"indicators":{"quote":[{"close":[184.1,184.9,0]}]}}],"error":null}}`)
	}))
	defer srv.Close()

	oracle := NewYahooPriceOracle(srv.URL, 2*time.Second)
	quote, err := oracle.Lookup(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if quote.Price.String() != "184.9" {
		t.Errorf("price = %s, want fallback close 184.9", quote.Price)
	}
}

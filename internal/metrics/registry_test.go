package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/sydowma/mdgateway/pkg/domain"
)

func counterValue(t *testing.T, c interface {
	Write(*dto.Metric) error
}) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveReceivedIncrements(t *testing.T) {
	r := New()
	r.ObserveReceived(domain.VenueBinance, domain.DataTypeTrade)
	r.ObserveReceived(domain.VenueBinance, domain.DataTypeTrade)

	c, err := r.Received.GetMetricWithLabelValues("BINANCE", "TRADE")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	if got := counterValue(t, c); got != 2 {
		t.Fatalf("received count = %v, want 2", got)
	}
}

func TestSetConnectedTogglesGauge(t *testing.T) {
	r := New()
	r.SetConnected(domain.VenueOKX, true)
	g, err := r.Connected.GetMetricWithLabelValues("OKX")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetGauge().GetValue() != 1 {
		t.Fatalf("gauge = %v, want 1", m.GetGauge().GetValue())
	}

	r.SetConnected(domain.VenueOKX, false)
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetGauge().GetValue() != 0 {
		t.Fatalf("gauge = %v, want 0", m.GetGauge().GetValue())
	}
}

func TestCollectorsNonEmpty(t *testing.T) {
	r := New()
	if len(r.Collectors()) != 5 {
		t.Fatalf("Collectors() len = %d, want 5", len(r.Collectors()))
	}
}

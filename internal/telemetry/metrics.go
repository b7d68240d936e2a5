package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "storefront"

// Metrics はアプリ固有の計測値
type Metrics struct {
	ordersPlaced      metric.Int64Counter
	cartExcluded      metric.Int64Counter
	notifyDropped     metric.Int64Counter
	notifyFailed      metric.Int64Counter
	statusTransitions metric.Int64Counter
}

// NewMetrics はグローバルの MeterProvider から計測器を作る。
// MeterProvider 未設定なら何も記録しない実装になる。
func NewMetrics() (*Metrics, error) {
	return NewMetricsFrom(otel.GetMeterProvider())
}

func NewMetricsFrom(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)

	var (
		out Metrics
		err error
	)
	if out.ordersPlaced, err = m.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders created")); err != nil {
		return nil, err
	}
	if out.cartExcluded, err = m.Int64Counter("storefront.cart.excluded_items",
		metric.WithDescription("Cart entries dropped because the product is not in the catalog")); err != nil {
		return nil, err
	}
	if out.notifyDropped, err = m.Int64Counter("storefront.notify.dropped",
		metric.WithDescription("Notifications dropped because the queue was full")); err != nil {
		return nil, err
	}
	if out.notifyFailed, err = m.Int64Counter("storefront.notify.failed",
		metric.WithDescription("Notifications whose delivery failed")); err != nil {
		return nil, err
	}
	if out.statusTransitions, err = m.Int64Counter("storefront.orders.status_transitions",
		metric.WithDescription("Order status advances")); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Metrics) OrderPlaced(ctx context.Context, paymentMethod string, couponUsed bool) {
	m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(
		attribute.String("payment_method", paymentMethod),
		attribute.Bool("coupon_used", couponUsed),
	))
}

func (m *Metrics) CartExcluded(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	m.cartExcluded.Add(ctx, int64(n))
}

func (m *Metrics) NotificationDropped(ctx context.Context, kind string) {
	m.notifyDropped.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *Metrics) NotificationFailed(ctx context.Context, kind string) {
	m.notifyFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *Metrics) StatusAdvanced(ctx context.Context, to string) {
	m.statusTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", to)))
}

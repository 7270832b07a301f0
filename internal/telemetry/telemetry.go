// Package telemetry 初始化 OpenTelemetry 指标并定义 bridge 使用的指标。
// 未配置 OTLP 地址时使用 noop 实现，调用方无需判空。
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"trading-dashboard-client/internal/config"
)

// serviceVersion 上报的服务版本
const serviceVersion = "1.0.0"

// Provider 指标提供者
type Provider struct {
	// mp SDK 实现，未启用导出时为 nil
	mp *sdkmetric.MeterProvider
	// provider 实际对外提供的 MeterProvider
	provider metric.MeterProvider
}

// NewProvider 按配置创建指标提供者
// 参数 cfg: 遥测配置，OTLPEndpoint 为空时返回 noop 提供者
func NewProvider(ctx context.Context, cfg config.TelemetryConfig) (*Provider, error) {
	if cfg.OTLPEndpoint == "" {
		return &Provider{provider: noop.NewMeterProvider()}, nil
	}

	exporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(cfg.OTLPEndpoint))
	if err != nil {
		return nil, fmt.Errorf("创建指标导出器失败: %w", err)
	}

	interval := time.Duration(cfg.ExportIntervalMs) * time.Millisecond
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))
	return NewProviderWithReader(cfg.ServiceName, reader), nil
}

// NewProviderWithReader 使用指定 Reader 创建提供者，测试中配合 ManualReader 使用
func NewProviderWithReader(serviceName string, reader sdkmetric.Reader) *Provider {
	res := resource.NewSchemaless(
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(serviceVersion),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(batchSizeView()),
	)
	return &Provider{mp: mp, provider: mp}
}

// Meter 获取指定名称的 Meter
func (p *Provider) Meter(name string) metric.Meter {
	return p.provider.Meter(name)
}

// Shutdown 导出剩余指标并关闭
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.mp == nil {
		return nil
	}
	if err := p.mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭指标提供者失败: %w", err)
	}
	return nil
}

// batchSizeView 派发批次大小直方图的桶边界
func batchSizeView() sdkmetric.View {
	return sdkmetric.NewView(
		sdkmetric.Instrument{Name: "bridge.batch.actions"},
		sdkmetric.Stream{
			Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		},
	)
}

// BridgeMetrics bridge 指标
// 零值与 nil 接收者均可安全调用（不记录）。
type BridgeMetrics struct {
	eventsReceived metric.Int64Counter
	eventsFiltered metric.Int64Counter
	immediate      metric.Int64Counter
	batches        metric.Int64Counter
	batchActions   metric.Int64Histogram
}

// NewBridgeMetrics 在给定 Meter 上注册 bridge 指标
func NewBridgeMetrics(meter metric.Meter) (*BridgeMetrics, error) {
	var (
		m   BridgeMetrics
		err error
	)
	if m.eventsReceived, err = meter.Int64Counter("bridge.events.received",
		metric.WithDescription("收到的 socket 事件数"), metric.WithUnit("{event}")); err != nil {
		return nil, fmt.Errorf("注册 bridge.events.received 失败: %w", err)
	}
	if m.eventsFiltered, err = meter.Int64Counter("bridge.events.filtered",
		metric.WithDescription("因交易对不匹配被丢弃的事件数"), metric.WithUnit("{event}")); err != nil {
		return nil, fmt.Errorf("注册 bridge.events.filtered 失败: %w", err)
	}
	if m.immediate, err = meter.Int64Counter("bridge.dispatch.immediate",
		metric.WithDescription("绕过缓冲直接派发的动作数"), metric.WithUnit("{action}")); err != nil {
		return nil, fmt.Errorf("注册 bridge.dispatch.immediate 失败: %w", err)
	}
	if m.batches, err = meter.Int64Counter("bridge.batches.flushed",
		metric.WithDescription("派发的批次数"), metric.WithUnit("{batch}")); err != nil {
		return nil, fmt.Errorf("注册 bridge.batches.flushed 失败: %w", err)
	}
	if m.batchActions, err = meter.Int64Histogram("bridge.batch.actions",
		metric.WithDescription("每个批次包含的动作数"), metric.WithUnit("{action}")); err != nil {
		return nil, fmt.Errorf("注册 bridge.batch.actions 失败: %w", err)
	}
	return &m, nil
}

var kindKey = attribute.Key("kind")

// EventReceived 记录收到一个事件
func (m *BridgeMetrics) EventReceived(ctx context.Context, kind string) {
	if m == nil || m.eventsReceived == nil {
		return
	}
	m.eventsReceived.Add(ctx, 1, metric.WithAttributes(kindKey.String(kind)))
}

// EventFiltered 记录一个被选中交易对过滤掉的事件
func (m *BridgeMetrics) EventFiltered(ctx context.Context, kind string) {
	if m == nil || m.eventsFiltered == nil {
		return
	}
	m.eventsFiltered.Add(ctx, 1, metric.WithAttributes(kindKey.String(kind)))
}

// ImmediateDispatch 记录一次直接派发
func (m *BridgeMetrics) ImmediateDispatch(ctx context.Context, kind string) {
	if m == nil || m.immediate == nil {
		return
	}
	m.immediate.Add(ctx, 1, metric.WithAttributes(kindKey.String(kind)))
}

// BatchFlushed 记录一次批量派发
func (m *BridgeMetrics) BatchFlushed(ctx context.Context, actions int) {
	if m == nil || m.batches == nil {
		return
	}
	m.batches.Add(ctx, 1)
	m.batchActions.Record(ctx, int64(actions))
}

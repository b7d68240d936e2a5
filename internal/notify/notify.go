// Package notify は外部スケジューラへのイベント送信を非同期で行う。
//
// 送信は at-most-once・ベストエフォート。キューが一杯なら捨て、失敗しても再送しない。
// 呼び出し元のリクエストは送信結果を待たない。
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

const KindCouponExpired = "coupon.expired"

// ErrClosed は Close 後の Submit
var ErrClosed = errors.New("dispatcher closed")

// ErrQueueFull はキューが一杯で捨てたとき
var ErrQueueFull = errors.New("notification queue full")

// Event は1件の通知
type Event struct {
	Kind    string
	Key     string
	Payload any
}

// CouponExpired はクーポンの期限到来を予約するイベント
type CouponExpired struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewCouponExpired(code string, expiresAt time.Time) Event {
	return Event{
		Kind:    KindCouponExpired,
		Key:     code,
		Payload: CouponExpired{Code: code, ExpiresAt: expiresAt},
	}
}

// Publisher は実際の送信先（kafka など）
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Recorder は捨てた/失敗した件数の記録先
type Recorder interface {
	NotificationDropped(ctx context.Context, kind string)
	NotificationFailed(ctx context.Context, kind string)
}

// Submitter はユースケースから見た送信口
type Submitter interface {
	Submit(ctx context.Context, ev Event) error
}

type Options struct {
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher は有界キューと1つのワーカーで Publisher に流す
type Dispatcher struct {
	pub     Publisher
	rec     Recorder
	lg      *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(pub Publisher, rec Recorder, lg *zap.Logger, opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 5 * time.Second
	}
	d := &Dispatcher{
		pub:     pub,
		rec:     rec,
		lg:      lg,
		timeout: opts.SendTimeout,
		queue:   make(chan Event, opts.QueueSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Submit は待たずにキューへ積む。一杯なら ErrQueueFull。
// 戻り値はログ用で、呼び出し元はエラーにしなくてよい。
func (d *Dispatcher) Submit(ctx context.Context, ev Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- ev:
		return nil
	default:
		d.rec.NotificationDropped(ctx, ev.Kind)
		d.lg.Warn("notification dropped", zap.String("kind", ev.Kind), zap.String("key", ev.Key))
		return ErrQueueFull
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for ev := range d.queue {
		d.send(ev)
	}
}

func (d *Dispatcher) send(ev Event) {
	// リクエストのコンテキストとは切り離す
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.pub.Publish(ctx, ev.Key, ev.Payload); err != nil {
		d.rec.NotificationFailed(ctx, ev.Kind)
		d.lg.Error("notification failed",
			zap.String("kind", ev.Kind),
			zap.String("key", ev.Key),
			zap.Error(err),
		)
		return
	}
	d.lg.Debug("notification sent", zap.String("kind", ev.Kind), zap.String("key", ev.Key))
}

// Close は受付を止め、キューに残った分を送り切るか ctx が切れるまで待つ
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "drain notifications")
	}
}

// LogPublisher は送信先がない環境用。ログに出すだけ
type LogPublisher struct {
	lg *zap.Logger
}

func NewLogPublisher(lg *zap.Logger) *LogPublisher {
	return &LogPublisher{lg: lg}
}

func (p *LogPublisher) Publish(_ context.Context, key string, event any) error {
	p.lg.Info("notification (no broker configured)", zap.String("key", key), zap.Any("event", event))
	return nil
}

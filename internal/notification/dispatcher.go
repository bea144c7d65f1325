package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"laundrify-backend/internal/laundry"
	"laundrify-backend/internal/model"
	"laundrify-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// pushPayload mirrors the notification the mobile client raises
// locally: title, body, and routing data.
type pushPayload struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Data  pushData `json:"data"`
}

type pushData struct {
	FloorID     int               `json:"floorId"`
	MachineID   int               `json:"machineId"`
	MachineType model.MachineType `json:"machineType"`
}

// Dispatcher fans busy-to-free transitions out to the push
// subscriptions of the affected floor through a pool of workers. A
// failed send is logged and never stops the remaining transitions.
type Dispatcher struct {
	size   int
	jobs   chan laundry.Transition
	store  store.Store
	push   *webpush.Options
	sender NotificationSender
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher with the given pool size.
func NewDispatcher(size int, st store.Store, pushOptions *webpush.Options, logger *zap.Logger) *Dispatcher {
	return NewDispatcherWithSender(size, st, pushOptions, &WebPushSender{}, logger)
}

// NewDispatcherWithSender creates a dispatcher delivering through a
// custom sender.
func NewDispatcherWithSender(size int, st store.Store, pushOptions *webpush.Options, sender NotificationSender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		size:   size,
		jobs:   make(chan laundry.Transition, size),
		store:  st,
		push:   pushOptions,
		sender: sender,
		logger: logger,
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.size; i++ {
		go d.worker(ctx, i)
	}
}

// Dispatch queues one transition for delivery. When the buffer is
// full and every worker is busy this blocks, which back-pressures the
// snapshot pipeline rather than dropping notifications.
func (d *Dispatcher) Dispatch(t laundry.Transition) {
	d.jobs <- t
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	d.logger.Debug("notification worker started", zap.Int("worker", id))
	for {
		select {
		case t := <-d.jobs:
			d.notifyTransition(ctx, t)
		case <-ctx.Done():
			d.logger.Debug("notification worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// notifyTransition sends one notification per subscription opted into
// the transition's floor.
func (d *Dispatcher) notifyTransition(ctx context.Context, t laundry.Transition) {
	subs, err := d.store.SubscriptionsForFloor(ctx, t.FloorID)
	if err != nil {
		d.logger.Error("failed to fetch subscriptions",
			zap.Int("floor", t.FloorID), zap.Error(err))
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{
		Title: "Laundry Machine Available!",
		Body: fmt.Sprintf("%s #%d on Floor %d is now free to use.",
			titleCase(t.MachineType), t.MachineID%10, t.FloorID),
		Data: pushData{
			FloorID:     t.FloorID,
			MachineID:   t.MachineID,
			MachineType: t.MachineType,
		},
	})
	if err != nil {
		d.logger.Error("failed to marshal push payload", zap.Error(err))
		return
	}

	d.logger.Info("sending notifications",
		zap.Int("machine", t.MachineID),
		zap.Int("floor", t.FloorID),
		zap.Int("subscriptions", len(subs)))

	for _, sub := range subs {
		d.send(ctx, sub, payload)
	}
}

// send delivers a single web push notification.
func (d *Dispatcher) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := d.sender.Send(payload, wpSub, d.push)
	if err != nil {
		d.logger.Warn("failed to send notification",
			zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		d.logger.Info("subscription expired, deleting",
			zap.String("endpoint", sub.Endpoint))
		if err := d.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			d.logger.Warn("failed to delete expired subscription",
				zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}

func titleCase(t model.MachineType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

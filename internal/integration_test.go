package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"laundrify-backend/internal/db"
	"laundrify-backend/internal/laundry"
	"laundrify-backend/internal/model"
	"laundrify-backend/internal/notification"
	"laundrify-backend/internal/snapshot"
	"laundrify-backend/internal/store"
)

// capturingSender records every delivered push instead of talking to a
// push service.
type capturingSender struct {
	mu       sync.Mutex
	payloads [][]byte
	targets  []string
}

func (s *capturingSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	s.mu.Lock()
	s.payloads = append(s.payloads, payload)
	s.targets = append(s.targets, sub.Endpoint)
	s.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusCreated,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}, nil
}

func (s *capturingSender) snapshot() ([][]byte, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payloads := make([][]byte, len(s.payloads))
	copy(payloads, s.payloads)
	targets := make([]string, len(s.targets))
	copy(targets, s.targets)
	return payloads, targets
}

type capturedPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Data  struct {
		FloorID     int    `json:"floorId"`
		MachineID   int    `json:"machineId"`
		MachineType string `json:"machineType"`
	} `json:"data"`
}

// TestLaundryCycleNotifiesSubscribedFloor runs the whole pipeline:
// sensor feed in, roster reconciliation, transition detection, and
// push fan-out to the one subscribed floor.
func TestLaundryCycleNotifiesSubscribedFloor(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	logger := zap.NewNop()
	st := store.NewGormStore(testDB, logger)
	ctx := context.Background()
	require.NoError(t, st.SeedFloors(ctx, []int{1, 2, 3}))

	// One resident watches floor 1; nobody watches the rest.
	sub := model.PushSubscription{
		Endpoint: "https://example.com/push/floor-one",
		P256DH:   "test_p256dh",
		Auth:     "test_auth",
	}
	subscribed, err := st.ToggleFloor(ctx, sub, 1)
	require.NoError(t, err)
	require.True(t, subscribed)

	sender := &capturingSender{}
	dispatcher := notification.NewDispatcherWithSender(2, st, &webpush.Options{}, sender, logger)
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	dispatcher.Start(workerCtx)

	engine := laundry.NewEngine(laundry.BuildFloors(3, 3, 3), dispatcher, logger)

	source := snapshot.NewManualSource()
	require.NoError(t, source.Subscribe(engine.HandleSnapshot))
	defer source.Close()

	// The building runs a load, then everything goes quiet.
	source.Emit(snapshot.Snapshot{HasLaundry: true, HasMotion: true})
	source.Emit(snapshot.Snapshot{HasLaundry: false, HasMotion: false})

	// Every floor-1 machine transitioned; only floor 1 has a watcher.
	require.Eventually(t, func() bool {
		payloads, _ := sender.snapshot()
		return len(payloads) == 6
	}, 2*time.Second, 10*time.Millisecond)

	// Repeated quiet snapshots add nothing.
	source.Emit(snapshot.Snapshot{})
	time.Sleep(100 * time.Millisecond)

	payloads, targets := sender.snapshot()
	require.Len(t, payloads, 6)

	seenMachines := make(map[int]bool)
	for i, raw := range payloads {
		assert.Equal(t, sub.Endpoint, targets[i])

		var p capturedPayload
		require.NoError(t, json.Unmarshal(raw, &p))
		assert.Equal(t, "Laundry Machine Available!", p.Title)
		assert.Equal(t, 1, p.Data.FloorID)
		assert.False(t, seenMachines[p.Data.MachineID], "machine %d notified twice", p.Data.MachineID)
		seenMachines[p.Data.MachineID] = true
	}
	assert.Len(t, seenMachines, 6)

	// The roster settled back to available.
	for _, floor := range engine.Floors() {
		for _, m := range floor.Machines {
			assert.Equal(t, model.StatusAvailable, m.Status)
		}
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"laundrify-backend/internal/chat"
	"laundrify-backend/internal/db"
	"laundrify-backend/internal/laundry"
	"laundrify-backend/internal/model"
	"laundrify-backend/internal/snapshot"
	"laundrify-backend/internal/store"
)

// stubLLM answers every question with a fixed reply.
type stubLLM struct{ reply string }

func (s *stubLLM) AskLaundryBot(context.Context, string) (string, error) {
	return s.reply, nil
}

func (s *stubLLM) AnalyzeClothingImage(context.Context, string) (string, error) {
	return s.reply, nil
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(laundry.Transition) {}

func setupRouter(t *testing.T) (*gin.Engine, store.Store, *laundry.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := testDB.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.Migrate(testDB))

	st := store.NewGormStore(testDB, zap.NewNop())
	require.NoError(t, st.SeedFloors(context.Background(), []int{1, 2, 3}))

	engine := laundry.NewEngine(laundry.BuildFloors(3, 3, 3), noopDispatcher{}, zap.NewNop())
	orchestrator := chat.NewOrchestrator(&stubLLM{reply: "Use a cold cycle."}, zap.NewNop())
	pushOptions := &webpush.Options{VAPIDPublicKey: "test-public-key"}

	handler := NewHandler(st, engine, orchestrator, pushOptions, zap.NewNop())

	r := gin.New()
	api := r.Group("/api")
	api.GET("/floors", handler.GetFloors)
	api.GET("/floors/:floor_id/machines", handler.GetFloorMachines)
	api.POST("/lost-items", handler.PostLostItem)
	api.GET("/lost-items", handler.GetLostItems)
	api.POST("/lost-items/:id/resolve", handler.ResolveLostItem)
	api.GET("/vapid-public-key", handler.GetVAPIDPublicKey)
	api.PUT("/subscriptions", handler.PutSubscription)
	api.GET("/subscriptions", handler.GetSubscription)
	api.DELETE("/subscriptions", handler.DeleteSubscription)
	api.POST("/subscriptions/toggle", handler.ToggleFloorSubscription)
	api.POST("/chat/messages", handler.PostChatMessage)
	api.GET("/chat/:session_id/messages", handler.GetChatMessages)
	return r, st, engine
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetFloors(t *testing.T) {
	router, _, engine := setupRouter(t)
	engine.HandleSnapshot(snapshot.Snapshot{HasLaundry: true, HasMotion: true})

	w := doJSON(router, "GET", "/api/floors", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var floors []FloorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &floors))
	require.Len(t, floors, 3)
	assert.Equal(t, "Floor 1", floors[0].Name)
	assert.Equal(t, 6, floors[0].TotalMachines)
	assert.Equal(t, 0, floors[0].AvailableMachines)
}

func TestGetFloorMachines(t *testing.T) {
	router, _, _ := setupRouter(t)

	t.Run("known floor", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/floors/2/machines", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var machines []model.Machine
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &machines))
		require.Len(t, machines, 6)
		assert.Equal(t, 201, machines[0].ID)
	})

	t.Run("unknown floor", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/floors/99/machines", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric floor", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/floors/abc/machines", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLostItemEndpoints(t *testing.T) {
	router, _, _ := setupRouter(t)

	t.Run("report rejects blank description", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/lost-items", gin.H{"description": " ", "roomNumber": "1203"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var itemID string
	t.Run("report creates item", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/lost-items", gin.H{"description": "blue sock", "roomNumber": "1203"})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		itemID = resp["id"]
		require.NotEmpty(t, itemID)
	})

	t.Run("list returns the item", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/lost-items?filter=lost", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var items []model.LostItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, itemID, items[0].ID)
	})

	t.Run("list rejects unknown filter", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/lost-items?filter=stolen", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("resolve unknown id", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/lost-items/no-such-id/resolve", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("resolve marks item found", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/lost-items/"+itemID+"/resolve", nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(router, "GET", "/api/lost-items?filter=found", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []model.LostItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, model.LostItemFound, items[0].Status)
	})
}

func TestSubscriptionEndpoints(t *testing.T) {
	router, _, _ := setupRouter(t)

	sub := gin.H{
		"endpoint": "https://example.com/push/abc",
		"p256dh":   "test_p256dh",
		"auth":     "test_auth",
	}

	t.Run("put rejects missing keys", func(t *testing.T) {
		w := doJSON(router, "PUT", "/api/subscriptions", gin.H{"endpoint": "https://example.com/push"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("put creates subscription", func(t *testing.T) {
		body := gin.H{}
		for k, v := range sub {
			body[k] = v
		}
		body["subscribed_floors"] = []int{1, 3}
		w := doJSON(router, "PUT", "/api/subscriptions", body)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("get returns subscribed floors", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/subscriptions?endpoint=https://example.com/push/abc", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			SubscribedFloors []int `json:"subscribed_floors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.ElementsMatch(t, []int{1, 3}, resp.SubscribedFloors)
	})

	t.Run("get unknown endpoint", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/subscriptions?endpoint=https://example.com/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("toggle subscribes a floor", func(t *testing.T) {
		body := gin.H{}
		for k, v := range sub {
			body[k] = v
		}
		body["floor_id"] = 2
		w := doJSON(router, "POST", "/api/subscriptions/toggle", body)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			FloorID    int  `json:"floor_id"`
			Subscribed bool `json:"subscribed"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.FloorID)
		assert.True(t, resp.Subscribed)
	})

	t.Run("toggle unknown floor", func(t *testing.T) {
		body := gin.H{}
		for k, v := range sub {
			body[k] = v
		}
		body["floor_id"] = 99
		w := doJSON(router, "POST", "/api/subscriptions/toggle", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete removes subscription", func(t *testing.T) {
		w := doJSON(router, "DELETE", "/api/subscriptions", gin.H{"endpoint": "https://example.com/push/abc"})
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(router, "GET", "/api/subscriptions?endpoint=https://example.com/push/abc", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetVAPIDPublicKey(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := doJSON(router, "GET", "/api/vapid-public-key", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"test-public-key"}`, w.Body.String())
}

func TestChatEndpoints(t *testing.T) {
	router, _, _ := setupRouter(t)

	t.Run("blank message is rejected", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/chat/messages", gin.H{"text": "   "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var sessionID string
	t.Run("message gets a reply and a session id", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/chat/messages", gin.H{"text": "How do I wash denim?"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			SessionID string       `json:"session_id"`
			Message   chat.Message `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.SessionID)
		sessionID = resp.SessionID
		assert.Equal(t, "Use a cold cycle.", resp.Message.Text)
	})

	t.Run("history includes welcome, question and reply", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/chat/"+sessionID+"/messages", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Messages []chat.Message `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Messages, 3)
		assert.Equal(t, chat.WelcomeMessage, resp.Messages[0].Text)
		assert.Equal(t, "How do I wash denim?", resp.Messages[1].Text)
		assert.Equal(t, "Use a cold cycle.", resp.Messages[2].Text)
	})
}

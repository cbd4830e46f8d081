package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientOpts{
		BaseURL:   server.URL,
		Token:     "test-token",
		RateLimit: 100,
	})

	return client, server
}

func TestClient(t *testing.T) {
	t.Run("sends bearer token", func(t *testing.T) {
		var gotAuth string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
		}))

		var out map[string]string
		if err := client.Get(context.Background(), "/ping", &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotAuth != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", gotAuth)
		}
	})

	t.Run("maps status codes to sentinel errors", func(t *testing.T) {
		tc := []struct {
			status int
			want   error
		}{
			{http.StatusUnauthorized, shared.ErrUnauthorized},
			{http.StatusForbidden, shared.ErrUnauthorized},
			{http.StatusNotFound, shared.ErrBandNotFound},
			{http.StatusServiceUnavailable, shared.ErrServiceUnavailable},
			{http.StatusInternalServerError, shared.ErrRemoteRequest},
		}

		for _, c := range tc {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
			}))

			err := client.Get(context.Background(), "/x", nil)
			if !errors.Is(err, c.want) {
				t.Errorf("status %d: expected %v, got %v", c.status, c.want, err)
			}
		}
	})

	t.Run("encodes request bodies as json", func(t *testing.T) {
		var gotBody map[string]string
		var gotContentType string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotContentType = r.Header.Get("Content-Type")
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(gotBody)
		}))

		var out map[string]string
		err := client.Post(context.Background(), "/echo", map[string]string{"name": "Friday Set"}, &out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotContentType != "application/json" {
			t.Errorf("expected json content type, got %q", gotContentType)
		}
		if out["name"] != "Friday Set" {
			t.Errorf("expected echoed body, got %v", out)
		}
	})
}

func TestBandService(t *testing.T) {
	t.Run("lists bands for a member", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("member") != "user-1" {
				t.Errorf("expected member query param, got %q", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode([]models.Band{
				{ID: "band-1", Name: "The Regulars", OwnerID: "user-1"},
			})
		}))

		bands, err := NewBandService(client).Bands(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(bands) != 1 || bands[0].Name != "The Regulars" {
			t.Errorf("unexpected bands: %+v", bands)
		}
	})

	t.Run("creates a band", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/bands" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}

			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(models.Band{
				ID:          "band-2",
				Name:        body["name"],
				Description: body["description"],
			})
		}))

		band, err := NewBandService(client).CreateBand(context.Background(), "Night Shift", "weekend gigs")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if band.ID != "band-2" || band.Name != "Night Shift" {
			t.Errorf("unexpected band: %+v", band)
		}
	})

	t.Run("missing band yields not found", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))

		_, err := NewBandService(client).Band(context.Background(), "nope")
		if !errors.Is(err, shared.ErrBandNotFound) {
			t.Errorf("expected ErrBandNotFound, got %v", err)
		}
	})

	t.Run("responds to invitations", func(t *testing.T) {
		var gotStatus string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				t.Errorf("expected PATCH, got %s", r.Method)
			}

			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			gotStatus = body["status"]
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("{}"))
		}))

		err := NewBandService(client).RespondInvitation(context.Background(), "inv-1", models.InvitationAccepted)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotStatus != "accepted" {
			t.Errorf("expected accepted status, got %q", gotStatus)
		}
	})
}

func TestChatService(t *testing.T) {
	t.Run("sends a text message", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["message_type"] != "text" {
				t.Errorf("expected text message type, got %v", body["message_type"])
			}

			json.NewEncoder(w).Encode(models.BandMessage{
				ID:      "msg-1",
				BandID:  "band-1",
				Content: body["content"].(string),
				Type:    models.MessageText,
			})
		}))

		svc := NewChatService(client, "", nil)
		message, err := svc.Send(context.Background(), "band-1", "sound check at 6")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if message.Content != "sound check at 6" {
			t.Errorf("unexpected message: %+v", message)
		}
	})

	t.Run("share setlist carries metadata", func(t *testing.T) {
		var gotBody map[string]any
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotBody)
			json.NewEncoder(w).Encode(models.BandMessage{ID: "msg-2", Type: models.MessageSetlistShare})
		}))

		svc := NewChatService(client, "", nil)
		_, err := svc.ShareSetlist(context.Background(), "band-1", "shared-1", "Friday Set")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		metadata, ok := gotBody["metadata"].(map[string]any)
		if !ok || metadata["shared_setlist_id"] != "shared-1" {
			t.Errorf("expected shared_setlist_id metadata, got %v", gotBody["metadata"])
		}
	})

	t.Run("subscribe without endpoint fails", func(t *testing.T) {
		svc := NewChatService(NewClient(ClientOpts{}), "", nil)
		_, err := svc.Subscribe(context.Background(), "band-1")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("subscribe receives pushed messages", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := websocket.Accept(w, r, nil)
			if err != nil {
				t.Errorf("accept failed: %v", err)
				return
			}
			defer conn.Close(websocket.StatusNormalClosure, "")

			data, _ := json.Marshal(models.BandMessage{
				ID:      "msg-3",
				BandID:  "band-1",
				Content: "new chart uploaded",
				Type:    models.MessageText,
			})
			if err := conn.Write(r.Context(), websocket.MessageText, data); err != nil {
				t.Errorf("write failed: %v", err)
				return
			}

			// Keep the connection open until the client hangs up.
			conn.Read(r.Context())
		}))
		t.Cleanup(server.Close)

		wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
		svc := NewChatService(NewClient(ClientOpts{}), wsURL, nil)

		sub, err := svc.Subscribe(context.Background(), "band-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer sub.Close()

		select {
		case message := <-sub.C:
			if message.Content != "new chart uploaded" {
				t.Errorf("unexpected message: %+v", message)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for pushed message")
		}

		if sub.BandID() != "band-1" {
			t.Errorf("expected band-1, got %q", sub.BandID())
		}
	})
}

func TestSharedSetlistService(t *testing.T) {
	t.Run("fetches shared setlists with ordered songs", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]models.SharedSetlist{
				{
					ID:     "shared-1",
					BandID: "band-1",
					Name:   "Friday Set",
					Songs: []models.SharedSetlistSong{
						{Position: 0, Song: models.SharedSong{Title: "Opener"}},
						{Position: 1, Song: models.SharedSong{Title: "Closer"}},
					},
				},
			})
		}))

		setlists, err := NewSharedSetlistService(client).ForBand(context.Background(), "band-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(setlists) != 1 || len(setlists[0].Songs) != 2 {
			t.Fatalf("unexpected setlists: %+v", setlists)
		}
		if setlists[0].Songs[0].Song.Title != "Opener" {
			t.Errorf("expected ordered songs, got %+v", setlists[0].Songs)
		}
	})

	t.Run("uploads an asset and returns its url", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "audio/mpeg" {
				t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
			}
			json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/take1.mp3"})
		}))

		svc := NewSharedSetlistService(client)
		assetURL, err := svc.UploadAsset(context.Background(), "take1.mp3", "audio/mpeg", strings.NewReader("audio-bytes"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if assetURL != "https://cdn.example.com/take1.mp3" {
			t.Errorf("unexpected url %q", assetURL)
		}
	})
}

package bot

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// telegramStub answers getMe and records sendMessage form payloads.
func telegramStub(t *testing.T, sendStatus int, sent *[]url.Values) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Clima","username":"clima_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if sent != nil {
				*sent = append(*sent, r.PostForm)
			}
			if sendStatus >= 400 {
				w.WriteHeader(sendStatus)
				w.Write([]byte(`{"ok":false,"error_code":500,"description":"internal"}`))
				return
			}
			w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":1,"chat":{"id":42,"type":"private"},"text":"x"}}`))
		default:
			t.Errorf("unexpected telegram call: %s", r.URL.Path)
			w.Write([]byte(`{"ok":false,"error_code":404,"description":"not found"}`))
		}
	}))
}

func endpointOf(srv *httptest.Server) string {
	return srv.URL + "/bot%s/%s"
}

func TestNewVerifiesToken(t *testing.T) {
	srv := telegramStub(t, 0, nil)
	defer srv.Close()

	b, err := newWithEndpoint("123:abc", 42, endpointOf(srv))
	require.NoError(t, err)
	require.NotNil(t, b)
}

func TestNewRejectsBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := newWithEndpoint("bad", 42, endpointOf(srv))
	require.Error(t, err)
}

func TestSendMessage(t *testing.T) {
	var sent []url.Values
	srv := telegramStub(t, 0, &sent)
	defer srv.Close()

	b, err := newWithEndpoint("123:abc", 42, endpointOf(srv))
	require.NoError(t, err)

	require.NoError(t, b.SendMessage("🌦️ *Clima — Agua de Oro*"))

	require.Len(t, sent, 1)
	assert.Equal(t, "42", sent[0].Get("chat_id"))
	assert.Equal(t, "Markdown", sent[0].Get("parse_mode"))
	assert.Equal(t, "🌦️ *Clima — Agua de Oro*", sent[0].Get("text"))
}

func TestReportError(t *testing.T) {
	var sent []url.Values
	srv := telegramStub(t, 0, &sent)
	defer srv.Close()

	b, err := newWithEndpoint("123:abc", 42, endpointOf(srv))
	require.NoError(t, err)

	b.ReportError(errors.New("geocode city: No se encontraron coordenadas"))

	require.Len(t, sent, 1)
	assert.Equal(t, "⚠️ Error en bot: `geocode city: No se encontraron coordenadas`", sent[0].Get("text"))
	assert.Equal(t, "Markdown", sent[0].Get("parse_mode"))
}

func TestReportErrorSwallowsDeliveryFailure(t *testing.T) {
	var sent []url.Values
	srv := telegramStub(t, http.StatusInternalServerError, &sent)
	defer srv.Close()

	b, err := newWithEndpoint("123:abc", 42, endpointOf(srv))
	require.NoError(t, err)

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	// Must not panic or propagate.
	b.ReportError(errors.New("boom"))
	require.Len(t, sent, 1)
	assert.Contains(t, logs.String(), "Error sending error report")
}

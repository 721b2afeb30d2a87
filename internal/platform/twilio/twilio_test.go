package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clemtodo/reminder-api/internal/config"
	"github.com/clemtodo/reminder-api/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.TwilioConfig {
	return config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+33668695116",
	}
}

func TestFormatWhatsAppNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"33668695116", "whatsapp:+33668695116"},
		{"+33668695116", "whatsapp:+33668695116"},
		{"whatsapp:+33668695116", "whatsapp:+33668695116"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatWhatsAppNumber(tc.in))
	}
}

func TestSendSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+33668695116", r.PostFormValue("From"))
		assert.Equal(t, "whatsapp:+447700900123", r.PostFormValue("To"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123456"}`))
	}))
	defer server.Close()

	ch := New(testConfig(), time.Second, nil).WithBaseURL(server.URL)

	deliveryID, err := ch.Send(context.Background(), notify.Message{
		Recipient: "447700900123",
		Title:     "Todo Reminder",
		Body:      "🔔 Reminder: clean garage",
	})

	require.NoError(t, err)
	assert.Equal(t, "SM123456", deliveryID)
}

func TestSendRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Authentication Error"}`))
	}))
	defer server.Close()

	ch := New(testConfig(), time.Second, nil).WithBaseURL(server.URL)

	_, err := ch.Send(context.Background(), notify.Message{Recipient: "447700900123"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication Error")
}

func TestSendDisabledWithoutCredentials(t *testing.T) {
	t.Parallel()

	ch := New(config.TwilioConfig{AccountSID: "AC123"}, time.Second, nil)

	_, err := ch.Send(context.Background(), notify.Message{Recipient: "447700900123"})

	assert.ErrorIs(t, err, notify.ErrChannelDisabled)
}

package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
)

func TestSendEmail(t *testing.T) {
	var received Email
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-123"}`))
	}))
	defer server.Close()

	client, err := NewClient("re_test_key", "orders@fadeatelier.com", WithBaseURL(server.URL))
	require.NoError(t, err)

	id, err := client.Send(context.Background(), Email{
		To:      []string{"buyer@example.com"},
		Subject: "Order confirmed",
		HTML:    "<p>Thank you for your order.</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "email-123", id)
	assert.Equal(t, "orders@fadeatelier.com", received.From, "default sender should be applied")
}

func TestSendEmailValidation(t *testing.T) {
	client, err := NewClient("re_test_key", "orders@fadeatelier.com")
	require.NoError(t, err)

	cases := []struct {
		name  string
		email Email
	}{
		{"missing recipient", Email{Subject: "s", Text: "body"}},
		{"missing subject", Email{To: []string{"a@b.c"}, Text: "body"}},
		{"missing body", Email{To: []string{"a@b.c"}, Subject: "s"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Send(context.Background(), tc.email)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestSendEmailUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	client, err := NewClient("re_test_key", "orders@fadeatelier.com", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Send(context.Background(), Email{
		To:      []string{"buyer@example.com"},
		Subject: "Order confirmed",
		Text:    "Thank you.",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("", "orders@fadeatelier.com")
	assert.Error(t, err)
}

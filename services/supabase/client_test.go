package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

func TestInsert(t *testing.T) {
	t.Run("Not configured", func(t *testing.T) {
		err := NewClient("", "").Insert(context.Background(), "muafin_leads", []row{{Name: "x"}})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("Missing table", func(t *testing.T) {
		err := NewClient("https://example.supabase.co", "anon").Insert(context.Background(), "", []row{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing table")
	})

	t.Run("Sends one insert with auth headers", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/rest/v1/muafin_leads", r.URL.Path)
			assert.Equal(t, "anon-key", r.Header.Get("apikey"))
			assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var got []map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &got))
			require.Len(t, got, 1)
			assert.Equal(t, "Somsak T", got[0]["name"])
			phone, present := got[0]["phone"]
			assert.True(t, present)
			assert.Nil(t, phone)

			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := NewClient(server.URL+"/", "anon-key")
		err := client.Insert(context.Background(), "muafin_leads", []row{{Name: "Somsak T"}})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("PostgREST error is decoded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint","details":"Key (email) already exists.","hint":null}`))
		}))
		defer server.Close()

		err := NewClient(server.URL, "anon-key").Insert(context.Background(), "muafin_leads", []row{{Name: "a"}})
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		assert.Equal(t, "23505", apiErr.Code)
		assert.Contains(t, err.Error(), "duplicate key")
	})

	t.Run("Non JSON error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		err := NewClient(server.URL, "anon-key").Insert(context.Background(), "muafin_leads", []row{{Name: "a"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), http.StatusText(http.StatusBadGateway))
	})

	t.Run("Connection failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		err := NewClient(url, "anon-key").Insert(context.Background(), "muafin_leads", []row{{Name: "a"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert into muafin_leads")
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": testAdminKey}
}

func Test_AdminAuth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	endpoints := []string{"/admin/verify", "/admin/unbind", "/admin/revoke"}

	t.Run("missing key", func(t *testing.T) {
		for _, endpoint := range endpoints {
			code, body := post(t, srv.URL+endpoint, `{"token": "whatever"}`, nil)
			require.Equalf(t, http.StatusUnauthorized, code, "endpoint %s should require the admin key", endpoint)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Unauthorized"
				}`, body)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		for _, endpoint := range endpoints {
			code, _ := post(t, srv.URL+endpoint, `{"token": "whatever"}`, map[string]string{"X-Admin-Key": "nope"})
			require.Equalf(t, http.StatusUnauthorized, code, "endpoint %s should reject a wrong admin key", endpoint)
		}
	})

	t.Run("correct key accepted", func(t *testing.T) {
		code, _ := post(t, srv.URL+"/admin/unbind", `{"token": "whatever"}`, adminHeaders())
		require.Equal(t, http.StatusOK, code)
	})
}

func Test_AdminInspect(t *testing.T) {
	t.Parallel()

	t.Run("unknown token", func(t *testing.T) {
		srv, _ := newTestServer(t)

		code, body := post(t, srv.URL+"/admin/verify", `{"token": "OLLY-FFFFFFFFFFFFFFFFFFFFFFFF"}`, adminHeaders())
		require.Equal(t, http.StatusNotFound, code)
		require.JSONEq(t, `
			{
				"error": "service_error",
				"message": "Token not found"
			}`, body)
	})

	t.Run("bound token details", func(t *testing.T) {
		srv, _ := newTestServer(t)
		token := generate(t, srv.URL, "1d")

		code, _ := post(t, srv.URL+"/verify", `{"token": "`+token+`", "hwid": "HW-A"}`, nil)
		require.Equal(t, http.StatusOK, code)

		code, body := post(t, srv.URL+"/admin/verify", `{"token": "`+token+`"}`, adminHeaders())
		require.Equal(t, http.StatusOK, code)

		var resp struct {
			Token            string  `json:"token"`
			HWID             *string `json:"hwid"`
			Revoked          bool    `json:"revoked"`
			ExpiresAt        *int64  `json:"expires_at"`
			SecondsRemaining *int64  `json:"seconds_remaining"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &resp))

		require.Equal(t, token, resp.Token)
		require.NotNil(t, resp.HWID)
		require.Equal(t, "HW-A", *resp.HWID)
		require.False(t, resp.Revoked)
		require.NotNil(t, resp.ExpiresAt)
		require.NotNil(t, resp.SecondsRemaining)
		require.InDelta(t, (24 * time.Hour).Seconds(), float64(*resp.SecondsRemaining), 5)
	})

	t.Run("unbound infinite token has nulls", func(t *testing.T) {
		srv, _ := newTestServer(t)
		token := generate(t, srv.URL, "infinite")

		code, body := post(t, srv.URL+"/admin/verify", `{"token": "`+token+`"}`, adminHeaders())
		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `
			{
				"token": "`+token+`",
				"hwid": null,
				"revoked": false,
				"expires_at": null,
				"seconds_remaining": null
			}`, body)
	})
}

func Test_AdminUnbind(t *testing.T) {
	t.Parallel()

	t.Run("unbind reopens the binding window", func(t *testing.T) {
		srv, _ := newTestServer(t)
		token := generate(t, srv.URL, "1d")

		code, _ := post(t, srv.URL+"/verify", `{"token": "`+token+`", "hwid": "HW-A"}`, nil)
		require.Equal(t, http.StatusOK, code)

		code, body := post(t, srv.URL+"/admin/unbind", `{"token": "`+token+`"}`, adminHeaders())
		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `{"status": "ok"}`, body)

		// A new device binds now; the old one mismatches
		code, _ = post(t, srv.URL+"/verify", `{"token": "`+token+`", "hwid": "HW-B"}`, nil)
		require.Equal(t, http.StatusOK, code)
		code, _ = post(t, srv.URL+"/verify", `{"token": "`+token+`", "hwid": "HW-A"}`, nil)
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("missing token still succeeds", func(t *testing.T) {
		srv, _ := newTestServer(t)

		code, body := post(t, srv.URL+"/admin/unbind", `{"token": "OLLY-FFFFFFFFFFFFFFFFFFFFFFFF"}`, adminHeaders())
		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `{"status": "ok"}`, body)
	})
}

func Test_AdminRevoke(t *testing.T) {
	t.Parallel()

	t.Run("revoke disables verification", func(t *testing.T) {
		srv, _ := newTestServer(t)
		token := generate(t, srv.URL, "1d")

		code, body := post(t, srv.URL+"/admin/revoke", `{"token": "`+token+`"}`, adminHeaders())
		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `{"status": "revoked"}`, body)

		code, body = post(t, srv.URL+"/verify", `{"token": "`+token+`", "hwid": "HW-A"}`, nil)
		require.Equal(t, http.StatusForbidden, code)
		require.JSONEq(t, `
			{
				"error": "service_error",
				"message": "Token revoked"
			}`, body)
	})

	t.Run("missing token still succeeds", func(t *testing.T) {
		srv, _ := newTestServer(t)

		code, body := post(t, srv.URL+"/admin/revoke", `{"token": "OLLY-FFFFFFFFFFFFFFFFFFFFFFFF"}`, adminHeaders())
		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `{"status": "revoked"}`, body)
	})
}

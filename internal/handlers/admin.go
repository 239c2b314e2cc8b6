package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ollyware/tokend/internal/apperrors"
	"github.com/ollyware/tokend/internal/handlers/render"
	"github.com/ollyware/tokend/internal/logger"
)

func handleAdminInspect(licenses licenseService, l logger.Logger) http.Handler {
	type request struct {
		Token string `json:"token" validate:"required"`
	}

	type response struct {
		Token            string  `json:"token"`
		HWID             *string `json:"hwid"`
		Revoked          bool    `json:"revoked"`
		ExpiresAt        *int64  `json:"expires_at"`
		SecondsRemaining *int64  `json:"seconds_remaining"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		info, err := licenses.Inspect(r.Context(), data.Token)

		switch {
		case err == nil:
			render.JSON(w, response{
				Token:            info.Token,
				HWID:             info.HWID,
				Revoked:          info.Revoked,
				ExpiresAt:        unixOrNil(info.ExpiresAt),
				SecondsRemaining: info.SecondsRemaining,
			})
		case errors.Is(err, apperrors.ErrTokenNotFound):
			render.ServiceError(w, "Token not found", http.StatusNotFound)
		default:
			l.Error("Failed to inspect token", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleAdminUnbind(licenses licenseService, l logger.Logger) http.Handler {
	type request struct {
		Token string `json:"token" validate:"required"`
	}

	type response struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		affected, err := licenses.Unbind(r.Context(), data.Token)

		switch {
		case err == nil:
			if affected == 0 {
				l.Debug("Unbind matched no token", "token", data.Token)
			}
			render.JSON(w, response{Status: "ok"})
		default:
			l.Error("Failed to unbind token", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleAdminRevoke(licenses licenseService, l logger.Logger) http.Handler {
	type request struct {
		Token string `json:"token" validate:"required"`
	}

	type response struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		affected, err := licenses.Revoke(r.Context(), data.Token)

		switch {
		case err == nil:
			if affected == 0 {
				l.Debug("Revoke matched no token", "token", data.Token)
			}
			render.JSON(w, response{Status: "revoked"})
		default:
			l.Error("Failed to revoke token", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func unixOrNil(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	unix := t.Unix()
	return &unix
}

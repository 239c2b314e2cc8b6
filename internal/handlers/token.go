package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ollyware/tokend/internal/apperrors"
	"github.com/ollyware/tokend/internal/handlers/render"
	"github.com/ollyware/tokend/internal/logger"
	"github.com/ollyware/tokend/internal/service/license"
)

func handleGenerate(licenses licenseService, l logger.Logger) http.Handler {
	type request struct {
		Plan string `json:"plan" validate:"required"`
	}

	type response struct {
		Token     string `json:"token"`
		Plan      string `json:"plan"`
		ExpiresAt *int64 `json:"expires_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		generated, err := licenses.Generate(r.Context(), data.Plan)

		switch {
		case err == nil:
			render.JSON(w, response{
				Token:     generated.Token,
				Plan:      generated.Plan,
				ExpiresAt: unixOrNil(generated.ExpiresAt),
			})
		case errors.Is(err, apperrors.ErrInvalidPlan):
			render.ServiceError(w, invalidPlanMessage(), http.StatusBadRequest)
		default:
			l.Error("Failed to generate token", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleVerify(licenses licenseService, l logger.Logger) http.Handler {
	type request struct {
		Token string `json:"token" validate:"required"`
		HWID  string `json:"hwid" validate:"required"`
	}

	type response struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = licenses.Verify(r.Context(), data.Token, data.HWID)

		switch {
		case err == nil:
			render.JSON(w, response{Status: "ok"})
		case errors.Is(err, apperrors.ErrTokenNotFound):
			render.ServiceError(w, "Invalid token", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrTokenRevoked):
			render.ServiceError(w, "Token revoked", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrTokenExpired):
			render.ServiceError(w, "Token expired", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrHWIDMismatch):
			render.ServiceError(w, "HWID mismatch", http.StatusForbidden)
		default:
			l.Error("Failed to verify token", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func invalidPlanMessage() string {
	return "Invalid plan. Valid plans: " + strings.Join(license.PlanNames(), ", ")
}

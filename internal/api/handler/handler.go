package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-report-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func claimsFrom(r *http.Request) (*domain.Claims, bool) {
	claims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	return claims, ok && claims != nil
}

func isAdmin(claims *domain.Claims) bool {
	return claims.UserRoleID == middleware.RoleAdmin
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
	}
}

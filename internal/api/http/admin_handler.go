package http

import (
	"net/http"

	"learnledger-backend/internal/service"
)

type AdminHandler struct {
	admin     service.AdminService
	reconcile service.ReconciliationService
}

func NewAdminHandler(admin service.AdminService, reconcile service.ReconciliationService) *AdminHandler {
	return &AdminHandler{admin: admin, reconcile: reconcile}
}

func (h *AdminHandler) PlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.PlatformStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ReconcileDuplicatePurchases triggers the ledger sweep on demand; the same
// procedure also runs on the nightly schedule.
func (h *AdminHandler) ReconcileDuplicatePurchases(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcile.ReconcileDuplicatePurchases(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripledger/tripledger/internal/adapter/http/dto"
	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, tripID string) ([]*domain.Wallet, error)
	UpdateWallet(ctx context.Context, id string, input usecase.UpdateWalletInput) (*domain.Wallet, error)
	ReplaceMembers(ctx context.Context, walletID string, memberIDs []string) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, id string) error
}

// WalletHandler handles wallet-related HTTP requests.
type WalletHandler struct {
	walletUC WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Create creates a pooled wallet under a trip.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	var req dto.CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.walletUC.CreateWallet(r.Context(), req.ToUseCaseInput(tripID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}

// Get retrieves a wallet by ID.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wallet, err := h.walletUC.GetWallet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// List lists a trip's wallets.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	wallets, err := h.walletUC.ListWallets(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list wallets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletsFromDomain(wallets))
}

// Update applies a partial update to a wallet.
func (h *WalletHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.walletUC.UpdateWallet(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// ReplaceMembers replaces the wallet's participant set as a whole.
func (h *WalletHandler) ReplaceMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ReplaceWalletMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.walletUC.ReplaceMembers(r.Context(), id, req.MemberIDs)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to replace wallet members", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// Delete removes a wallet.
func (h *WalletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.walletUC.DeleteWallet(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete wallet", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

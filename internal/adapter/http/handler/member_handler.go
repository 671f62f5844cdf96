package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripledger/tripledger/internal/adapter/http/dto"
	"github.com/tripledger/tripledger/internal/domain"
)

// MemberService defines the behavior needed by MemberHandler.
type MemberService interface {
	AddMember(ctx context.Context, tripID, name string) (*domain.Member, error)
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	ListMembers(ctx context.Context, tripID string) ([]*domain.Member, error)
	RenameMember(ctx context.Context, id, name string) (*domain.Member, error)
	RemoveMember(ctx context.Context, id string) error
}

// MemberHandler handles member-related HTTP requests.
type MemberHandler struct {
	memberUC MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberUC MemberService) *MemberHandler {
	return &MemberHandler{memberUC: memberUC}
}

// Add adds a member to a trip's roster.
func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	member, err := h.memberUC.AddMember(r.Context(), tripID, req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add member", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MemberFromDomain(member))
}

// Get retrieves a member by ID.
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	member, err := h.memberUC.GetMember(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get member", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberFromDomain(member))
}

// List lists a trip's roster.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	members, err := h.memberUC.ListMembers(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list members", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MembersFromDomain(members))
}

// Rename changes a member's display name.
func (h *MemberHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.RenameMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	member, err := h.memberUC.RenameMember(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to rename member", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberFromDomain(member))
}

// Remove deletes a member that no transaction references.
func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.memberUC.RemoveMember(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to remove member", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

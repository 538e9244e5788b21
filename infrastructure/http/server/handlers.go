package server

import (
	"net/http"
	"pawmatch/auth"
	"pawmatch/domain"
	"strconv"

	"github.com/gorilla/mux"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}

func (s *Server) handleCreatePet(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req createPetRequest
	if err = decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err = auth.ValidateStruct(req); err != nil {
		writeError(w, err)
		return
	}
	pet, err := s.pets.CreatePet(r.Context(), userID, req.Name, req.Species, req.City)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pet)
}

func (s *Server) handleListPets(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	pets, err := s.pets.ListMine(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(pets))
}

func (s *Server) handleGetPet(w http.ResponseWriter, r *http.Request) {
	pet, err := s.pets.GetPet(r.Context(), domain.PetID(mux.Vars(r)["petId"]))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	limit := queryLimit(r, s.cfg.LimitPets)
	pets, err := s.matches.Candidates(r.Context(), userID, domain.PetID(mux.Vars(r)["petId"]), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(pets))
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req swipeRequest
	if err = decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err = auth.ValidateStruct(req); err != nil {
		writeError(w, err)
		return
	}

	if req.Action == actionPass {
		if err = s.matches.Pass(r.Context(), userID, req.FromPetID, req.ToPetID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.LikeResult{})
		return
	}
	result, err := s.matches.RecordLike(r.Context(), userID, req.FromPetID, req.ToPetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	matches, err := s.matches.ListMatches(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(matches))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req sendMessageRequest
	if err = decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err = auth.ValidateStruct(req); err != nil {
		writeError(w, err)
		return
	}
	msg, err := s.chat.SendMessage(r.Context(), domain.MatchID(mux.Vars(r)["matchId"]), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	limit := queryLimit(r, s.cfg.LimitMessages)
	messages, next, err := s.chat.GetMessages(r.Context(), domain.MatchID(mux.Vars(r)["matchId"]), userID, cursor, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messagesResponse{Messages: nonNil(messages), Cursor: next})
}

// queryLimit reads ?limit=, falling back to def when absent, invalid or above def.
func queryLimit(r *http.Request, def int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > def {
		return def
	}
	return limit
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

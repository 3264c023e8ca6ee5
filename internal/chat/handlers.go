package chat

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
	"github.com/SantaTabla/Shop-Backend/internal/db"
)

// ListMessages returns the chat history, oldest first.
func ListMessages(w http.ResponseWriter, r *http.Request) {
	var messages []Message
	if err := db.DB.Order("created_at asc").Find(&messages).Error; err != nil {
		http.Error(w, "Failed to fetch messages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// PostMessage appends a message under the sender's email.
func PostMessage(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization error", http.StatusInternalServerError)
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Message == "" {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	msg := Message{
		ID:        uuid.New().String(),
		UserEmail: principal.Email,
		Message:   body.Message,
	}
	if err := db.DB.Create(&msg).Error; err != nil {
		http.Error(w, "Failed to save message: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
	"github.com/SantaTabla/Shop-Backend/internal/cart"
	"github.com/SantaTabla/Shop-Backend/internal/db"
	"github.com/SantaTabla/Shop-Backend/internal/mail"
)

// InactivityWindow is how long an account may stay disconnected before the
// cleanup sweep removes it.
const InactivityWindow = 48 * time.Hour

// Upgrade documents required before an account can become premium.
var premiumDocuments = []string{"id", "creditCard", "houseLocation"}

// Handlers covers account administration beyond the login flows.
type Handlers struct {
	Codec  *auth.Codec
	Mailer mail.Notifier
}

type userSummary struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func summarize(u *auth.User) userSummary {
	return userSummary{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.EmailOrEmpty(),
		Role:      u.Role,
	}
}

func loadUser(uid string) (*auth.User, error) {
	var u auth.User
	err := db.DB.Preload("Documents").First(&u, "user_id = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func userNotFound(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "There is no user with that id", http.StatusNotFound)
	} else {
		http.Error(w, "Failed to fetch user: "+err.Error(), http.StatusInternalServerError)
	}
	return true
}

// listQuery is the parsed admin-listing request: pagination plus the
// account filters and the last-connection sort.
type listQuery struct {
	limit     int
	page      int
	role      string
	provider  string
	firstName string
	sort      string
}

func parseListQuery(q url.Values) (listQuery, error) {
	lq := listQuery{limit: 10, page: 1}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return lq, fmt.Errorf("invalid limit %q", v)
		}
		lq.limit = n
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return lq, fmt.Errorf("invalid page %q", v)
		}
		lq.page = n
	}
	lq.role = q.Get("role")
	lq.provider = q.Get("provider")
	lq.firstName = q.Get("first_name")
	if s := q.Get("sort"); s == "asc" || s == "desc" {
		lq.sort = s
	}
	return lq, nil
}

// ListUsers returns a paginated summary of accounts (admin panel), filterable
// by role, provider and first name, sortable by last connection.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	lq, err := parseListQuery(r.URL.Query())
	if err != nil {
		http.Error(w, "Invalid pagination format", http.StatusBadRequest)
		return
	}

	query := db.DB.Model(&auth.User{})
	if lq.role != "" {
		query = query.Where("role = ?", lq.role)
	}
	if lq.provider != "" {
		query = query.Where("provider = ?", lq.provider)
	}
	if lq.firstName != "" {
		query = query.Where("first_name = ?", lq.firstName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		http.Error(w, "Failed to fetch users: "+err.Error(), http.StatusInternalServerError)
		return
	}
	totalPages := int((total + int64(lq.limit) - 1) / int64(lq.limit))

	order := "created_at asc"
	if lq.sort != "" {
		order = "last_connection " + lq.sort
	}
	var records []auth.User
	err = query.Order(order).
		Limit(lq.limit).Offset((lq.page - 1) * lq.limit).
		Find(&records).Error
	if err != nil {
		http.Error(w, "Failed to fetch users: "+err.Error(), http.StatusInternalServerError)
		return
	}

	summaries := make([]userSummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, summarize(&records[i]))
	}

	response := map[string]any{
		"users":       summaries,
		"total_pages": totalPages,
		"prev_link":   nil,
		"next_link":   nil,
	}
	if lq.page > 1 {
		response["prev_link"] = fmt.Sprintf("/api/users?page=%d&limit=%d", lq.page-1, lq.limit)
	}
	if lq.page < totalPages {
		response["next_link"] = fmt.Sprintf("/api/users?page=%d&limit=%d", lq.page+1, lq.limit)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// PremiumHandler toggles an account between user and premium. The upgrade
// direction is only allowed once the identity documents are on file.
func (h *Handlers) PremiumHandler(w http.ResponseWriter, r *http.Request) {
	u, err := loadUser(chi.URLParam(r, "uid"))
	if userNotFound(w, err) {
		return
	}

	switch u.Role {
	case auth.RoleUser:
		onFile := make(map[string]bool, len(u.Documents))
		for _, d := range u.Documents {
			onFile[d.UploadType] = true
		}
		var missing []string
		for _, name := range premiumDocuments {
			if !onFile[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"message": "Missing documents for premium upgrade",
				"missing": missing,
			})
			return
		}
		u.Role = auth.RolePremium
	case auth.RolePremium:
		u.Role = auth.RoleUser
	default:
		http.Error(w, "Role cannot be toggled", http.StatusBadRequest)
		return
	}

	if err := db.DB.Model(u).Update("role", u.Role).Error; err != nil {
		http.Error(w, "Failed to update role: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Reissue the access token so the new role is effective immediately.
	token, err := h.Codec.Issue(auth.ClaimsFromUser(u))
	if err != nil {
		http.Error(w, "Failed to issue token: "+err.Error(), http.StatusInternalServerError)
		return
	}
	auth.SetAccessCookie(w, token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"user_id": u.UserID, "role": u.Role})
}

// uploadDir maps a multipart field name to its destination folder.
func uploadDir(field string) string {
	switch field {
	case "profilePhoto":
		return filepath.Join("public", "img", "profilesPhotos")
	case "productPhoto":
		return filepath.Join("public", "img", "productsPhotos")
	default:
		return filepath.Join("public", "img", "documentsPhotos")
	}
}

// UploadDocumentsHandler stores the uploaded files and records them against
// the account. Product photos accumulate; every other upload type replaces
// the previous file of the same type.
func UploadDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	u, err := loadUser(chi.URLParam(r, "uid"))
	if userNotFound(w, err) {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	var saved []auth.Document
	for field, headers := range r.MultipartForm.File {
		for _, header := range headers {
			src, err := header.Open()
			if err != nil {
				http.Error(w, "Failed to read upload: "+err.Error(), http.StatusInternalServerError)
				return
			}

			dir := uploadDir(field)
			name := fmt.Sprintf("%s-%s%s", u.UserID, uuid.New().String(), filepath.Ext(header.Filename))
			reference := filepath.Join(dir, name)

			dst, err := os.Create(reference)
			if err != nil {
				src.Close()
				http.Error(w, "Failed to store upload: "+err.Error(), http.StatusInternalServerError)
				return
			}
			_, err = io.Copy(dst, src)
			src.Close()
			dst.Close()
			if err != nil {
				http.Error(w, "Failed to store upload: "+err.Error(), http.StatusInternalServerError)
				return
			}

			doc := auth.Document{
				ID:         uuid.New().String(),
				UserID:     u.UserID,
				Name:       header.Filename,
				Reference:  reference,
				UploadType: field,
			}

			if field != "productPhoto" {
				err = db.DB.Where("user_id = ? AND upload_type = ?", u.UserID, field).
					Delete(&auth.Document{}).Error
				if err != nil {
					http.Error(w, "Failed to record upload: "+err.Error(), http.StatusInternalServerError)
					return
				}
			}
			if err := db.DB.Create(&doc).Error; err != nil {
				http.Error(w, "Failed to record upload: "+err.Error(), http.StatusInternalServerError)
				return
			}
			saved = append(saved, doc)
		}
	}

	if len(saved) == 0 {
		http.Error(w, "No files submitted", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// ChangeRoleByAdminHandler toggles user/premium without the document check.
func ChangeRoleByAdminHandler(w http.ResponseWriter, r *http.Request) {
	u, err := loadUser(chi.URLParam(r, "uid"))
	if userNotFound(w, err) {
		return
	}

	switch u.Role {
	case auth.RoleUser:
		u.Role = auth.RolePremium
	case auth.RolePremium:
		u.Role = auth.RoleUser
	default:
		http.Error(w, "Role cannot be toggled", http.StatusBadRequest)
		return
	}

	if err := db.DB.Model(u).Update("role", u.Role).Error; err != nil {
		http.Error(w, "Failed to update role: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"user_id": u.UserID, "role": u.Role})
}

// deleteAccount removes a user record together with its cart and documents.
func deleteAccount(u *auth.User) error {
	if u.CartID != nil {
		if err := cart.DeleteCart(*u.CartID); err != nil {
			return err
		}
	}
	if err := db.DB.Where("user_id = ?", u.UserID).Delete(&auth.Document{}).Error; err != nil {
		return err
	}
	if err := db.DB.Where("user_id = ?", u.UserID).Delete(&auth.Session{}).Error; err != nil {
		return err
	}
	return db.DB.Delete(&auth.User{}, "user_id = ?", u.UserID).Error
}

// DeleteUserHandler removes one account (admin panel).
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	u, err := loadUser(chi.URLParam(r, "uid"))
	if userNotFound(w, err) {
		return
	}

	if err := deleteAccount(u); err != nil {
		http.Error(w, "Failed to delete user: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "User deleted")
}

// CleanInactiveHandler deletes every account whose last connection is older
// than the inactivity window, mailing each a farewell first.
func (h *Handlers) CleanInactiveHandler(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().Add(-InactivityWindow)

	var stale []auth.User
	err := db.DB.Where("last_connection IS NOT NULL AND last_connection < ?", cutoff).
		Find(&stale).Error
	if err != nil {
		http.Error(w, "Failed to fetch users: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var removed []string
	for i := range stale {
		u := &stale[i]
		email := u.EmailOrEmpty()
		if h.Mailer != nil && email != "" {
			body := fmt.Sprintf(
				"Hi %s,\n\nYour Santa Tabla account was removed after %d hours of inactivity.\n",
				u.FirstName, int(InactivityWindow.Hours()))
			if err := h.Mailer.Deliver(email, "Account removed for inactivity", body); err != nil {
				log.Printf("Failed to send farewell to %s: %v", email, err)
			}
		}
		if err := deleteAccount(u); err != nil {
			http.Error(w, "Failed to delete user: "+err.Error(), http.StatusInternalServerError)
			return
		}
		removed = append(removed, email)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"deleted": removed,
		"count":   len(removed),
	})
}

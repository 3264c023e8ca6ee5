package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
	"github.com/SantaTabla/Shop-Backend/internal/db"
)

// ListProducts returns a page of products with optional filtering and
// price sorting.
func ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit format", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid page format", http.StatusBadRequest)
			return
		}
		page = parsed
	}

	query := db.DB.Model(&Product{})
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status == "true")
	}
	if title := r.URL.Query().Get("title"); title != "" {
		query = query.Where("title = ?", title)
	}
	if sort := r.URL.Query().Get("sort"); sort == "asc" || sort == "desc" {
		query = query.Order("price " + sort)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		http.Error(w, "Failed to fetch products: "+err.Error(), http.StatusInternalServerError)
		return
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	var products []Product
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&products).Error; err != nil {
		http.Error(w, "Failed to fetch products: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]any{
		"products":    products,
		"total_pages": totalPages,
		"prev_link":   nil,
		"next_link":   nil,
	}
	if page > 1 {
		response["prev_link"] = fmt.Sprintf("/api/products?page=%d&limit=%d", page-1, limit)
	}
	if page < totalPages {
		response["next_link"] = fmt.Sprintf("/api/products?page=%d&limit=%d", page+1, limit)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetProduct returns a single product by ID.
func GetProduct(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")

	var product Product
	if err := db.DB.First(&product, "id = ?", pid).Error; err != nil {
		http.Error(w, "There is no product with that id", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// CreateProduct adds a product. The owner is stamped from the principal:
// "admin" for the administrator, the account email for premium users.
func CreateProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization error", http.StatusInternalServerError)
		return
	}

	var product Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if product.Title == "" || product.Description == "" || product.Code == "" || product.Category == "" {
		http.Error(w, "Title, description, code and category are required", http.StatusBadRequest)
		return
	}

	var existing Product
	if err := db.DB.First(&existing, "code = ?", product.Code).Error; err == nil {
		http.Error(w, "There is already a product with the same code", http.StatusConflict)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Failed to create product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	product.ID = uuid.New().String()
	product.Status = product.Stock > 0
	if principal.Role == auth.RoleAdmin {
		product.Owner = "admin"
	} else {
		product.Owner = principal.Email
	}

	if err := db.DB.Create(&product).Error; err != nil {
		http.Error(w, "Failed to create product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

// UpdateProduct applies a partial update. Stock hitting zero flips the
// product inactive.
func UpdateProduct(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")

	var product Product
	if err := db.DB.First(&product, "id = ?", pid).Error; err != nil {
		http.Error(w, "There is no product with that id", http.StatusNotFound)
		return
	}

	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	// Never let a client move a product to another owner.
	delete(updates, "owner")
	delete(updates, "id")

	if err := db.DB.Model(&product).Updates(updates).Error; err != nil {
		http.Error(w, "Failed to update product: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if stock, ok := updates["stock"]; ok {
		if n, ok := stock.(float64); ok && n == 0 {
			if err := db.DB.Model(&product).Update("status", false).Error; err != nil {
				log.Println("failed to deactivate product:", err)
			}
		}
	}

	db.DB.First(&product, "id = ?", pid)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// DeleteProduct removes a product. Premium users can only delete their own
// listings; the administrator can delete anything.
func DeleteProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization error", http.StatusInternalServerError)
		return
	}
	pid := chi.URLParam(r, "pid")

	var product Product
	if err := db.DB.First(&product, "id = ?", pid).Error; err != nil {
		http.Error(w, "There is no product with that id", http.StatusNotFound)
		return
	}

	if product.Owner != principal.Email && principal.Role != auth.RoleAdmin {
		http.Error(w, "You can only delete your own products", http.StatusForbidden)
		return
	}

	if err := db.DB.Delete(&product).Error; err != nil {
		http.Error(w, "Failed to delete product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Product deleted")
}

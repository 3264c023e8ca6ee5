package users

import (
	"log"
	"os"
	"path/filepath"
)

// Init creates the upload directories the document handlers write into.
func Init() {
	for _, dir := range []string{"profilesPhotos", "productsPhotos", "documentsPhotos"} {
		if err := os.MkdirAll(filepath.Join("public", "img", dir), 0o755); err != nil {
			log.Fatal("Failed to create upload directory: ", err)
		}
	}
}

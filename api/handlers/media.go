package handlers

import (
	"errors"
	"net/http"

	"github.com/trailtales/trailtales-api/config"
	"github.com/trailtales/trailtales-api/media"
)

// UploadSigner issues signed direct-upload parameters
type UploadSigner interface {
	SignUpload() (*media.UploadSignature, error)
}

// Media handles image upload signing
type Media struct {
	Signer UploadSigner
}

// SignatureHandler returns the parameters a client needs to upload an image
// straight to the CDN.
func (m Media) SignatureHandler(w http.ResponseWriter, r *http.Request) {
	if m.Signer == nil {
		config.ErrorStatus("image uploads are not configured", http.StatusServiceUnavailable, w, media.ErrNotConfigured)
		return
	}
	sig, err := m.Signer.SignUpload()
	if err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			config.ErrorStatus("image uploads are not configured", http.StatusServiceUnavailable, w, err)
			return
		}
		config.ErrorStatus("failed to sign upload", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"signature": sig,
	})
}

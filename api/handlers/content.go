package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/trailtales/trailtales-api/api"
	"github.com/trailtales/trailtales-api/config"
	"github.com/trailtales/trailtales-api/databases"
)

// Content handles per-viewer actions on content items
type Content struct {
	DBs map[string]databases.ContentDatabase
}

// HideContentHandler removes an item from the caller's feeds
func (c Content) HideContentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errors.New("missing identity"))
		return
	}
	db, ok := c.DBs[mux.Vars(r)["kind"]]
	if !ok {
		config.ErrorStatus("unknown content kind", http.StatusNotFound, w, errors.New(mux.Vars(r)["kind"]))
		return
	}
	contentID, err := objectIDVar(r, "contentId")
	if err != nil {
		config.ErrorStatus("invalid content id", http.StatusBadRequest, w, err)
		return
	}

	if err := db.Hide(r.Context(), contentID, identity.UserID); err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			config.ErrorStatus("content not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to hide content", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

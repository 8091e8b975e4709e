package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailtales/trailtales-api/api/handlers"
	"github.com/trailtales/trailtales-api/databases"
	"github.com/trailtales/trailtales-api/databases/mocks"
	"github.com/trailtales/trailtales-api/models"
)

func TestContent_HideContentHandler(t *testing.T) {
	visible := primitive.NewObjectID()
	gone := primitive.NewObjectID()
	broken := primitive.NewObjectID()

	points := &mocks.ContentDatabase{}
	points.On("Hide", mock.Anything, visible, "u1").Return(nil)
	points.On("Hide", mock.Anything, gone, "u1").Return(databases.ErrNotFound)
	points.On("Hide", mock.Anything, broken, "u1").Return(errors.New("boom"))
	h := handlers.Content{DBs: map[string]databases.ContentDatabase{models.KindMapPoint: points}}

	hide := func(kind, id string, viewer *models.Identity) int {
		req := httptest.NewRequest("POST", "/api/v1/"+kind+"/"+id+"/hide", nil)
		if viewer != nil {
			req = withIdentity(req, viewer)
		}
		req = mux.SetURLVars(req, map[string]string{"kind": kind, "contentId": id})
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.HideContentHandler).ServeHTTP(rr, req)
		return rr.Code
	}
	viewer := &models.Identity{UserID: "u1"}

	assert.Equal(t, http.StatusOK, hide(models.KindMapPoint, visible.Hex(), viewer))
	assert.Equal(t, http.StatusNotFound, hide(models.KindMapPoint, gone.Hex(), viewer))
	assert.Equal(t, http.StatusInternalServerError, hide(models.KindMapPoint, broken.Hex(), viewer))
	assert.Equal(t, http.StatusNotFound, hide(models.KindReview, visible.Hex(), viewer))
	assert.Equal(t, http.StatusBadRequest, hide(models.KindMapPoint, "xyz", viewer))
	assert.Equal(t, http.StatusUnauthorized, hide(models.KindMapPoint, visible.Hex(), nil))
}

package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type updateSettingsRequest struct {
	Settings map[string]json.RawMessage `json:"settings"`
}

func (s *Server) GetSettings(c *gin.Context) {
	bag, err := s.settingsSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"settings": bag})
}

func (s *Server) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Settings) == 0 {
		AbortWithError(c, newValidationError("settings", "empty_settings", "settings map is required"))
		return
	}

	bag, err := s.settingsSvc.Upsert(c.Request.Context(), req.Settings)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"settings": bag})
}

package inbound

import (
	"github.com/anonpersonals/personals/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/board/ads", end.AdList)
	r.POST("/api/v1/board/ads", end.AdCreate)
	r.GET("/api/v1/board/ads/:id", end.AdDetail)
	r.PUT("/api/v1/board/ads/:id", end.AdUpdate)
	r.DELETE("/api/v1/board/ads/:id", end.AdDelete)
	r.POST("/api/v1/board/ads/:id/photo", end.AdPhotoUpload)
	r.POST("/api/v1/board/ads/:id/votes", end.VoteCast)
	r.POST("/api/v1/board/cleanup", end.Cleanup)
}

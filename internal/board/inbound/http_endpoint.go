package inbound

import (
	"net"
	"time"

	"github.com/anonpersonals/personals/internal/board/entity"
	"github.com/anonpersonals/personals/internal/board/usecase"
	"github.com/anonpersonals/personals/internal/pkg/router"
	"github.com/samber/lo"
)

type HTTPEndpoint struct {
	uc uc
}

// AdCreate posts a new ad for the caller's anonymous identity.
func (h *HTTPEndpoint) AdCreate(r *router.Request) (any, error) {
	var req AdCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.AdCreate(r.Context(), usecase.AdCreateInput{
		Title:        req.Title,
		Body:         req.Body,
		Location:     req.Location,
		ContactEmail: req.ContactEmail,
		ClientIP:     clientIP(r),
	})
	if err != nil {
		return nil, err
	}

	return AdCreateResponse{ID: out.ID, RelayEmail: out.RelayEmail, RepostCount: out.RepostCount}, nil
}

// AdUpdate edits an ad owned by the caller's identity.
func (h *HTTPEndpoint) AdUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req AdUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.AdUpdate(r.Context(), usecase.AdUpdateInput{
		ID:       id,
		Title:    req.Title,
		Body:     req.Body,
		Location: req.Location,
		ClientIP: clientIP(r),
	})
}

// AdDelete soft-deletes an ad owned by the caller's identity.
func (h *HTTPEndpoint) AdDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.AdDelete(r.Context(), usecase.AdDeleteInput{ID: id, ClientIP: clientIP(r)})
}

// AdDetail returns one active ad with poster behavior counters.
func (h *HTTPEndpoint) AdDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.AdDetail(r.Context(), usecase.AdDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	resp := AdDetailResponse{
		AdResponse: adResponse(out.Ad, time.Now()),
		Poster: PosterResponse{
			AdsPosted:      out.Poster.AdsPosted,
			UpVotesGiven:   out.Poster.UpVotesGiven,
			DownVotesGiven: out.Poster.DownVotesGiven,
		},
	}
	resp.PhotoURL = out.PhotoURL

	return resp, nil
}

// AdList browses active ads with search, location, and sort filters.
func (h *HTTPEndpoint) AdList(r *router.Request) (any, error) {
	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.AdList(r.Context(), usecase.AdListInput{
		Search:   r.GetQuery("search"),
		Location: r.GetQuery("location"),
		Sort:     r.GetQuery("sort"),
		Page:     page,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()

	return AdListResponse{
		Ads: lo.Map(out.Ads, func(ad entity.Ad, _ int) AdResponse {
			return adResponse(ad, now)
		}),
		Locations: lo.Map(out.Locations, func(loc entity.Location, _ int) LocationResponse {
			return LocationResponse{Name: loc.Name, AdCount: loc.AdCount}
		}),
		Page:    out.Page,
		HasMore: out.HasMore,
	}, nil
}

// AdPhotoUpload attaches a photo to an ad owned by the caller's identity.
func (h *HTTPEndpoint) AdPhotoUpload(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	file, err := r.StreamSingleFile("photo")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return nil, h.uc.AdPhotoUpload(r.Context(), usecase.AdPhotoUploadInput{
		ID:       id,
		ClientIP: clientIP(r),
		File:     file,
	})
}

// VoteCast records an up or down vote on an ad.
func (h *HTTPEndpoint) VoteCast(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req VoteCastRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.VoteCast(r.Context(), usecase.VoteCastInput{
		AdID:     id,
		Type:     req.Type,
		ClientIP: clientIP(r),
	})
}

// Cleanup sweeps expired ads on demand. Admin only.
func (h *HTTPEndpoint) Cleanup(r *router.Request) (any, error) {
	out, err := h.uc.Cleanup(r.Context())
	if err != nil {
		return nil, err
	}

	return CleanupResponse{Expired: out.Expired}, nil
}

func adResponse(ad entity.Ad, now time.Time) AdResponse {
	return AdResponse{
		ID:          ad.ID,
		Title:       ad.Title,
		Body:        ad.Body,
		Location:    ad.Location,
		RelayEmail:  ad.RelayEmail,
		RepostCount: ad.RepostCount,
		UpVotes:     ad.UpVotes,
		DownVotes:   ad.DownVotes,
		CreatedAt:   ad.CreatedAt.Format(time.RFC3339),
		PostedAgo:   relativeTime(ad.CreatedAt, now),
		ExpiresAt:   ad.ExpiresAt.Format(time.RFC3339),
	}
}

// clientIP strips the port the stdlib keeps on RemoteAddr; the IP middleware
// already replaced it with the forwarded address when one was present.
func clientIP(r *router.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

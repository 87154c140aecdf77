package inbound

import (
	"context"

	"github.com/anonpersonals/personals/internal/board/usecase"
)

type uc interface {
	AdCreate(ctx context.Context, in usecase.AdCreateInput) (*usecase.AdCreateOutput, error)
	AdUpdate(ctx context.Context, in usecase.AdUpdateInput) error
	AdDelete(ctx context.Context, in usecase.AdDeleteInput) error
	AdDetail(ctx context.Context, in usecase.AdDetailInput) (*usecase.AdDetailOutput, error)
	AdList(ctx context.Context, in usecase.AdListInput) (*usecase.AdListOutput, error)
	AdPhotoUpload(ctx context.Context, in usecase.AdPhotoUploadInput) error
	VoteCast(ctx context.Context, in usecase.VoteCastInput) error
	Cleanup(ctx context.Context) (*usecase.CleanupOutput, error)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/invalidation"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// LinkService is the subset of shortener.Service the handlers depend on.
type LinkService interface {
	Create(ctx context.Context, rawURL string) (shortener.Code, error)
	Resolve(ctx context.Context, code shortener.Code) shortener.Resolution
	Remove(ctx context.Context, codes []shortener.Code) (*shortener.RemoveResult, error)
}

// LinkHandler handles short link operations.
type LinkHandler struct {
	service             LinkService
	workerID            int
	publishLinksRemoved messaging.Publish[invalidation.LinksRemovedEvent]
	logger              *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	service LinkService,
	workerID int,
	publishLinksRemoved messaging.Publish[invalidation.LinksRemovedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:             service,
		workerID:            workerID,
		publishLinksRemoved: publishLinksRemoved,
		logger:              logger,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	code, err := h.service.Create(ctx, req.URL)
	if err != nil {
		if !isValidation(err) {
			h.logger.Error("failed to create link", zap.Error(err))
		}

		return nil, toHTTPError(err)
	}

	resp := &CreateLinkResponse{}
	resp.Body.ID = string(code)

	return resp, nil
}

func (h *LinkHandler) ResolveLink(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	res := h.service.Resolve(ctx, shortener.Code(req.ID))

	switch res.Status {
	case shortener.StatusFound:
		resp := &ResolveResponse{}
		resp.Body.OriginalURL = res.URL

		return resp, nil
	case shortener.StatusNotFound:
		return nil, huma.Error404NotFound("short link not found")
	default:
		h.logger.Error("failed to resolve link",
			zap.String("code", req.ID),
			zap.Error(res.Err),
		)

		return nil, toHTTPError(res.Err)
	}
}

func (h *LinkHandler) RemoveLinks(ctx context.Context, req *RemoveRequest) (*RemoveResponse, error) {
	result, err := h.service.Remove(ctx, shortener.Codes(req.Body))
	if err != nil {
		return nil, toHTTPError(err)
	}

	if len(result.Removed) == 0 {
		return nil, huma.Error503ServiceUnavailable(
			"store unavailable: no codes were deleted",
			failedDetails(result.Failed)...,
		)
	}

	h.announceRemoved(ctx, result.Removed)

	resp := &RemoveResponse{Status: http.StatusOK}
	resp.Body.Deleted = shortener.Strings(result.Removed)
	resp.Body.Failed = shortener.Strings(result.Failed)

	if len(result.Failed) > 0 {
		resp.Status = http.StatusMultiStatus
	}

	return resp, nil
}

func (h *LinkHandler) announceRemoved(ctx context.Context, codes []shortener.Code) {
	event := &invalidation.LinksRemovedEvent{
		Codes:     shortener.Strings(codes),
		Worker:    h.workerID,
		RemovedAt: time.Now(),
	}

	if err := h.publishLinksRemoved(ctx, event); err != nil {
		h.logger.Error("failed to publish links removed event",
			zap.Int("count", len(codes)),
			zap.Error(err),
		)
	}
}

// failedDetails lists each code that could not be deleted in the problem body.
func failedDetails(codes []shortener.Code) []error {
	details := make([]error, 0, len(codes))

	for _, code := range codes {
		details = append(details, &huma.ErrorDetail{
			Message:  "delete failed",
			Location: "body",
			Value:    string(code),
		})
	}

	return details
}

package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sentitube/domain/dto"
	"sentitube/domain/model"
	"sentitube/infrastructure/export"
	"sentitube/infrastructure/logger"
	"sentitube/interfaces/middleware"
	"sentitube/usecase"
)

type IAnalysisHandler interface {
	Analyze(ctx *gin.Context)
	GetHistory(ctx *gin.Context)
	GetDetail(ctx *gin.Context)
	ExportComments(ctx *gin.Context)
	GetComments(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type AnalysisHandler struct {
	analyzerUsecase usecase.IAnalyzerUsecase
	analysisUsecase usecase.IAnalysisUsecase
}

func NewAnalysisHandler(analyzerUsecase usecase.IAnalyzerUsecase, analysisUsecase usecase.IAnalysisUsecase) IAnalysisHandler {
	return &AnalysisHandler{
		analyzerUsecase: analyzerUsecase,
		analysisUsecase: analysisUsecase,
	}
}

// Analyze handles POST /api/analysis.
func (h *AnalysisHandler) Analyze(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	var req dto.AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeError(ctx, model.InvalidInput("youtube_url is required"))
		return
	}

	res, err := h.analyzerUsecase.Analyze(ctx.Request.Context(), req.YouTubeURL, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, res)
}

// GetHistory handles GET /api/analysis/history.
func (h *AnalysisHandler) GetHistory(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	page, limit := paginationParams(ctx)
	res, err := h.analysisUsecase.GetHistory(ctx.Request.Context(), userID, page, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// GetDetail handles GET /api/analysis/:analysisId.
func (h *AnalysisHandler) GetDetail(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	analysisID, err := uuid.Parse(ctx.Param("analysisId"))
	if err != nil {
		writeError(ctx, model.InvalidInput("analysisId must be a UUID"))
		return
	}

	res, err := h.analysisUsecase.GetDetail(ctx.Request.Context(), analysisID, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// ExportComments handles GET /api/analysis/:analysisId/export.
func (h *AnalysisHandler) ExportComments(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	analysisID, err := uuid.Parse(ctx.Param("analysisId"))
	if err != nil {
		writeError(ctx, model.InvalidInput("analysisId must be a UUID"))
		return
	}

	detail, comments, err := h.analysisUsecase.GetExport(ctx.Request.Context(), analysisID, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	filename := fmt.Sprintf("analysis-%s.csv", detail.Video.ID)
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := export.WriteCommentsCSV(ctx.Writer, comments); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while streaming CSV export")
	}
}

// GetComments handles GET /api/analysis/videos/:videoId/comments.
func (h *AnalysisHandler) GetComments(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	videoID, err := uuid.Parse(ctx.Param("videoId"))
	if err != nil {
		writeError(ctx, model.InvalidInput("videoId must be a UUID"))
		return
	}

	page, limit := paginationParams(ctx)
	res, err := h.analysisUsecase.GetComments(ctx.Request.Context(), videoID, userID, page, limit, ctx.Query("sentiment"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// Delete handles DELETE /api/analysis/videos/:videoId.
func (h *AnalysisHandler) Delete(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		abortUnauthorized(ctx)
		return
	}

	videoID, err := uuid.Parse(ctx.Param("videoId"))
	if err != nil {
		writeError(ctx, model.InvalidInput("videoId must be a UUID"))
		return
	}

	res, err := h.analysisUsecase.Delete(ctx.Request.Context(), videoID, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func paginationParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil {
		page = 0
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 0
	}
	return page, limit
}

func abortUnauthorized(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.Res{
		ResponseCode:    "401",
		ResponseMessage: "Unauthorized",
	})
}

// writeError maps domain error kinds to stable HTTP replies. Upstream error
// text is logged, never echoed to callers.
func writeError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var fetchErr *model.FetchError
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
		message = model.ErrNotFound.Error()
	case errors.Is(err, model.ErrVideoNotFound):
		status = http.StatusNotFound
		message = model.ErrVideoNotFound.Error()
	case errors.Is(err, model.ErrCommentsDisabled):
		status = http.StatusForbidden
		message = model.ErrCommentsDisabled.Error()
	case errors.Is(err, model.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
		message = model.ErrQuotaExceeded.Error()
	case errors.As(err, &fetchErr):
		status = http.StatusBadGateway
		message = fetchErr.Error()
	case errors.Is(err, model.ErrAnalysisFailed):
		status = http.StatusInternalServerError
		message = model.ErrAnalysisFailed.Error()
	default:
		logger.GetLogger().WithField("error", err).Error("Unhandled error in analysis handler")
	}

	ctx.JSON(status, dto.Res{
		ResponseCode:    strconv.Itoa(status),
		ResponseMessage: message,
	})
}

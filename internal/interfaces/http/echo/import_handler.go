package echo

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	app "github.com/mohammadpnp/rendimientos-admin/internal/application/batch"
	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

const defaultMaxUpload = 10 << 20

type ImportHandler struct {
	importers map[domain.Entity]app.Importer
	getRun    app.GetRun
	listRuns  app.ListRuns
	maxUpload int64
	logger    *logrus.Entry
}

type ImportHandlerConfig struct {
	Importers map[domain.Entity]app.Importer
	GetRun    app.GetRun
	ListRuns  app.ListRuns
	MaxUpload int64
	Logger    *logrus.Entry
}

type importResponse struct {
	BatchID  string                 `json:"batch_id"`
	Summary  domain.Summary         `json:"summary"`
	Messages []string               `json:"messages"`
	Outcomes []domain.RecordOutcome `json:"outcomes"`
}

func NewImportHandler(cfg ImportHandlerConfig) *ImportHandler {
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = defaultMaxUpload
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ImportHandler{
		importers: cfg.Importers,
		getRun:    cfg.GetRun,
		listRuns:  cfg.ListRuns,
		maxUpload: cfg.MaxUpload,
		logger:    cfg.Logger,
	}
}

// Import runs a batch from the multipart field "file".
func (h *ImportHandler) Import(c echo.Context) error {
	entity := domain.Entity(c.Param("entity"))
	importer, ok := h.importers[entity]
	if !ok {
		return c.JSON(http.StatusNotFound, failure("unknown_entity", fmt.Sprintf("no importer for %q", entity)))
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, failure("missing_file", "multipart field \"file\" is required"))
	}
	if header.Size > h.maxUpload {
		return c.JSON(http.StatusRequestEntityTooLarge, failure("file_too_large", "file exceeds the upload limit"))
	}

	file, err := header.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, failure("unreadable_file", "failed to open uploaded file"))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, failure("unreadable_file", "failed to read uploaded file"))
	}
	if int64(len(data)) > h.maxUpload {
		return c.JSON(http.StatusRequestEntityTooLarge, failure("file_too_large", "file exceeds the upload limit"))
	}

	res, err := importer.Execute(c.Request().Context(), app.Input{FileName: header.Filename, Data: data})
	body := importResponse{
		BatchID:  res.BatchID,
		Summary:  res.Summary,
		Messages: res.Summary.Lines(),
		Outcomes: res.Outcomes,
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrParse):
			return c.JSON(http.StatusBadRequest, failure("invalid_file", err.Error()))
		case errors.Is(err, domain.ErrNoValidRecords):
			return c.JSON(http.StatusUnprocessableEntity, apiResponse{
				Data:  body,
				Error: &errorBody{Code: "no_valid_records", Message: err.Error()},
			})
		case errors.Is(err, domain.ErrDirectoryUnavailable):
			h.logger.WithError(err).WithField("entity", entity).Error("import aborted")
			return c.JSON(http.StatusInternalServerError, failure("directory_unavailable", "directory store is unavailable"))
		default:
			h.logger.WithError(err).WithField("entity", entity).Error("import failed")
			return c.JSON(http.StatusInternalServerError, failure("internal_error", "failed to import file"))
		}
	}

	return c.JSON(http.StatusOK, apiResponse{Data: body})
}

func (h *ImportHandler) GetRun(c echo.Context) error {
	out, err := h.getRun.Execute(c.Request().Context(), app.GetRunInput{ID: c.Param("id")})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidRunID):
			return c.JSON(http.StatusBadRequest, failure("invalid_run_id", "id must be a valid UUID"))
		case errors.Is(err, app.ErrRunNotFound):
			return c.JSON(http.StatusNotFound, failure("not_found", "batch run not found"))
		default:
			return c.JSON(http.StatusInternalServerError, failure("internal_error", "failed to get batch run"))
		}
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) ListRuns(c echo.Context) error {
	var limit int
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, failure("invalid_limit", "limit must be an integer"))
		}
		limit = parsed
	}

	out, err := h.listRuns.Execute(c.Request().Context(), app.ListRunsInput{
		Entity: c.QueryParam("entity"),
		Limit:  limit,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidEntity) {
			return c.JSON(http.StatusBadRequest, failure("invalid_entity", "entity must be users, contracts or yields"))
		}
		return c.JSON(http.StatusInternalServerError, failure("internal_error", "failed to list batch runs"))
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

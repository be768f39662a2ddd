package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailtriage/internal/logging"
	"github.com/fyrsmithlabs/mailtriage/internal/testimonial"
	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

const testimonialFilename = "testimonios.txt"

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Service: s.config.ServiceName})
}

// handleClassify classifies one email and runs its action.
func (s *Server) handleClassify(c echo.Context) error {
	email, err := s.bindEmail(c)
	if err != nil {
		return err
	}

	result, err := s.classifier.Classify(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// bindEmail decodes and validates the request body. Malformed JSON is a
// 400; missing or mistyped fields are a 422.
func (s *Server) bindEmail(c echo.Context) (triage.Email, error) {
	var req ClassifyRequest
	if err := c.Echo().JSONSerializer.Deserialize(c, &req); err != nil {
		var ute *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return triage.Email{}, echo.NewHTTPError(http.StatusUnprocessableEntity,
				"missing required fields: id, subject, email_text, date")
		case errors.As(err, &ute) && ute.Field == "":
			return triage.Email{}, echo.NewHTTPError(http.StatusUnprocessableEntity,
				"request body must be a JSON object").SetInternal(err)
		case errors.As(err, &ute):
			return triage.Email{}, echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("field %s must be of type %s", ute.Field, ute.Type)).SetInternal(err)
		default:
			return triage.Email{}, echo.NewHTTPError(http.StatusBadRequest, "malformed JSON body").SetInternal(err)
		}
	}

	var missing []string
	if req.ID == nil {
		missing = append(missing, "id")
	}
	if req.Subject == nil {
		missing = append(missing, "subject")
	}
	if req.EmailText == nil {
		missing = append(missing, "email_text")
	}
	if req.Date == nil {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return triage.Email{}, echo.NewHTTPError(http.StatusUnprocessableEntity,
			"missing required fields: "+strings.Join(missing, ", "))
	}

	if s.config.StrictDates {
		if _, err := time.Parse(triage.DateLayout, *req.Date); err != nil {
			return triage.Email{}, echo.NewHTTPError(http.StatusUnprocessableEntity,
				"field date must be a calendar date in YYYY-MM-DD format")
		}
	}

	return triage.Email{
		ID:      *req.ID,
		Subject: *req.Subject,
		Body:    *req.EmailText,
		Date:    *req.Date,
	}, nil
}

// handleDownloadTestimonials returns the testimonial log as an attachment.
func (s *Server) handleDownloadTestimonials(c echo.Context) error {
	data, err := s.testimonials.Read(c.Request().Context())
	if errors.Is(err, testimonial.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "testimonial file not found")
	}
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", testimonialFilename))
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", data)
}

// handleError renders every error as {"detail": "..."}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		detail = fmt.Sprint(he.Message)
	}

	ctx := c.Request().Context()
	switch {
	case code >= http.StatusInternalServerError:
		s.logger.Error(ctx, "request failed",
			zap.Int("status", code),
			zap.String("error_kind", errorKind(err)),
			zap.Error(err),
		)
	case code != http.StatusNotFound:
		s.logger.Warn(ctx, "request rejected", zap.Int("status", code), zap.String("detail", detail))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Detail: detail})
	}
	if err != nil {
		logging.FromContext(ctx).Warn(ctx, "failed to write error response", zap.Error(err))
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, triage.ErrDecision):
		return "decision"
	case errors.Is(err, triage.ErrDispatch):
		return "dispatch"
	case errors.Is(err, triage.ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}

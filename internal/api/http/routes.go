package httpapi

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/snowdesk/internal/refresh"
	"github.com/i474232898/snowdesk/internal/scoring"
	"github.com/i474232898/snowdesk/internal/store"
)

var validate = validator.New()

const notReadyMessage = "data not ready yet, try again in a moment"

// Service is what the HTTP layer needs from the refresh pipeline.
type Service interface {
	Latest() (*store.Snapshot, error)
	Refresh(ctx context.Context) (*store.Snapshot, error)
}

// ErrorHandler renders every error as {"error":true,"message":...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok"}
		if snap, err := service.Latest(); err == nil {
			body["lastUpdated"] = snap.LastUpdated
		}
		return c.JSON(body)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/resorts", func(c *fiber.Ctx) error {
		q, err := parseListQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snap, err := latest(service)
		if err != nil {
			return err
		}

		resorts := filterResorts(snap.Resorts, q)
		return c.JSON(fiber.Map{
			"resorts":     resorts,
			"lastUpdated": snap.LastUpdated,
			"count":       len(resorts),
		})
	})

	v1.Get("/best", func(c *fiber.Ctx) error {
		snap, err := latest(service)
		if err != nil {
			return err
		}
		if len(snap.Resorts) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no resorts ranked")
		}
		return c.JSON(snap.Resorts[0])
	})

	v1.Get("/resorts/:name", func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid resort name")
		}

		snap, err := latest(service)
		if err != nil {
			return err
		}

		if r, ok := snap.Find(name); ok {
			return c.JSON(r)
		}
		for _, r := range snap.Resorts {
			if strings.EqualFold(r.Name, name) {
				return c.JSON(r)
			}
		}
		return fiber.NewError(fiber.StatusNotFound, "no data for resort "+name)
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		snap, err := service.Refresh(c.UserContext())
		if err != nil {
			if errors.Is(err, refresh.ErrNoRecords) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "refresh failed; previous data is still served")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "refresh failed")
		}
		return c.JSON(fiber.Map{
			"count":       snap.Count,
			"lastUpdated": snap.LastUpdated,
			"cycleId":     snap.CycleID,
		})
	})
}

// RegisterMetrics exposes g in the Prometheus text format on /metrics.
func RegisterMetrics(app *fiber.App, g prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}

func latest(service Service) (*store.Snapshot, error) {
	snap, err := service.Latest()
	if err != nil {
		if errors.Is(err, store.ErrNotReady) {
			return nil, fiber.NewError(fiber.StatusServiceUnavailable, notReadyMessage)
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to read resort data")
	}
	return snap, nil
}

// listQuery holds query parameters for the resort list.
type listQuery struct {
	Grade string `validate:"omitempty,oneof=Epic Great Good Fair Poor"`
	Limit *int   `validate:"omitempty,min=1,max=100"`
}

func parseListQuery(c *fiber.Ctx) (listQuery, error) {
	var q listQuery

	q.Grade = c.Query("grade")
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("limit must be an integer")
		}
		q.Limit = &n
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func filterResorts(all []scoring.Ranked, q listQuery) []scoring.Ranked {
	out := make([]scoring.Ranked, 0, len(all))
	for _, r := range all {
		if q.Grade != "" && string(r.Grade) != q.Grade {
			continue
		}
		out = append(out, r)
		if q.Limit != nil && len(out) == *q.Limit {
			break
		}
	}
	return out
}

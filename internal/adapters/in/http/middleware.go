package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const unmatchedRoute = "unmatched"

// instrument logs every request and records it in the HTTP metrics. Errors
// are rendered here so the recorded status is the one the client sees.
func instrument(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			req := c.Request()
			status := c.Response().Status
			elapsed := time.Since(start)

			metrics.HTTPRequestDuration.WithLabelValues(route, req.Method).Observe(elapsed.Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(route, req.Method, strconv.Itoa(status)).Inc()

			entry := logger.WithFields(logrus.Fields{
				"method":      req.Method,
				"path":        req.URL.Path,
				"route":       route,
				"status":      status,
				"duration_ms": elapsed.Milliseconds(),
				"actor_id":    req.Header.Get(HeaderActorID),
			})
			if status >= http.StatusInternalServerError {
				entry.Warn("request served")
			} else {
				entry.Debug("request served")
			}
			return nil
		}
	}
}

// validateRequests checks API requests against the OpenAPI document before
// they reach a handler. Paths the document does not describe pass through.
func validateRequests(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !strings.HasPrefix(req.URL.Path, apiPrefix) {
				return next(c)
			}

			route, pathParams, findErr := router.FindRoute(req)
			if findErr != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if validationErr := openapi3filter.ValidateRequest(req.Context(), input); validationErr != nil {
				return echo.NewHTTPError(http.StatusBadRequest, validationErr.Error()).SetInternal(validationErr)
			}
			return next(c)
		}
	}, nil
}

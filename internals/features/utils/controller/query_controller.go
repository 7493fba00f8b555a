package controller

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	helper "schoolhub_backend/internals/helpers"
)

// QueryController proxies short factual questions to the Wolfram Alpha
// short-answers endpoint, keeping the app id server-side.
type QueryController struct {
	HTTP *http.Client
}

func NewQueryController() *QueryController {
	return &QueryController{HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// GET /api/query?input=...
func (ctl *QueryController) Query(c *fiber.Ctx) error {
	input := c.Query("q")
	if input == "" {
		input = c.Query("input") // older clients send ?input=
	}
	if input == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Query input is required")
	}
	if configs.WolframAppID == "" {
		return helper.Error(c, fiber.StatusServiceUnavailable, "Query service is not configured")
	}

	endpoint := "https://api.wolframalpha.com/v1/result?appid=" +
		url.QueryEscape(configs.WolframAppID) + "&i=" + url.QueryEscape(input)

	req, err := http.NewRequestWithContext(c.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to query", err)
	}
	resp, err := ctl.HTTP.Do(req)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to query", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to query", err)
	}
	if resp.StatusCode != http.StatusOK {
		// the upstream answers 501 with a plain-text reason
		return helper.Error(c, fiber.StatusNotFound, string(body))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"answer": string(body)})
}

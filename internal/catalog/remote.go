package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RecordStore is the authoritative collection, reached over the network.
type RecordStore interface {
	List(ctx context.Context) Outcome[[]ServiceRecord]
	Get(ctx context.Context, id string) Outcome[ServiceRecord]
	Create(ctx context.Context, payload CreatePayload) Outcome[ServiceRecord]
	AdminUpdate(ctx context.Context, token, id string, patch Patch) Outcome[ServiceRecord]
}

// HTTPRecordStore talks to the catalog API. BaseURL includes the API prefix,
// e.g. http://localhost:8080/api.
type HTTPRecordStore struct {
	BaseURL string
}

func NewHTTPRecordStore(baseURL string) *HTTPRecordStore {
	return &HTTPRecordStore{BaseURL: strings.TrimRight(baseURL, "/")}
}

// AdminUpdateResponse is the body of PUT /admin/services/:id.
type AdminUpdateResponse struct {
	Success bool           `json:"success"`
	Service *ServiceRecord `json:"service,omitempty"`
	Message string         `json:"message,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

func (s *HTTPRecordStore) List(ctx context.Context) Outcome[[]ServiceRecord] {
	code, body, err := s.do(ctx, fiber.Get(s.BaseURL+"/services"))
	if err != nil {
		return Unreachable[[]ServiceRecord](err)
	}
	if code != fiber.StatusOK {
		return classify[[]ServiceRecord](code, body)
	}
	var records []ServiceRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return Unreachable[[]ServiceRecord](fmt.Errorf("decode services: %w", err))
	}
	for i := range records {
		records[i].Normalize()
	}
	return Ok(records)
}

func (s *HTTPRecordStore) Get(ctx context.Context, id string) Outcome[ServiceRecord] {
	code, body, err := s.do(ctx, fiber.Get(s.BaseURL+"/services/"+url.PathEscape(id)))
	if err != nil {
		return Unreachable[ServiceRecord](err)
	}
	if code != fiber.StatusOK {
		return classify[ServiceRecord](code, body)
	}
	return decodeRecord(body)
}

func (s *HTTPRecordStore) Create(ctx context.Context, payload CreatePayload) Outcome[ServiceRecord] {
	agent := fiber.Post(s.BaseURL + "/services").JSON(payload)
	code, body, err := s.do(ctx, agent)
	if err != nil {
		return Unreachable[ServiceRecord](err)
	}
	if code != fiber.StatusCreated && code != fiber.StatusOK {
		return classify[ServiceRecord](code, body)
	}
	return decodeRecord(body)
}

func (s *HTTPRecordStore) AdminUpdate(ctx context.Context, token, id string, patch Patch) Outcome[ServiceRecord] {
	agent := fiber.Put(s.BaseURL + "/admin/services/" + url.PathEscape(id)).JSON(patch)
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	code, body, err := s.do(ctx, agent)
	if err != nil {
		return Unreachable[ServiceRecord](err)
	}
	if code != fiber.StatusOK {
		return classify[ServiceRecord](code, body)
	}
	var resp AdminUpdateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Unreachable[ServiceRecord](fmt.Errorf("decode update response: %w", err))
	}
	if !resp.Success || resp.Service == nil {
		return Rejected[ServiceRecord](resp.Message)
	}
	resp.Service.Normalize()
	return Ok(*resp.Service)
}

// do sends the request. Only a context deadline bounds it; otherwise the
// client default applies.
func (s *HTTPRecordStore) do(ctx context.Context, agent *fiber.Agent) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	}
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return code, nil, errors.Join(errs...)
	}
	return code, body, nil
}

func classify[T any](code int, body []byte) Outcome[T] {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	switch code {
	case fiber.StatusNotFound:
		return NotFound[T](eb.Message)
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		return Denied[T](eb.Message)
	case fiber.StatusBadRequest, fiber.StatusConflict, fiber.StatusUnprocessableEntity:
		return Rejected[T](eb.Message)
	default:
		return Unreachable[T](fmt.Errorf("record store returned status %d", code))
	}
}

func decodeRecord(body []byte) Outcome[ServiceRecord] {
	var rec ServiceRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return Unreachable[ServiceRecord](fmt.Errorf("decode service: %w", err))
	}
	rec.Normalize()
	return Ok(rec)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"medtracker/internal/app/client/config"
	"medtracker/internal/domain/dose"
	"medtracker/internal/domain/medication"
	"medtracker/internal/domain/reminder"
	"medtracker/internal/domain/user"
)

var (
	// ErrUnauthorized - сервер отклонил токен (401).
	ErrUnauthorized = errors.New("session expired, log in again")
)

// HTTPError - неуспешный ответ сервера.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error: status %d", e.Status)
}

// FieldErrors - ошибки валидации, которые вернул сервер (400 с errors[]).
type FieldErrors struct {
	Fields []medication.FieldError
}

func (e *FieldErrors) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return strings.Join(msgs, "\n")
}

var (
	_ medication.Backend  = (*httpClient)(nil)
	_ user.Backend        = (*httpClient)(nil)
	_ dose.HistoryBackend = (*httpClient)(nil)
	_ reminder.DoseSource = (*httpClient)(nil)
)

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	token     func() string
	onUnauth  func()
	deviceID  string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		log:       log.With(slog.String("component", "backend_client")),
		baseURL:   cfg.BaseURL(),
		token:     func() string { return "" },
		onUnauth:  func() {},
		userAgent: "MedTracker-Client/1.0",
	}
}

// SetTokenSource задает источник токена для заголовка Authorization.
func (h *httpClient) SetTokenSource(token func() string) {
	h.token = token
}

// OnUnauthorized задает реакцию на 401: обычно удаление токена.
func (h *httpClient) OnUnauthorized(fn func()) {
	h.onUnauth = fn
}

// SetDeviceID задает идентификатор устройства для заголовка X-Device-ID.
func (h *httpClient) SetDeviceID(id string) {
	h.deviceID = id
}

// Register создает учетную запись. 409 означает, что email уже занят.
func (h *httpClient) Register(ctx context.Context, req user.RegisterRequest) error {
	resp, err := h.doRequest(ctx, http.MethodPost, "/users", req)
	if err != nil {
		return err
	}

	err = h.parseResponse(resp, nil)
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusConflict {
		return user.ErrAlreadyExists
	}
	return err
}

// Login обменивает учетные данные на токен. 400 и 401 - неверные данные.
func (h *httpClient) Login(ctx context.Context, c user.Credentials) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/users/auth", c)
	if err != nil {
		return "", err
	}

	var loginResp struct {
		Token string `json:"token"`
	}

	err = h.parseResponse(resp, &loginResp)
	var httpErr *HTTPError
	var fieldErrs *FieldErrors
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.As(err, &httpErr) && httpErr.Status == http.StatusBadRequest,
		errors.As(err, &fieldErrs):
		return "", user.ErrInvalidAuth
	case err != nil:
		return "", err
	}

	if loginResp.Token == "" {
		return "", errors.New("server returned empty token")
	}
	return loginResp.Token, nil
}

func (h *httpClient) ListMedications(ctx context.Context) ([]medication.Medication, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/medications", nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		Medications []medication.Medication `json:"medications"`
	}
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	return listResp.Medications, nil
}

// CreateMedication сохраняет лекарство. Ответ может содержать лекарство
// целиком или быть обернут в {"medication": ...}.
func (h *httpClient) CreateMedication(ctx context.Context, req medication.CreateRequest) (*medication.Medication, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/medications", req)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := h.parseResponse(resp, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Medication *medication.Medication `json:"medication"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Medication != nil {
		return wrapped.Medication, nil
	}

	var med medication.Medication
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &med); err != nil {
			return nil, fmt.Errorf("parse created medication: %w", err)
		}
	}
	if med.ID == "" {
		// сервер не вернул тело, собираем лекарство из запроса
		qty := req.QuantityAvailable
		med = medication.Medication{
			Name:              req.Name,
			Dosage:            req.Dosage,
			PeriodicityType:   req.PeriodicityType,
			Periodicity:       req.Periodicity,
			Validity:          req.Validity,
			QuantityAvailable: &qty,
		}
	}
	return &med, nil
}

func (h *httpClient) AddStock(ctx context.Context, id string, quantity int) error {
	path := "/medications/" + url.PathEscape(id) + "/add-stock"
	resp, err := h.doRequest(ctx, http.MethodPatch, path, medication.AddStockRequest{Quantity: quantity})
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) ListScheduledDoses(ctx context.Context, filter dose.HistoryFilter) ([]dose.ScheduledDose, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(filter.Page))
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		q.Set("status", strings.Join(statuses, ","))
	}

	resp, err := h.doRequest(ctx, http.MethodGet, "/scheduled-doses?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		ScheduledDoses []dose.ScheduledDose `json:"scheduledDoses"`
	}
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	return listResp.ScheduledDoses, nil
}

// FetchUpcomingDoses - источник доз для планировщика напоминаний.
func (h *httpClient) FetchUpcomingDoses(ctx context.Context) ([]dose.Occurrence, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/scheduled-doses/upcoming", nil)
	if err != nil {
		return nil, err
	}

	var upcomingResp struct {
		Doses []dose.Occurrence `json:"doses"`
	}
	if err := h.parseResponse(resp, &upcomingResp); err != nil {
		return nil, err
	}

	return upcomingResp.Doses, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	// Добавляем заголовки
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if token := h.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if h.deviceID != "" {
		req.Header.Set("X-Device-ID", h.deviceID)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"size", len(body),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		h.onUnauth()
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string                  `json:"message"`
			Error   string                  `json:"error"`
			Errors  []medication.FieldError `json:"errors"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil {
			if resp.StatusCode == http.StatusBadRequest && len(errResp.Errors) > 0 {
				return &FieldErrors{Fields: errResp.Errors}
			}
			msg := errResp.Message
			if msg == "" {
				msg = errResp.Error
			}
			return &HTTPError{Status: resp.StatusCode, Message: msg}
		}
		return &HTTPError{Status: resp.StatusCode}
	}

	if result != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}

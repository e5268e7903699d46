// Package client es el cliente REST de la API de mercado (usado por la app de terminal).
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jhoicas/mercado-api/internal/application/dto"
)

// ErrNetwork falla de transporte o timeout; el servidor no respondió.
var ErrNetwork = errors.New("Falha de comunicação com o servidor. Tente novamente.")

// APIError respuesta de error de la API; Message es el texto del servidor tal cual.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

// ProductInput payload de alta/edición de producto. En edición los campos nil no se envían.
type ProductInput struct {
	Name             *string `json:"name,omitempty"`
	Quantity         *int64  `json:"quantity,omitempty"`
	MinimumThreshold *int64  `json:"minimum_threshold,omitempty"`
}

// MovementInput payload de registro de movimiento.
type MovementInput struct {
	ProductID int64      `json:"product_id"`
	UserID    int64      `json:"user_id,omitempty"`
	Kind      string     `json:"kind"`
	Quantity  int64      `json:"quantity"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Note      *string    `json:"note,omitempty"`
}

// Client wrapper sobre resty con la URL base y el token de sesión.
type Client struct {
	http *resty.Client
}

// New construye el cliente. timeout aplica a cada request.
func New(baseURL string, timeout time.Duration) *Client {
	h := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: h}
}

// SetToken fija (o limpia, con "") el Bearer token enviado en cada request.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// Register POST /usuarios.
func (c *Client) Register(ctx context.Context, name, email, password string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	body := dto.CreateUserRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/usuarios", body, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login POST /auth/login. No guarda el token: lo decide quien llama.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	body := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts GET /produtos?q=.
func (c *Client) ListProducts(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	out := make([]dto.ProductResponse, 0)
	var params map[string]string
	if query != "" {
		params = map[string]string{"q": query}
	}
	if err := c.do(ctx, http.MethodGet, "/produtos", nil, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct GET /produtos/:id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct POST /produtos.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, http.MethodPost, "/produtos", in, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct PUT /produtos/:id (parcial).
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, http.MethodPut, productPath(id), in, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct DELETE /produtos/:id.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	var out dto.MessageResponse
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil, &out)
}

// Replenishment GET /produtos/reposicao.
func (c *Client) Replenishment(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	out := make([]dto.ReplenishmentSuggestionDTO, 0)
	if err := c.do(ctx, http.MethodGet, "/produtos/reposicao", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dashboard GET /dashboard/resumo.
func (c *Client) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var out dto.DashboardSummaryDTO
	if err := c.do(ctx, http.MethodGet, "/dashboard/resumo", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordMovement POST /movimentacoes (requiere token).
func (c *Client) RecordMovement(ctx context.Context, in MovementInput) (*dto.RecordMovementResponse, error) {
	var out dto.RecordMovementResponse
	if err := c.do(ctx, http.MethodPost, "/movimentacoes", in, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMovements GET /movimentacoes?produto_id=.
func (c *Client) ListMovements(ctx context.Context, productID *int64) ([]dto.MovementResponse, error) {
	out := make([]dto.MovementResponse, 0)
	var params map[string]string
	if productID != nil {
		params = map[string]string{"produto_id": strconv.FormatInt(*productID, 10)}
	}
	if err := c.do(ctx, http.MethodGet, "/movimentacoes", nil, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, params map[string]string, out any) error {
	var apiErr dto.ErrorResponse
	req := c.http.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&apiErr)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if params != nil {
		req.SetQueryParams(params)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%w (%v)", ErrNetwork, err)
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = fmt.Sprintf("Erro inesperado do servidor (HTTP %d)", resp.StatusCode())
		}
		return &APIError{Status: resp.StatusCode(), Code: apiErr.Code, Message: msg}
	}
	return nil
}

func productPath(id int64) string {
	return "/produtos/" + strconv.FormatInt(id, 10)
}

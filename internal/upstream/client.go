package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linemk/treasury-admin/internal/domain/models"
	"github.com/linemk/treasury-admin/internal/lib/money"
)

// Клиент внешней системы учета. Она — источник истины по балансам; движок
// сверки только читает ее леджер и сводки, ничего не мутируя.

var ErrUnexpectedStatus = errors.New("upstream returned unexpected status")

// Balance — отчетный баланс казны.
type Balance struct {
	Balance  decimal.Decimal
	Currency string
}

// WithdrawnSummary — отчетные суммы пополнений и выводов.
type WithdrawnSummary struct {
	Withdrawn decimal.Decimal
	Deposited decimal.Decimal
}

// SurplusSummary — отчетный профицит от выкупа активов. Источник может его
// не отдавать, тогда движок считает свой.
type SurplusSummary struct {
	Surplus decimal.Decimal
	Count   int
}

// UserGainsSummary — отчетные выплаченные пользователям прибыли, тоже опциональна.
type UserGainsSummary struct {
	UserGains decimal.Decimal
	Count     int
}

// LedgerSource отдает страницу леджера, новые записи первыми.
type LedgerSource interface {
	Transactions(ctx context.Context, limit int) ([]models.Transaction, error)
}

// SummarySource отдает отчетные цифры системы учета.
type SummarySource interface {
	Balance(ctx context.Context) (*Balance, error)
	WithdrawnSummary(ctx context.Context) (*WithdrawnSummary, error)
	SurplusSummary(ctx context.Context) (*SurplusSummary, error)
	UserGainsSummary(ctx context.Context) (*UserGainsSummary, error)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ LedgerSource = (*Client)(nil)
var _ SummarySource = (*Client)(nil)

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// txDTO — запись леджера, как ее отдает источник. Сумма приходит то числом,
// то строкой с кодом валюты, поэтому декодируется как any и прогоняется через
// нормализатор.
type txDTO struct {
	ID          string    `json:"id"`
	UserID      *int64    `json:"user_id"`
	Type        string    `json:"type"`
	Amount      any       `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Client) Transactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	var dtos []txDTO
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/api/admin/transactions", q, &dtos); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	txs := make([]models.Transaction, 0, len(dtos))
	for _, d := range dtos {
		txs = append(txs, models.Transaction{
			ID:          d.ID,
			UserID:      d.UserID,
			CategoryTag: d.Type,
			Amount:      money.Normalize(d.Amount),
			Description: d.Description,
			CreatedAt:   d.CreatedAt,
		})
	}
	return txs, nil
}

func (c *Client) Balance(ctx context.Context) (*Balance, error) {
	var dto struct {
		Balance  any    `json:"balance"`
		Currency string `json:"currency"`
	}
	if err := c.get(ctx, "/api/admin/capital", nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to fetch balance: %w", err)
	}
	return &Balance{Balance: money.Normalize(dto.Balance), Currency: dto.Currency}, nil
}

func (c *Client) WithdrawnSummary(ctx context.Context) (*WithdrawnSummary, error) {
	var dto struct {
		Withdrawn any `json:"withdrawn"`
		Deposited any `json:"deposited"`
	}
	if err := c.get(ctx, "/api/admin/withdrawn-summary", nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to fetch withdrawn summary: %w", err)
	}
	return &WithdrawnSummary{
		Withdrawn: money.Normalize(dto.Withdrawn),
		Deposited: money.Normalize(dto.Deposited),
	}, nil
}

func (c *Client) SurplusSummary(ctx context.Context) (*SurplusSummary, error) {
	var dto struct {
		Surplus any `json:"surplus"`
		Count   int `json:"count"`
	}
	if err := c.get(ctx, "/api/admin/surplus-summary", nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to fetch surplus summary: %w", err)
	}
	return &SurplusSummary{Surplus: money.Normalize(dto.Surplus), Count: dto.Count}, nil
}

func (c *Client) UserGainsSummary(ctx context.Context) (*UserGainsSummary, error) {
	var dto struct {
		UserGains any `json:"user_gains"`
		Count     int `json:"count"`
	}
	if err := c.get(ctx, "/api/admin/user-gains-summary", nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to fetch user gains summary: %w", err)
	}
	return &UserGainsSummary{UserGains: money.Normalize(dto.UserGains), Count: dto.Count}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	dec := json.NewDecoder(resp.Body)
	// суммы-числа декодируются как json.Number: денежное значение не должно
	// проходить через float64 даже на границе загрузки
	dec.UseNumber()
	return dec.Decode(out)
}

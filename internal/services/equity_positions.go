package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/equitydesk/equitydesk/internal/domain"
	"github.com/equitydesk/equitydesk/pkg/config"
	"github.com/equitydesk/equitydesk/pkg/logger"
	sdkhttp "github.com/equitydesk/equitydesk/pkg/sdk/http"
)

// PositionsService is the data-access surface the views depend on.
type PositionsService interface {
	GetPositions(ctx context.Context) ([]domain.Position, error)
	GetMockPositions(ctx context.Context) ([]domain.Position, error)
	ExecuteOrder(ctx context.Context, order domain.Order) (*domain.ExecuteOrderResult, error)
	MockExecuteOrder(ctx context.Context, order domain.Order) (*domain.ExecuteOrderResult, error)
}

type PositionsResponse struct {
	Positions []domain.Position `json:"positions"`
}

// ExecuteOrderRequest is the wire body of the execute endpoint. TradeID is
// null when the user-supplied id has no leading digits.
type ExecuteOrderRequest struct {
	TradeID    *int64 `json:"tradeID"`
	Symbol     string `json:"symbol"`
	Quantity   int64  `json:"quantity"`
	ActionType string `json:"actionType"`
	OrderType  string `json:"orderType"`
}

// EquityPositionsService talks to the equity positions REST API. It keeps no
// per-session state and can be shared by any number of views.
type EquityPositionsService struct {
	client        *sdkhttp.Client
	positionsPath string
	executePath   string
}

var _ PositionsService = (*EquityPositionsService)(nil)

func NewEquityPositionsService(client *sdkhttp.Client, positionsPath, executePath string) *EquityPositionsService {
	if positionsPath == "" {
		positionsPath = config.DefaultPositionsPath
	}
	if executePath == "" {
		executePath = config.DefaultExecutePath
	}
	return &EquityPositionsService{
		client:        client,
		positionsPath: positionsPath,
		executePath:   executePath,
	}
}

// NewEquityPositionsServiceFromConfig builds the HTTP client and service from the api section.
func NewEquityPositionsServiceFromConfig(cfg config.APIConfig) *EquityPositionsService {
	client := sdkhttp.NewClient(cfg.BaseURL, sdkhttp.ClientOptions{
		Timeout:            cfg.Timeout,
		RetryCount:         cfg.RetryCount,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	return NewEquityPositionsService(client, cfg.PositionsPath, cfg.ExecutePath)
}

// GetPositions fetches the current positions from the API.
func (s *EquityPositionsService) GetPositions(ctx context.Context) ([]domain.Position, error) {
	var resp PositionsResponse
	if _, err := s.client.DoRequest(ctx, http.MethodGet, s.positionsPath, nil, &resp); err != nil {
		return nil, s.handleError(err)
	}
	if resp.Positions == nil {
		return []domain.Position{}, nil
	}
	return resp.Positions, nil
}

// ExecuteOrder sends a validated order to the API. Business rejections come
// back as a result with Success=false, not as an error.
func (s *EquityPositionsService) ExecuteOrder(ctx context.Context, order domain.Order) (*domain.ExecuteOrderResult, error) {
	body := ExecuteOrderRequest{
		TradeID:    ParseTradeID(order.TradeID),
		Symbol:     strings.ToUpper(order.Symbol),
		Quantity:   order.Quantity,
		ActionType: string(order.ActionType),
		OrderType:  string(order.OrderType),
	}

	var result domain.ExecuteOrderResult
	if _, err := s.client.DoRequest(ctx, http.MethodPost, s.executePath, &sdkhttp.RequestOptions{Data: body}, &result); err != nil {
		return nil, s.handleError(err)
	}
	return &result, nil
}

func (s *EquityPositionsService) GetMockPositions(ctx context.Context) ([]domain.Position, error) {
	return MockPositions(), nil
}

func (s *EquityPositionsService) MockExecuteOrder(ctx context.Context, order domain.Order) (*domain.ExecuteOrderResult, error) {
	return MockExecuteResult(), nil
}

func (s *EquityPositionsService) handleError(err error) error {
	var (
		statusErr *sdkhttp.StatusError
		decodeErr *sdkhttp.DecodeError
		netErr    *NetworkError
	)
	switch {
	case errors.As(err, &statusErr):
		netErr = &NetworkError{Kind: ServerError, StatusCode: statusErr.StatusCode, Detail: statusErr.Error()}
	case errors.As(err, &decodeErr):
		netErr = &NetworkError{Kind: ServerError, StatusCode: decodeErr.StatusCode, Detail: decodeErr.Error()}
	default:
		netErr = &NetworkError{Kind: ClientError, Detail: pkgerrors.Cause(err).Error()}
	}
	logger.Errorf("EquityPositionsService Error: %s", netErr.Error())
	return netErr
}

// ParseTradeID reads an optional sign followed by leading digits and ignores
// the rest ("42abc" -> 42). It returns nil when there are no leading digits.
func ParseTradeID(raw string) *int64 {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return nil
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

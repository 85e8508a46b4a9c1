// Package circle is a client for the custodial wallet provider's
// user-controlled wallets API. Sensitive operations (wallet creation,
// transfers) return a challenge id that the end user must confirm with
// their PIN before anything moves on-chain.
package circle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Client is the surface the rest of the application consumes. It is an
// interface so handlers and the automation scheduler can be tested with
// fakes.
type Client interface {
	CreateUserToken(ctx context.Context, userID string) (string, error)
	CreateUserPinWithWallets(ctx context.Context, userToken string, blockchains []string) (string, error)
	ListWallets(ctx context.Context, userToken string) ([]Wallet, error)
	GetWalletTokenBalances(ctx context.Context, userToken, walletID string) ([]TokenBalance, error)
	CreateTransfer(ctx context.Context, userToken, walletID, destinationAddress, tokenID, amount string) (string, error)
	GetTransaction(ctx context.Context, userToken, transactionID string) (*Transaction, error)
}

type ClientImpl struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(apiKey, baseURL string, logger *slog.Logger) Client {
	return &ClientImpl{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

type Wallet struct {
	ID          string `json:"id"`
	State       string `json:"state"`
	Address     string `json:"address"`
	Blockchain  string `json:"blockchain"`
	CustodyType string `json:"custodyType"`
	AccountType string `json:"accountType"`
	CreateDate  string `json:"createDate"`
}

type TokenBalance struct {
	Token  Token  `json:"token"`
	Amount string `json:"amount"`
}

type Token struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

type Transaction struct {
	ID         string `json:"id"`
	State      string `json:"state"`
	TxHash     string `json:"txHash"`
	Blockchain string `json:"blockchain"`
	CreateDate string `json:"createDate"`
	UpdateDate string `json:"updateDate"`
}

// CreateUserToken exchanges our user id for a short-lived session token.
// Tokens expire, so callers request a fresh one per operation instead of
// caching them.
func (c *ClientImpl) CreateUserToken(ctx context.Context, userID string) (string, error) {
	payload := map[string]any{
		"userId": userID,
	}

	var result struct {
		Data struct {
			UserToken string `json:"userToken"`
		} `json:"data"`
	}

	err := c.post(ctx, "/v1/w3s/users/token", "", payload, &result)
	if err != nil {
		return "", fmt.Errorf("create user token: %w", err)
	}

	return result.Data.UserToken, nil
}

// CreateUserPinWithWallets starts PIN setup and provisions the user's first
// wallets on the given blockchains. The returned challenge id is handed to
// the client application, which drives the PIN ceremony.
func (c *ClientImpl) CreateUserPinWithWallets(ctx context.Context, userToken string, blockchains []string) (string, error) {
	payload := map[string]any{
		"idempotencyKey": uuid.NewString(),
		"accountType":    "SCA",
		"blockchains":    blockchains,
	}

	var result struct {
		Data struct {
			ChallengeID string `json:"challengeId"`
		} `json:"data"`
	}

	err := c.post(ctx, "/v1/w3s/user/initialize", userToken, payload, &result)
	if err != nil {
		return "", fmt.Errorf("create user pin with wallets: %w", err)
	}

	return result.Data.ChallengeID, nil
}

func (c *ClientImpl) ListWallets(ctx context.Context, userToken string) ([]Wallet, error) {
	var result struct {
		Data struct {
			Wallets []Wallet `json:"wallets"`
		} `json:"data"`
	}

	err := c.get(ctx, "/v1/w3s/wallets", userToken, &result)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	return result.Data.Wallets, nil
}

func (c *ClientImpl) GetWalletTokenBalances(ctx context.Context, userToken, walletID string) ([]TokenBalance, error) {
	var result struct {
		Data struct {
			TokenBalances []TokenBalance `json:"tokenBalances"`
		} `json:"data"`
	}

	err := c.get(ctx, fmt.Sprintf("/v1/w3s/wallets/%s/balances", walletID), userToken, &result)
	if err != nil {
		return nil, fmt.Errorf("get wallet balances: %w", err)
	}

	return result.Data.TokenBalances, nil
}

// CreateTransfer initiates an outbound token transfer. The transfer is not
// final: the provider answers with a challenge id and waits for the user's
// PIN confirmation before broadcasting on-chain.
func (c *ClientImpl) CreateTransfer(ctx context.Context, userToken, walletID, destinationAddress, tokenID, amount string) (string, error) {
	payload := map[string]any{
		"idempotencyKey":     uuid.NewString(),
		"walletId":           walletID,
		"destinationAddress": destinationAddress,
		"tokenId":            tokenID,
		"amounts":            []string{amount},
		"fee": map[string]any{
			"type": "level",
			"config": map[string]string{
				"feeLevel": "MEDIUM",
			},
		},
	}

	var result struct {
		Data struct {
			ChallengeID string `json:"challengeId"`
		} `json:"data"`
	}

	err := c.post(ctx, "/v1/w3s/user/transactions/transfer", userToken, payload, &result)
	if err != nil {
		return "", fmt.Errorf("create transfer: %w", err)
	}

	return result.Data.ChallengeID, nil
}

func (c *ClientImpl) GetTransaction(ctx context.Context, userToken, transactionID string) (*Transaction, error) {
	var result struct {
		Data struct {
			Transaction Transaction `json:"transaction"`
		} `json:"data"`
	}

	err := c.get(ctx, fmt.Sprintf("/v1/w3s/transactions/%s", transactionID), userToken, &result)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	return &result.Data.Transaction, nil
}

func (c *ClientImpl) post(ctx context.Context, path, userToken string, payload, result any) error {
	return c.request(ctx, http.MethodPost, path, userToken, payload, result)
}

func (c *ClientImpl) get(ctx context.Context, path, userToken string, result any) error {
	return c.request(ctx, http.MethodGet, path, userToken, nil, result)
}

func (c *ClientImpl) request(ctx context.Context, method, path, userToken string, payload, result any) error {
	url := c.baseURL + path

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if userToken != "" {
		req.Header.Set("X-User-Token", userToken)
	}

	c.logger.Debug("circle api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		c.logger.Error("circle api error", "status", resp.StatusCode, "response", string(bodyBytes))
		return fmt.Errorf("api error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

package opendota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrMatchNotFound = errors.New("opendota: match not found")

// Client consulta a API REST da OpenDota (ou o provider-simulator, que expõe as mesmas rotas)
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(base, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(base, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// LeagueMatchIDs lista os IDs de partidas de uma liga
func (c *Client) LeagueMatchIDs(ctx context.Context, leagueID int64) ([]int64, error) {
	var ids []int64
	if err := c.get(ctx, "/leagues/"+strconv.FormatInt(leagueID, 10)+"/matchIds", &ids); err != nil {
		return nil, fmt.Errorf("league %d match ids: %w", leagueID, err)
	}
	return ids, nil
}

// GetMatch busca uma partida completa; 404 vira ErrMatchNotFound
func (c *Client) GetMatch(ctx context.Context, matchID int64) (*Match, error) {
	var m Match
	if err := c.get(ctx, "/matches/"+strconv.FormatInt(matchID, 10), &m); err != nil {
		return nil, fmt.Errorf("match %d: %w", matchID, err)
	}
	if m.MatchID == 0 {
		return nil, fmt.Errorf("match %d: %w", matchID, ErrMatchNotFound)
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	u := c.BaseURL + path
	if c.APIKey != "" {
		u += "?api_key=" + url.QueryEscape(c.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrMatchNotFound
	}
	if res.StatusCode >= 300 {
		return fmt.Errorf("opendota http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(dst)
}

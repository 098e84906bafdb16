// Package contributions は直近1年分のコントリビューション数を取得するクライアントを提供する。
package contributions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/termfolio/internal/model"
	"github.com/hitoshi/termfolio/internal/upstream"
)

const (
	// DefaultAPIURL はコントリビューションAPIのベースURL。
	DefaultAPIURL = "https://github-contributions-api.jogruber.de"
	// Source はメトリクスとログで使用するソース名。
	Source = "contributions"

	dateLayout = "2006-01-02"
)

// Client はコントリビューションAPIのクライアント。
type Client struct {
	getter upstream.Getter
	apiURL string
	user   string
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(getter upstream.Getter, apiURL, user string) *Client {
	apiURL = strings.TrimRight(apiURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{getter: getter, apiURL: apiURL, user: user}
}

type dayResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

type response struct {
	Total         map[string]int `json:"total"`
	Contributions *[]dayResponse `json:"contributions"`
}

// Fetch は直近1年分のコントリビューションを古い順で取得する。
// 取得またはデコードに失敗した場合、およびcontributionsフィールドが存在しない場合は
// model.ErrContributionsUnavailable をラップしたエラーを返す。
// contributionsが空配列の場合は正常な空データとして扱う。
func (c *Client) Fetch(ctx context.Context) (model.ContributionData, error) {
	endpoint := fmt.Sprintf("%s/v4/%s?y=last", c.apiURL, url.PathEscape(c.user))

	header := http.Header{}
	header.Set("Accept", "application/json")

	body, err := c.getter.Get(ctx, Source, endpoint, header)
	if err != nil {
		return model.ContributionData{}, fmt.Errorf("%w: %w", model.ErrContributionsUnavailable, err)
	}

	data, err := Decode(body)
	if err != nil {
		return model.ContributionData{}, fmt.Errorf("%w: %w", model.ErrContributionsUnavailable, err)
	}
	return data, nil
}

// Decode はAPIレスポンスをContributionDataへ変換する。
// 日付は暦日としてUTCの0時に正規化する。
func Decode(body []byte) (model.ContributionData, error) {
	var raw response
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.ContributionData{}, fmt.Errorf("レスポンスJSONのパースに失敗: %w: %w", model.ErrMalformedResponse, err)
	}
	if raw.Contributions == nil {
		return model.ContributionData{}, fmt.Errorf("contributionsフィールドがありません: %w", model.ErrMalformedResponse)
	}

	days := make([]model.ContributionDay, 0, len(*raw.Contributions))
	for _, d := range *raw.Contributions {
		date, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			return model.ContributionData{}, fmt.Errorf("日付 %q を解釈できません: %w: %w", d.Date, model.ErrMalformedResponse, err)
		}
		days = append(days, model.ContributionDay{
			Date:  date,
			Count: d.Count,
			Level: d.Level,
		})
	}

	totals := raw.Total
	if totals == nil {
		totals = map[string]int{}
	}

	return model.ContributionData{Totals: totals, Days: days}, nil
}

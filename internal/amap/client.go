// 包 amap：高德 Web 服务坐标转换接口客户端，仅用于与本地换算结果交叉核对
package amap

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

	"coord-api/internal/coordsys"
	"coord-api/internal/logger"
	"coord-api/internal/metrics"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://restapi.amap.com"
	// MaxPointsPerCall 高德单次请求最多 40 个坐标
	MaxPointsPerCall = 40
)

// ConvertResponse 对齐高德返回字段
type ConvertResponse struct {
	Status    string `json:"status"`
	Info      string `json:"info"`
	Infocode  string `json:"infocode"`
	Locations string `json:"locations"`
}

// Client 高德坐标转换客户端
type Client struct {
	key     string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// 文档注释：创建客户端
// 参数：
// - key：高德 Web 服务后端密钥，必填；
// - qps：请求节流，<=0 时按 3 次/秒。
// 约束：HTTP 超时 5s；BaseURL 可通过 SetBaseURL 覆盖，便于测试。
func NewClient(key string, qps float64) (*Client, error) {
	if key == "" {
		return nil, errors.New("missing key")
	}
	if qps <= 0 {
		qps = 3
	}
	return &Client{
		key:     key,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(qps), 1),
	}, nil
}

func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimRight(u, "/") }

func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.http = hc
	}
}

func coordsysParam(sys coordsys.System) (string, error) {
	switch sys {
	case coordsys.WGS84:
		return "gps", nil
	case coordsys.BD09:
		return "baidu", nil
	}
	return "", fmt.Errorf("amap: unsupported source system %s", sys)
}

// 文档注释：把 WGS-84 或 BD-09 点转换为 GCJ-02
// 背景：按 40 个一组分批请求，受 limiter 节流；GCJ-02 输入直接原样返回不发请求。
// 约束：结果与输入等长同序；任一批失败即返回错误。
func (c *Client) Convert(ctx context.Context, pts []coordsys.LatLon, from coordsys.System) ([]coordsys.LatLon, error) {
	if from == coordsys.GCJ02 {
		out := make([]coordsys.LatLon, len(pts))
		copy(out, pts)
		return out, nil
	}
	param, err := coordsysParam(from)
	if err != nil {
		return nil, err
	}
	out := make([]coordsys.LatLon, 0, len(pts))
	for lo := 0; lo < len(pts); lo += MaxPointsPerCall {
		hi := min(lo+MaxPointsPerCall, len(pts))
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		res, err := c.convertChunk(ctx, pts[lo:hi], param)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

func (c *Client) convertChunk(ctx context.Context, pts []coordsys.LatLon, param string) ([]coordsys.LatLon, error) {
	locs := make([]string, len(pts))
	for i, p := range pts {
		locs[i] = strconv.FormatFloat(p.Lon, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lat, 'f', 6, 64)
	}
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("coordsys", param)
	q.Set("locations", strings.Join(locs, "|"))
	u := c.baseURL + "/v3/assistant/coordinate/convert?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	t0 := time.Now()
	metrics.AMapRequestsTotal.Inc()
	logger.L().Debug("amap_req", "coordsys", param, "points", len(pts))
	resp, err := c.http.Do(req)
	if err != nil {
		logger.L().Error("amap_http_error", "err", err)
		metrics.AMapFailTotal.Inc()
		return nil, err
	}
	defer resp.Body.Close()
	var r ConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		logger.L().Error("amap_decode_error", "err", err)
		metrics.AMapFailTotal.Inc()
		return nil, err
	}
	dur := time.Since(t0).Milliseconds()
	metrics.AMapDurationMs.Observe(float64(dur))
	logger.L().Debug("amap_resp", "status", r.Status, "infocode", r.Infocode, "duration_ms", dur)
	if r.Status != "1" {
		metrics.AMapFailTotal.Inc()
		return nil, fmt.Errorf("amap error: %s (%s)", r.Info, r.Infocode)
	}
	out, err := parseLocations(r.Locations)
	if err != nil {
		metrics.AMapFailTotal.Inc()
		return nil, err
	}
	if len(out) != len(pts) {
		metrics.AMapFailTotal.Inc()
		return nil, fmt.Errorf("amap: got %d locations, want %d", len(out), len(pts))
	}
	metrics.AMapSuccessTotal.Inc()
	return out, nil
}

// parseLocations 解析 "lon,lat;lon,lat"
func parseLocations(s string) ([]coordsys.LatLon, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	out := make([]coordsys.LatLon, 0, len(parts))
	for _, p := range parts {
		lonS, latS, ok := strings.Cut(p, ",")
		if !ok {
			return nil, fmt.Errorf("amap: bad location %q", p)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonS), 64)
		if err != nil {
			return nil, fmt.Errorf("amap: bad location %q", p)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
		if err != nil {
			return nil, fmt.Errorf("amap: bad location %q", p)
		}
		out = append(out, coordsys.LatLon{Lat: lat, Lon: lon})
	}
	return out, nil
}

// 包 api：集中注册 HTTP 路由；仅做参数解析与结果序列化，换算全部交给 coordsys
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"coord-api/internal/coordsys"
	"coord-api/internal/logger"
	"coord-api/internal/metrics"
	"coord-api/internal/store"

	"github.com/go-playground/validator/v10"
)

// StatsStore 调用量统计；为 nil 时不记录
type StatsStore interface {
	IncrStats(ctx context.Context, points int) error
	GetTotals(ctx context.Context) (*store.Totals, error)
}

// Options 路由依赖
type Options struct {
	Stats          StatsStore
	BatchMaxPoints int
	BatchWorkers   int
}

type handler struct {
	opts     Options
	validate *validator.Validate
}

// 文档注释：构建 API 路由
// 背景：独立 ServeMux，由主入口挂载到 API_BASE 前缀下。
func BuildRoutes(opts Options) *http.ServeMux {
	if opts.BatchMaxPoints <= 0 {
		opts.BatchMaxPoints = 10000
	}
	h := &handler{opts: opts, validate: newValidator()}
	mux := http.NewServeMux()
	mux.HandleFunc("/convert", h.timed("convert", h.convert))
	mux.HandleFunc("/convert/batch", h.timed("convert_batch", h.convertBatch))
	mux.HandleFunc("/classify", h.timed("classify", h.classify))
	mux.HandleFunc("/stats", h.timed("stats", h.stats))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// newValidator 校验错误以 json 字段名定位，如 batchRequest.points[2].lat
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func (h *handler) timed(endpoint string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		metrics.RequestsTotal.WithLabelValues(endpoint).Inc()
		fn(w, r)
		metrics.RequestDurationMs.WithLabelValues(endpoint).Observe(float64(time.Since(t0).Microseconds()) / 1000)
	}
}

// GET /convert?lat=&lon=&from=&to=
func (h *handler) convert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	var req convertRequest
	var err error
	if req.Lat, err = parseFloatParam(q.Get("lat"), "lat"); err != nil {
		writeError(w, err)
		return
	}
	if req.Lon, err = parseFloatParam(q.Get("lon"), "lon"); err != nil {
		writeError(w, err)
		return
	}
	req.From, req.To = q.Get("from"), q.Get("to")
	if err := h.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	from, to, err := parsePair(req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	lat, lon, err := coordsys.ConvertLatLon(req.Lat, req.Lon, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.PointsConvertedTotal.WithLabelValues(from.String(), to.String()).Inc()
	h.record(r.Context(), 1)
	writeJSON(w, http.StatusOK, convertResponse{Lat: lat, Lon: lon, Sys: to})
}

// POST /convert/batch
func (h *handler) convertBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req batchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, int64(h.opts.BatchMaxPoints)*128+4096))
	if err := dec.Decode(&req); err != nil {
		writeError(w, &errBadRequest{msg: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Points) > h.opts.BatchMaxPoints {
		writeError(w, &errBadRequest{msg: fmt.Sprintf("too many points: %d > %d", len(req.Points), h.opts.BatchMaxPoints)})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	from, to, err := parsePair(req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	pts := make([]coordsys.LatLon, len(req.Points))
	for i, p := range req.Points {
		pts[i] = coordsys.LatLon{Lat: p.Lat, Lon: p.Lon}
	}
	out, err := coordsys.ConvertBatch(pts, from, to, coordsys.WithWorkers(h.opts.BatchWorkers))
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.BatchSize.Observe(float64(len(out)))
	metrics.PointsConvertedTotal.WithLabelValues(from.String(), to.String()).Add(float64(len(out)))
	h.record(r.Context(), len(out))
	logger.L().Debug("convert_batch_done", "from", from.String(), "to", to.String(), "points", len(out))
	writeJSON(w, http.StatusOK, batchResponse{Sys: to, Points: out})
}

// GET /classify?lat=&lon=
func (h *handler) classify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	var p pointBody
	var err error
	if p.Lat, err = parseFloatParam(q.Get("lat"), "lat"); err != nil {
		writeError(w, err)
		return
	}
	if p.Lon, err = parseFloatParam(q.Get("lon"), "lon"); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{Lat: p.Lat, Lon: p.Lon, Region: coordsys.Classify(p.Lat, p.Lon)})
}

// GET /stats
func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	t := &store.Totals{}
	if h.opts.Stats != nil {
		v, err := h.opts.Stats.GetTotals(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		t = v
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) record(ctx context.Context, points int) {
	if h.opts.Stats == nil {
		return
	}
	if err := h.opts.Stats.IncrStats(ctx, points); err != nil {
		logger.L().Error("stats_incr_error", "err", err)
	}
}

func parsePair(from, to string) (coordsys.System, coordsys.System, error) {
	f, err := coordsys.ParseSystem(from)
	if err != nil {
		return coordsys.Unknown, coordsys.Unknown, err
	}
	t, err := coordsys.ParseSystem(to)
	if err != nil {
		return coordsys.Unknown, coordsys.Unknown, err
	}
	return f, t, nil
}

func parseFloatParam(s, name string) (float64, error) {
	if s == "" {
		return 0, &errBadRequest{msg: "missing parameter " + name}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &errBadRequest{msg: "invalid parameter " + name + ": " + s}
	}
	return v, nil
}

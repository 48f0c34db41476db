package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"coord-api/internal/coordsys"
	"coord-api/internal/logger"
	"coord-api/internal/metrics"

	"github.com/go-playground/validator/v10"
)

const (
	kindValidation = "validation"
	kindConfig     = "config"
	kindInternal   = "internal"
)

// errBadRequest 请求体无法解析等入口错误，归入 validation
type errBadRequest struct{ msg string }

func (e *errBadRequest) Error() string { return e.msg }

// 文档注释：错误分类
// 背景：内核 ValidationError / ConfigError 与 validator 校验失败统一映射为 400，其余为 500。
func classify(err error) (int, string) {
	var ve validator.ValidationErrors
	var br *errBadRequest
	switch {
	case errors.Is(err, coordsys.ErrConfig):
		return http.StatusBadRequest, kindConfig
	case errors.Is(err, coordsys.ErrValidation), errors.As(err, &ve), errors.As(err, &br):
		return http.StatusBadRequest, kindValidation
	}
	return http.StatusInternalServerError, kindInternal
}

func describe(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		parts := make([]string, 0, len(ve))
		for _, fe := range ve {
			p := fe.Namespace() + ": failed " + fe.Tag()
			if fe.Param() != "" {
				p += "=" + fe.Param()
			}
			parts = append(parts, p)
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, err error) {
	code, kind := classify(err)
	metrics.ErrorsTotal.WithLabelValues(kind).Inc()
	if code >= http.StatusInternalServerError {
		logger.L().Error("api_error", "err", err)
	} else {
		logger.L().Debug("api_reject", "kind", kind, "err", err)
	}
	writeJSON(w, code, errorResponse{Error: describe(err), Kind: kind})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// 批量换算工具：读取带表头的 CSV，替换经纬度列为目标坐标系数值后输出
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"coord-api/internal/config"
	"coord-api/internal/coordsys"
	"coord-api/internal/logger"
)

// convOptions 由环境变量给出：CONV_FROM / CONV_TO 必填，其余有默认值
type convOptions struct {
	from, to       coordsys.System
	latCol, lonCol string
	workers        int
}

func main() {
	config.LoadDotEnv()
	l := logger.Setup()

	from, err := coordsys.ParseSystem(os.Getenv("CONV_FROM"))
	if err != nil {
		l.Error("config_from_error", "err", err)
		os.Exit(2)
	}
	to, err := coordsys.ParseSystem(os.Getenv("CONV_TO"))
	if err != nil {
		l.Error("config_to_error", "err", err)
		os.Exit(2)
	}
	opts := convOptions{
		from:    from,
		to:      to,
		latCol:  envOr("CONV_LAT_COL", "lat"),
		lonCol:  envOr("CONV_LON_COL", "lon"),
		workers: runtime.NumCPU(),
	}
	if v := os.Getenv("CONV_WORKERS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil && n > 0 {
			opts.workers = n
		}
	}

	n, err := convertFile(os.Getenv("CONV_IN"), os.Getenv("CONV_OUT"), opts)
	if err != nil {
		l.Error("convert_error", "err", err)
		os.Exit(1)
	}
	l.Info("convert_done", "from", from.String(), "to", to.String(), "rows", n)
}

// 文档注释：按路径执行换算
// 背景：结果先写入内存，全部成功后才落盘；文件输出经同目录临时文件改名，失败时不留下空文件或半截文件。
// 约束：路径为空或 "-" 表示标准输入/输出。
func convertFile(inPath, outPath string, opts convOptions) (int, error) {
	var in io.Reader = os.Stdin
	if inPath != "" && inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		in = f
	}
	var buf bytes.Buffer
	n, err := run(in, &buf, opts)
	if err != nil {
		return 0, err
	}
	if outPath == "" || outPath == "-" {
		_, err := buf.WriteTo(os.Stdout)
		return n, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".coordconv-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return 0, err
	}
	if _, err := buf.WriteTo(tmp); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return 0, err
	}
	return n, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// 文档注释：执行一次批量换算
// 背景：整表先读入并解析，交给 ConvertBatch 一次完成校验与换算，全部成功后才写出。
// 约束：任何一行解析或校验失败都返回带行号（含表头计 1）的错误，且不写出任何数据行。
func run(in io.Reader, out io.Writer, opts convOptions) (int, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, errors.New("empty input")
	}
	header := records[0]
	latIdx, lonIdx := indexOf(header, opts.latCol), indexOf(header, opts.lonCol)
	if latIdx < 0 || lonIdx < 0 {
		return 0, fmt.Errorf("missing column %q or %q in header", opts.latCol, opts.lonCol)
	}
	rows := records[1:]
	pts := make([]coordsys.LatLon, len(rows))
	for i, rec := range rows {
		if latIdx >= len(rec) || lonIdx >= len(rec) {
			return 0, fmt.Errorf("row %d: too few fields", i+2)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[latIdx]), 64)
		if err != nil {
			return 0, fmt.Errorf("row %d: bad %s %q", i+2, opts.latCol, rec[latIdx])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[lonIdx]), 64)
		if err != nil {
			return 0, fmt.Errorf("row %d: bad %s %q", i+2, opts.lonCol, rec[lonIdx])
		}
		pts[i] = coordsys.LatLon{Lat: lat, Lon: lon}
	}
	res, err := coordsys.ConvertBatch(pts, opts.from, opts.to, coordsys.WithWorkers(opts.workers))
	if err != nil {
		var ve *coordsys.ValidationError
		if errors.As(err, &ve) && ve.Index >= 0 {
			return 0, fmt.Errorf("row %d: %w", ve.Index+2, err)
		}
		return 0, err
	}
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return 0, err
	}
	for i, rec := range rows {
		rec[latIdx] = strconv.FormatFloat(res[i].Lat, 'f', 7, 64)
		rec[lonIdx] = strconv.FormatFloat(res[i].Lon, 'f', 7, 64)
		if err := w.Write(rec); err != nil {
			return 0, err
		}
	}
	w.Flush()
	return len(rows), w.Error()
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
